// Package markdown renders exercise and article bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to HTML that is safe to embed in a page.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewRenderer builds a renderer with GitHub-flavoured tables, lists and strikethrough.
// Raw HTML in the source is kept so stored HTML descriptions survive, then sanitized.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

// ToHTML renders src. On a conversion error the original text is returned unchanged.
func (r *Renderer) ToHTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return r.policy.Sanitize(buf.String())
}

var whitespace = regexp.MustCompile(`\s+`)

// PlainText strips markup from src (markdown or HTML) and collapses whitespace.
func (r *Renderer) PlainText(src string) string {
	rendered := r.ToHTML(src)
	text := html.UnescapeString(r.strict.Sanitize(rendered))
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Excerpt returns at most n runes of plain text followed by "..." when truncated.
func (r *Renderer) Excerpt(src string, n int) string {
	text := []rune(r.PlainText(src))
	if len(text) <= n {
		return string(text)
	}
	return strings.TrimSpace(string(text[:n])) + "..."
}
