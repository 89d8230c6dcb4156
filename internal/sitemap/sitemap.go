// Package sitemap builds the site's sitemap from the content store and keeps the published
// copies in sync with it.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"time"
)

// Namespace is the sitemaps.org 0.9 schema.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Change frequencies and priorities per entry kind.
const (
	HomeChangeFreq     = "daily"
	HomePriority       = "1.0"
	StaticChangeFreq   = "weekly"
	StaticPriority     = "0.8"
	ArticleChangeFreq  = "daily"
	ArticlePriority    = "0.7"
	ExerciseChangeFreq = "weekly"
	ExercisePriority   = "0.6"
)

// URLSet is the sitemap document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr,omitempty"`
	URLs    []URL    `xml:"url"`
}

// URL is one sitemap entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// FormatLastMod renders t the way every lastmod in the document is written.
func FormatLastMod(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Add appends u unless an entry with the same loc is already present.
func (s *URLSet) Add(u URL) bool {
	for _, existing := range s.URLs {
		if existing.Loc == u.Loc {
			return false
		}
	}
	s.URLs = append(s.URLs, u)
	return true
}

// Locs returns the sorted, de-duplicated loc values.
func (s *URLSet) Locs() []string {
	seen := make(map[string]bool, len(s.URLs))
	out := make([]string, 0, len(s.URLs))
	for _, u := range s.URLs {
		if !seen[u.Loc] {
			seen[u.Loc] = true
			out = append(out, u.Loc)
		}
	}
	sort.Strings(out)
	return out
}

// SameURLs reports whether both documents list the same set of locations.
func SameURLs(a, b *URLSet) bool {
	if a == nil || b == nil {
		return a == b
	}
	la, lb := a.Locs(), b.Locs()
	if len(la) != len(lb) || len(a.URLs) != len(b.URLs) {
		return false
	}
	for i := range la {
		if la[i] != lb[i] {
			return false
		}
	}
	return true
}

// Encode renders the document with an XML declaration.
func Encode(s *URLSet) ([]byte, error) {
	if s.XMLNS == "" {
		s.XMLNS = Namespace
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses a sitemap document.
func Decode(data []byte) (*URLSet, error) {
	var s URLSet
	if err := xml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode sitemap: %w", err)
	}
	return &s, nil
}
