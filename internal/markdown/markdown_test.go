package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTMLRendersAndSanitizes(t *testing.T) {
	r := NewRenderer()

	out := r.ToHTML("## Tutorial\n\n- Stand tall\n- **Brace** core\n\n<script>alert(1)</script>")
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "Tutorial</h2>")
	assert.Contains(t, out, "<li>Stand tall</li>")
	assert.Contains(t, out, "<strong>Brace</strong>")
	assert.NotContains(t, out, "<script>")

	assert.Equal(t, "", r.ToHTML("   "))
}

func TestToHTMLKeepsStoredHTML(t *testing.T) {
	r := NewRenderer()
	out := r.ToHTML("<p>Already <em>html</em></p>")
	assert.Contains(t, out, "<em>html</em>")
}

func TestExcerpt(t *testing.T) {
	r := NewRenderer()

	assert.Equal(t, "Heart rate zones explained", r.Excerpt("# Heart rate zones explained", 100))
	assert.Equal(t, "Tom & Jerry", r.Excerpt("<p>Tom &amp; Jerry</p>", 100))
	assert.Equal(t, "abcde...", r.Excerpt("abcdefghij", 5))
}
