package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	html, err := Markdown("# Title\n\nSome *emphasis* and a [link](https://example.com).")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
	assert.Contains(t, html, `<a href="https://example.com">link</a>`)
}

func TestMarkdownOmitsRawHTML(t *testing.T) {
	html, err := Markdown("<script>alert(1)</script>\n\ntext")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<p>text</p>")
}

func TestMarkdownTables(t *testing.T) {
	html, err := Markdown("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
}
