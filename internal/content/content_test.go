package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_RemovesScripts(t *testing.T) {
	out := Sanitize(`<p onclick="steal()">Join us</p><script>alert(1)</script>`)
	assert.Equal(t, "<p>Join us</p>", out)
}

func TestSanitize_PlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "Bring your laptop", Sanitize("  Bring your laptop "))
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Results\n\nWe **won** the hackathon.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>won</strong>")
}

func TestRenderMarkdown_StripsRawHTML(t *testing.T) {
	html, err := RenderMarkdown("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
