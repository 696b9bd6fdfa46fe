// Package content cleans user supplied rich text.
package content

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	policy = bluemonday.UGCPolicy()
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// Sanitize strips scripts, handlers and unknown markup from HTML input.
func Sanitize(input string) string {
	return strings.TrimSpace(policy.Sanitize(input))
}

// RenderMarkdown converts markdown source to sanitized HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}
