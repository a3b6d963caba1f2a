package services

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// RenderError marks a failure in the markdown rendering collaborator.
// Callers surface it to the user and never retry; note persistence is
// unaffected.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(ghtml.WithHardWraps()),
)

// RenderMarkdown converts note content to an HTML fragment.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", &RenderError{Err: err}
	}
	return buf.String(), nil
}

// RenderDocument wraps rendered note content in a standalone HTML page
// used by the export endpoint.
func RenderDocument(title, content string) (string, error) {
	body, err := RenderMarkdown(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\" />\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("<style>body{font-family:sans-serif;padding:28px;color:#111}h1{font-size:24px}pre{background:#f5f5f5;padding:10px;border-radius:6px;overflow:auto}</style>\n")
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(title))
	buf.WriteString(body)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.String(), nil
}
