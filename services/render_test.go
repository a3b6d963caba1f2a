package services

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Heading\n\nsome *emphasis* and a [link](https://example.com)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<h1>", "<em>emphasis</em>", `href="https://example.com"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMarkdownGFMTables(t *testing.T) {
	out, err := RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("table extension not active:\n%s", out)
	}
}

func TestRenderDocumentEscapesTitle(t *testing.T) {
	out, err := RenderDocument(`<script>alert("x")</script>`, "body text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Error("title was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped title not present")
	}
	if !strings.Contains(out, "<!doctype html>") {
		t.Error("document wrapper missing")
	}
	if !strings.Contains(out, "body text") {
		t.Error("rendered content missing")
	}
}
