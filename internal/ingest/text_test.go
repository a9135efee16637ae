package ingest

import (
	"strings"
	"testing"
)

func TestTextExtractor_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextExtractor{}
	got, err := p.Extract(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("expected text unchanged, got %q", got)
	}
}

func TestTextExtractor_EmptyInput(t *testing.T) {
	p := &TextExtractor{}
	got, err := p.Extract(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestTextExtractor_MultipleBlankLines(t *testing.T) {
	input := "Para one.\n\n\n\n\nPara two."
	p := &TextExtractor{}
	got, err := p.Extract(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Para one.\n\nPara two." {
		t.Errorf("expected blank runs collapsed, got %q", got)
	}
}

func TestTextExtractor_WhitespaceOnlyLines(t *testing.T) {
	input := "Alpha.   \n   \t  \nBeta.\r\n"
	p := &TextExtractor{}
	got, err := p.Extract(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Alpha.\n\nBeta." {
		t.Errorf("expected whitespace-only lines treated as blank, got %q", got)
	}
}
