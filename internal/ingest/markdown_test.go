package ingest

import (
	"strings"
	"testing"
)

func TestMarkdownExtractor_Headings(t *testing.T) {
	input := `# Jane Doe

## Experience

Software Engineer at TechCorp (2022-2024)

### Highlights

- Built a real-time analytics platform
- Led the **billing** migration

## Skills

Programming: Go, Python
`
	p := &MarkdownExtractor{}
	got, err := p.Extract(strings.NewReader(input), "resume.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"# Jane Doe",
		"## Experience",
		"Software Engineer at TechCorp (2022-2024)",
		"### Highlights",
		"- Built a real-time analytics platform\n- Led the billing migration",
		"## Skills",
		"Programming: Go, Python",
	}
	if got != strings.Join(want, "\n\n") {
		t.Errorf("unexpected markdown text:\n%s", got)
	}
}

func TestMarkdownExtractor_SoftBreaksKept(t *testing.T) {
	p := &MarkdownExtractor{}
	got, err := p.Extract(strings.NewReader("I want to become\na staff engineer."), "journal.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "I want to become\na staff engineer." {
		t.Errorf("expected line structure kept, got %q", got)
	}
}

func TestMarkdownExtractor_CodeBlocks(t *testing.T) {
	input := "Intro.\n\n```go\nfunc main() {}\n```\n"
	p := &MarkdownExtractor{}
	got, err := p.Extract(strings.NewReader(input), "code.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "func main() {}") {
		t.Errorf("expected code block content, got %q", got)
	}
}

func TestMarkdownExtractor_EmptyInput(t *testing.T) {
	p := &MarkdownExtractor{}
	got, err := p.Extract(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
