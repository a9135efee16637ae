package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("archive.zip", Options{})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("zip should not be supported")
	}
	if !IsSupportedExtension("CV.PDF") {
		t.Error("extension check should ignore case")
	}
}

func TestProcess_Metadata(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data := []byte("Software Engineer at TechCorp (2022-2024)\n")
	doc, err := Process(data, "cv.txt", Options{Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileName != "cv.txt" {
		t.Errorf("file name = %q", doc.FileName)
	}
	if doc.Content != "Software Engineer at TechCorp (2022-2024)" {
		t.Errorf("content = %q", doc.Content)
	}
	if doc.Metadata.FileType != "text/plain" {
		t.Errorf("file type = %q", doc.Metadata.FileType)
	}
	if doc.Metadata.FileSize != int64(len(data)) {
		t.Errorf("file size = %d", doc.Metadata.FileSize)
	}
	if !doc.Metadata.ExtractedDate.Equal(now) {
		t.Errorf("extracted date = %v", doc.Metadata.ExtractedDate)
	}
}

func TestCSVExtractor_RowsAsKeyValues(t *testing.T) {
	input := "Title,Company,Started On\nEngineer,Acme,2019\nManager,,2022\n"
	got, err := (&CSVExtractor{}).Extract(strings.NewReader(input), "positions.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Title: Engineer, Company: Acme, Started On: 2019\nTitle: Manager, Started On: 2022\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJSONExtractor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "notes export",
			input: `{"notes":[{"title":"Goals","content":"Want to become a staff engineer"},{"title":"Hobbies","content":"Chess"}]}`,
			want:  "Goals: Want to become a staff engineer\n\nHobbies: Chess",
		},
		{
			name:  "other json",
			input: `{"role":"Engineer"}`,
			want:  "{\n  \"role\": \"Engineer\"\n}",
		},
		{
			name:  "invalid json",
			input: `{"role": Engineer`,
			want:  `{"role": Engineer`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&JSONExtractor{}).Extract(strings.NewReader(tt.input), "export.json")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLExtractor(t *testing.T) {
	input := `<html><head><title>Profile</title><script>var x;</script></head>
<body><nav>Home</nav><h2>Experience</h2>
<ul><li>Software Engineer at TechCorp</li><li>Analyst at Initech</li></ul>
<p>I   enjoy<br>hiking</p></body></html>`
	got, err := (&HTMLExtractor{}).Extract(strings.NewReader(input), "profile.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "## Experience\n\n- Software Engineer at TechCorp\n\n- Analyst at Initech\n\nI enjoy\nhiking"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFailureMarkers(t *testing.T) {
	doc, err := Process([]byte("%PDF-garbage"), "uploads/cv.pdf", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "[PDF file: cv.pdf - Could not extract text]" {
		t.Errorf("pdf content = %q", doc.Content)
	}

	doc, err = Process([]byte{0x89, 'P', 'N', 'G'}, "scan.png", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "[Image file: scan.png - OCR processing failed]" {
		t.Errorf("image content = %q", doc.Content)
	}
	if doc.Metadata.FileType != "image/png" {
		t.Errorf("image type = %q", doc.Metadata.FileType)
	}
}

func TestProcessMany_SkipsFailuresAndDuplicates(t *testing.T) {
	files := []File{
		{Name: "a.txt", Data: []byte("Engineer at Acme")},
		{Name: "b.zip", Data: []byte("PK")},
		{Name: "c.md", Data: []byte("Engineer at Acme\n")},
		{Name: "d.txt", Data: []byte("Analyst at Initech")},
	}
	docs, failed := ProcessMany(context.Background(), files, Options{}, quiet)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].FileName != "a.txt" || docs[1].FileName != "d.txt" {
		t.Errorf("unexpected documents %q, %q", docs[0].FileName, docs[1].FileName)
	}
	if len(failed) != 1 || failed[0].Name != "b.zip" {
		t.Errorf("expected b.zip to fail, got %+v", failed)
	}
}

func TestContentHashHex(t *testing.T) {
	got := ContentHashHex([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
