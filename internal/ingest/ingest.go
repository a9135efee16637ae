// Package ingest converts uploaded files into plain-text documents for
// analysis. Headings are rendered as "#" lines and list items as "- " lines
// so structure survives flattening.
package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/careermap/internal/model"
)

// ErrUnsupported is returned for file types no extractor handles.
var ErrUnsupported = errors.New("unsupported file type")

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// Options tune extraction.
type Options struct {
	FallbackPdftotext bool
	Now               func() time.Time
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".json":     true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".jpg":      true,
	".jpeg":     true,
	".png":      true,
	".gif":      true,
	".bmp":      true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".text":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".json":
		return &JSONExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
		return &ImageExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Process extracts one file into a ProcessedDocument.
func Process(data []byte, filename string, opts Options) (model.ProcessedDocument, error) {
	ex, err := ForFile(filename, opts)
	if err != nil {
		return model.ProcessedDocument{}, err
	}
	text, err := ex.Extract(bytes.NewReader(data), filename)
	if err != nil {
		return model.ProcessedDocument{}, fmt.Errorf("extract %s: %w", filename, err)
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return model.ProcessedDocument{
		FileName: filename,
		Content:  strings.TrimSpace(text),
		Metadata: model.DocumentMetadata{
			FileType:      FileType(filename),
			FileSize:      int64(len(data)),
			ExtractedDate: now(),
		},
	}, nil
}

// File is one upload awaiting extraction.
type File struct {
	Name string
	Data []byte
}

// FileError records a file that could not be processed.
type FileError struct {
	Name string `json:"name"`
	Err  string `json:"error"`
}

// ProcessMany extracts every file, skipping failures and documents whose
// extracted content duplicates an earlier one. Failures are returned
// alongside the documents that succeeded.
func ProcessMany(ctx context.Context, files []File, opts Options, log *slog.Logger) ([]model.ProcessedDocument, []FileError) {
	var (
		docs   []model.ProcessedDocument
		failed []FileError
		seen   = make(map[string]string)
	)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			failed = append(failed, FileError{Name: f.Name, Err: err.Error()})
			continue
		}
		doc, err := Process(f.Data, f.Name, opts)
		if err != nil {
			log.Warn("file skipped", "file", f.Name, "error", err)
			failed = append(failed, FileError{Name: f.Name, Err: err.Error()})
			continue
		}
		hash := ContentHashHex([]byte(doc.Content))
		if first, dup := seen[hash]; dup {
			log.Info("duplicate document, skipping", "file", f.Name, "duplicate_of", first)
			continue
		}
		seen[hash] = f.Name
		docs = append(docs, doc)
	}
	return docs, failed
}

// FileType returns the MIME type for a filename, or its bare extension when
// the type is unknown.
func FileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".text":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".md", ".markdown":
		return "text/markdown"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return strings.TrimPrefix(ext, ".")
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// writeBlock appends a paragraph to buf separated by a blank line.
func writeBlock(buf *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if buf.Len() > 0 {
		buf.WriteString("\n\n")
	}
	buf.WriteString(text)
}

func heading(level int, title string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + strings.TrimSpace(title)
}
