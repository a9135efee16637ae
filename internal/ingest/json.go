package ingest

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// JSONExtractor handles JSON exports. A notes export shaped like
// {"notes": [{"title": ..., "content": ...}]} becomes one "title: content"
// block per note; any other JSON is pretty-printed, and invalid JSON is
// kept as raw text.
type JSONExtractor struct{}

type notesExport struct {
	Notes []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"notes"`
}

func (p *JSONExtractor) Extract(r io.Reader, filename string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var notes notesExport
	if err := json.Unmarshal(raw, &notes); err == nil && len(notes.Notes) > 0 {
		var buf strings.Builder
		for _, n := range notes.Notes {
			writeBlock(&buf, strings.TrimSpace(n.Title)+": "+strings.TrimSpace(n.Content))
		}
		return buf.String(), nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw), nil
	}
	return pretty.String(), nil
}
