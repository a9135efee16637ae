package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/careermap/internal/ingest"
	"github.com/dgallion1/careermap/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_FILE", "")
	t.Setenv("ANALYZER_PROFILE", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileList(t *testing.T) {
	out, err := execute(t, "profile", "list")
	if err != nil {
		t.Fatalf("profile list: %v", err)
	}
	for _, name := range []string{"standard", "simple", "smart"} {
		if !strings.Contains(out, name+"\n") {
			t.Errorf("missing %q in %q", name, out)
		}
	}
}

func TestProfileShow(t *testing.T) {
	out, err := execute(t, "profile", "show", "smart")
	if err != nil {
		t.Fatalf("profile show: %v", err)
	}
	if !strings.Contains(out, "name: smart") {
		t.Errorf("output = %q", out)
	}

	if _, err := execute(t, "profile", "show", "nope"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestAnalyzeDemoJSON(t *testing.T) {
	out, err := execute(t, "analyze", "--demo")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var res model.AnalysisResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(res.Nodes) == 0 {
		t.Fatal("expected nodes from demo documents")
	}
	if len(res.Timeline.Events) == 0 {
		t.Error("expected timeline events")
	}
}

func TestAnalyzeFilesToOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.md")
	text := "# Experience\n\nSenior Software Engineer at Acme Corp from 2019 to 2022. Built payment services with Go and Kubernetes.\n\nI want to become an engineering manager.\n"
	if err := os.WriteFile(in, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "report.txt")

	if _, err := execute(t, "analyze", "--format", "report", "--out", outPath, in); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Generated on:") {
		t.Errorf("report missing header:\n%s", data)
	}
}

func TestRunAnalyzeErrors(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	if err := runAnalyze(ctx, analyzeOptions{Profile: "standard", Format: "json"}, nil, ingest.Options{}, io.Discard, log); err == nil {
		t.Error("expected error without input")
	}
	if err := runAnalyze(ctx, analyzeOptions{Profile: "standard", Format: "xml", Demo: true}, nil, ingest.Options{}, io.Discard, log); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := runAnalyze(ctx, analyzeOptions{Profile: "missing.yaml", Format: "json", Demo: true}, nil, ingest.Options{}, io.Discard, log); err == nil {
		t.Error("expected error for missing profile file")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "archive.zip")
	os.WriteFile(bad, []byte("PK"), 0o644)
	if err := runAnalyze(ctx, analyzeOptions{Profile: "standard", Format: "json"}, []string{bad}, ingest.Options{}, io.Discard, log); err == nil {
		t.Error("expected error when no document could be read")
	}
}

func TestFigmaInstructionsNeedsNoInput(t *testing.T) {
	out, err := execute(t, "analyze", "--format", "figma-instructions")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "Figma") {
		t.Errorf("output = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careermap.log")
	log, closer := newLogger(logOptions{Level: "debug", File: path}, io.Discard)
	log.Debug("hello", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %q", data)
	}
}
