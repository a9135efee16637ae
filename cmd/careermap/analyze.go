package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/careermap/internal/analyzer"
	"github.com/dgallion1/careermap/internal/config"
	"github.com/dgallion1/careermap/internal/demo"
	"github.com/dgallion1/careermap/internal/export"
	"github.com/dgallion1/careermap/internal/ingest"
	"github.com/dgallion1/careermap/internal/pipeline"
	"github.com/dgallion1/careermap/internal/profile"
)

type analyzeOptions struct {
	Profile string
	Format  string
	Out     string
	Demo    bool
	Workers int
	Verbose bool
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze documents locally and print the map",
		Long:  "Analyze extracts the career map from the given files and writes it as JSON, CSV or a text report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if !cmd.Flags().Changed("profile") {
				opts.Profile = cfg.AnalyzerProfile
			}
			level := cfg.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			log, closer := newLogger(logOptions{Level: level, File: cfg.LogFile, Text: true}, cmd.ErrOrStderr())
			defer closer.Close()

			out := cmd.OutOrStdout()
			if opts.Out != "" {
				f, err := os.Create(opts.Out)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return runAnalyze(cmd.Context(), opts, args, ingest.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}, out, log)
		},
	}
	cmd.Flags().StringVarP(&opts.Profile, "profile", "p", "standard", "analyzer profile: preset name or YAML file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", string(export.FormatJSON), "output format: json, figma-csv, timeline-csv, report, figma-instructions")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write output to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.Demo, "demo", false, "include the built-in sample résumé and journal")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "classification parallelism (default: number of CPUs)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log pipeline stages")
	return cmd
}

func runAnalyze(ctx context.Context, opts analyzeOptions, paths []string, ingestOpts ingest.Options, out io.Writer, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	if format == export.FormatFigmaInstructions {
		return export.FigmaInstructions(out)
	}
	if len(paths) == 0 && !opts.Demo {
		return fmt.Errorf("no input: pass files or --demo")
	}
	p, err := profile.Load(opts.Profile)
	if err != nil {
		return err
	}

	files := make([]ingest.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, ingest.File{Name: filepath.Base(path), Data: data})
	}
	docs, failed := ingest.ProcessMany(ctx, files, ingestOpts, log)
	if opts.Demo {
		docs = append(demo.Documents(time.Now()), docs...)
	}
	if len(docs) == 0 {
		return fmt.Errorf("%s (%d failed)", pipeline.NoDocumentsMessage, len(failed))
	}

	a := analyzer.New(p, analyzer.WithLogger(log), analyzer.WithWorkers(opts.Workers))
	res, stats, err := a.AnalyzeWithStats(ctx, docs)
	if err != nil {
		return err
	}
	log.Info("analysis finished",
		"profile", stats.Profile,
		"documents", stats.Documents,
		"nodes", stats.Nodes,
		"connections", stats.Edges,
		"events", stats.Events,
		"duration", stats.Duration,
	)
	if len(res.Nodes) == 0 {
		log.Warn(pipeline.EmptyResultMessage)
	}
	return export.Write(out, format, res, time.Now())
}
