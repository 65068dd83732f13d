package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/a3tai/pdf-doc-inspector/internal/config"
	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// report is the JSON output: the inspection result plus, in verbose mode,
// every date candidate that was considered
type report struct {
	*pdf.InspectResult
	Source     string                  `json:"source"`
	Candidates *pdf.ExtractDatesResult `json:"date_candidates,omitempty"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("pdf_inspect", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	format := flags.String("format", formatText, "Output format: text, json")
	verbose := flags.Bool("verbose", false, "List every date candidate, including rejected ones")
	logLevel := flags.String("loglevel", "warn", "Log level (debug, info, warn, error)")
	maxFileSize := flags.Int64("maxfilesize", config.DefaultMaxFileSize, "Maximum PDF size in bytes")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "PDF Inspect - extract text, document type and dates from a PDF\n\n")
		fmt.Fprintf(stderr, "USAGE:\n  pdf_inspect [OPTIONS] <pdf-file>\n\nOPTIONS:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		flags.Usage()
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: exactly one PDF file path required\n\n")
		flags.Usage()
		return 2
	}
	if *format != formatText && *format != formatJSON {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", *format)
		return 2
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.LogLevel(*logLevel)
	logCfg.Output = stderr
	log := logger.NewLogger(logCfg)

	path, err := filepath.Abs(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	service, err := pdf.NewService(*maxFileSize, filepath.Dir(path), pdf.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := service.InspectFile(ctx, pdf.PDFInspectFileRequest{Path: path})
	if err != nil {
		if *format == formatJSON {
			_ = writeJSON(stdout, pdf.NewErrorResult(err))
		}
		fmt.Fprintf(stderr, "Error processing PDF: %v\n", err)
		return 1
	}

	out := report{InspectResult: result, Source: path}
	if *verbose {
		candidates := service.ExtractDates(pdf.ExtractDatesRequest{Text: result.DocumentText, Verbose: true})
		out.Candidates = &candidates
	}

	if *format == formatJSON {
		err = writeJSON(stdout, out)
	} else {
		err = writeText(stdout, out)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeText(w io.Writer, r report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Document Type: %s\n", r.DocumentType)
	fmt.Fprintf(&b, "Pages: %d\n", r.PageCount)
	if len(r.Dates) == 0 {
		b.WriteString("Dates: none\n")
	} else {
		fmt.Fprintf(&b, "Dates: %s\n", strings.Join(r.Dates, ", "))
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}

	if r.Candidates != nil {
		fmt.Fprintf(&b, "\nDate candidates (patterns %s):\n", r.Candidates.DatePatternsVersion)
		for _, c := range r.Candidates.Candidates {
			status := c.Normalized
			if !c.Valid {
				status = "rejected"
			}
			fmt.Fprintf(&b, "  %-16s %-24q %s\n", c.Pattern, c.Raw, status)
		}
	}

	fmt.Fprintf(&b, "\nExtracted Text:\n%s\n", r.DocumentText)
	_, err := io.WriteString(w, b.String())
	return err
}
