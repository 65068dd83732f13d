package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/pdf-doc-inspector/internal/config"
	"github.com/a3tai/pdf-doc-inspector/internal/httpapi"
	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	"github.com/a3tai/pdf-doc-inspector/internal/mcp"
	"github.com/a3tai/pdf-doc-inspector/internal/metrics"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	// stdout carries the MCP stream in stdio mode, so logs always go to stderr
	logger.Init(cfg.LoggerConfig(os.Stderr))
	log := logger.GetDefault()
	log.Debug("starting", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// run serves in the configured mode until ctx is done
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	opts := []pdf.Option{pdf.WithLogger(log)}

	var m *metrics.Metrics
	if cfg.IsServerMode() {
		m = metrics.New()
		opts = append(opts, pdf.WithObserver(m))
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, opts...)
	if err != nil {
		return fmt.Errorf("failed to create PDF service: %w", err)
	}

	if cfg.IsServerMode() {
		server, err := httpapi.New(pdfService, m, log)
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}
		return server.ListenAndServe(ctx, cfg.Address(), cfg.ShutdownTimeout)
	}

	server, err := mcp.NewServer(cfg, pdfService, log)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "PDF Document Inspector\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
