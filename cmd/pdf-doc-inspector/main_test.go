package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-doc-inspector/internal/config"
	"github.com/a3tai/pdf-doc-inspector/internal/logger"
)

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	t.Cleanup(func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	})

	tests := []struct {
		name      string
		version   string
		buildTime string
		gitCommit string
	}{
		{"release build", "1.2.3", "2025-06-16_10:30:00", "abc123"},
		{"defaults", "dev", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, buildTime, gitCommit = tt.version, tt.buildTime, tt.gitCommit

			var buf bytes.Buffer
			printVersion(&buf)

			out := buf.String()
			assert.Contains(t, out, "PDF Document Inspector")
			assert.Contains(t, out, "Version: "+tt.version)
			assert.Contains(t, out, "Build Time: "+tt.buildTime)
			assert.Contains(t, out, "Git Commit: "+tt.gitCommit)
			assert.Contains(t, out, runtime.Version())
		})
	}
}

func TestRun_InvalidDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PDFDirectory = ""

	err := run(context.Background(), cfg, logger.NewLogger(logger.TestConfig()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create PDF service")
}

func TestRun_ServerMode(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeServer
	cfg.Port = port
	cfg.PDFDirectory = t.TempDir()
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, logger.NewLogger(logger.TestConfig()))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", cfg.Address()))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
