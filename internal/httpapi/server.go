// Package httpapi serves document inspection over HTTP: a multipart upload
// endpoint, a health check and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	"github.com/a3tai/pdf-doc-inspector/internal/metrics"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// Server timeouts
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = time.Minute
	writeTimeout      = 2 * time.Minute
	idleTimeout       = time.Minute
)

// Server routes HTTP requests to the inspection service
type Server struct {
	service *pdf.Service
	metrics *metrics.Metrics
	log     logger.Logger
}

// New creates a server. m may be nil, in which case no metrics are recorded
// and /metrics is not routed.
func New(service *pdf.Service, m *metrics.Metrics, log logger.Logger) (*Server, error) {
	if service == nil {
		return nil, errors.New("pdfService cannot be nil")
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Server{service: service, metrics: m, log: log}, nil
}

// Router returns the routes without any of the outer middleware
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/upload/", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/upload/", s.handleUploadUsage).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return r
}

// Handler returns the full middleware chain: panic recovery, request
// logging and the router
func (s *Server) Handler() http.Handler {
	return s.chain(s.Router())
}

func (s *Server) chain(h http.Handler) http.Handler {
	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	recovery.Logger = negroniLogger{s.log}

	n := negroni.New()
	n.Use(recovery)
	n.Use(negroni.HandlerFunc(s.requestLogger))
	n.UseHandler(h)
	return n
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully within shutdownTimeout
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving HTTP", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve HTTP: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}

// requestLogger assigns a request ID, stores a request-scoped logger in the
// context and logs the outcome of every request
func (s *Server) requestLogger(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()

	requestID := r.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		requestID = uuid.NewString()
	}
	rw.Header().Set(RequestIDHeader, requestID)

	log := s.log.With("request_id", requestID)
	next(rw, r.WithContext(logger.ContextWithLogger(r.Context(), log)))

	status := http.StatusOK
	if nrw, ok := rw.(negroni.ResponseWriter); ok && nrw.Status() != 0 {
		status = nrw.Status()
	}
	log.Info("request completed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration", time.Since(start),
	)
}

// negroniLogger adapts Logger to the printf style logger negroni expects
type negroniLogger struct {
	log logger.Logger
}

func (l negroniLogger) Printf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l negroniLogger) Println(v ...any) {
	l.log.Error(fmt.Sprint(v...))
}
