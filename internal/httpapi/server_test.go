package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	"github.com/a3tai/pdf-doc-inspector/internal/metrics"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf/pdftest"
)

const testMaxFileSize = 64 * 1024

func newTestServer(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	log := logger.NewLogger(logger.TestConfig())

	service, err := pdf.NewService(testMaxFileSize, t.TempDir(), pdf.WithObserver(m), pdf.WithLogger(log))
	require.NoError(t, err)

	server, err := New(service, m, log)
	require.NoError(t, err)
	return server, m
}

func uploadRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "ignored"))
	fw, err := mw.CreateFormFile(field, "document.pdf")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)
}

func TestUpload_Success(t *testing.T) {
	server, m := newTestServer(t)
	raw := pdftest.Document(t,
		[]string{"Internship Completed", "Certificate issued 31/07/2025"},
		[]string{"Period: 1 June 2025 to July 31, 2025"},
	)

	rec := serve(server, uploadRequest(t, UploadField, raw))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result pdf.InspectResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Completion Certificate", result.DocumentType)
	assert.Equal(t, []string{"2025-06-01", "2025-07-31", "2025-07-31"}, result.Dates)
	assert.Contains(t, result.DocumentText, "Internship Completed")
	assert.Equal(t, 2, result.PageCount)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestUpload_Failures(t *testing.T) {
	tests := []struct {
		name     string
		request  func(t *testing.T) *http.Request
		wantCode int
		wantKind string
		wantErr  string
	}{
		{
			name: "not a pdf",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, UploadField, []byte("just some text"))
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "INVALID_HEADER",
		},
		{
			name: "corrupted structure",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, UploadField, []byte("%PDF-1.4\n%%EOF\n"))
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "CORRUPTED_STRUCTURE",
		},
		{
			name: "password protected",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, UploadField, pdftest.Protected(t, "secret", []string{"Offer Letter"}))
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "ENCRYPTED",
		},
		{
			name: "empty upload",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, UploadField, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "EMPTY_INPUT",
		},
		{
			name: "too large",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, UploadField, bytes.Repeat([]byte("x"), testMaxFileSize+1))
			},
			wantCode: http.StatusRequestEntityTooLarge,
			wantKind: "TOO_LARGE",
		},
		{
			name: "wrong field",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", pdftest.Document(t, []string{"Offer Letter"}))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  `missing form field "pdf"`,
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/upload/", bytes.NewReader([]byte("%PDF-1.4")))
				req.Header.Set("Content-Type", "application/pdf")
				return req
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "multipart/form-data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t)

			rec := serve(server, tt.request(t))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var failure pdf.ErrorResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
			assert.NotEmpty(t, failure.Error)
			assert.Equal(t, tt.wantKind, failure.Kind)
			if tt.wantErr != "" {
				assert.Contains(t, failure.Error, tt.wantErr)
			}
		})
	}
}

func TestUpload_Usage(t *testing.T) {
	server, _ := newTestServer(t)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/upload/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload a PDF via POST request")

	rec = serve(server, httptest.NewRequest(http.MethodDelete, "/upload/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID(t *testing.T) {
	server, _ := newTestServer(t)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = serve(server, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = serve(server, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	serve(server, uploadRequest(t, UploadField, pdftest.Document(t, []string{"Job Offer dated 2025-05-01"})))
	serve(server, uploadRequest(t, UploadField, []byte("garbage")))

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `pdf_inspector_documents_inspected_total{document_type="Offer Letter"} 1`)
	assert.Contains(t, body, `pdf_inspector_documents_extraction_failures_total{kind="INVALID_HEADER"} 1`)
	assert.Contains(t, body, `pdf_inspector_http_requests_total{method="POST",route="/upload/",status="200"} 1`)
	assert.Contains(t, body, `pdf_inspector_http_requests_total{method="POST",route="/upload/",status="422"} 1`)
}

func TestRecovery(t *testing.T) {
	server, _ := newTestServer(t)

	router := server.Router()
	router.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	server.chain(router).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = serve(server, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListenAndServe(t *testing.T) {
	server, _ := newTestServer(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx, addr, time.Second)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthz", addr))
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
		t.Fatal("server did not shut down")
	}
}
