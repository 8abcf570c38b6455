package middlewarex_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/logx"
	"kiosk_commerce/pkg/middlewarex"
)

func TestTraceIDAndOperatorID(t *testing.T) {
	rq := require.New(t)

	var (
		gotTraceID contextx.TraceID
		gotUserID  contextx.UserID
	)

	handler := middlewarex.TraceID(middlewarex.OperatorID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID, _ = contextx.TraceIDFromContext(r.Context())
		gotUserID, _ = contextx.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/products", http.NoBody)
	req.Header.Set("X-Trace-Id", "trace-1")
	req.Header.Set("X-Operator-Id", "vendor-7")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	rq.Equal(http.StatusNoContent, rec.Code)
	rq.Equal(contextx.TraceID("trace-1"), gotTraceID)
	rq.Equal(contextx.UserID("vendor-7"), gotUserID)
	rq.Equal("trace-1", rec.Header().Get("X-Trace-Id"))
}

func TestResponseLoggingSkipsImages(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	handler := middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), 0)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte{0x89, 'P', 'N', 'G'}) //nolint:errcheck
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/deal-views/1/qr.png", http.NoBody).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	rq.Equal(http.StatusOK, rec.Code)
	rq.Contains(buf.String(), "<4 bytes of image/png>")
}
