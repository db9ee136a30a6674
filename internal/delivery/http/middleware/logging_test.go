package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	record slog.Record
}

func (h *capturingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capturingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(string) slog.Handler { return h }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func recordAttrs(r slog.Record) map[string]slog.Value {
	attrs := make(map[string]slog.Value)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return attrs
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		body          string
		wantLevel     slog.Level
	}{
		{"ok status", http.MethodGet, "/reports/summary", http.StatusOK, `{"data":{}}`, slog.LevelInfo},
		{"created", http.MethodPost, "/events", http.StatusCreated, "", slog.LevelInfo},
		{"conflict", http.MethodPost, "/events/7/sales", http.StatusConflict, "", slog.LevelInfo},
		{"server error escalates", http.MethodGet, "/events", http.StatusInternalServerError, "", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cap capturingHandler
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})
			handler := LoggingMiddleware(slog.New(&cap), next)
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.handlerStatus, rr.Code)
			require.Equal(t, "request", cap.record.Message)
			require.Equal(t, tt.wantLevel, cap.record.Level)

			attrs := recordAttrs(cap.record)
			require.Equal(t, tt.method, attrs["method"].String())
			require.Equal(t, tt.path, attrs["path"].String())
			require.Equal(t, int64(tt.handlerStatus), attrs["status"].Int64())
			require.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
			require.Equal(t, int64(len(tt.body)), attrs["bytes"].Int64())
			require.NotEmpty(t, attrs["remote"].String())
		})
	}
}

func TestLoggingMiddleware_DefaultStatus(t *testing.T) {
	// Handlers that never call WriteHeader implicitly send 200.
	var cap capturingHandler
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	handler := LoggingMiddleware(slog.New(&cap), next)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://test/events", nil))

	attrs := recordAttrs(cap.record)
	require.Equal(t, int64(http.StatusOK), attrs["status"].Int64())
}
