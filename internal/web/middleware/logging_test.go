package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/featureprep/internal/logging"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	buf := captureDefault(t)

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/features?file=x.csv", nil))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "path=/api/features")
	assert.Contains(t, out, `query="file=x.csv"`)
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "bytes=5")
	assert.Contains(t, out, "request_id=")
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureDefault(t)
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.WriteHeader(http.StatusTeapot)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code, "second WriteHeader ignored")
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
