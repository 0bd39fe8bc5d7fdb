package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerKeepsFlusher(t *testing.T) {
	var buf bytes.Buffer
	h := RequestID(Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("writer lost http.Flusher")
		}
		w.WriteHeader(http.StatusAccepted)
		f.Flush()
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events", nil))

	if !rec.Flushed {
		t.Fatal("recorder was not flushed")
	}
	line := buf.String()
	if !strings.Contains(line, "GET /v1/events 202") || !strings.Contains(line, rec.Header().Get("X-Request-ID")) {
		t.Fatalf("log line = %q", line)
	}
}
