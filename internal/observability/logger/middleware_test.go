package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsAndPropagatesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var seen string
	handler := Middleware(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/communities/1/members", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header().Get(RequestIDHeader))
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.Equal(t, seen, fields["request_id"])
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	handler := Middleware(zap.NewNop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, "req-42", resp.Header().Get(RequestIDHeader))
	assert.Equal(t, http.StatusOK, resp.Code)
}
