package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowPerKey(t *testing.T) {
	l := New(60, 2)

	// Burst of 2, then the bucket for that key is drained.
	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	// Other keys are unaffected.
	require.True(t, l.Allow("10.0.0.2"))
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	l := New(60, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := l.Middleware(next)

	req := httptest.NewRequest(http.MethodPost, "/api/insights", nil)
	req.RemoteAddr = "10.0.0.1:50000"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Result().StatusCode)
	require.Contains(t, w.Body.String(), "rate limit")
}
