package adapthttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"mybites/internal/adapter/token"
)

func TestLoggingMiddleware(t *testing.T) {
	core, obs := observer.New(zap.InfoLevel)
	s := &Server{logger: zap.New(core).Sugar()}

	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusTeapot, rr.Code)
	entries := obs.FilterMessage("request").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/test-path", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, 2, fields["size"])
}

func TestLoggingMiddleware_ImplicitOK(t *testing.T) {
	core, obs := observer.New(zap.InfoLevel)
	s := &Server{logger: zap.New(core).Sugar()}

	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body"))
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	entries := obs.All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
}

func TestFailLogsUnexpectedErrors(t *testing.T) {
	core, obs := observer.New(zap.ErrorLevel)
	s := &Server{logger: zap.New(core).Sugar()}

	rr := httptest.NewRecorder()
	s.fail(rr, httptest.NewRequest(http.MethodGet, "/api/water/today", nil), assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
	require.Len(t, obs.FilterMessage("request failed").All(), 1)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refills per second")

	now = now.Add(visitorTTL + time.Minute)
	rl.Allow("c")
	rl.mu.Lock()
	_, stale := rl.visitors["b"]
	rl.mu.Unlock()
	assert.False(t, stale, "idle visitors are swept")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"", "", false},
		{"Bearer abc.def", "abc.def", true},
		{"bearer  xyz ", "xyz", true},
		{"Basic dXNlcg==", "", false},
		{"Bearer", "", false},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, ok := bearerToken(r)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.want, got, tc.header)
	}
}

func TestSSOUsername(t *testing.T) {
	assert.Equal(t, "a@b.c", ssoUsername(token.IDClaims{Subject: "s1", Email: "a@b.c", EmailVerified: true}))
	assert.Equal(t, "s1", ssoUsername(token.IDClaims{Subject: "s1", Email: "a@b.c"}), "unverified email falls back to subject")
	assert.Equal(t, "s1", ssoUsername(token.IDClaims{Subject: "s1"}))
	assert.Empty(t, ssoUsername(token.IDClaims{Email: "a@b.c"}))
}
