package ratelimit_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"walletgate/internal/ratelimit"
)

type RateLimitSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestRateLimitSuite(t *testing.T) {
	suite.Run(t, new(RateLimitSuite))
}

func (s *RateLimitSuite) SetupSuite() {
	s.logger = slog.New(slog.DiscardHandler)
}

func (s *RateLimitSuite) okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (s *RateLimitSuite) request(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func (s *RateLimitSuite) TestSlidingWindowStore() {
	store := ratelimit.NewInMemoryStore()
	ctx := context.Background()

	for i := range 3 {
		result, err := store.Allow(ctx, "ip:10.0.0.1", 3, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed, "request %d should pass", i)
		s.Equal(3-i-1, result.Remaining)
	}

	result, err := store.Allow(ctx, "ip:10.0.0.1", 3, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Zero(result.Remaining)

	// A different key has its own window.
	other, err := store.Allow(ctx, "ip:10.0.0.2", 3, time.Minute)
	s.Require().NoError(err)
	s.True(other.Allowed)
}

func (s *RateLimitSuite) TestMiddleware() {
	s.Run("throttles a single client", func() {
		mw := ratelimit.New(ratelimit.NewInMemoryStore(), 2, time.Minute, s.logger)
		handler := mw.Limit(s.okHandler())

		for range 2 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, s.request("192.168.1.5:50000"))
			s.Equal(http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, s.request("192.168.1.5:50000"))
		s.Equal(http.StatusTooManyRequests, rec.Code)
		s.NotEmpty(rec.Header().Get("Retry-After"))
		s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))

		// Other clients are unaffected.
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, s.request("192.168.1.6:50000"))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("uses forwarded address behind a proxy", func() {
		mw := ratelimit.New(ratelimit.NewInMemoryStore(), 1, time.Minute, s.logger)
		handler := mw.Limit(s.okHandler())

		req := s.request("10.0.0.9:443")
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)

		req2 := s.request("10.0.0.10:443")
		req2.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req2)
		s.Equal(http.StatusTooManyRequests, rec.Code, "same forwarded client shares the window")
	})

	s.Run("non-positive limit disables enforcement", func() {
		mw := ratelimit.New(ratelimit.NewInMemoryStore(), 0, time.Minute, s.logger)
		handler := mw.Limit(s.okHandler())
		for range 10 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, s.request("192.168.1.5:50000"))
			s.Equal(http.StatusOK, rec.Code)
		}
	})

	s.Run("fails open when the store errors", func() {
		mw := ratelimit.New(failingStore{}, 1, time.Minute, s.logger)
		handler := mw.Limit(s.okHandler())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, s.request("192.168.1.5:50000"))
		s.Equal(http.StatusOK, rec.Code)
	})
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*ratelimit.Result, error) {
	return nil, fmt.Errorf("counter store unavailable")
}
