package bank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"qloan-backend/internal/domain/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newBankServer(t *testing.T, hits *atomic.Int64, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EndpointAuthenticate || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestVerify_Success(t *testing.T) {
	var hits atomic.Int64
	srv := newBankServer(t, &hits, http.StatusOK, `{"errorCode":0,"sessionId":"sess-1","userId":"user-1"}`)
	c := NewClient(srv.URL, nil, time.Minute)

	s, err := c.Verify(context.Background(), "good-credential")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if s.SessionID != "sess-1" || s.UserID != "user-1" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestVerify_CachesVerifiedSession(t *testing.T) {
	var hits atomic.Int64
	srv := newBankServer(t, &hits, http.StatusOK, `{"errorCode":0,"sessionId":"sess-1","userId":"user-1"}`)
	c := NewClient(srv.URL, newTestRedis(t), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Verify(ctx, "good-credential"); err != nil {
			t.Fatalf("Verify #%d: %v", i+1, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("bank hit %d times, want 1 (cache miss only)", hits.Load())
	}

	// a different credential is a different cache key
	if _, err := c.Verify(ctx, "other-credential"); err != nil {
		t.Fatalf("Verify (other): %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("bank hit %d times, want 2", hits.Load())
	}
}

func TestVerify_EmptyCredential(t *testing.T) {
	c := NewClient("http://unused", nil, time.Minute)
	if _, err := c.Verify(context.Background(), ""); !errors.Is(err, session.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestVerify_BankErrorCode(t *testing.T) {
	var hits atomic.Int64
	srv := newBankServer(t, &hits, http.StatusOK, fmt.Sprintf(`{"%s":7,"%s":"","%s":""}`, KeyErrorCode, KeySessionID, KeyUserID))
	c := NewClient(srv.URL, nil, time.Minute)

	if _, err := c.Verify(context.Background(), "bad-credential"); !errors.Is(err, session.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestVerify_BankUnavailable(t *testing.T) {
	var hits atomic.Int64
	srv := newBankServer(t, &hits, http.StatusInternalServerError, "")
	c := NewClient(srv.URL, nil, time.Minute)

	if _, err := c.Verify(context.Background(), "cred"); !errors.Is(err, session.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestVerify_RejectionIsNotCached(t *testing.T) {
	var hits atomic.Int64
	srv := newBankServer(t, &hits, http.StatusOK, `{"errorCode":7}`)
	c := NewClient(srv.URL, newTestRedis(t), time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Verify(ctx, "bad-credential"); !errors.Is(err, session.ErrSessionInvalid) {
			t.Fatalf("Verify #%d: want ErrSessionInvalid, got %v", i+1, err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("rejections must not be cached; bank hit %d times", hits.Load())
	}
}
