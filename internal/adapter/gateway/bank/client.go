package bank

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"qloan-backend/internal/domain/session"

	"github.com/redis/go-redis/v9"
)

// Client implements session.Gateway against the bank authentication service.
// Verified sessions are cached in redis for a short TTL keyed by credential
// hash, so repeated match attempts don't hammer the bank.
type Client struct {
	baseURL string
	http    *http.Client
	rdb     *redis.Client
	ttl     time.Duration
}

func NewClient(baseURL string, rdb *redis.Client, sessionTTL time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		rdb:     rdb,
		ttl:     sessionTTL,
	}
}

type authResponse struct {
	ErrorCode int    `json:"errorCode"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

func credentialKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return CacheKeySession + hex.EncodeToString(sum[:])
}

func (c *Client) Verify(ctx context.Context, credential string) (*session.Session, error) {
	if credential == "" {
		return nil, session.ErrSessionInvalid
	}

	key := credentialKey(credential)
	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			var s session.Session
			if json.Unmarshal(raw, &s) == nil && s.SessionID != "" {
				return &s, nil
			}
		}
	}

	body, _ := json.Marshal(map[string]string{"credential": credential})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointAuthenticate, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrSessionInvalid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: bank returned %d", session.ErrSessionInvalid, resp.StatusCode)
	}
	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrSessionInvalid, err)
	}
	if ar.ErrorCode != 0 || ar.SessionID == "" || ar.UserID == "" {
		return nil, fmt.Errorf("%w: error code %d", session.ErrSessionInvalid, ar.ErrorCode)
	}

	s := &session.Session{SessionID: ar.SessionID, UserID: ar.UserID}
	if c.rdb != nil {
		if raw, err := json.Marshal(s); err == nil {
			_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
		}
	}
	return s, nil
}
