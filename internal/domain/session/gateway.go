package session

import (
	"context"
	"errors"
)

var ErrSessionInvalid = errors.New("session invalid")

// Session is the identity the bank auth service vouches for.
type Session struct {
	SessionID string
	UserID    string
}

// Gateway is the boundary to the external bank authentication service.
// Implementations must return ErrSessionInvalid (possibly wrapped) for any
// non-success outcome; callers abort before mutating state.
type Gateway interface {
	Verify(ctx context.Context, credential string) (*Session, error)
}
