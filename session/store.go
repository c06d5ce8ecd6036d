package session

import (
	"context"
	"errors"
)

var (
	// ErrNoSession is returned when nothing is stored.
	ErrNoSession = errors.New("no session")
	// ErrSessionCorrupt is returned when a stored record cannot be decoded.
	ErrSessionCorrupt = errors.New("session corrupt")
	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// Store reads the active bearer token.
type Store interface {
	// Token returns the active token or ErrNoSession.
	Token(ctx context.Context) (string, error)
}

// Writer persists and removes the active session.
type Writer interface {
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context) error
}

// ReadWriter is a store the host can both read and update.
type ReadWriter interface {
	Store
	Writer
	Load(ctx context.Context) (*Session, error)
}
