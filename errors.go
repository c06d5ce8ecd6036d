package goSession

import "errors"

var (
	// ErrInvalidConfig is returned when a lifecycle or builder setting is out of range.
	ErrInvalidConfig = errors.New("invalid session config")
	// ErrNotInitialized is returned by RefreshMonitoring before Initialize.
	ErrNotInitialized = errors.New("session manager not initialized")
	// ErrNilStore is returned by Build when no credential store was supplied.
	ErrNilStore = errors.New("nil credential store")
	// ErrManagerClosed is returned after Close.
	ErrManagerClosed = errors.New("session manager closed")
	// ErrBuilderUsed is returned when Build is called twice on one builder.
	ErrBuilderUsed = errors.New("builder already used")
)
