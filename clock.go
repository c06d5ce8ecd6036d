package goSession

import "time"

// Timer is a cancellable one-shot callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was already stopped.
	Stop() bool
}

// Clock supplies time and one-shot timers to the manager. Tests inject a
// manual clock to drive timers deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock returns the wall clock backed by time.AfterFunc.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
