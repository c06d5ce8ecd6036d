package goSession

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		window    time.Duration
		wantValid bool
	}{
		{name: "zero window uses default", window: 0, wantValid: true},
		{name: "positive window", window: 30 * time.Second, wantValid: true},
		{name: "negative window", window: -time.Millisecond, wantValid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Config{WarningWindow: tc.window}.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	if got := (Config{}).withDefaults().WarningWindow; got != DefaultWarningWindow {
		t.Fatalf("expected default window %v, got %v", DefaultWarningWindow, got)
	}
	if got := (Config{WarningWindow: time.Second}).withDefaults().WarningWindow; got != time.Second {
		t.Fatalf("explicit window overwritten: %v", got)
	}
}
