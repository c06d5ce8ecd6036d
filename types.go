package goSession

import "time"

// SessionState classifies the stored token at one instant.
type SessionState uint8

const (
	// StateInvalid means no token, an undecodable token, or a token without exp.
	StateInvalid SessionState = iota
	// StateValid means the token has more time left than the warning window.
	StateValid
	// StateExpiringSoon means the token is inside the warning window but not expired.
	StateExpiringSoon
	// StateExpired means the exp instant is at or before now.
	StateExpired
)

func (s SessionState) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpiringSoon:
		return "expiring-soon"
	case StateExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// MarshalText encodes the state as its string form.
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Authenticated reports whether the state still allows API calls.
func (s SessionState) Authenticated() bool {
	return s == StateValid || s == StateExpiringSoon
}

// SessionInfo is recomputed from the store on every query and never cached.
type SessionInfo struct {
	State           SessionState `json:"state"`
	IsAuthenticated bool         `json:"is_authenticated"`
	// TimeUntilExpiration has millisecond resolution and is never negative.
	TimeUntilExpiration time.Duration `json:"time_until_expiration"`
	// ExpiresAt is zero when the token is absent or undecodable.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// HasExpiration reports whether a decodable token with exp was found.
func (i SessionInfo) HasExpiration() bool {
	return !i.ExpiresAt.IsZero()
}
