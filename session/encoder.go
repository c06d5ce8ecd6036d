package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Encode serializes s as JSON. A session without a token cannot be stored.
func Encode(s *Session) ([]byte, error) {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrSessionCorrupt)
	}
	return json.Marshal(s)
}

// Decode parses a JSON session record. Unknown fields written by other
// clients are ignored.
func Decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	if strings.TrimSpace(s.Token) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrSessionCorrupt)
	}
	return &s, nil
}
