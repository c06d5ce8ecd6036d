package session

import "time"

// Session is the record a host persists after login. Only Token is required.
type Session struct {
	Token    string    `json:"token"`
	UserID   string    `json:"user_id,omitempty"`
	Username string    `json:"username,omitempty"`
	Roles    []string  `json:"roles,omitempty"`
	IssuedAt time.Time `json:"issued_at,omitempty"`
}
