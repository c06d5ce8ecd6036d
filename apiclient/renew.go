package apiclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/session"
)

type renewResponse struct {
	Token    string   `json:"token"`
	UserID   string   `json:"user_id,omitempty"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// RenewSession asks the API for a fresh token using the current one. The
// caller saves the result and then refreshes monitoring.
func (c *Client) RenewSession(ctx context.Context) (session.Session, error) {
	var out renewResponse
	resp, err := c.NewRequest(ctx).
		SetResult(&out).
		Post(c.renewPath)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrRenewFailed, err)
	}
	if !resp.IsSuccess() {
		return session.Session{}, fmt.Errorf("%w: status %d", ErrRenewFailed, resp.StatusCode())
	}
	if strings.TrimSpace(out.Token) == "" {
		return session.Session{}, fmt.Errorf("%w: empty token", ErrRenewFailed)
	}

	c.logger.InfoContext(ctx, "session renewed", "user_id", out.UserID)
	return session.Session{
		Token:    out.Token,
		UserID:   out.UserID,
		Username: out.Username,
		Roles:    out.Roles,
		IssuedAt: time.Now(),
	}, nil
}
