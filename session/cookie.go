package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/MrEthical07/goSession/jwt"
)

// DefaultCookieName is the cookie the dashboard stores its session under.
const DefaultCookieName = "session"

// CookieStore keeps the session as a URL-escaped JSON cookie for one origin.
type CookieStore struct {
	jar  http.CookieJar
	url  *url.URL
	name string
	now  func() time.Time
}

// NewCookieStore binds a store to the cookies jar holds for rawURL.
func NewCookieStore(jar http.CookieJar, rawURL, name string) (*CookieStore, error) {
	if jar == nil {
		return nil, errors.New("nil cookie jar")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cookie url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported cookie url scheme %q", u.Scheme)
	}
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieStore{jar: jar, url: u, name: name, now: time.Now}, nil
}

// Token returns the stored token.
func (c *CookieStore) Token(ctx context.Context) (string, error) {
	sess, err := c.Load(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Load decodes the session cookie.
func (c *CookieStore) Load(context.Context) (*Session, error) {
	for _, cookie := range c.jar.Cookies(c.url) {
		if cookie.Name != c.name {
			continue
		}
		raw, err := url.QueryUnescape(cookie.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
		}
		return Decode([]byte(raw))
	}
	return nil, ErrNoSession
}

// Save writes the session cookie. It expires with the token when the token
// is still valid; otherwise it lives as a browser-session cookie.
func (c *CookieStore) Save(_ context.Context, sess Session) error {
	data, err := Encode(&sess)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     c.name,
		Value:    url.QueryEscape(string(data)),
		Path:     "/",
		Secure:   c.url.Scheme == "https",
		SameSite: http.SameSiteLaxMode,
	}
	if exp, ok := jwt.ExpirationTime(sess.Token); ok && exp.After(c.now()) {
		cookie.Expires = exp
	}
	c.jar.SetCookies(c.url, []*http.Cookie{cookie})
	return nil
}

// Delete expires the session cookie.
func (c *CookieStore) Delete(context.Context) error {
	c.jar.SetCookies(c.url, []*http.Cookie{{
		Name:   c.name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}})
	return nil
}
