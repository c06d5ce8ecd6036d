package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned for every token that cannot be decoded:
// wrong segment count, bad base64, or a payload that is not a JSON object.
var ErrMalformedToken = errors.New("malformed token")

// Inspector interprets token claims against a clock. The zero value is not
// usable; build one with [NewInspector].
type Inspector struct {
	now    func() time.Time
	parser *gjwt.Parser
}

// NewInspector returns an Inspector reading the current time from now.
// A nil now falls back to time.Now.
func NewInspector(now func() time.Time) *Inspector {
	if now == nil {
		now = time.Now
	}
	return &Inspector{
		now:    now,
		parser: gjwt.NewParser(gjwt.WithPaddingAllowed()),
	}
}

var defaultInspector = NewInspector(nil)

// stdAlphabet maps standard base64 characters onto the URL alphabet.
var stdAlphabet = strings.NewReplacer("+", "-", "/", "_")

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = int64(math.MaxInt64 / int64(time.Millisecond))

// Decode returns the claims carried by token without verifying it.
func (i *Inspector) Decode(token string) (gjwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	// Accept payloads encoded with the standard alphabet as well.
	segment := stdAlphabet.Replace(parts[1])
	raw, err := i.parser.DecodeSegment(segment)
	if err != nil {
		return nil, ErrMalformedToken
	}

	var claims gjwt.MapClaims
	if err := json.Unmarshal(raw, &claims); err != nil || claims == nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// expiration returns the exp claim truncated to whole seconds.
func (i *Inspector) expiration(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	claims, err := i.Decode(token)
	if err != nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.Unix(), true
}

// IsExpired reports whether token is unusable: empty, undecodable, missing
// exp, or exp strictly before the current second. A token whose exp equals
// the current second is not expired by this check.
func (i *Inspector) IsExpired(token string) bool {
	exp, ok := i.expiration(token)
	if !ok {
		return true
	}
	return exp < i.now().Unix()
}

// ExpirationTime returns the instant carried by the exp claim.
func (i *Inspector) ExpirationTime(token string) (time.Time, bool) {
	exp, ok := i.expiration(token)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(exp, 0), true
}

// HasExpiration reports whether token decodes and carries an exp claim.
func (i *Inspector) HasExpiration(token string) bool {
	_, ok := i.expiration(token)
	return ok
}

// TimeUntilExpiration returns the time left before exp with millisecond
// resolution. It never returns a negative duration; undecodable tokens
// report zero and exp instants beyond the Duration range saturate.
func (i *Inspector) TimeUntilExpiration(token string) time.Duration {
	exp, ok := i.expiration(token)
	if !ok {
		return 0
	}
	nowMs := i.now().UnixMilli()
	// Compare in seconds first so exp*1000 cannot overflow.
	switch {
	case exp <= nowMs/1000-1:
		return 0
	case exp >= nowMs/1000+maxMillis/1000:
		return time.Duration(math.MaxInt64)
	}
	left := exp*1000 - nowMs
	if left <= 0 {
		return 0
	}
	if left > maxMillis {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(left) * time.Millisecond
}

// IsExpiringSoon reports whether token has some time left, but no more than
// window. An already expired token is not expiring soon.
func (i *Inspector) IsExpiringSoon(token string, window time.Duration) bool {
	left := i.TimeUntilExpiration(token)
	return left > 0 && left <= window
}

// FormatRemaining renders the time left as "1h 5m", "4m 30s" or "12s".
// It returns false when the token is expired or undecodable.
func (i *Inspector) FormatRemaining(token string) (string, bool) {
	left := i.TimeUntilExpiration(token)
	if left <= 0 {
		return "", false
	}
	return FormatDuration(left), true
}

// FormatDuration renders d the way FormatRemaining does, flooring each unit.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	hours := ms / int64(time.Hour/time.Millisecond)
	minutes := (ms % int64(time.Hour/time.Millisecond)) / int64(time.Minute/time.Millisecond)
	seconds := (ms % int64(time.Minute/time.Millisecond)) / int64(time.Second/time.Millisecond)

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Decode decodes token using the wall clock inspector.
func Decode(token string) (gjwt.MapClaims, error) { return defaultInspector.Decode(token) }

// IsExpired reports expiry against the wall clock.
func IsExpired(token string) bool { return defaultInspector.IsExpired(token) }

// ExpirationTime returns the exp instant of token.
func ExpirationTime(token string) (time.Time, bool) { return defaultInspector.ExpirationTime(token) }

// TimeUntilExpiration returns the time left against the wall clock.
func TimeUntilExpiration(token string) time.Duration {
	return defaultInspector.TimeUntilExpiration(token)
}

// IsExpiringSoon reports whether token expires within window of now.
func IsExpiringSoon(token string, window time.Duration) bool {
	return defaultInspector.IsExpiringSoon(token, window)
}

// FormatRemaining renders the time left against the wall clock.
func FormatRemaining(token string) (string, bool) { return defaultInspector.FormatRemaining(token) }
