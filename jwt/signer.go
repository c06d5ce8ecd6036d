package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the algorithm used by [Signer].
type SigningMethod string

const (
	// MethodEd25519 signs with an Ed25519 private key.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with a shared secret.
	MethodHS256 SigningMethod = "hs256"
)

// SignerConfig configures a [Signer].
type SignerConfig struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	Issuer        string
	KeyID         string
}

// Signer mints tokens for local tooling and tests. Verification stays with
// the API; a client never holds the keys of a production issuer.
type Signer struct {
	config SignerConfig
	now    func() time.Time
}

// NewSigner validates cfg and returns a Signer using the wall clock.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}
	return &Signer{config: cfg, now: time.Now}, nil
}

// Mint returns a signed token for subject that expires after ttl. Extra
// claims are merged in but cannot override sub, iat or exp.
func (s *Signer) Mint(subject string, ttl time.Duration, extra map[string]any) (string, error) {
	if ttl <= 0 {
		return "", errors.New("invalid TTL")
	}
	now := s.now()

	claims := gjwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}

	token := gjwt.NewWithClaims(s.method(), claims)
	if s.config.KeyID != "" {
		token.Header["kid"] = s.config.KeyID
	}

	key, err := s.signKey()
	if err != nil {
		return "", err
	}
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Signer) method() gjwt.SigningMethod {
	switch s.config.SigningMethod {
	case MethodHS256:
		return gjwt.SigningMethodHS256
	default:
		return gjwt.SigningMethodEdDSA
	}
}

func (s *Signer) signKey() (interface{}, error) {
	switch s.config.SigningMethod {
	case MethodHS256:
		return s.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(s.config.PrivateKey)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := gjwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}
