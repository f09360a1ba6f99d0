package jwtcodec

// Package jwtcodec mints and verifies stateless HS256 session tokens.
// Tokens carry identity claims only; nothing is stored server-side and
// revocation is not supported.

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

// DefaultTTL is the fixed session lifetime.
const DefaultTTL = time.Hour

// Codec implements the TokenCodec port using HMAC-SHA256 signatures.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Config holds configuration for the session codec.
type Config struct {
	Secret string
	TTL    time.Duration    // Optional, defaults to DefaultTTL
	Now    func() time.Time // Optional clock override for tests
}

// NewCodec creates a session codec. The secret must be non-empty.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("signing secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: []byte(cfg.Secret), ttl: ttl, now: now}, nil
}

// sessionClaims is the wire shape of a session token payload.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Provider string `json:"provider"`
}

// Issue signs a session token for the identity with a fixed expiry.
func (c *Codec) Issue(identity domainauth.Identity) (string, error) {
	if identity.ID == "" {
		return "", errors.New("identity id is required")
	}

	issuedAt := c.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
		Email:    identity.Email,
		Provider: string(identity.Provider),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a session token. Signature and expiry failures
// map to distinct sentinels so callers can log the difference, but both must
// be reported to clients identically as unauthenticated.
func (c *Codec) Verify(token string) (domainauth.Claims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domainauth.Claims{}, domainauth.ErrTokenExpired
		}
		return domainauth.Claims{}, domainauth.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return domainauth.Claims{}, domainauth.ErrTokenInvalid
	}

	out := domainauth.Claims{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Provider: domainauth.Provider(claims.Provider),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (c *Codec) keyFunc(_ *jwt.Token) (any, error) {
	return c.secret, nil
}
