// Package token issues and verifies the signed bearer tokens handed out at login.
//
// Tokens are HS256 JWTs carrying the subject email, the user id and an
// absolute expiry. Nothing is stored server-side: a token stays valid until it
// expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an access token when none is configured.
const DefaultTTL = 30 * time.Minute

var (
	// ErrInvalidSignature is returned when the token was not signed with our secret.
	ErrInvalidSignature = errors.New("token signature is invalid")
	// ErrExpired is returned when the token's expiry is in the past.
	ErrExpired = errors.New("token has expired")
	// ErrMalformed is returned for anything that cannot be parsed as one of our tokens.
	ErrMalformed = errors.New("token is malformed")
)

// Claims is the claim set embedded in every token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// Email returns the subject of the token.
func (c *Claims) Email() string {
	return c.Subject
}

// Issuer mints and checks tokens with a symmetric secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer signing with secret. A non-positive ttl falls
// back to DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration, opts ...Option) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for the given user that expires after the
// issuer's ttl.
func (i *Issuer) Issue(email string, userID int64) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tok and returns its claims.
// The returned error is always one of ErrInvalidSignature, ErrExpired or
// ErrMalformed.
func (i *Issuer) Verify(tok string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	return claims, nil
}
