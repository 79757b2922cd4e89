package auth

import (
	"errors"
	"fmt"
	"time"

	// Third-party library for JWT handling. `jwt/v5` indicates version 5.
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned when the `exp` claim lies in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidSignature covers everything else: wrong key, tampered payload,
	// malformed input and non-HMAC algorithms.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrWrongPurpose is returned by VerifyPurpose for a token minted for another flow.
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// Claims is the payload of every token we issue.
// Session tokens carry ID and IsAdmin; verification and reset tokens carry Email.
// Embedding `jwt.RegisteredClaims` includes standard claims like `exp`, `iat` and `jti`.
type Claims struct {
	ID      int    `json:"id,omitempty"`
	IsAdmin bool   `json:"is_admin"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SignOptions tweaks a single Sign call.
type SignOptions struct {
	// ExpiresIn sets `exp` relative to now. Zero issues a token that never expires.
	ExpiresIn time.Duration
}

// TokenCodec signs and verifies HS256 tokens.
// The secret is passed per call because session and reset tokens use different keys.
type TokenCodec struct {
	now func() time.Time
}

// NewTokenCodec creates a codec using the wall clock.
func NewTokenCodec() *TokenCodec {
	return &TokenCodec{now: time.Now}
}

// WithClock returns a codec reading time from now. Used by tests to step past expiry.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{now: now}
}

// Sign signs claims with secret. `iat` and a fresh `jti` are always set.
func (c *TokenCodec) Sign(claims *Claims, secret []byte, opts SignOptions) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil")
	}
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	ensureTokenID(&claims.RegisteredClaims)
	if opts.ExpiresIn > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(opts.ExpiresIn))
	} else {
		claims.ExpiresAt = nil
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token, checks its signature against secret and its expiry
// against the codec clock.
func (c *TokenCodec) Verify(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		// Ensure the token's signing method is HMAC, as expected.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithIssuedAt())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}

// VerifyPurpose is Verify plus a check that the token was minted for purpose.
func (c *TokenCodec) VerifyPurpose(token string, secret []byte, purpose string) (*Claims, error) {
	claims, err := c.Verify(token, secret)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// ensureTokenID gives every token a random `jti`, so two tokens signed in the
// same second for the same user still differ.
func ensureTokenID(rc *jwt.RegisteredClaims) {
	rc.ID = uuid.NewString()
}
