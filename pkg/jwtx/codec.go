package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret = errors.New("jwtx: signing secret is empty")
	ErrExpired  = errors.New("jwtx: token expired")
)

// now is swapped in tests.
var now = time.Now

// Encode signs claims with HS256. IssuedAt defaults to now and ExpiresAt to
// IssuedAt+maxAge when either is absent; a non-positive maxAge uses
// DefaultSessionMaxAge. Identical claims and timestamps always produce the
// same token.
func Encode(c Claims, secret string, maxAge time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}

	if c.IssuedAt == nil {
		c.IssuedAt = jwt.NewNumericDate(now().UTC())
	}
	if c.ExpiresAt == nil {
		c.ExpiresAt = jwt.NewNumericDate(c.IssuedAt.Add(maxAge))
	}
	if c.UserID == "" {
		c.UserID = c.Subject
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// Decode verifies the signature and expiry of token and returns its claims.
//
// Every failure (no token, no secret, bad signature, wrong algorithm,
// expired) yields nil. Callers only need to know whether a usable session
// exists, not why one doesn't.
func Decode(token, secret string) *Claims {
	c, err := Verify(token, secret)
	if err != nil {
		return nil
	}
	return c
}

// Verify is Decode with the reason kept, for diagnostics and the CLI.
// iat is not checked, so a token minted by a replica with a faster clock
// still reads as a session.
func Verify(token, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if token == "" {
		return nil, jwt.ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	)

	var c Claims
	if _, err := parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, err
	}

	return &c, nil
}

// Codec binds a secret and session lifetime so services don't pass the
// secret around.
type Codec struct {
	secret string
	maxAge time.Duration
}

// NewCodec returns a Codec. It fails when secret is empty.
func NewCodec(secret string, maxAge time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	return &Codec{secret: secret, maxAge: maxAge}, nil
}

// Encode signs c with the codec's secret and lifetime.
func (k *Codec) Encode(c Claims) (string, error) {
	return Encode(c, k.secret, k.maxAge)
}

// Decode verifies token with the codec's secret. See Decode.
func (k *Codec) Decode(token string) *Claims {
	return Decode(token, k.secret)
}

// MaxAge is the configured session lifetime.
func (k *Codec) MaxAge() time.Duration { return k.maxAge }

// Ready reports whether the codec can sign tokens.
func (k *Codec) Ready() bool { return k != nil && k.secret != "" }
