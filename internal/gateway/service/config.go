package service

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/jdmatchr/pkg/jwtx"
)

// Default session cookie names.
const (
	CookieName       = "next-auth.session-token"
	SecureCookieName = "__Secure-next-auth.session-token"
)

// ResolveCookieName returns the default session cookie name for a
// deployment served over TLS or not.
func ResolveCookieName(secure bool) string {
	if secure {
		return SecureCookieName
	}
	return CookieName
}

// AuthConfig is the session configuration shared by the issuer, the reader
// and the proxy. It is built once at startup.
type AuthConfig struct {
	// Secret signs and verifies session tokens.
	Secret string

	// MaxAge is the session lifetime. Zero means jwtx.DefaultSessionMaxAge.
	MaxAge time.Duration

	// Secure is true when the public URL is https.
	Secure bool

	// CookieNameOverride and SecureCookieNameOverride replace the default
	// names when set.
	CookieNameOverride       string
	SecureCookieNameOverride string
}

// SessionCookieName is the cookie the session token lives in.
func (c *AuthConfig) SessionCookieName() string {
	switch {
	case c.Secure && c.SecureCookieNameOverride != "":
		return c.SecureCookieNameOverride
	case !c.Secure && c.CookieNameOverride != "":
		return c.CookieNameOverride
	default:
		return ResolveCookieName(c.Secure)
	}
}

// SessionMaxAge is MaxAge with the default applied.
func (c *AuthConfig) SessionMaxAge() time.Duration {
	if c.MaxAge <= 0 {
		return jwtx.DefaultSessionMaxAge
	}
	return c.MaxAge
}

// SessionCookie wraps token in the session cookie.
func (c *AuthConfig) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     c.SessionCookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.SessionMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie expires the session cookie in the browser.
func (c *AuthConfig) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.SessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
