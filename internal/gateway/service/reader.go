package service

import (
	"net/http"

	"github.com/aussiebroadwan/jdmatchr/pkg/jwtx"
)

// SessionReader reads the session from request cookies. It never writes
// cookies.
type SessionReader struct {
	Config *AuthConfig
}

// Token returns the raw session cookie value, or "".
func (s *SessionReader) Token(r *http.Request) string {
	c, err := r.Cookie(s.Config.SessionCookieName())
	if err != nil {
		return ""
	}
	return c.Value
}

// CurrentIdentity returns the verified claims of the request's session, or
// nil when there is no usable session for any reason.
func (s *SessionReader) CurrentIdentity(r *http.Request) *jwtx.Claims {
	token := s.Token(r)
	if token == "" {
		return nil
	}
	return jwtx.Decode(token, s.Config.Secret)
}
