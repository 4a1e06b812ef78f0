package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/jdmatchr/pkg/jwtx"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

// SessionReader resolves the session carried by a request's cookies.
type SessionReader interface {
	CurrentIdentity(r *http.Request) *jwtx.Claims
}

// LoadSession puts the request's session claims, if any, into the context.
// Requests without a session pass through untouched.
func LoadSession(reader SessionReader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := reader.CurrentIdentity(r)
			if c == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := ContextWithClaims(r.Context(), c)
			ctx = slogx.WithUser(ctx, c.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession redirects requests without a valid session to loginPath
// with a callbackUrl pointing back at the original page. publicURL is
// prepended to the callback path when set.
func RequireSession(reader SessionReader, loginPath, publicURL string) Middleware {
	publicURL = strings.TrimRight(publicURL, "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := reader.CurrentIdentity(r)
			if c == nil {
				slogx.FromContext(r.Context()).Info("no session, redirecting to login", "path", r.URL.Path)

				target := loginPath + "?" + url.Values{
					"callbackUrl": {publicURL + r.URL.RequestURI()},
				}.Encode()
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			ctx := ContextWithClaims(r.Context(), c)
			ctx = slogx.WithUser(ctx, c.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
