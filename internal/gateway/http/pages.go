package http

import (
	"net/http"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/httpx"
)

// PageHandler stands in for a guarded page. It only runs once RequireSession
// has admitted the request, so claims are always present.
func PageHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := httpx.ClaimsFromContext(r.Context())
		if c == nil {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		sess := service.Session{Claims: *c}
		httpx.WriteJSON(w, http.StatusOK, PageResponse{Page: page, User: sess.User()})
	}
}
