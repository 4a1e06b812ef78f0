package http

import (
	"net/http"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
)

// writeError sends err as a ProxiedError. Upstream details are only
// included in development.
func writeError(w http.ResponseWriter, err error, dev bool) {
	pe := domain.AsProxiedError(err)
	if !dev {
		pe = pe.WithoutDetails()
	}
	pe.WriteError(w)
}
