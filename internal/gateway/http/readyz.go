package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/httpx"
)

// Pinger checks that the Analysis Backend answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readyzBackendTimeout = 2 * time.Second

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, whether a signing secret is configured and whether the Analysis Backend answers
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	auth *service.AuthConfig,
	backend Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{
			Signer:  "ok",
			Backend: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if auth == nil || auth.Secret == "" {
			checks.Signer = "error: no signing secret"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyzBackendTimeout)
		defer cancel()
		if backend == nil {
			checks.Backend = "error: no backend configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		} else if err := backend.Ping(ctx); err != nil {
			checks.Backend = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
