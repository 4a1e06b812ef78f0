package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/metrics"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/oauth"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/httpx"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"

	_ "github.com/aussiebroadwan/jdmatchr/api/gateway" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	publicURL    string
	dev          bool
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Auth      *service.AuthConfig
	Reader    *service.SessionReader
	Issuer    *service.SessionIssuer
	Registrar *service.Registrar
	Proxy     *service.AuthenticatedProxy
	Backend   Pinger
	Providers *oauth.Registry
	Flows     *oauth.FlowStore // Optional: nil when no provider is configured
	Metrics   *metrics.Metrics
}

func NewRouter(publicURL, buildVersion string, dev bool, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		publicURL:    publicURL,
		dev:          dev,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerOAuth()
	r.registerInsights()
	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			JDMatchr Gateway API
//	@version		0.1.0
//	@description	Session gateway for JDMatchr. Signs users in with credentials or an OAuth provider, keeps the session in an HS256 cookie
//	@description	and forwards it as a bearer token to the Analysis Backend.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/jdmatchr
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:3000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						next-auth.session-token
//	@description				HS256 session token. Named __Secure-next-auth.session-token behind https.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{
		Issuer:    r.Issuer,
		Auth:      r.Auth,
		PublicURL: r.publicURL,
		Dev:       r.dev,
	}

	// POST /login - strict rate limit by IP + email to slow credential stuffing
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndField(httpx.StrictLimit, "email"),
		),
	)

	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{Registrar: r.Registrar, Auth: r.Auth, Dev: r.dev}
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /session - polled by the browser, lenient
	r.Mux.Handle("GET /api/auth/session",
		httpx.Chain(&SessionHandler{Reader: r.Reader},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/signout",
		httpx.Chain(&SignoutHandler{Auth: r.Auth},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOAuth() {
	if r.Flows == nil || r.Providers == nil {
		return
	}

	h := &OAuthHandler{
		Providers: r.Providers,
		Flows:     r.Flows,
		Issuer:    r.Issuer,
		Auth:      r.Auth,
		PublicURL: r.publicURL,
	}

	r.Mux.Handle("GET /api/auth/signin/{provider}",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Callback creates backend users, so it gets the strict profile
	r.Mux.Handle("GET /api/auth/callback/{provider}",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInsights() {
	h := &InsightsHandler{Proxy: r.Proxy, Dev: r.dev}

	// The proxy itself rejects calls without a token. LoadSession only
	// supplies the user for logging and rate limiting.
	proxied := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.LoadSession(r.Reader),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("POST /api/analyze/process", proxied(h.HandleProcess, httpx.StrictLimit))
	r.Mux.Handle("GET /api/insights/history", proxied(h.HandleHistory, httpx.ModerateLimit))
	r.Mux.Handle("GET /api/insights/get-latest-id", proxied(h.HandleLatest, httpx.ModerateLimit))
	r.Mux.Handle("GET /api/insights/detail/{id}", proxied(h.HandleDetail, httpx.ModerateLimit))
}

func (r *Router) registerPages() {
	guard := httpx.RequireSession(r.Reader, loginPath, r.publicURL)

	r.Mux.Handle("GET /analyze", httpx.Chain(PageHandler("analyze"), guard))
	r.Mux.Handle("GET /history", httpx.Chain(PageHandler("history"), guard))
	r.Mux.Handle("GET /insights/", httpx.Chain(PageHandler("insights"), guard))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Auth, r.Backend),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
