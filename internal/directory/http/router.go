package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/roster/internal/directory/service"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/slogx"

	_ "github.com/aussiebroadwan/roster/api/roster" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits holds the three limiter profiles applied to the routes.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	limits       RateLimits
	logger       *slog.Logger

	Directory *service.Directory
}

func NewRouter(dir *service.Directory, buildVersion string, limits RateLimits, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		limits:       limits,
		logger:       logger,
		Directory:    dir,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Roster Directory Service API
//	@version		0.1.0
//	@description	Account directory with a single shared session.
//	@description
//	@description	Requests are form encoded, responses are JSON. Errors carry error and error_description.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/roster
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	handler := &AccountsHandler{Directory: r.Directory}

	r.Mux.Handle("POST /v1/accounts",
		httpx.Chain(http.HandlerFunc(handler.HandleRegister),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	r.Mux.Handle("GET /v1/accounts",
		httpx.Chain(http.HandlerFunc(handler.HandleList),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}

func (r *Router) registerSession() {
	handler := &SessionHandler{Directory: r.Directory}

	// Credential checks are keyed by IP and email so one address cannot
	// brute force many accounts nor many addresses one account.
	r.Mux.Handle("POST /v1/session",
		httpx.Chain(http.HandlerFunc(handler.HandleLogin),
			httpx.RateLimitByIPAndFormField(r.limits.Strict, "email"),
		),
	)

	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(handler.HandleGet),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)

	r.Mux.Handle("DELETE /v1/session",
		httpx.Chain(http.HandlerFunc(handler.HandleLogout),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Directory),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}
