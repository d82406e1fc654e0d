package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/authservice/internal/auth/service"
	"github.com/aussiebroadwan/authservice/internal/auth/store"
	"github.com/aussiebroadwan/authservice/pkg/httpx"
	"github.com/aussiebroadwan/authservice/pkg/jwtx"
	"github.com/aussiebroadwan/authservice/pkg/slogx"

	_ "github.com/aussiebroadwan/authservice/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate swag init -g router.go -d ./,../../../pkg/authsdk,../../../pkg/httpx -o ../../../api/auth --outputTypes go

// RateLimits groups the per-IP limits applied to each class of route.
type RateLimits struct {
	Strict   httpx.RateLimitConfig `envPrefix:"STRICT_"`
	Moderate httpx.RateLimitConfig `envPrefix:"MODERATE_"`
	Lenient  httpx.RateLimitConfig `envPrefix:"LENIENT_"`
}

// DefaultRateLimits are the httpx profiles.
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

	signer       jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService

	Cookie     CookieConfig
	RateLimits RateLimits

	// AssetsDir is served for every path no route claims. Empty disables it.
	AssetsDir string
}

func NewRouter(
	signer jwtx.Signer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		RateLimits:   DefaultRateLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
	r.registerAssets()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Authentication Service API
//	@version		0.1.0
//	@description	Email and password authentication with optional emailed 2FA codes.
//	@description	Session tokens are EdDSA signed JWTs carried in the jwt cookie.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/authservice
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

func (r *Router) registerAuth() {
	// POST /signup - moderate rate limit by IP
	r.Mux.Handle("POST /signup",
		httpx.Chain(&SignupHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.RateLimits.Moderate),
		),
	)

	// POST /login - strict, keyed by IP + email to slow password guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService, Cookie: r.Cookie},
			httpx.RateLimitByIPAndJSONField(r.RateLimits.Strict, "email"),
		),
	)

	// POST /verify-2fa - strict, six digit codes are cheap to guess
	r.Mux.Handle("POST /verify-2fa",
		httpx.Chain(&Verify2FAHandler{AuthService: r.AuthService, Cookie: r.Cookie},
			httpx.RateLimitByIPAndJSONField(r.RateLimits.Strict, "email"),
		),
	)

	r.Mux.Handle("POST /logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService, Cookie: r.Cookie},
			httpx.RateLimitByIP(r.RateLimits.Moderate),
		),
	)

	// POST /verify-token - called by other services, lenient
	r.Mux.Handle("POST /verify-token",
		httpx.Chain(&VerifyTokenHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

func (r *Router) registerAssets() {
	if r.AssetsDir == "" {
		return
	}
	r.Mux.Handle("GET /", AssetsHandler(r.AssetsDir))
}
