package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/transport/middleware"
)

// RouterDeps groups everything NewRouter needs.
type RouterDeps struct {
	Server config.ServerConfig
	CORS   config.CORSConfig

	Auth    *AuthHandler
	Admin   *AdminHandler
	Health  *HealthHandler
	Metrics http.Handler // nil disables the metrics route
	// MetricsPath is where Metrics is mounted.
	MetricsPath string

	Logger      middleware.Middleware
	Recovery    middleware.Middleware
	Instrument  middleware.Middleware
	Session     middleware.Middleware
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the HTTP routing tree.
//
// Global middleware, outermost first:
//
//	Recovery → RequestID → Logger → Instrument
//
// /auth adds CORS, per-IP rate limiting and optional session lookup;
// /admin requires the API key.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Chain(
		deps.Recovery,
		middleware.RequestID(),
		deps.Logger,
		deps.Instrument,
	))

	r.Get("/live", deps.Health.Live)
	r.Get("/ready", deps.Health.Ready)
	r.Get("/health", deps.Health.Health)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, deps.MetricsPath, deps.Metrics)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.CORS(deps.CORS))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Limit(deps.Server.AuthRateLimit))
		}
		if deps.Session != nil {
			r.Use(deps.Session)
		}

		r.Post("/signup", deps.Auth.SignUp)
		r.Post("/signin", deps.Auth.SignIn)
		r.Post("/thirdparty", deps.Auth.ThirdParty)
		r.Post("/thirdparty/{provider}/code", deps.Auth.ThirdPartyCode)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.APIKey(deps.Server.APIKey))

		r.Post("/sign-up-allowed", deps.Admin.IsSignUpAllowed)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", deps.Admin.ListUsers)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deps.Admin.GetUser)
				r.Delete("/", deps.Admin.DeleteUser)

				r.Get("/primary", deps.Admin.CanCreatePrimaryUser)
				r.Post("/primary", deps.Admin.CreatePrimaryUser)
				r.Get("/link", deps.Admin.CanLinkAccounts)
				r.Post("/link", deps.Admin.LinkAccounts)
				r.Post("/unlink", deps.Admin.UnlinkAccount)
				r.Post("/link-or-create", deps.Admin.LinkOrCreatePrimary)

				r.Get("/account-to-link", deps.Admin.FetchAccountToLink)
				r.Put("/account-to-link", deps.Admin.StoreAccountToLink)

				r.Get("/sign-in-allowed", deps.Admin.IsSignInAllowed)
				r.Post("/email-change-allowed", deps.Admin.IsEmailChangeAllowed)

				r.Post("/verify-email", deps.Auth.VerifyEmail)
				r.Post("/propagate-verification", deps.Admin.PropagateVerification)
			})
		})
	})

	return r
}
