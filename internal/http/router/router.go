package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/health"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/handler"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/middleware"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/response"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	DashboardHandler *handler.DashboardHandler
	JWTManager       *security.JWTManager
	Authorizer       service.AbilityAuthorizer
	CORSOrigins      []string
	MaxBodyBytes     int64
	LoginRateLimiter LoginRateLimiterFunc
	Readiness        *health.ProbeRunner
	EnableOTelHTTP   bool

	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP replace the peer
	// address. Only enable it behind a proxy that overwrites those headers,
	// otherwise clients pick their own login throttle key.
	TrustProxyHeaders bool
	LastSeen          middleware.LastSeenTracker
}

type LoginRateLimiterFunc func(http.Handler) http.Handler

// AdminListings are the dashboards mounted under /api/v1/admin, each guarded
// by the "administer" ability on the resource of the same name.
var AdminListings = []string{service.ListingUsers, service.ListingFilters, service.ListingReports}

func NewRouter(dep Dependencies) http.Handler {
	maxBody := dep.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	loginLimiter := dep.LoginRateLimiter
	if loginLimiter == nil {
		loginLimiter = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	if dep.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(maxBody))

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		ready, results := dep.Readiness.Ready(r.Context())
		if results == nil {
			results = []health.CheckResult{}
		}
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	authn := middleware.AuthMiddleware(dep.JWTManager)
	active := []func(http.Handler) http.Handler{authn}
	if dep.LastSeen != nil {
		active = append(active, middleware.TrackLastSeen(dep.LastSeen))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authn).Post("/logout", dep.AuthHandler.Logout)
		})

		r.With(active...).Get("/me", dep.UserHandler.Me)

		r.Route("/admin", func(r chi.Router) {
			r.Use(active...)
			for _, name := range AdminListings {
				r.With(middleware.RequireAbility(dep.Authorizer, service.ActionAdminister, name)).
					Get("/"+name, dep.DashboardHandler.Listing(name))
			}
			r.Get("/dashboard", dep.DashboardHandler.Dashboard)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
