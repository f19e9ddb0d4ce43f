package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/app"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/config"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/database"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/health"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/handler"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/middleware"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/router"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewRoleRepository,
	repository.NewFilterRepository,
	repository.NewReportRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
	provideCookieManager,
)

var ServiceSet = wire.NewSet(
	service.NewRBACService,
	service.NewUserService,
	provideTokenService,
	service.NewAuthService,
	provideRBACPermissionCacheStore,
	providePermissionResolver,
	service.NewAuthorizer,
	service.NewDashboardService,
	providePresenceService,
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.RBACAuthorizer), new(*service.RBACService)),
	wire.Bind(new(service.PermissionResolver), new(*service.CachedPermissionResolver)),
	wire.Bind(new(service.AbilityAuthorizer), new(*service.Authorizer)),
	wire.Bind(new(service.DashboardServiceInterface), new(*service.DashboardService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewDashboardHandler,
	provideLoginRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	logger := observability.InitLogger(cfg, runtime.LoggerProvider)
	slog.SetDefault(logger)
	return logger
}

// provideRuntimeDB opens the database and brings schema and RBAC seed data
// up to date before the server accepts traffic.
func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if err := database.Seed(db, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	return health.NewProbeRunner(
		cfg.ReadinessProbeTimeout,
		cfg.ServerStartGracePeriod,
		health.NewDBChecker(db, "users", "filters", "reports"),
		health.NewRedisChecker(redisClient),
	)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTAccessTTL)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)
}

func provideTokenService(cfg *config.Config, jwt *security.JWTManager) *service.TokenService {
	return service.NewTokenService(jwt, cfg.JWTAccessTTL)
}

func provideRBACPermissionCacheStore(cfg *config.Config, redisClient redis.UniversalClient) service.RBACPermissionCacheStore {
	if cfg.RBACPermissionCacheTTL <= 0 {
		return service.NewNoopRBACPermissionCacheStore()
	}
	if cfg.RedisEnabled && redisClient != nil {
		return service.NewRedisRBACPermissionCacheStore(redisClient, cfg.RedisKey("rbac_permission_cache"))
	}
	return service.NewInMemoryRBACPermissionCacheStore()
}

func providePresenceService(cfg *config.Config, userRepo repository.UserRepository) *service.PresenceService {
	return service.NewPresenceService(userRepo, cfg.LastSeenTouchInterval)
}

func providePermissionResolver(cfg *config.Config, store service.RBACPermissionCacheStore, userSvc service.UserServiceInterface) *service.CachedPermissionResolver {
	return service.NewCachedPermissionResolver(store, userSvc, cfg.RBACPermissionCacheTTL)
}

func provideLoginRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.LoginRateLimiterFunc {
	mode := middleware.FailClosed
	if cfg.AuthRateLimitFailOpen {
		mode = middleware.FailOpen
	}
	var limiter middleware.Limiter = middleware.NewLocalLimiter()
	if cfg.RedisEnabled && redisClient != nil {
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RedisKey("rl"))
	}
	return middleware.NewRateLimiter(limiter, cfg.AuthLoginRateLimitRPM, time.Minute, mode, "login").Middleware()
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	dashboardHandler *handler.DashboardHandler,
	jwt *security.JWTManager,
	authz service.AbilityAuthorizer,
	loginLimiter router.LoginRateLimiterFunc,
	readiness *health.ProbeRunner,
	lastSeen *service.PresenceService,
	cfg *config.Config,
) router.Dependencies {
	dep := router.Dependencies{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		DashboardHandler: dashboardHandler,
		JWTManager:       jwt,
		Authorizer:       authz,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		MaxBodyBytes:     cfg.HTTPMaxBodyBytes,
		LoginRateLimiter: loginLimiter,
		Readiness:        readiness,
		EnableOTelHTTP:   cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,

		TrustProxyHeaders: cfg.HTTPTrustProxyHeaders,
	}
	if lastSeen != nil {
		dep.LastSeen = lastSeen
	}
	return dep
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
