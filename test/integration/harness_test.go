package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/config"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/database"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/health"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/handler"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/middleware"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/router"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Valid#Pass1234"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServerOptions struct {
	db          *gorm.DB
	cfgOverride func(cfg *config.Config)
	demoUsers   int
}

type testServer struct {
	URL    string
	DB     *gorm.DB
	Client *http.Client
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func newTestServer(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()

	db := opts.db
	if db == nil {
		db = openSQLite(t)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db, adminEmail, adminPassword); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if opts.demoUsers > 0 {
		if _, err := database.SeedDemo(db, opts.demoUsers); err != nil {
			t.Fatalf("seed demo: %v", err)
		}
	}

	cfg := &config.Config{
		JWTIssuer:              "iss",
		JWTAudience:            "aud",
		JWTAccessSecret:        "abcdefghijklmnopqrstuvwxyz123456",
		JWTAccessTTL:           15 * time.Minute,
		RBACPermissionCacheTTL: time.Minute,
		ListingDefaultPageSize: 10,
		ListingMaxPageSize:     50,
		AuthLoginRateLimitRPM:  1000,
	}
	if opts.cfgOverride != nil {
		opts.cfgOverride(cfg)
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	rbac := service.NewRBACService()
	userSvc := service.NewUserService(userRepo, roleRepo, rbac)
	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTAccessTTL)
	tokenSvc := service.NewTokenService(jwtMgr, cfg.JWTAccessTTL)
	authSvc := service.NewAuthService(userRepo, tokenSvc)
	resolver := service.NewCachedPermissionResolver(service.NewInMemoryRBACPermissionCacheStore(), userSvc, cfg.RBACPermissionCacheTTL)
	authz := service.NewAuthorizer(resolver, rbac)
	dashboards, err := service.NewDashboardService(cfg, userRepo, repository.NewFilterRepository(db), repository.NewReportRepository(db))
	if err != nil {
		t.Fatalf("dashboard service: %v", err)
	}
	limiter := middleware.NewRateLimiter(middleware.NewLocalLimiter(), cfg.AuthLoginRateLimitRPM, time.Minute, middleware.FailClosed, "login")

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authSvc, security.NewCookieManager("", false, "lax")),
		UserHandler:      handler.NewUserHandler(userSvc),
		DashboardHandler: handler.NewDashboardHandler(dashboards, authz),
		JWTManager:       jwtMgr,
		Authorizer:       authz,
		CORSOrigins:      []string{"http://localhost"},
		LoginRateLimiter: limiter.Middleware(),
		Readiness:        health.NewProbeRunner(time.Second, 0, health.NewDBChecker(db)),
		LastSeen:         service.NewPresenceService(userRepo, time.Minute),
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testServer{URL: srv.URL, DB: db, Client: newSessionClient(t, srv)}
}

func newSessionClient(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := srv.Client()
	client.Jar = jar
	return client
}

// createUser inserts an account that can log in with password.
func createUser(t *testing.T, db *gorm.DB, email, role, password string) domain.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := domain.User{Email: email, Role: role, PasswordHash: hash}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("login failed status=%d success=%v", resp.StatusCode, env.Success)
	}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, apiEnvelope) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var env apiEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func decodeData(t *testing.T, env apiEnvelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (raw=%s)", err, env.Data)
	}
}
