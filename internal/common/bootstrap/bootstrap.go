package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/brand-registry/backend/internal/auth/http"
	authrepo "github.com/brand-registry/backend/internal/auth/repository"
	authservice "github.com/brand-registry/backend/internal/auth/service"
	"github.com/brand-registry/backend/internal/auth/token"
	brandhttp "github.com/brand-registry/backend/internal/brand/http"
	brandrepo "github.com/brand-registry/backend/internal/brand/repository"
	brandservice "github.com/brand-registry/backend/internal/brand/service"
	"github.com/brand-registry/backend/internal/common/clock"
	"github.com/brand-registry/backend/internal/common/config"
	"github.com/brand-registry/backend/internal/common/constants"
	commoncrypto "github.com/brand-registry/backend/internal/common/crypto"
	"github.com/brand-registry/backend/internal/common/db"
	commonhttp "github.com/brand-registry/backend/internal/common/http"
	"github.com/brand-registry/backend/internal/common/jwtverify"
	"github.com/brand-registry/backend/internal/common/logger"
	userhttp "github.com/brand-registry/backend/internal/user/http"
	userrepo "github.com/brand-registry/backend/internal/user/repository"
	userservice "github.com/brand-registry/backend/internal/user/service"
)

type AuthService interface {
	authhttp.AuthService
	jwtverify.Authenticator
}

// Services is everything the HTTP layer needs. It is split out from App
// so the router can be built over fakes.
type Services struct {
	Auth   AuthService
	Users  userhttp.UserService
	Brands brandhttp.BrandService
}

type App struct {
	Config  config.APIConfig
	Log     *logger.Logger
	Pool    *pgxpool.Pool
	Handler http.Handler
}

func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, "api", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.UsingDevelopmentKey {
		log.Warn("SECRET_KEY not set, using the development key")
	}

	pool := db.NewPool(ctx, log, cfg.DatabaseURL)
	if pool == nil {
		return nil, fmt.Errorf("failed to initialize database pool")
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, log, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	services, err := newServices(cfg, log, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Pool:    pool,
		Handler: NewRouter(cfg, log, services),
	}, nil
}

func newServices(cfg config.APIConfig, log *logger.Logger, pool *pgxpool.Pool) (Services, error) {
	clk := clock.NewRealClock()
	tx := db.NewTxManager(pool)
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)

	signer, err := token.NewSigner(cfg.SecretKey, cfg.Algorithm, commoncrypto.NewUUIDGenerator(), clk)
	if err != nil {
		return Services{}, fmt.Errorf("failed to create token signer: %w", err)
	}

	userRepo := userrepo.NewPgRepository(pool)
	roleRepo := userrepo.NewPgRoleRepository(pool)
	sessions := authservice.NewSessionStore(
		authrepo.NewPgRefreshTokenRepository(pool),
		commoncrypto.NewURLSafeTokenGenerator(),
	)

	return Services{
		Auth:  authservice.NewAuthService(userRepo, roleRepo, sessions, hasher, signer, tx, cfg.AccessTokenTTL, log),
		Users: userservice.NewUserService(userRepo, hasher, tx, cfg.DefaultRoleID, log),
		Brands: brandservice.NewBrandService(
			brandrepo.NewPgRepository(pool),
			brandrepo.NewPgStateTypeRepository(pool),
			roleRepo,
			tx,
			log,
		),
	}, nil
}

// NewRouter mounts every route on a fresh mux and wraps it in the shared
// middleware chain.
func NewRouter(cfg config.APIConfig, log *logger.Logger, services Services) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", commonhttp.RootHandler())
	commonhttp.HandleRoute(mux, http.MethodGet, "/health", commonhttp.HealthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	protect := jwtverify.Middleware(services.Auth, log)
	loginLimiter := commonhttp.NewRateLimiter(
		"login",
		constants.RateLimitLoginPerSecond,
		constants.RateLimitLoginBurst,
		constants.RateLimitCleanupInterval,
		clock.NewRealClock(),
	)

	clientIP := commonhttp.NewClientIPResolver(cfg.TrustedProxies)

	authhttp.NewHandler(services.Auth, log).Register(mux, loginLimiter.Middleware(clientIP), protect, cfg.RequestTimeout)
	userhttp.NewHandler(services.Users, log).Register(mux, protect, cfg.RequestTimeout)
	brandhttp.NewHandler(services.Brands, log).Register(mux, protect, cfg.RequestTimeout)

	return commonhttp.BuildBaseHandler(log, cfg.CORSAllowedOrigins, mux)
}
