package constants

import "time"

const (
	SecretKeyMinLength = 32
	RefreshTokenSize   = 32

	DefaultPageSkip       = 0
	DefaultPageLimit      = 10
	MaxPageLimit          = 100
	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 15
	DBPoolMinOpenConns    = 2
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAPIHTTPPort        = "8080"
	DefaultAPIRequestTimeout  = 5 * time.Second
	DefaultAccessTokenMinutes = 30
	DefaultJWTAlgorithm       = "HS256"
	DefaultRoleID             = 1
	DefaultBcryptCost         = 12
	DefaultCORSAllowedOrigins = "*"
	DevelopmentSecretKey      = "insecure-development-secret-key-change-me"
	EnvironmentProduction     = "production"
	EnvironmentDevelopment    = "development"
	DefaultLogDir             = "/var/log/brand-registry"
	DefaultApplicationName    = "brand-registry"
	TokenTypeBearer           = "bearer"
	RateLimitCleanupInterval  = 5 * time.Minute
	RateLimitLoginPerSecond   = 1.0
	RateLimitLoginBurst       = 5
	CORSMaxAgeSeconds         = "600"
	AuthorizationHeader       = "Authorization"
	AuthenticateHeader        = "WWW-Authenticate"
	BearerChallenge           = "Bearer"

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
