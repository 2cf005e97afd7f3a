package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/brand-registry/backend/internal/common/constants"
)

var (
	ErrMissingRequiredEnv   = errors.New("missing required environment variable")
	ErrInvalidSecretKey     = errors.New("SECRET_KEY must be at least 32 bytes")
	ErrInsecureSecretKey    = errors.New("SECRET_KEY must be set in production")
	ErrUnsupportedAlgorithm = errors.New("unsupported ALGORITHM")
	ErrInvalidExpiry        = errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
	ErrInvalidTrustedProxy  = errors.New("TRUSTED_PROXIES entries must be IP addresses or CIDR ranges")
)

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

type APIConfig struct {
	Environment        string
	HTTPPort           string
	DatabaseURL        string
	SecretKey          string
	Algorithm          string
	AccessTokenTTL     time.Duration
	RequestTimeout     time.Duration
	DefaultRoleID      int64
	BcryptCost         int
	CORSAllowedOrigins []string
	TrustedProxies     []netip.Prefix
	RunMigrations      bool
	LogDir             string
	LogLevel           string

	// UsingDevelopmentKey is set when SECRET_KEY was absent and the
	// development fallback was applied.
	UsingDevelopmentKey bool
}

func (c APIConfig) IsProduction() bool {
	return c.Environment == constants.EnvironmentProduction
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	var existing []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func LoadAPIConfig() (APIConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	environment := strings.ToLower(getEnv("APP_ENV", constants.EnvironmentDevelopment))

	secretKey, usingDevKey, err := resolveSecretKey(environment)
	if err != nil {
		return APIConfig{}, err
	}

	algorithm := strings.ToUpper(getEnv("ALGORITHM", constants.DefaultJWTAlgorithm))
	if _, ok := supportedAlgorithms[algorithm]; !ok {
		return APIConfig{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}

	expireMinutes, err := getPositiveIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", constants.DefaultAccessTokenMinutes)
	if err != nil {
		return APIConfig{}, err
	}

	trustedProxies, err := parseTrustedProxies(getEnv("TRUSTED_PROXIES", ""))
	if err != nil {
		return APIConfig{}, err
	}

	return APIConfig{
		Environment:         environment,
		HTTPPort:            getEnv("API_HTTP_PORT", constants.DefaultAPIHTTPPort),
		DatabaseURL:         databaseURL,
		SecretKey:           secretKey,
		Algorithm:           algorithm,
		AccessTokenTTL:      time.Duration(expireMinutes) * time.Minute,
		RequestTimeout:      getDurationEnv("API_REQUEST_TIMEOUT", constants.DefaultAPIRequestTimeout),
		DefaultRoleID:       getInt64Env("DEFAULT_ROLE_ID", constants.DefaultRoleID),
		BcryptCost:          getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", constants.DefaultCORSAllowedOrigins)),
		TrustedProxies:      trustedProxies,
		RunMigrations:       getBoolEnv("DB_RUN_MIGRATIONS", true),
		LogDir:              getEnv("LOG_DIR", constants.DefaultLogDir),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		UsingDevelopmentKey: usingDevKey,
	}, nil
}

func resolveSecretKey(environment string) (string, bool, error) {
	secret := os.Getenv("SECRET_KEY")
	production := environment == constants.EnvironmentProduction

	if secret == "" || secret == constants.DevelopmentSecretKey {
		if production {
			return "", false, ErrInsecureSecretKey
		}
		return constants.DevelopmentSecretKey, true, nil
	}

	if err := validateSecretKey(secret); err != nil {
		return "", false, err
	}
	return secret, false, nil
}

func validateSecretKey(secret string) error {
	if len(secret) < constants.SecretKeyMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidSecretKey, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func getPositiveIntEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExpiry, v)
	}
	return i, nil
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseTrustedProxies accepts single addresses and CIDR ranges.
func parseTrustedProxies(v string) ([]netip.Prefix, error) {
	entries := splitList(v)
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, entry)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, entry)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
