package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Database coordinates and token secrets are
// required; everything else falls back to a sensible default so a bare
// `go run` works against local services.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	DBMaxOpenConns int           // connection pool upper bound
	DBMaxIdleConns int           // idle connections kept warm
	DBConnLifetime time.Duration // recycle connections older than this
	DBPingTimeout  time.Duration // startup connectivity check deadline

	JWTAccessSecret  string        // secret used to sign access tokens
	JWTRefreshSecret string        // secret used to sign refresh tokens
	AccessTTL        time.Duration // access token lifetime
	RefreshTTL       time.Duration // refresh token lifetime
	BlacklistTTL     time.Duration // blacklist entry lifetime; the maximum token age

	BcryptCost int // bcrypt cost for password hashing

	MFAIssuer          string        // issuer label embedded in otpauth URIs
	MFASetupTTL        time.Duration // how long a staged MFA secret stays valid
	MFAAmountThreshold int64         // cents; transaction creates at or above require MFA

	CacheListTTL     time.Duration // per-user transaction/budget/goal lists
	CacheCategoryTTL time.Duration // near-static shared category list
	CacheSummaryTTL  time.Duration // spending summary and trend rollups

	InsightFreshness time.Duration // window during which insights are not regenerated
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:  envStr("APP_ENV", "dev"),
		Port: envStr("APP_PORT", "5000"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetime: envDur("DB_CONN_LIFETIME", 30*time.Minute),
		DBPingTimeout:  envDur("DB_PING_TIMEOUT", 5*time.Second),

		JWTAccessSecret:  must("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: must("JWT_REFRESH_SECRET"),
		AccessTTL:        envDur("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:       envDur("JWT_REFRESH_TTL", 7*24*time.Hour),
		BlacklistTTL:     envDur("TOKEN_BLACKLIST_TTL", 24*time.Hour),

		BcryptCost: envInt("BCRYPT_COST", 10),

		MFAIssuer:          envStr("MFA_ISSUER", "FinanceFlow"),
		MFASetupTTL:        envDur("MFA_SETUP_TTL", 10*time.Minute),
		MFAAmountThreshold: int64(envInt("MFA_AMOUNT_THRESHOLD", 5000)) * 100,

		CacheListTTL:     envDur("CACHE_LIST_TTL", 5*time.Minute),
		CacheCategoryTTL: envDur("CACHE_CATEGORY_TTL", time.Hour),
		CacheSummaryTTL:  envDur("CACHE_SUMMARY_TTL", 5*time.Minute),

		InsightFreshness: envDur("INSIGHT_FRESHNESS", 24*time.Hour),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
