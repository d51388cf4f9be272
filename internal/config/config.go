package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// History backends.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

const redacted = "***REDACTED***"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout applied by the router
	HealthInterval  time.Duration // how often dependencies are probed for /readyz

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Copy history
	HistoryBackend   string // "supabase" | "postgres" | "redis"
	HistoryTable     string // PostgREST table name (supabase backend)
	HistoryLimit     int    // default page size for GET /api/copy-history
	HistoryRetention int    // max records kept per user (redis backend, 0 = unlimited)
	DatabaseURL      string // postgres DSN (postgres backend)

	// Free tier and abuse protection
	FreeLimit       int           // free generations per user (0 = unlimited)
	RateLimit       int           // generations per RateWindow per user
	RateWindow      time.Duration // fixed window length
	WebhookDedupTTL time.Duration // how long processed webhook event ids are remembered

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string // monthly plan price id
	FrontendURL         string // base for checkout redirects and magic links

	// Supabase
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseAnonKey    string // used for public auth endpoints, defaults to the service key
	SupabaseJWTSecret  string // HS256 secret used to sign access tokens
	SupabaseJWTAud     string // expected "aud" claim

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedOrigins []string // CORS origins ("*" allows all)
	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BUNDLEPITCH_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BUNDLEPITCH_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BUNDLEPITCH_REQUEST_TIMEOUT", 10*time.Second),
		HealthInterval:  mustDuration("BUNDLEPITCH_HEALTH_INTERVAL", 30*time.Second),

		// Logging
		LogLevel:  getenv("BUNDLEPITCH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BUNDLEPITCH_PRETTY_LOG", true),

		// History
		HistoryBackend:   strings.ToLower(getenv("BUNDLEPITCH_HISTORY_BACKEND", BackendSupabase)),
		HistoryTable:     getenv("BUNDLEPITCH_HISTORY_TABLE", "copy_history"),
		HistoryLimit:     getenvInt("BUNDLEPITCH_HISTORY_LIMIT", 10),
		HistoryRetention: getenvInt("BUNDLEPITCH_HISTORY_RETENTION", 0),
		DatabaseURL:      getenv("BUNDLEPITCH_DATABASE_URL", ""),

		FreeLimit:       getenvInt("BUNDLEPITCH_FREE_LIMIT", 0),
		RateLimit:       getenvInt("BUNDLEPITCH_RATE_LIMIT", 20),
		RateWindow:      mustDuration("BUNDLEPITCH_RATE_WINDOW", time.Minute),
		WebhookDedupTTL: mustDuration("BUNDLEPITCH_WEBHOOK_DEDUPE_TTL", 72*time.Hour),

		// Stripe
		StripeSecretKey:     requireEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: requireEnv("STRIPE_WEBHOOK_SECRET"),
		StripePriceID:       requireEnv("STRIPE_PRICE_ID"),
		FrontendURL:         strings.TrimRight(requireEnv("FRONTEND_URL"), "/"),

		// Supabase
		SupabaseURL:        strings.TrimRight(requireEnv("SUPABASE_URL"), "/"),
		SupabaseServiceKey: requireEnv("SUPABASE_SERVICE_KEY"),
		SupabaseAnonKey:    getenv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret:  requireEnv("SUPABASE_JWT_SECRET"),
		SupabaseJWTAud:     getenv("SUPABASE_JWT_AUDIENCE", "authenticated"),

		// Redis settings
		RedisAddr:             requireEnv("BUNDLEPITCH_REDIS_ADDR"),
		RedisUser:             getenv("BUNDLEPITCH_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BUNDLEPITCH_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("BUNDLEPITCH_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BUNDLEPITCH_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedOrigins: splitAndTrim(getenv("BUNDLEPITCH_ALLOWED_ORIGINS", "*")),
		AllowedHosts:   splitAndTrim(getenv("BUNDLEPITCH_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   splitAndTrim(getenv("BUNDLEPITCH_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("BUNDLEPITCH_TRUST_PROXY", true),
	}

	if cfg.SupabaseAnonKey == "" {
		cfg.SupabaseAnonKey = cfg.SupabaseServiceKey
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Validate checks cross-field constraints that single helpers cannot.
func (c *Config) Validate() error {
	switch c.HistoryBackend {
	case BackendSupabase, BackendRedis:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("BUNDLEPITCH_DATABASE_URL is required when BUNDLEPITCH_HISTORY_BACKEND=%s", BackendPostgres)
		}
	default:
		return fmt.Errorf("invalid BUNDLEPITCH_HISTORY_BACKEND %q (want %s, %s or %s)",
			c.HistoryBackend, BackendSupabase, BackendPostgres, BackendRedis)
	}

	if c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("BUNDLEPITCH_REDIS_PASSWORD is required when BUNDLEPITCH_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > MaxHistoryLimit {
		return fmt.Errorf("BUNDLEPITCH_HISTORY_LIMIT must be between 1 and %d, got %d", MaxHistoryLimit, c.HistoryLimit)
	}
	if c.FreeLimit < 0 {
		return fmt.Errorf("BUNDLEPITCH_FREE_LIMIT must be >= 0, got %d", c.FreeLimit)
	}
	if c.RateLimit < 1 || c.RateWindow <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d per %v", c.RateLimit, c.RateWindow)
	}
	return nil
}

// MaxHistoryLimit caps the page size a client can request.
const MaxHistoryLimit = 100

// Redacted returns a copy of c safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	for _, s := range []*string{
		&cp.StripeSecretKey,
		&cp.StripeWebhookSecret,
		&cp.SupabaseServiceKey,
		&cp.SupabaseAnonKey,
		&cp.SupabaseJWTSecret,
		&cp.RedisPassword,
		&cp.DatabaseURL,
	} {
		if *s != "" {
			*s = redacted
		}
	}
	if cp.RedisUser != "" {
		cp.RedisUser = redacted
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
