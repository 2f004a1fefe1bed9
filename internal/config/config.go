package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported record stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store string // "memory" | "redis" | "sqlite"

	// SQLite
	SQLitePath        string        // database file (created if missing)
	SQLiteBusyTimeout time.Duration // wait on a locked database before failing

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

	// Bookmarks
	ActorHeader     string // trusted header carrying the authenticated user
	DefaultPageSize int    // used when neither the request nor the profile sets one

	// YAML import
	ImportFile     string        // optional, empty = periodic import disabled
	ImportOwner    string        // optional, overrides the owner named in the file
	ReloadInterval time.Duration // interval to re-import ImportFile (default: 1h)
	GCInterval     time.Duration // interval to prune orphan tags (default: 24h)

	AllowedCIDRS []string // optional, restrict healthz/readyz to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // mutating requests allowed in a burst, per actor
	RatePerMin   int      // sustained mutating requests per minute, per actor
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKSHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKSHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKSHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKSHELF_PRETTY_LOG", true),

		// Storage
		Store:             mustStore("LINKSHELF_STORE", StoreMemory),
		SQLitePath:        getenv("LINKSHELF_SQLITE_PATH", "./linkshelf.db"),
		SQLiteBusyTimeout: mustDuration("LINKSHELF_SQLITE_BUSY_TIMEOUT", 5*time.Second),

		// Redis settings
		RedisUser:             getenv("LINKSHELF_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKSHELF_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKSHELF_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKSHELF_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Bookmarks
		ActorHeader:     getenv("LINKSHELF_ACTOR_HEADER", "X-Remote-User"),
		DefaultPageSize: getenvInt("LINKSHELF_DEFAULT_PAGE_SIZE", 30),

		// YAML import
		ImportFile:     getenv("LINKSHELF_IMPORT_FILE", ""), // Optional, empty = import disabled
		ImportOwner:    getenv("LINKSHELF_IMPORT_OWNER", ""),
		ReloadInterval: mustDuration("LINKSHELF_RELOAD_INTERVAL", time.Hour),
		GCInterval:     mustDuration("LINKSHELF_GC_INTERVAL", 24*time.Hour),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("LINKSHELF_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKSHELF_TRUST_PROXY", false),
		RateBurst:    getenvInt("LINKSHELF_RATE_BURST", 30),
		RatePerMin:   getenvInt("LINKSHELF_RATE_PER_MIN", 120),
	}

	if cfg.Store == StoreRedis {
		cfg.RedisAddr = requireEnv("LINKSHELF_REDIS_ADDR")

		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: LINKSHELF_REDIS_PASSWORD is required when LINKSHELF_REDIS_PASSWORD_REQUIRED=true")
		}
	}

	if cfg.DefaultPageSize <= 0 {
		panic(fmt.Sprintf("❌ FATAL: LINKSHELF_DEFAULT_PAGE_SIZE must be positive, got %d", cfg.DefaultPageSize))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
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

func mustStore(key, def string) string {
	v := strings.ToLower(strings.TrimSpace(getenv(key, def)))
	switch v {
	case StoreMemory, StoreRedis, StoreSQLite:
		return v
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid value for %s: %q (want memory, redis or sqlite)", key, v))
	}
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
