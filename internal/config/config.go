// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/telesales and cmd/telesalesd.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Kaosethi/telesalesautomation/internal/filters"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// App behavior
	OutputPrefix    string
	PerCallerTarget int
	IncludeWeekends bool
	Timezone        string
	RunDate         string // YYYY-MM-DD override for backfills, empty = today

	// Data sources (DB)
	UseRealDB      bool
	WebviewURL     string // shared candidate DB
	WebviewPCURL   string // per-source override
	WebviewMobURL  string
	GrafanaURL     string // redemption DB
	StoreURL       string // history / blacklist / callers / published rows
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Mock data
	MockSeed int64
	MockRows int

	// Drop toggles
	Filters filters.Options

	// Notifications
	WebhookTierA string
	WebhookNonA  string

	// Daemon
	CronSpec         string
	APIHost          string
	APIPort          int
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. Missing values never fail the load: every external collaborator
// degrades to a dry-run or a documented default instead.
func Load() *Config {
	return &Config{
		OutputPrefix:    envOr("OUTPUT_FILE_PREFIX", "CBTH"),
		PerCallerTarget: clamp(envInt("PER_CALLER_TARGET", 80), 1, 1000),
		IncludeWeekends: envBool("INCLUDE_WEEKENDS", false),
		Timezone:        envOr("APP_TIMEZONE", "Asia/Bangkok"),
		RunDate:         envOr("RUN_DATE", ""),

		UseRealDB:      envBool("USE_REAL_DB", false),
		WebviewURL:     envOr("DATABASE_URL_WEBVIEW", ""),
		WebviewPCURL:   envOr("DATABASE_URL_WEBVIEW_PC", ""),
		WebviewMobURL:  envOr("DATABASE_URL_WEBVIEW_MOBILE", ""),
		GrafanaURL:     envOr("DATABASE_URL_GRAFANA", ""),
		StoreURL:       envOr("DATABASE_URL_STORE", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		MockSeed: int64(envInt("TEST_SEED", 12345)),
		MockRows: envInt("MOCK_ROWS", 40),

		Filters: filters.Options{
			DropUnreachableRepeat:      envBool("DROP_UNREACHABLE_REPEAT", true),
			UnreachableMinCount:        clamp(envInt("UNREACHABLE_MIN_COUNT", 2), 1, 10),
			DropAnsweredThisMonth:      envBool("DROP_ANSWERED_THIS_MONTH", true),
			DropInvalidNumber:          envBool("DROP_INVALID_NUMBER", true),
			DropNotInterestedThisMonth: envBool("DROP_NOT_INTERESTED_THIS_MONTH", true),
			DropNotOwnerAsBlacklist:    envBool("DROP_NOT_OWNER_AS_BLACKLIST", true),
			DropRedeemedToday:          envBool("DROP_REDEEMED_TODAY", true),
		},

		WebhookTierA: envOr("DISCORD_WEBHOOK_A", ""),
		WebhookNonA:  envOr("DISCORD_WEBHOOK_NON_A", ""),

		CronSpec: envOr("RUN_CRON", "0 9 * * *"),
		APIHost:  envOr("API_HOST", "0.0.0.0"),
		APIPort:  envInt("API_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}
}

// CandidateURL resolves the candidate-DB connection string for a source,
// preferring the per-source URL over the shared one.
func (c *Config) CandidateURL(perSource string) string {
	if perSource != "" {
		return perSource
	}
	return c.WebviewURL
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
