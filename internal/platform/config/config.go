package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	StorageDriver  string
	RunMigrations  bool
	MigrationsPath string

	// Tokens are issued by the external auth provider; we only verify them.
	JWTSecret string
	JWTIssuer string

	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	ProcessedEventCacheTTL time.Duration

	PosthogAPIKey   string
	PosthogEndpoint string

	WebhookSecret   string
	TreasuryAPIURL  string
	TreasuryAPIKey  string
	TreasuryTimeout time.Duration

	// OAuth2 client credentials for the treasury API; used instead of the API key when set.
	TreasuryClientID     string
	TreasuryClientSecret string
	TreasuryTokenURL     string

	ReconcileInterval      time.Duration
	AutoHealThresholdCents int64
	RateLimit              string
	CORSAllowedOrigins     []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROCESSED_EVENT_CACHE_TTL", "72h")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("TREASURY_API_URL", "")
	v.SetDefault("TREASURY_API_KEY", "")
	v.SetDefault("TREASURY_TIMEOUT", "10s")
	v.SetDefault("TREASURY_CLIENT_ID", "")
	v.SetDefault("TREASURY_CLIENT_SECRET", "")
	v.SetDefault("TREASURY_TOKEN_URL", "")
	v.SetDefault("RECONCILE_INTERVAL", "0")
	v.SetDefault("AUTO_HEAL_THRESHOLD_CENTS", 1)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            v.GetString("PGSQL_URL"),
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		StorageDriver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
		RunMigrations:          v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:         v.GetString("MIGRATIONS_PATH"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTIssuer:              v.GetString("JWT_ISSUER"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		PosthogAPIKey:          v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:        v.GetString("POSTHOG_ENDPOINT"),
		WebhookSecret:          v.GetString("WEBHOOK_SECRET"),
		TreasuryAPIURL:         v.GetString("TREASURY_API_URL"),
		TreasuryAPIKey:         v.GetString("TREASURY_API_KEY"),
		TreasuryClientID:       v.GetString("TREASURY_CLIENT_ID"),
		TreasuryClientSecret:   v.GetString("TREASURY_CLIENT_SECRET"),
		TreasuryTokenURL:       v.GetString("TREASURY_TOKEN_URL"),
		AutoHealThresholdCents: v.GetInt64("AUTO_HEAL_THRESHOLD_CENTS"),
		RateLimit:              v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, ledger state will not survive a restart.")
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.ProcessedEventCacheTTL = duration(v, "PROCESSED_EVENT_CACHE_TTL", 72*time.Hour)
	cfg.TreasuryTimeout = duration(v, "TREASURY_TIMEOUT", 10*time.Second)
	cfg.ReconcileInterval = duration(v, "RECONCILE_INTERVAL", 0)

	if cfg.AutoHealThresholdCents < 0 {
		log.Printf("Warning: Negative AUTO_HEAL_THRESHOLD_CENTS (%d). Defaulting to 1.\n", cfg.AutoHealThresholdCents)
		cfg.AutoHealThresholdCents = 1
	}

	if cfg.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET not set. Webhook signatures will not be verified.")
	}
	if cfg.TreasuryAPIURL == "" {
		log.Println("Warning: TREASURY_API_URL not set. Withdrawals and provider reconciliation are disabled.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return fallback
	}
	if raw == "0" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}
