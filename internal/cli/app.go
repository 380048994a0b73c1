package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/core/services"
	"github.com/SscSPs/family_bank/internal/platform/config"
	"github.com/SscSPs/family_bank/internal/platform/treasury"
	"github.com/SscSPs/family_bank/internal/repositories/cache"
	"github.com/SscSPs/family_bank/internal/repositories/database/pgsql"
	"github.com/SscSPs/family_bank/internal/repositories/memory"
	"github.com/SscSPs/family_bank/internal/utils"
	"github.com/SscSPs/family_bank/pkg/database"
)

// app holds everything a command needs once storage and collaborators are up.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *portssvc.ServiceContainer
	posthog  *utils.PosthogClientWrapper

	pool  *pgxpool.Pool
	redis *redis.Client
}

// newApp opens storage, connects the optional collaborators, builds the
// services and seeds the system accounts.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	repos, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	var collab services.Collaborators

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = client
		collab.EventCache = cache.NewRedisEventCache(client, cfg.ProcessedEventCacheTTL)
		logger.Info("Processed event cache enabled", slog.String("redis_addr", cfg.RedisAddr))
	}

	if cfg.TreasuryAPIURL != "" {
		client, err := treasury.NewClient(ctx, treasury.Options{
			BaseURL:      cfg.TreasuryAPIURL,
			Timeout:      cfg.TreasuryTimeout,
			APIKey:       cfg.TreasuryAPIKey,
			ClientID:     cfg.TreasuryClientID,
			ClientSecret: cfg.TreasuryClientSecret,
			TokenURL:     cfg.TreasuryTokenURL,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create treasury client: %w", err)
		}
		collab.Treasury = client
	}

	a.posthog = utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	if a.posthog.IsInitialized() {
		collab.Publisher = a.posthog
	}

	a.services = services.NewServiceContainer(cfg, repos, collab)

	if err := a.services.Account.SeedSystemAccounts(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to seed system accounts: %w", err)
	}
	return a, nil
}

func (a *app) openStorage(ctx context.Context) (portsrepo.RepositoryProvider, error) {
	if a.cfg.StorageDriver == config.StorageMemory {
		a.logger.Warn("Using in-memory storage")
		return memory.NewRepositoryProvider(memory.NewStore()), nil
	}

	if a.cfg.RunMigrations {
		if err := database.RunMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, database.MigrateUp, a.logger); err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
	}

	pool, err := database.NewPgxPool(ctx, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	a.pool = pool
	return pgsql.NewRepositoryProvider(pool), nil
}

// Close releases every connection newApp opened.
func (a *app) Close() {
	if a.posthog != nil {
		a.posthog.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(a.pool, a.logger)
}
