// Package control wires the coordinator together and manages its
// lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/boxoffice/internal/core/config"
	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/identity"
	"github.com/vietddude/boxoffice/internal/infra/ledger"
	redisclient "github.com/vietddude/boxoffice/internal/infra/redis"
	"github.com/vietddude/boxoffice/internal/infra/rpc"
	"github.com/vietddude/boxoffice/internal/infra/storage"
	"github.com/vietddude/boxoffice/internal/infra/storage/memory"
	"github.com/vietddude/boxoffice/internal/infra/storage/postgres"
	"github.com/vietddude/boxoffice/internal/session"
	"github.com/vietddude/boxoffice/internal/web"
	"github.com/vietddude/boxoffice/internal/workflow"
)

// Config holds the application configuration.
type Config struct {
	Port        int
	DefaultLang string
	Ledger      config.LedgerConfig
	Identity    identity.Config
	Redis       redisclient.Config
	Database    postgres.Config
}

// App is the main application struct managing the coordinator lifecycle.
type App struct {
	cfg         Config
	router      *rpc.Router
	session     *session.Handle
	identity    *identity.Client
	db          *postgres.DB
	redisClient *redisclient.Client
	receipts    storage.ReceiptRepository
	webServer   *web.Server
	log         *slog.Logger
}

// NewApp creates the coordinator with all dependencies initialized.
func NewApp(cfg Config) (*App, error) {

	// 1. Initialize Storage
	var receipts storage.ReceiptRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		receipts = postgres.NewReceiptRepo(db)
		slog.Info("Using PostgreSQL receipts store")
	} else {
		receipts = memory.NewReceiptRepo()
		slog.Info("Using Memory receipts store")
	}

	// 2. Initialize Ledger Transport
	router := rpc.NewRouter()
	for _, p := range cfg.Ledger.Providers {
		switch p.Transport {
		case "grpc":
			grpcProvider, err := rpc.NewGRPCProvider(context.Background(), p.Name, p.URL)
			if err != nil {
				return nil, fmt.Errorf("failed to create grpc provider: %w", err)
			}
			router.AddProvider(grpcProvider)
		default:
			router.AddProvider(rpc.NewHTTPProvider(p.Name, p.URL, cfg.Ledger.Timeout))
		}
	}

	// 3. Initialize Session
	handle := session.NewHandle(func(caller domain.Principal) *ledger.Actor {
		return ledger.New(router, caller)
	})

	identityClient := identity.NewClient(cfg.Identity)

	// Restore a session the identity provider already holds.
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if principal, err := identityClient.Identity(initCtx); err == nil {
		if err := handle.Bind(principal); err != nil {
			slog.Warn("Failed to restore session", "error", err)
		}
	}

	// 4. Initialize Catalog Cache
	var redisClient *redisclient.Client
	var cache workflow.CatalogCache
	var invalidator workflow.CacheInvalidator
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, catalog cache disabled", "error", err)
		} else {
			cache = redisClient
			invalidator = redisClient
			slog.Info("Catalog cache enabled")
		}
	}

	// 5. Initialize Workflows
	catalog := workflow.NewCatalogService(
		func() workflow.CatalogLedger { return handle.Actor() },
		cache,
	)
	moderation := workflow.NewModerationService(
		func() workflow.ModerationLedger { return handle.Actor() },
		handle,
		receipts,
		invalidator,
	)
	purchase := workflow.NewPurchaseService(
		func() workflow.PurchaseLedger { return handle.Actor() },
		handle,
		receipts,
	)

	// 6. Initialize Web Server
	health := map[string]web.HealthChecker{
		"ledger": func(ctx context.Context) error {
			for name, h := range router.Health() {
				if !h.Available {
					return fmt.Errorf("provider %s unhealthy", name)
				}
			}
			return nil
		},
	}
	if db != nil {
		health["database"] = db.Health
	}
	if redisClient != nil {
		health["redis"] = redisClient.Health
	}

	webServer := web.NewServer(web.Deps{
		Catalog:     catalog,
		Moderation:  moderation,
		Purchase:    purchase,
		Session:     handle,
		Identity:    identityClient,
		Receipts:    receipts,
		Health:      health,
		DefaultLang: cfg.DefaultLang,
	}, cfg.Port)

	return &App{
		cfg:         cfg,
		router:      router,
		session:     handle,
		identity:    identityClient,
		db:          db,
		redisClient: redisClient,
		receipts:    receipts,
		webServer:   webServer,
		log:         slog.Default(),
	}, nil
}

// Session returns the session handle.
func (a *App) Session() *session.Handle {
	return a.session
}

// Receipts returns the configured receipts repository.
func (a *App) Receipts() storage.ReceiptRepository {
	return a.receipts
}

// ProviderHealth reports health of every ledger provider.
func (a *App) ProviderHealth() map[string]rpc.HealthStatus {
	return a.router.Health()
}

// Start starts the coordinator.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.webServer.Start(); err != nil {
			a.log.Error("Web server failed", "error", err)
		}
	}()
	a.log.Info("Coordinator started", "port", a.cfg.Port, "session", a.session.State().String())
	return nil
}

// Stop stops the coordinator.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping coordinator...")

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}
	if err := a.router.Close(); err != nil {
		a.log.Warn("Failed to close ledger providers", "error", err)
	}

	return a.webServer.Stop(ctx)
}
