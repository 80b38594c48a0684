// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"os"

	"github.com/mealmatch/planner/internal/application/library"
	"github.com/mealmatch/planner/internal/application/planner"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/saved"
	"github.com/mealmatch/planner/internal/domain/session"
	"github.com/mealmatch/planner/internal/infrastructure/cache"
	"github.com/mealmatch/planner/internal/infrastructure/catalog"
	"github.com/mealmatch/planner/internal/infrastructure/config"
	"github.com/mealmatch/planner/internal/infrastructure/http/handlers"
	"github.com/mealmatch/planner/internal/infrastructure/http/server"
	"github.com/mealmatch/planner/internal/infrastructure/messaging"
	"github.com/mealmatch/planner/internal/infrastructure/monitoring"
	gormStore "github.com/mealmatch/planner/internal/infrastructure/persistence/gorm"
	"github.com/mealmatch/planner/internal/infrastructure/persistence/memory"
	"github.com/mealmatch/planner/internal/infrastructure/persistence/postgres"
	redisStore "github.com/mealmatch/planner/internal/infrastructure/persistence/redis"
	"github.com/mealmatch/planner/internal/infrastructure/persistence/sqlite"
	"github.com/mealmatch/planner/internal/infrastructure/recognition"
	"github.com/mealmatch/planner/internal/ports/inbound"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/mealmatch/planner/pkg/healthcheck"
	"github.com/mealmatch/planner/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPathEnv names the environment variable holding an explicit config file path
const ConfigPathEnv = "MEALMATCH_CONFIG"

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StorageModule,
	CatalogModule,
	MonitoringModule,
	EventModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load(os.Getenv(ConfigPathEnv))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// Pinger reports whether a backing store is reachable
type Pinger func(ctx context.Context) error

// Stores groups the persistence adapters chosen by storage.driver
type Stores struct {
	fx.Out

	KeyValue outbound.KeyValueStore
	Cache    outbound.CacheRepository
	Ping     Pinger
}

// StorageModule provides the key-value store for saved recipes and the
// cache holding planning sessions
var StorageModule = fx.Provide(
	NewStores,
	func(c outbound.CacheRepository, cfg *config.Config, log *zap.Logger) outbound.SessionRepository {
		return cache.NewSessionRepository(c, cfg.Session.TTL, log)
	},
)

// NewStores opens the backend named by cfg.Storage.Driver. SQL drivers keep
// sessions in an in-process cache; the redis driver keeps both in Redis.
func NewStores(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		db, err := openSQL(cfg, log)
		if err != nil {
			return Stores{}, err
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})

		kv := gormStore.NewKeyValueStore(db)
		sessions := newSessionCache(lc, cfg.Session)
		return Stores{KeyValue: kv, Cache: sessions, Ping: kv.Ping}, nil

	case config.DriverRedis:
		client, err := redisStore.NewClient(cfg.Redis, cfg.RedisAddress(), log)
		if err != nil {
			return Stores{}, err
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			return client.Close()
		}})

		kv := redisStore.NewKeyValueStore(client, cfg.Redis.KeyPrefix)
		return Stores{
			KeyValue: kv,
			Cache:    redisStore.NewCacheRepository(client, cfg.Redis.KeyPrefix, log),
			Ping:     kv.Ping,
		}, nil

	case config.DriverMemory:
		log.Warn("Using in-memory storage; saved recipes are lost on restart")
		sessions := newSessionCache(lc, cfg.Session)
		return Stores{
			KeyValue: memory.NewKeyValueStore(),
			Cache:    sessions,
			Ping:     func(context.Context) error { return nil },
		}, nil
	}
	return Stores{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// newSessionCache keeps selections in process and purges expired ones on
// the configured interval until the app stops
func newSessionCache(lc fx.Lifecycle, cfg config.SessionConfig) *memory.CacheRepository {
	sessions := memory.NewCacheRepository(cfg.CleanupInterval)
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
		return sessions.Close()
	}})
	return sessions
}

func openSQL(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.Storage.Driver == config.DriverPostgres {
		return postgres.Open(cfg.Storage, log)
	}

	db, err := sqlite.SetupDatabase(cfg.Storage.Path, gormStore.ParseLogLevel(cfg.Storage.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
	}
	log.Info("Connected to SQLite database", zap.String("path", cfg.Storage.Path))
	return db, nil
}

// CatalogModule provides the ingredient and recipe catalog
var CatalogModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *catalog.FileSource {
		return catalog.NewFileSource(cfg.Catalog.IngredientsPath, cfg.Catalog.RecipesPath, log)
	},
	NewCatalogProvider,
	func(p *catalog.Provider) outbound.CatalogProvider { return p },
)

// NewCatalogProvider loads the catalog once. A load failure is logged and
// leaves the catalog empty; the server still starts.
func NewCatalogProvider(source *catalog.FileSource, metrics *monitoring.Metrics, log *zap.Logger) *catalog.Provider {
	provider := catalog.NewProvider(source, log)
	_ = (&instrumentedReloader{provider: provider, metrics: metrics}).Reload(context.Background())
	return provider
}

// instrumentedReloader records catalog reloads as metrics
type instrumentedReloader struct {
	provider *catalog.Provider
	metrics  *monitoring.Metrics
}

func (r *instrumentedReloader) Reload(ctx context.Context) error {
	err := r.provider.Reload(ctx)
	if r.metrics != nil {
		current := r.provider.Current()
		r.metrics.RecordCatalogReload(err, current.IngredientCount(), current.RecipeCount())
	}
	return err
}

// MonitoringModule provides metrics, tracing and health checks
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *monitoring.Metrics {
		if !cfg.Monitoring.EnableMetrics {
			return nil
		}
		return monitoring.NewMetrics(log)
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(cfg.App, cfg.Monitoring, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
	NewHealthCheck,
)

// NewHealthCheck registers the storage and catalog checks
func NewHealthCheck(cfg *config.Config, ping Pinger, catalogs outbound.CatalogProvider, log *zap.Logger) *healthcheck.HealthCheck {
	health := healthcheck.New(cfg.App.Version, log.Named("health"))
	health.Register("storage", healthcheck.NewPingChecker(ping))
	health.Register("catalog", healthcheck.NewCustomChecker(func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		current := catalogs.Current()
		counts := map[string]int{
			"ingredients": current.IngredientCount(),
			"recipes":     current.RecipeCount(),
		}
		if current.IngredientCount() == 0 {
			return healthcheck.StatusDegraded, "catalog is empty", counts
		}
		return healthcheck.StatusHealthy, "", counts
	}))
	return health
}

// EventModule provides the in-process event bus
var EventModule = fx.Provide(
	messaging.NewEventBus,
	func(bus *messaging.EventBus) outbound.MessageBus { return bus },
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(log *zap.Logger) outbound.IngredientRecognizer {
		return recognition.NewStaticRecognizer(nil, 0, log)
	},
	planner.NewService,
	func(store outbound.KeyValueStore, bus outbound.MessageBus, cfg *config.Config, log *zap.Logger) inbound.LibraryService {
		return library.NewService(store, cfg.Storage.SavedKey, log, library.WithEvents(bus))
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewValidator,
	func(p inbound.PlannerService, v *handlers.Validator, cfg *config.Config, log *zap.Logger) *handlers.PlannerHandlers {
		return handlers.NewPlannerHandlers(p, v, cfg.Server.MaxUploadBytes, log)
	},
	handlers.NewLibraryHandlers,
	server.NewServer,
)

// LifecycleModule wires event subscribers, the catalog watcher and the server
var LifecycleModule = fx.Invoke(
	SubscribeEvents,
	RegisterCatalogWatcher,
	RegisterLifecycleHooks,
)

// SubscribeEvents attaches metrics and debug logging to domain events
func SubscribeEvents(bus outbound.MessageBus, metrics *monitoring.Metrics, catalogs outbound.CatalogProvider, log *zap.Logger) {
	if metrics != nil {
		monitoring.SubscribeDomainEvents(bus, metrics)
		current := catalogs.Current()
		metrics.SetCatalogSize(current.IngredientCount(), current.RecipeCount())
	}
	messaging.LogEvents(bus, log,
		session.IngredientAddedEvent{}.EventName(),
		session.IngredientRemovedEvent{}.EventName(),
		recipe.RecipesGeneratedEvent{}.EventName(),
		saved.RecipeSavedEvent{}.EventName(),
		saved.RecipeRemovedEvent{}.EventName(),
	)
}

// RegisterCatalogWatcher reloads the catalog on file changes when catalog.watch is set
func RegisterCatalogWatcher(
	lc fx.Lifecycle,
	cfg *config.Config,
	source *catalog.FileSource,
	provider *catalog.Provider,
	metrics *monitoring.Metrics,
	log *zap.Logger,
) error {
	if !cfg.Catalog.Watch {
		return nil
	}

	watcher, err := catalog.NewWatcher(
		source.Paths(),
		&instrumentedReloader{provider: provider, metrics: metrics},
		cfg.Catalog.WatchDebounce,
		log,
	)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			watcher.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return watcher.Stop()
		},
	})
	return nil
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting MealMatch planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("storage", cfg.Storage.Driver),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down MealMatch planner")

			if cfg.Server.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer cancel()
			}
			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
