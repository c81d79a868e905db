package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/holdem/internal/dependencies/clock"
	"github.com/mcoot/holdem/internal/dependencies/random"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/coordinator"
	"github.com/mcoot/holdem/internal/services/lobby"
	"github.com/mcoot/holdem/internal/services/table"
	"github.com/mcoot/holdem/internal/storage"
	"github.com/mcoot/holdem/internal/storage/memory"
	redisstorage "github.com/mcoot/holdem/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	Engine          *table.Engine
	LobbyController *lobby.Controller
	Coordinator     *coordinator.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// TableDefaults are the stakes for quick-seat tables
	// If zero value, defaults to model.DefaultTableSettings()
	TableDefaults model.TableSettings
	// Coordinator tunes the game coordinator
	// If zero value, defaults to coordinator.DefaultConfig()
	Coordinator coordinator.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	defaults := cfg.TableDefaults
	if defaults == (model.TableSettings{}) {
		defaults = model.DefaultTableSettings()
	}
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	coordCfg := cfg.Coordinator
	if coordCfg.ShowdownDelay == 0 {
		coordCfg = coordinator.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), defaults, coordCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	defaults model.TableSettings,
	coordCfg coordinator.Config,
	logger *slog.Logger,
) *App {
	engine := table.NewEngine(clk, rnd, logger.With(slog.String("component", "engine")))
	lobbyController := lobby.NewController(store, clk, rnd, logger.With(slog.String("component", "lobby")), defaults)
	coord := coordinator.NewCoordinator(engine, lobbyController, store, clk, rnd, logger, coordCfg)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Logger:          logger,
		Engine:          engine,
		LobbyController: lobbyController,
		Coordinator:     coord,
	}
}

// Close ends every live game and releases the storage backend
func (a *App) Close() error {
	a.Coordinator.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
