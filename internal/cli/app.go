package cli

import (
	"context"
	"errors"

	"github.com/nerrad567/luxctl/internal/action"
	"github.com/nerrad567/luxctl/internal/infrastructure/config"
	"github.com/nerrad567/luxctl/internal/infrastructure/database"
	"github.com/nerrad567/luxctl/internal/infrastructure/influxdb"
	"github.com/nerrad567/luxctl/internal/infrastructure/logging"
	"github.com/nerrad567/luxctl/internal/infrastructure/mqtt"
	"github.com/nerrad567/luxctl/internal/process"
	"github.com/nerrad567/luxctl/internal/sensor"

	// Registers the embedded schema with the database package.
	_ "github.com/nerrad567/luxctl/migrations"
)

// App holds the dependencies of one CLI invocation.
// It is built by the root command's pre-run hook and closed after the command returns.
type App struct {
	Config *config.Config
	Logger *logging.Logger

	DB     *database.DB
	Repo   action.Repository
	Runner *action.Runner
	Sensor sensor.Sensor

	// Optional publishers, connected only by commands that run actions.
	MQTT   *mqtt.Client
	Influx *influxdb.Client
}

// newApp opens the store and builds the runner. The store is migrated and
// the Default scope ensured before any command runs.
func newApp(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*App, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, WrapExitError(ExitStoreUnavailable, "cannot open action store", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, WrapExitError(ExitStoreUnavailable, "cannot initialise action store", err)
	}

	repo := action.NewSQLiteRepository(db.DB)
	if err := repo.Bootstrap(ctx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, WrapExitError(ExitStoreUnavailable, "cannot initialise action store", err)
	}

	src, err := sensor.New(cfg.Sensor)
	if err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, WrapExitError(ExitUsage, "invalid sensor configuration", err)
	}

	executor := process.NewRunner(process.Config{
		Timeout: cfg.GetExecutorTimeout(),
		WorkDir: cfg.Executor.WorkDir,
	})
	executor.SetLogger(logger.With("component", "executor"))

	runner := action.NewRunner(repo, executor, logger.With("component", "runner"))

	logger.Debug("action store ready", "path", db.Path())

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Repo:   repo,
		Runner: runner,
		Sensor: src,
	}, nil
}

// connectObservers connects the optional MQTT and InfluxDB clients and
// registers them with the runner. Connection failures are logged, not fatal.
func (a *App) connectObservers(ctx context.Context) {
	if a.Config.MQTT.Enabled {
		client, err := mqtt.Connect(a.Config.MQTT, a.Config.Site.ID, a.Logger.With("component", "mqtt"))
		if err != nil {
			a.Logger.Warn("MQTT unavailable, events will not be published", "error", err)
		} else {
			a.MQTT = client
			a.Runner.AddObserver(mqtt.NewPublisher(client))
		}
	}

	if a.Config.InfluxDB.Enabled {
		client, err := influxdb.Connect(ctx, a.Config.InfluxDB, a.Logger.With("component", "influxdb"))
		if err != nil {
			a.Logger.Warn("InfluxDB unavailable, readings will not be recorded", "error", err)
		} else {
			a.Influx = client
			a.Runner.AddObserver(influxdb.NewRecorder(client, a.Config.Site.ID))
		}
	}
}

// Close releases the publishers first and the store last.
func (a *App) Close() error {
	var errs []error
	if a.MQTT != nil {
		errs = append(errs, a.MQTT.Close())
	}
	if a.Influx != nil {
		errs = append(errs, a.Influx.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
