package main

import (
	"context"
	"fmt"
	"time"

	_ "github.com/nerrad567/smarthome-core/migrations"

	"github.com/nerrad567/smarthome-core/internal/api"
	"github.com/nerrad567/smarthome-core/internal/automation"
	"github.com/nerrad567/smarthome-core/internal/controller"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/config"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/database"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/logging"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/smarthome-core/internal/location"
	"github.com/nerrad567/smarthome-core/internal/scheduler"
)

// devicePowerEvery writes per-device power points every N engine ticks.
const devicePowerEvery = 12

// run is the server lifecycle, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - configPath: YAML configuration file
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, configPath string) error {
	log := logging.Default()
	log.Info("starting smart home core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	schema, pending, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	log.Info("database migrations complete", "schema_version", schema, "pending", pending)

	core, err := buildCore(cfg, log)
	if err != nil {
		return err
	}

	var metrics controller.Metrics
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB, core.home.Name())
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		metrics = controller.NewInfluxMetrics(influxClient, core.home, devicePowerEvery)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	ctrl, err := controller.New(controller.Deps{
		Home:              core.home,
		Engine:            core.engine,
		Scheduler:         core.scheduler,
		Scenes:            core.scenes,
		Repo:              automation.NewSQLiteRepository(db.DB),
		Metrics:           metrics,
		Logger:            log.Component("controller"),
		EngineInterval:    cfg.GetTickInterval(),
		SchedulerInterval: cfg.GetSchedulerInterval(),
	})
	if err != nil {
		return fmt.Errorf("creating controller: %w", err)
	}

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = startMQTT(ctx, cfg, ctrl, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.API.Enabled {
		deps := api.Deps{
			Config:       cfg.API,
			WS:           cfg.WebSocket,
			Logger:       log.Component("api"),
			Controller:   ctrl,
			DB:           db,
			Version:      version,
			HistoryLimit: cfg.Automation.HistoryLimit,
		}
		// Typed nils must not reach the interface fields.
		if mqttClient != nil {
			deps.MQTT = mqttClient
		}
		if influxClient != nil {
			deps.InfluxDB = influxClient
		}
		server, apiErr := api.New(deps)
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := server.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API disabled")
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, running until shutdown signal",
		"rules", len(core.engine.Rules()),
		"tasks", len(core.scheduler.Tasks()),
		"timezone", cfg.Site.Timezone,
	)

	if err := ctrl.Run(ctx); err != nil {
		return fmt.Errorf("running controller: %w", err)
	}

	log.Info("smart home core stopped")
	return nil
}

// core holds the automation graph built from configuration.
type core struct {
	home      *location.Home
	engine    *automation.Engine
	scheduler *scheduler.Scheduler
	scenes    *automation.SceneSet
}

// buildCore builds the home, rules, scheduled tasks and scenes from config.
func buildCore(cfg *config.Config, log *logging.Logger) (*core, error) {
	home, err := location.FromConfig(cfg.Home)
	if err != nil {
		return nil, fmt.Errorf("building home: %w", err)
	}
	home.SetLogger(log.Component("device"))
	env := location.Environment(home)

	engine := automation.NewEngine(env, log.Component("automation"))
	engine.SetLocation(cfg.Location())
	rules, err := automation.BuildRules(cfg.Automation.Rules)
	if err != nil {
		return nil, fmt.Errorf("building rules: %w", err)
	}
	for _, r := range rules {
		if err := engine.AddRule(r); err != nil {
			return nil, fmt.Errorf("adding rule: %w", err)
		}
	}

	sched := scheduler.New(env, scheduler.SystemClock{}, log.Component("scheduler"))
	sched.SetLocation(cfg.Location())
	for i, tc := range cfg.Automation.Tasks {
		at, err := automation.ParseTimeOfDay(tc.Time)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		action, err := automation.BuildAction(tc.Action)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if err := sched.Add(at, tc.Description, action); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
	}

	scenes, err := automation.NewSceneSet(automation.DefaultScenes(cfg.Automation.MainRoom)...)
	if err != nil {
		return nil, fmt.Errorf("building scenes: %w", err)
	}

	return &core{home: home, engine: engine, scheduler: sched, scenes: scenes}, nil
}

// startMQTT connects to the broker and starts the command/event bridge.
func startMQTT(ctx context.Context, cfg *config.Config, ctrl *controller.Controller, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg.MQTT, mqtt.Presence{
		Home:    ctrl.Home().Name(),
		Version: version,
		Rules:   len(ctrl.Engine().Rules()),
		Tasks:   len(ctrl.Scheduler().Tasks()),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log.Component("mqtt"))
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	bridge := controller.NewMQTTBridge(ctrl, client, log.Component("mqtt-bridge"))
	if err := bridge.Start(); err != nil {
		client.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("starting MQTT bridge: %w", err)
	}
	ctrl.AddSink(bridge)
	go bridge.Run(ctx)

	return client, nil
}

// healthCheckTimeout bounds the startup health check.
const healthCheckTimeout = 10 * time.Second

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
