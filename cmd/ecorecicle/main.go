// EcoRecicle Core - E-Waste Recycling Platform
//
// This is the main entry point for the EcoRecicle core service. It backs
// the recycling dashboard SPA with:
//   - A device record store persisted in SQLite
//   - Aggregated recycling metrics for the dashboard
//   - A live notification feed over WebSocket
//   - Optional MQTT and InfluxDB integrations for external consumers
//   - A simulation driver that generates background recycling activity
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/ecorecicle/ecorecicle-core/migrations"

	"github.com/ecorecicle/ecorecicle-core/internal/api"
	"github.com/ecorecicle/ecorecicle-core/internal/collectionpoint"
	"github.com/ecorecicle/ecorecicle-core/internal/device"
	"github.com/ecorecicle/ecorecicle-core/internal/feed"
	"github.com/ecorecicle/ecorecicle-core/internal/infrastructure/config"
	"github.com/ecorecicle/ecorecicle-core/internal/infrastructure/database"
	"github.com/ecorecicle/ecorecicle-core/internal/infrastructure/influxdb"
	"github.com/ecorecicle/ecorecicle-core/internal/infrastructure/logging"
	"github.com/ecorecicle/ecorecicle-core/internal/infrastructure/mqtt"
	"github.com/ecorecicle/ecorecicle-core/internal/metrics"
	"github.com/ecorecicle/ecorecicle-core/internal/simulation"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting EcoRecicle core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open database and run migrations
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
	log.Info("database migrations complete")

	// Device record store backed by SQLite
	deviceRepo := device.NewSQLiteRepository(db.DB)
	store := device.NewStore(deviceRepo)
	store.SetLogger(log)

	if refreshErr := store.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading device records: %w", refreshErr)
	}
	log.Info("device store initialised", "devices", store.Count())

	pointRepo := collectionpoint.NewSQLiteRepository(db.DB)

	// Notification feed
	notifications := feed.New()

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// WebSocket hub, created up front so store and feed listeners can
	// broadcast through it
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	wireChangeListeners(store, notifications, hub, mqttClient, influxClient, log)

	// HTTP API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Store:       store,
		Feed:        notifications,
		Points:      pointRepo,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Simulation driver (optional)
	if cfg.Simulation.Enabled {
		driver := simulation.New(store, notifications, simulation.Config{
			RegisterInterval: cfg.GetRegisterInterval(),
			CollectInterval:  cfg.GetCollectInterval(),
		})
		driver.SetLogger(log)
		if startErr := driver.Start(ctx); startErr != nil {
			return fmt.Errorf("starting simulation driver: %w", startErr)
		}
		defer func() {
			log.Info("stopping simulation driver")
			driver.Stop()
		}()
		log.Info("simulation driver started",
			"register_interval", cfg.GetRegisterInterval(),
			"collect_interval", cfg.GetCollectInterval(),
		)
	} else {
		log.Info("simulation driver disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// wireChangeListeners fans device store and feed changes out to the
// WebSocket hub, MQTT, and InfluxDB.
//
// Listeners fire only on real state transitions: the store does not
// notify for idempotent re-collections, so external consumers see each
// device event exactly once.
func wireChangeListeners(
	store *device.Store,
	notifications *feed.Feed,
	hub *api.Hub,
	mqttClient *mqtt.Client,
	influxClient *influxdb.Client,
	log *logging.Logger,
) {
	topics := mqtt.Topics{}

	store.OnChange(func(ev device.ChangeEvent) {
		hub.Broadcast(api.TopicDevices, ev.Record)

		// Recompute dashboard metrics on every transition so connected
		// dashboards stay current without polling
		if records, err := store.List(context.Background()); err == nil {
			snap := metrics.Compute(records)
			hub.Broadcast(api.TopicMetrics, snap)

			if influxClient != nil {
				byType := make(map[string]int, len(snap.CountsByType))
				for t, n := range snap.CountsByType {
					byType[string(t)] = n
				}
				influxClient.WriteSnapshot(snap.RegisteredCount, snap.CollectedCount, byType)
			}
		}

		if mqttClient != nil {
			var topic string
			switch ev.Kind {
			case device.ChangeRegistered:
				topic = topics.DeviceRegistered(ev.Record.ID)
			case device.ChangeCollected:
				topic = topics.DeviceCollected(ev.Record.ID)
			}
			if topic != "" {
				if err := mqttClient.PublishJSON(topic, ev.Record); err != nil {
					log.Warn("publishing device event", "topic", topic, "error", err)
				}
			}
		}

		if influxClient != nil {
			influxClient.WriteDeviceEvent(string(ev.Kind), string(ev.Record.Type), ev.Record.ID)
		}
	})

	notifications.OnAppend(func(ev feed.Event) {
		hub.Broadcast(api.TopicNotifications, ev)

		if mqttClient != nil {
			if err := mqttClient.PublishJSON(topics.Notification(), ev); err != nil {
				log.Warn("publishing notification", "error", err)
			}
		}
	})
}

// getConfigPath returns the configuration file path.
// Uses ECORECICLE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ECORECICLE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
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
