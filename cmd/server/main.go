package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Cycleroom.influxDB/internal/config"
	"Cycleroom.influxDB/internal/controller"
	"Cycleroom.influxDB/internal/grafana"
	"Cycleroom.influxDB/internal/hub"
	"Cycleroom.influxDB/internal/ingest"
	"Cycleroom.influxDB/internal/logger"
	"Cycleroom.influxDB/internal/metrics"
	"Cycleroom.influxDB/internal/repository"
	"Cycleroom.influxDB/internal/routes"
	"Cycleroom.influxDB/internal/service"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	grafanaTimeout  = 5 * time.Second
)

// source is what the telemetry and selection services read from.
type source interface {
	service.MetricSource
	service.EquipmentLister
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	sugar, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer sugar.Sync()
	zap.ReplaceGlobals(sugar.Desugar())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, sugar); err != nil {
		sugar.Fatalw("server stopped", "error", err)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) error {
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	checks := map[string]controller.Pinger{}
	liveHub := hub.New(log)
	defer liveHub.Close()
	m := metrics.New(liveHub.ClientCount)

	// Telemetry source: live InfluxDB or mock data
	var src source
	dataOpts := []service.DataServiceOption{service.WithBroadcaster(liveHub), service.WithIngestRecorder(m)}
	if cfg.MockData {
		log.Warn("⚠️ MOCK_DATA enabled, serving generated telemetry")
		src = repository.NewMockSource()
	} else {
		influx := repository.NewInfluxDBRepository(cfg, log)
		defer influx.Close()
		if err := influx.Ping(startCtx); err != nil {
			return err
		}
		log.Infow("✅ Connected to InfluxDB", "url", cfg.InfluxDBURL, "bucket", cfg.InfluxDBBucket)
		if cfg.CreateBucket {
			if err := influx.EnsureBucket(startCtx); err != nil {
				return err
			}
		}
		src = influx
		checks["influxdb"] = influx
		dataOpts = append(dataOpts, service.WithReadingWriter(influx))
	}

	// Ride history
	var sessionStore service.SessionStore
	if cfg.SessionDBDSN != "" {
		sessions, err := repository.OpenSessionRepository(startCtx, cfg.SessionDBDriver, cfg.SessionDBDSN)
		if err != nil {
			return err
		}
		defer sessions.Close()
		log.Infow("✅ Session database ready", "driver", cfg.SessionDBDriver)
		sessionStore = sessions
		checks["sessions"] = sessions
		dataOpts = append(dataOpts, service.WithSessionStore(sessions))
	}

	// Rider assignments
	var assignments service.AssignmentStore
	if cfg.RedisAddr != "" {
		redisRepo, err := repository.NewRedisAssignmentRepository(startCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer redisRepo.Close()
		log.Infow("✅ Connected to Redis", "addr", cfg.RedisAddr)
		assignments = redisRepo
		checks["redis"] = redisRepo
	} else {
		assignments = repository.NewMemoryAssignmentRepository()
	}

	var annotator service.Annotator
	if cfg.GrafanaURL != "" {
		annotator = grafana.NewClient(cfg.GrafanaURL, cfg.GrafanaAPIKey, grafanaTimeout)
	}

	dataService := service.NewDataService(src, log, dataOpts...)
	selectionService := service.NewSelectionService(src, assignments, annotator, cfg.AssignmentTTL, log)
	sessionService := service.NewSessionService(sessionStore)

	if cfg.MQTTBroker != "" {
		sub := ingest.NewSubscriber(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, dataService, log)
		if err := sub.Start(); err != nil {
			return err
		}
		defer sub.Close()
		checks["mqtt"] = sub
	}

	router := routes.NewRouter(routes.Controllers{
		Data:      controller.NewDataController(dataService, log),
		Selection: controller.NewSelectionController(selectionService, log),
		Sessions:  controller.NewSessionController(sessionService, log),
		Live:      controller.NewLiveController(liveHub),
		Health:    controller.NewHealthController(checks),
	}, m, log)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	liveHub.Close()
	return srv.Shutdown(shutdownCtx)
}
