package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/clock"
	grpcAdapter "github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/grpc"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/memory"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/sqlite"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/backend"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/config"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/pkg/tlsconfig"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setLogLevel(cfg.LogLevel)

	sensorID := uuid.NewString()
	log.Info().Str("sensor_id", sensorID).Str("backend", cfg.Backend).Msg("starting rangefinder service")

	// Initialize repository
	var repo domain.ReadingRepository
	switch cfg.RepoType {
	case "sqlite":
		r, err := sqlite.NewReadingRepository(cfg.DBDriver, cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("failed to open SQLite database")
		}
		defer r.Close()
		repo = r
		log.Info().Str("db_path", cfg.DBPath).Str("driver", cfg.DBDriver).Msg("initialized SQLite repository")
	default:
		repo = memory.NewReadingRepository()
		log.Info().Msg("initialized in-memory repository")
	}

	// Initialize backend
	var sensor ports.DistanceSensor
	if cfg.Backend == backend.KindSimulated {
		fake := mock.NewFakeSensor(10.0, 0.5) // 10±0.5 m (hover over flat ground)
		defer fake.Close()
		sensor = fake
	}

	rangefinder, err := backend.New(cfg.Backend, cfg.Params(), clock.NewMonotonic(), sensor, backend.WithTimeout(cfg.Timeout))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create rangefinder backend")
	}
	log.Info().
		Float64("min_distance_m", cfg.MinDistanceM).
		Float64("max_distance_m", cfg.MaxDistanceM).
		Dur("timeout", cfg.Timeout).
		Str("sensor_type", rangefinder.SensorType().String()).
		Msg("initialized rangefinder backend")

	handler := grpcAdapter.NewRangefinderHandler(sensorID, rangefinder, repo)

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if cfg.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(cfg.TLSCert, cfg.TLSKey, cfg.TLSCA)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	grpcAdapter.RegisterRangefinderServer(grpcServer, handler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(grpcAdapter.ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Enable gRPC reflection for grpcurl testing
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	log.Info().Str("port", cfg.Port).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Start reconciler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := ports.NewReconciler(sensorID, rangefinder, repo, cfg.UpdateInterval, cfg.RecordInterval, cfg.Retention)
	go reconciler.Start(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}

// setLogLevel applies LOG_LEVEL, keeping info on unknown values
func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("log_level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
