// Command producer stands in for the scripting subsystem: it pushes
// synthetic distance readings to a running rangefinder service.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	grpcAdapter "github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/grpc"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/pkg/tlsconfig"
)

// Config holds producer configuration
type Config struct {
	ServerAddr   string
	PushInterval time.Duration
	BaseDistance float64 // meters
	Variation    float64 // +/- meters
	QualityPct   float64 // negative sends distance-only readings
	TLSCert      string
	TLSKey       string
	TLSCA        string
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config := loadConfig()

	creds := insecure.NewCredentials()
	if config.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadClientTLS(config.TLSCert, config.TLSKey, config.TLSCA)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		creds = credentials.NewTLS(tlsCfg)
	}

	conn, err := grpc.NewClient(config.ServerAddr, grpc.WithTransportCredentials(creds))
	if err != nil {
		log.Fatal().Err(err).Str("addr", config.ServerAddr).Msg("failed to create client")
	}
	defer conn.Close()

	client := grpcAdapter.NewClient(conn)
	sensor := mock.NewFakeSensor(config.BaseDistance, config.Variation)
	defer sensor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("addr", config.ServerAddr).
		Dur("interval", config.PushInterval).
		Msg("pushing readings")

	ticker := time.NewTicker(config.PushInterval)
	defer ticker.Stop()

	var pushed int
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("pushed", pushed).Msg("producer stopped")
			return
		case <-ticker.C:
		}

		distance, err := sensor.ReadDistance(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to generate distance")
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, config.PushInterval)
		if config.QualityPct < 0 {
			_, err = client.SubmitReading(callCtx, distance)
		} else {
			_, err = client.SubmitReadingWithQuality(callCtx, distance, config.QualityPct)
		}
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("failed to push reading")
			continue
		}
		pushed++

		if pushed%50 == 0 {
			logState(ctx, client)
		}
	}
}

func logState(ctx context.Context, client *grpcAdapter.Client) {
	state, err := client.GetState(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get state")
		return
	}
	log.Info().
		Float64("distance_m", state.DistanceM).
		Str("status", state.Status).
		Int("quality_pct", int(state.QualityPct)).
		Bool("quality_present", state.QualityPresent).
		Msg("rangefinder state")
}

// loadConfig reads configuration from environment variables
func loadConfig() Config {
	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = "localhost:50052"
	}

	interval := 100 * time.Millisecond
	if s := os.Getenv("PUSH_INTERVAL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			interval = d
		}
	}

	return Config{
		ServerAddr:   addr,
		PushInterval: interval,
		BaseDistance: envFloat("BASE_DISTANCE_M", 10.0),
		Variation:    envFloat("VARIATION_M", 0.5),
		QualityPct:   envFloat("QUALITY_PCT", -1),
		TLSCert:      os.Getenv("TLS_CERT"),
		TLSKey:       os.Getenv("TLS_KEY"),
		TLSCA:        os.Getenv("TLS_CA"),
	}
}

func envFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return fallback
}
