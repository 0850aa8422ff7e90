package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/baderali164/sevens/internal/events"
	"github.com/baderali164/sevens/internal/gateway"
	"github.com/baderali164/sevens/internal/registry"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig(getEnv("SEVENS_CONFIG", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogging(cfg.Log)

	clock := clockwork.NewRealClock()
	publisher := setupPublisher(cfg.NATS, clock)
	defer publisher.Close()

	reg := registry.New(registry.Config{
		CodeLength: cfg.Rooms.CodeLength,
		Clock:      clock,
		Publisher:  publisher,
	})
	gw := gateway.New(reg, gateway.DefaultConfig(), clock)

	server := setupServer(cfg, gw)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("sevens server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("sevens server shutdown complete")
}

func setupLogging(cfg LogConfig) {
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Level).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// setupPublisher connects the JetStream publisher when NATS is configured
// and falls back to the no-op publisher otherwise.
func setupPublisher(cfg NATSConfig, clock clockwork.Clock) events.Publisher {
	if cfg.URL == "" {
		log.Info().Msg("no NATS URL configured, lifecycle events disabled")
		return events.NewNoopPublisher()
	}

	jsCfg := events.DefaultJetStreamConfig()
	jsCfg.URL = cfg.URL
	jsCfg.StreamName = cfg.Stream
	jsCfg.SubjectPrefix = cfg.SubjectPrefix

	publisher, err := events.NewJetStreamPublisher(jsCfg, clock)
	if err != nil {
		log.Warn().Err(err).Msg("NATS unavailable, lifecycle events disabled")
		return events.NewNoopPublisher()
	}
	log.Info().
		Str("url", cfg.URL).
		Str("stream", cfg.Stream).
		Msg("publishing lifecycle events to JetStream")
	return publisher
}
