package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/typeterms/typeterms/config"
	"github.com/typeterms/typeterms/storage"
)

// connectStore connects to NATS and opens the entity store.
// The caller owns the returned connection.
func connectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*nats.Conn, *storage.Store, error) {
	natsURL := cfg.NATS.URL

	// Environment variable override takes precedence
	if envURL := os.Getenv("TYPETERMS_NATS_URL"); envURL != "" {
		natsURL = envURL
	} else if envURL := os.Getenv("NATS_URL"); envURL != "" {
		natsURL = envURL
	}

	logger.Info("Connecting to NATS", "url", natsURL)

	nc, err := nats.Connect(natsURL,
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.Timeout(10*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS at %s: %w", natsURL, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := storage.NewStore(ctx, js)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("open entity store: %w", err)
	}

	logger.Info("Connected to NATS", "url", natsURL)
	return nc, store, nil
}
