package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"rightschain/config"
	"rightschain/core"
	"rightschain/core/events"
	"rightschain/crypto"
	"rightschain/observability/logging"
	"rightschain/observability/otel"
	"rightschain/rpc"
	"rightschain/storage"
)

// logEmitter mirrors ledger events into the structured log so operators can
// follow state changes without an indexer.
type logEmitter struct {
	logger *slog.Logger
}

func (e logEmitter) Emit(evt events.Event) {
	e.logger.Info("ledger event", slog.String("type", evt.EventType()), slog.Any("event", evt))
}

func openDatabase(cfg *config.Config) (storage.Database, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemDB(), nil
	case config.BackendLevelDB:
		return storage.NewLevelDB(filepath.Join(cfg.DataDir, "state"))
	case config.BackendBolt:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, err
		}
		return storage.NewBoltDB(filepath.Join(cfg.DataDir, "state.bolt"))
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("RIGHTS_ENV"))
	logger := logging.Setup("rightsd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	admin, err := crypto.DecodeAddress(cfg.GenesisAdmin)
	if err != nil {
		logger.Error("Invalid GenesisAdmin", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := otel.Init(ctx, otel.Config{
			ServiceName: "rightsd",
			Environment: cfg.Environment,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.OTLPInsecure,
			Traces:      cfg.EnableTraces,
			Metrics:     false,
		})
		if err != nil {
			logger.Error("Failed to initialise telemetry", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
			}
		}()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	heights := core.NewManualHeight(cfg.GenesisHeight)
	ledger, err := core.NewLedger(db, admin.Array(), heights, logEmitter{logger: logger})
	if err != nil {
		logger.Error("Failed to initialise ledger", slog.Any("error", err))
		os.Exit(1)
	}

	// The execution environment normally sequences heights; standalone the
	// daemon simulates block progression with a wall-clock ticker.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.BlockInterval) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				heights.Advance(1)
			}
		}
	}()

	server := rpc.NewServer(ledger)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting JSON-RPC server", slog.String("address", cfg.RPCAddress))
		errCh <- server.Start(cfg.RPCAddress)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
