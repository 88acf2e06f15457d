package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/blockplane/blockplane/cmd/blockplane/config"
	"github.com/blockplane/blockplane/lib/blockdevice"
	"github.com/blockplane/blockplane/lib/gcepd"
	"github.com/blockplane/blockplane/lib/logger"
	"github.com/blockplane/blockplane/lib/otel"
)

// setupBackend loads configuration and builds the GCE backend. The
// returned context carries the logger and is cancelled on SIGINT or
// SIGTERM, which abandons any in-flight operation wait. cleanup must be
// called before exit to flush telemetry.
func setupBackend() (context.Context, blockdevice.Backend, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	provider, otelShutdown, err := otel.Init(ctx, otel.Config{
		Enabled:     cfg.OtelEnabled,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		ServiceName: "blockplane",
	})
	if err != nil {
		slog.Warn("telemetry init failed, continuing without it", "error", err)
	}

	log := logger.New(cfg.LogLevel)
	if provider != nil && provider.LogHandler != nil {
		log = slog.New(provider.LogHandler)
	}
	ctx = logger.AddToContext(ctx, log)

	cleanup := func() {
		stop()
		if otelShutdown != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}
	}

	// ClusterID was validated above.
	clusterID, _ := uuid.Parse(cfg.ClusterID)
	backendCfg := gcepd.Config{
		Project:      cfg.Project,
		Zone:         cfg.Zone,
		ClusterID:    clusterID,
		PollInterval: cfg.PollInterval,
		PollAttempts: cfg.PollAttempts,
	}
	if provider != nil && cfg.OtelEnabled {
		backendCfg.Meter = provider.Meter
	}
	backend, err := gcepd.New(ctx, backendCfg)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return ctx, backend, cleanup, nil
}
