// Command deskflow-server is the UI automation orchestration server's
// process entrypoint: it wires the Workflow Engine, Tool Dispatcher, tool
// catalogue, Browser Extension Bridge, and Tool Transport capability
// together and runs until a shutdown signal arrives.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mediar-ai/deskflow/pkg/bridge"
	"github.com/mediar-ai/deskflow/pkg/config"
	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/indexcache"
	"github.com/mediar-ai/deskflow/pkg/requestmgr"
	"github.com/mediar-ai/deskflow/pkg/scriptexec"
	"github.com/mediar-ai/deskflow/pkg/statestore"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
	"github.com/mediar-ai/deskflow/pkg/tools"
	"github.com/mediar-ai/deskflow/pkg/transport"
	"github.com/mediar-ai/deskflow/pkg/window"
	"github.com/mediar-ai/deskflow/pkg/workflow"
)

// Version is the semantic version of the server, set via -ldflags at
// build time.
var Version = "dev"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	telemetry.Configure(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	platform := desktop.NoopPlatform{}
	windows := window.New(platform)
	windowOpts := window.DefaultOptions()
	windowOpts.Enable = cfg.WindowManagement

	store := statestore.New(cfg.StateDir)
	requests := requestmgr.New(cfg.RequestTimeout)
	caches := indexcache.New()
	scripts := scriptexec.NewShellExecutor()

	bridgeSupervisor := bridge.NewSupervisor(fmt.Sprintf(":%d", cfg.BridgePort))
	br := bridgeSupervisor.Get(ctx)

	d := dispatch.New(platform, windows, windowOpts)
	engine := workflow.New(d, store, br, windows, scripts)

	deps := tools.Deps{
		Platform: platform,
		Bridge:   br,
		Caches:   caches,
		Scripts:  scripts,
		Requests: requests,
		Sequence: engine.ExecuteNested,
	}
	tools.Register(d, deps)

	if err := runAdminSurface(ctx, cfg.AdminAddr); err != nil {
		log.Error().Err(err).Msg("failed to start admin surface")
		os.Exit(1)
	}

	if err := runToolTransport(ctx, cfg, d); err != nil {
		log.Error().Err(err).Msg("tool transport stopped with an error")
		os.Exit(1)
	}

	log.Info().Msg("deskflow-server shut down cleanly")
}

// runAdminSurface starts the loopback-only /healthz + /metrics HTTP
// surface (§6.7 expansion), independent of the Tool Transport capability.
func runAdminSurface(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(telemetry.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Str("addr", addr).Msg("admin surface listener failed")
		}
	}()
	log.Info().Str("addr", addr).Msg("admin surface listening")
	return nil
}

// runToolTransport starts the Tool Transport capability (stdio or http)
// and blocks until ctx is cancelled or the transport exits.
func runToolTransport(ctx context.Context, cfg config.Config, d *dispatch.Dispatcher) error {
	switch cfg.Transport {
	case "http":
		log.Warn().Msg("transport=http is not yet implemented by the stdio-first Tool Transport wiring; falling back to stdio")
		fallthrough
	default:
		t := transport.NewStdioTransport("deskflow-server", Version)
		if err := t.Initialize(); err != nil {
			return err
		}
		if err := transport.RegisterDispatcherTools(t, d, transport.DefaultCatalogue()); err != nil {
			return err
		}
		log.Info().Msg("starting Tool Transport capability over stdio")
		return t.Start(ctx)
	}
}
