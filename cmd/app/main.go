package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardmarket/internal/app"
	"cardmarket/internal/market"

	"github.com/joho/godotenv"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. UI push endpoint
	if addr := bootstrap.Config.Push.Addr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", bootstrap.Hub)
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			slog.Info("✅ Push hub listening", slog.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Push hub failed", slog.Any("error", err))
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	// 5. Market scheduler
	interval := time.Duration(bootstrap.Config.Market.TickIntervalSec) * time.Second
	scheduler, err := market.NewScheduler(bootstrap.Engine, interval)
	if err != nil {
		slog.Error("❌ Scheduler init failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slog.Error("❌ Scheduler start failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.InfoContext(ctx, "✨ Card market fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")

	// Stop scheduling first; a tick in flight completes, then the final
	// snapshot sees a quiet market.
	scheduler.Stop()
	if err := bootstrap.SaveState(); err != nil {
		slog.Error("Final snapshot failed", slog.Any("error", err))
	} else {
		slog.Info("✅ Market state saved")
	}
}
