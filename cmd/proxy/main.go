package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/estoque/internal/config"
	"github.com/Spok95/estoque/internal/infra/logger"
	"github.com/Spok95/estoque/internal/proxy"
)

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.App.Env, "estoque-proxy")

	origin := "*"
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		origin = cfg.HTTP.AllowedOrigins[0]
	}
	if cfg.Proxy.BackendURL == "" {
		log.Warn("proxy.backend_url is empty, every POST will fail with 500")
	}

	mux := http.NewServeMux()
	mux.Handle("/api", proxy.New(cfg.Proxy.BackendURL, origin, cfg.Proxy.Timeout, log))
	srv := &http.Server{Addr: cfg.Proxy.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("proxy server error", "err", err)
			stop()
		}
	}()
	log.Info("proxy started", "addr", cfg.Proxy.Addr, "backend", cfg.Proxy.BackendURL)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
