package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Spok95/estoque/internal/api"
	"github.com/Spok95/estoque/internal/config"
	"github.com/Spok95/estoque/internal/domain/dashboard"
	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/domain/inventory"
	"github.com/Spok95/estoque/internal/domain/items"
	"github.com/Spok95/estoque/internal/domain/purchases"
	"github.com/Spok95/estoque/internal/domain/requests"
	"github.com/Spok95/estoque/internal/domain/users"
	"github.com/Spok95/estoque/internal/infra/db"
	httpx "github.com/Spok95/estoque/internal/infra/http"
	"github.com/Spok95/estoque/internal/infra/logger"
	"github.com/Spok95/estoque/internal/infra/metrics"
	"github.com/Spok95/estoque/internal/infra/notify"
	"github.com/Spok95/estoque/internal/sheet"
)

// openStore picks the record store backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (sheet.Store, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("memory store: data is lost on exit")
		return sheet.NewMemory(), func() {}, nil

	case "xlsx", "":
		wb, err := sheet.OpenWorkbook(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("workbook opened", "path", cfg.Store.Path)
		return wb, func() { _ = wb.Close() }, nil

	case "postgres":
		if err := db.Migrate(cfg.Postgres.DSN, "migrations"); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		log.Info("db connected")
		return sheet.NewPostgres(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env, "estoque-server")
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store open failed", "driver", cfg.Store.Driver, "err", err)
		return
	}
	defer closeStore()

	if err := sheet.Bootstrap(ctx, store, cfg.Store.Seed, log); err != nil {
		log.Error("bootstrap failed", "err", err)
		return
	}

	tg, err := notify.Dial(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
	if err != nil {
		log.Warn("telegram disabled", "err", err)
	}

	itemsRepo := items.NewRepo(store)
	employeesRepo := employees.NewRepo(store)
	purchasesRepo := purchases.NewRepo(store, itemsRepo)

	dispatcher := api.NewDispatcher(log, metrics.NewActions(prometheus.DefaultRegisterer), api.Deps{
		Users:     users.NewRepo(store),
		Employees: employeesRepo,
		Items:     itemsRepo,
		Inventory: inventory.NewRepo(store, log, itemsRepo, employeesRepo, purchasesRepo, tg, now),
		Requests:  requests.NewService(store, log, employeesRepo, tg, now),
		Purchases: purchasesRepo,
		Dashboard: dashboard.NewService(store, itemsRepo, now),
	})

	srv := httpx.New(cfg.HTTP.Addr, api.NewHandler(dispatcher, log), cfg.Metrics.Enabled, cfg.HTTP.AllowedOrigins)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr, "store", cfg.Store.Driver)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
