package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourname/alquiler-bot/internal/bot"
	"github.com/yourname/alquiler-bot/internal/config"
	"github.com/yourname/alquiler-bot/internal/db"
	"github.com/yourname/alquiler-bot/internal/logger"
	"github.com/yourname/alquiler-bot/internal/metrics"
	"github.com/yourname/alquiler-bot/internal/repo"
	"github.com/yourname/alquiler-bot/internal/session"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, AppEnv: cfg.AppEnv})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	// Run migrations automatically on start
	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	tenants := repo.NewTenants(pool)
	if n, err := tenants.BackfillKeys(ctx); err != nil {
		log.WithError(err).Warn("tenant name keys not fully backfilled")
	} else if n > 0 {
		log.WithField("tenants", n).Info("tenant name keys backfilled")
	}

	var sessions session.Store
	if cfg.RedisURL != "" {
		rs, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("redis sessions: %v", err)
		}
		defer rs.Close()
		sessions = rs
		log.Info("sessions stored in redis")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		log.Info("sessions stored in memory")
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.WithField("addr", cfg.MetricsAddr).Info("metrics listening")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("bot init: %v", err)
	}
	botAPI.Debug = false

	stores := bot.Stores{
		Payments: repo.NewPayments(pool, cfg.Location),
		Expenses: repo.NewExpenses(pool, cfg.Location),
		Tenants:  tenants,
	}
	sender := bot.NewLimitedSender(botAPI, bot.DefaultSendRate, 5)
	h := bot.NewHandler(sender, cfg, stores, sessions, log, m)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.RunReminderWorker(ctx)
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.WithField("username", botAPI.Self.UserName).Info("bot started")

	// in-flight updates finish after a shutdown signal
	updateCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			botAPI.StopReceivingUpdates()
			h.Wait()
			wg.Wait()
			return
		case upd := <-updates:
			h.Dispatch(updateCtx, upd)
		}
	}
}
