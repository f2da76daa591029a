package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mentesana/agendapro/internal/app"
	"github.com/mentesana/agendapro/internal/auth"
	"github.com/mentesana/agendapro/internal/calendar"
	"github.com/mentesana/agendapro/internal/config"
	"github.com/mentesana/agendapro/internal/notify"
	"github.com/mentesana/agendapro/internal/prefs"
	"github.com/mentesana/agendapro/internal/service"
	"github.com/mentesana/agendapro/internal/session"
	"github.com/mentesana/agendapro/internal/status"
	"github.com/mentesana/agendapro/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, "migrations", logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to load clinic timezone", zap.Error(err))
	}
	clock := calendar.NewClock(loc)

	st := postgres.New(pool, logger)

	var prefStore prefs.Store = prefs.NewMemory()
	if cfg.RedisAddr != "" {
		prefStore = prefs.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	webhook := notify.NewWebhook(cfg.WebhookURL, logger)
	telegram, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, logger)
	if err != nil {
		logger.Fatal("Failed to create telegram notifier", zap.Error(err))
	}

	appointments := service.NewAppointmentService(st, clock, logger, webhook, telegram)

	authn := auth.NewTokenAuthenticator(cfg.AuthSecret)

	// One admin session runs per authenticated user; it acquires the
	// snapshot feeds on sign-in and releases them on sign-out.
	var active *session.Session
	stopAuth := authn.OnChange(func(u *auth.User) {
		if active != nil {
			active.Stop()
			active = nil
		}
		if u == nil {
			return
		}
		ctrl := status.NewController(appointments.UpdateStatus, logger)
		sess := session.New(u.UID, st, prefStore, clock, ctrl, logger)
		if err := sess.Start(ctx); err != nil {
			logger.Error("Failed to start admin session", zap.String("uid", u.UID), zap.Error(err))
			return
		}
		active = sess
	})
	defer stopAuth()

	logger.Info("Agenda service started", zap.String("environment", cfg.Environment))

	<-ctx.Done()

	if active != nil {
		active.Stop()
	}
	logger.Info("Agenda service stopped")
}
