package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"carecircle/internal/config"
	"carecircle/internal/database"
	"carecircle/internal/httpserver"
	"carecircle/internal/logger"
	"carecircle/internal/reminders"
	"carecircle/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.GetConfigEnv(), "config")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.Mode)
	log.Info("Starting Care Circle",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("mail_transport", cfg.Mail.Transport),
	)

	if err := database.InitDB(cfg.DB, log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var workerDone <-chan struct{}
	if cfg.Reminders.Enabled {
		mailer, err := services.NewMailer(cfg.Mail, log.Named("mail"))
		if err != nil {
			log.Fatal("Failed to init mailer", zap.Error(err))
		}
		loc, err := cfg.Reminders.Location()
		if err != nil {
			log.Fatal("Invalid reminder timezone", zap.Error(err))
		}

		store := reminders.NewGormStore(database.GetDB())
		notifier := services.NewNotifier(store, mailer, cfg.Mail.SendTimeout, cfg.Reminders.ClaimTTL, log.Named("notifier"))
		worker := services.NewReminderWorker(store, notifier, cfg.Reminders.Interval, cfg.Reminders.Lookahead,
			log.Named("reminders"), services.WithLocation(loc))
		workerDone = worker.Start(ctx)
	} else {
		log.Warn("Medication reminder worker disabled")
	}

	router := httpserver.NewRouter(cfg.Server, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down Care Circle gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if workerDone != nil {
		select {
		case <-workerDone:
		case <-shutdownCtx.Done():
			log.Warn("Reminder worker did not stop before the shutdown timeout")
		}
	}

	if sqlDB, err := database.GetDB().DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Care Circle shutdown complete")
}
