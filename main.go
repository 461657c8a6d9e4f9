package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nicodev/webstudio/internal/catalog"
	"github.com/nicodev/webstudio/internal/config"
	"github.com/nicodev/webstudio/internal/contact"
	"github.com/nicodev/webstudio/internal/content"
	"github.com/nicodev/webstudio/internal/metrics"
	"github.com/nicodev/webstudio/internal/session"
	"github.com/nicodev/webstudio/internal/store"
	"github.com/nicodev/webstudio/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	switch {
	case cfg.GinMode != "":
		gin.SetMode(cfg.GinMode)
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database ready", "path", cfg.DatabasePath)

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return err
		}
		logger.Info("catalog loaded", "path", cfg.CatalogPath, "plans", len(cat.Plans()))
	}

	sessions := session.NewStore(cfg.SessionTTL)
	sessions.OnChange(func(active int) { metrics.ActiveSessions.Set(float64(active)) })
	go sessions.Run(ctx, time.Minute)

	var source content.Source = content.StaticSource{}
	if cfg.CMSEnabled() {
		source = content.NewCachedSource(content.NewContentfulClient(content.ContentfulConfig{
			SpaceID:     cfg.ContentfulSpaceID,
			AccessToken: cfg.ContentfulAccessToken,
			Environment: cfg.ContentfulEnvironment,
		}), cfg.ContentCacheTTL, logger)
		logger.Info("content served from Contentful", "space", cfg.ContentfulSpaceID)
	}

	var mailer contact.Mailer = contact.LogMailer{Logger: logger}
	if cfg.SMTPEnabled() {
		mailer = contact.NewSMTPMailer(contact.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			To:   cfg.ToEmail,
		})
	} else {
		logger.Warn("SMTP not configured, contact messages are only logged and stored")
	}
	contactSvc := contact.NewService(mailer, web.ContactRecorder{DB: db}, contact.Options{
		OwnerEmail: cfg.ToEmail,
		OwnerPhone: cfg.OwnerPhone,
		Logger:     logger,
		Observe:    metrics.ObserveContact,
	})

	srv := web.NewServer(web.Options{
		Catalog:    cat,
		Sessions:   sessions,
		SessionTTL: cfg.SessionTTL,
		Contact:    contactSvc,
		Content:    source,
		DB:         db,
		Logger:     logger,
		Admin: web.AdminCredentials{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
		},
		CORSOrigins:   cfg.CORSOrigins,
		ContactPerMin: cfg.ContactPerMin,
		SecureCookies: cfg.IsProduction(),
		StaticDir:     "./static",
	})

	go web.RunVisitorCleanup(ctx, db, logger, 24*time.Hour)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
