// Command obralogd runs the obralog record-lifecycle server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/api"
	"github.com/obralog/obralog/internal/config"
	"github.com/obralog/obralog/internal/db"
	"github.com/obralog/obralog/internal/db/migrations"
	"github.com/obralog/obralog/internal/dbpool"
	"github.com/obralog/obralog/internal/imaging"
	"github.com/obralog/obralog/internal/service"
	"github.com/obralog/obralog/internal/store"
	"github.com/obralog/obralog/internal/ws"
)

// Build-time variables set via ldflags.
var version = "0.3.0"

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	records := store.NewRecordStore(base)
	history := store.NewHistoryStore(base)
	blobs := store.NewBlobStore(base, cfg.BlobBaseURL)
	apiKeys := store.NewAPIKeyStore(base)

	// First-boot convenience: seed one API key from the environment so a
	// fresh install can authenticate before any keys exist.
	if key := os.Getenv("BOOTSTRAP_API_KEY"); key != "" {
		actor := os.Getenv("BOOTSTRAP_ACTOR")
		if actor == "" {
			actor = "admin"
		}
		if err := apiKeys.CreateAPIKey(ctx, key, actor); err != nil {
			return err
		}
		log.WithField("actor", actor).Info("bootstrap api key seeded")
	}

	photos := imaging.NewCodec(blobs, "images", log)
	signatures := imaging.NewCodec(blobs, "signatures", log)
	resolver := imaging.NewResolver(blobs)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	deps := &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Hub:         hub,
		Records:     service.NewRecordService(records, hub, log),
		Editor:      service.NewRecordEditor(records, history, photos, hub, log),
		Gate:        service.NewSignatureGate(records, signatures, hub, log),
		Reports:     service.NewReportService(records, resolver, blobs, log),
		Audit:       service.NewAuditService(history, log),
		Blobs:       blobs,
		Identity:    apiKeys,
		CORSOrigins: cfg.CORSOrigins,
		Version:     version,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"version": version,
		}).Info("obralogd listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")

	return nil
}
