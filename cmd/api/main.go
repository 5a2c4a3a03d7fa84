package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-clinic-platform/internal/adapters/auth/jwtauth"
	"pet-clinic-platform/internal/adapters/storage/postgres"
	"pet-clinic-platform/internal/config"
	"pet-clinic-platform/internal/platform/logger"
	"pet-clinic-platform/internal/router"
)

// @title Pet Clinic Platform API
// @version 1.0
// @description Plataforma de clínica veterinaria: sesiones, dueños, veterinarios, mascotas e historiales médicos.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("opening postgres", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		log.Info("postgres connected", nil)
	} else {
		log.Warn("no DATABASE_URL, using in-memory repositories", nil)
	}

	tokens := jwtauth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	h := router.NewRouter(router.Options{
		Issuer:            tokens,
		Verifier:          tokens,
		DB:                db,
		Logger:            log,
		BcryptCost:        cfg.BcryptCost,
		SeedAdminEmail:    cfg.SeedAdminEmail,
		SeedAdminPassword: cfg.SeedAdminPassword,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"err": err.Error()})
	}
}
