package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/config"
	ordercontroller "github.com/junaidrashid-git/eshop-api/controllers/order"
	usercontroller "github.com/junaidrashid-git/eshop-api/controllers/user"
	"github.com/junaidrashid-git/eshop-api/logger"
	"github.com/junaidrashid-git/eshop-api/routes"
	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/junaidrashid-git/eshop-api/store/memstore"
	"github.com/junaidrashid-git/eshop-api/store/mongostore"
	"github.com/junaidrashid-git/eshop-api/store/sqlstore"
	"github.com/junaidrashid-git/eshop-api/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("starting application", "store", cfg.Store.Driver, "addr", cfg.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Error("failed to connect to store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()
	log.Info("store connected", "driver", cfg.Store.Driver)

	if admin := cfg.Auth.Admin; admin.Email != "" {
		u, err := usercontroller.EnsureAdmin(ctx, db, admin.Name, admin.Email, admin.Password)
		if err != nil {
			log.Error("failed to bootstrap admin account", "email", admin.Email, "error", err)
			os.Exit(1)
		}
		log.Info("admin account ready", "id", u.ID, "email", u.Email)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := ordercontroller.NewHub(cfg.Server.CORSOrigins)
	defer hub.Close()

	images := upload.NewIntake(cfg.Upload.Dir, cfg.Upload.PublicPath)
	if err := os.MkdirAll(images.Dir, os.ModePerm); err != nil {
		log.Error("failed to create upload directory", "dir", images.Dir, "error", err)
		os.Exit(1)
	}

	router := routes.NewRouter(cfg, routes.Deps{
		Store:  db,
		Tokens: auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Images: images,
		Orders: ordercontroller.NewManager(db, hub),
		Hub:    hub,
	})

	if cfg.Upload.BackupDir != "" {
		backup := &upload.Backup{
			Src:       cfg.Upload.Dir,
			Dest:      cfg.Upload.BackupDir,
			Retention: cfg.Upload.BackupRetention,
			Hour:      cfg.Upload.BackupHour,
		}
		go backup.Run(ctx)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "api", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

// openStore connects the configured backend. Any failure is fatal to the
// caller.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "mongo":
		s, err := mongostore.Open(ctx, cfg.URI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "sqlite":
		s, err := sqlstore.Open(cfg.Driver, cfg.URI)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
