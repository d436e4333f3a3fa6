package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mirskikh/inkwell/internal/config"
	"github.com/mirskikh/inkwell/internal/db"
	"github.com/mirskikh/inkwell/internal/events"
	"github.com/mirskikh/inkwell/internal/httpserver"
	"github.com/mirskikh/inkwell/internal/logging"
	authmw "github.com/mirskikh/inkwell/internal/middleware/auth"
	loggingmw "github.com/mirskikh/inkwell/internal/middleware/logging"
	"github.com/mirskikh/inkwell/internal/repo"
	"github.com/mirskikh/inkwell/internal/search"
	"github.com/mirskikh/inkwell/internal/service"
	"github.com/mirskikh/inkwell/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}
	if err := db.EnsureAdmin(ctx, gdb, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	prod := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)

	index := &search.PostIndex{Index: cfg.ESIndex}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index.ES = es
	}

	signer := &tokens.Signer{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	rp := repo.New(gdb)
	secure := cfg.IsProd()

	// expired ledger rows are dead weight, sweep them in the background
	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go func() {
		ticker := time.NewTicker(cfg.PurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				if err := rp.PurgeExpiredRefresh(purgeCtx, time.Now()); err != nil {
					logger.Error("refresh_purge_failed", "error", err)
				}
			}
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Gate:    &authmw.Gate{Repo: rp, Signer: signer, Secure: secure},
		Auth:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: rp, Signer: signer, Producer: prod}, Secure: secure},
		Posts:   &httpserver.PostHTTP{Svc: &service.PostService{Repo: rp, Index: index, Producer: prod}},
		Users:   &httpserver.UserHTTP{Svc: &service.UserService{Repo: rp}},
		Cats:    &httpserver.CategoryHTTP{Svc: &service.CategoryService{Repo: rp}},
		Images:  &httpserver.ImageHTTP{Svc: &service.ImageService{Repo: rp, UploadDir: cfg.UploadDir}},
		Setting: &httpserver.SettingHTTP{Svc: &service.SettingService{Repo: rp}},
		Contact: &httpserver.ContactHTTP{Svc: &service.ContactService{Repo: rp, Producer: prod}},
		Public: &httpserver.PublicHTTP{
			Posts:      &service.PostService{Repo: rp, Index: index, Producer: prod},
			Categories: &service.CategoryService{Repo: rp},
			Settings:   &service.SettingService{Repo: rp},
		},
		UploadDir: cfg.UploadDir,
		AdminDir:  cfg.AdminDir,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
