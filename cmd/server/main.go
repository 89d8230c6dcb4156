package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"heartwellness/fitness-cms/internal/api"
	"heartwellness/fitness-cms/internal/app"
	"heartwellness/fitness-cms/internal/config"
	"heartwellness/fitness-cms/internal/logger"
)

// @title Heart Wellness Content API
// @version 1.0
// @description Read API for articles, body parts and exercises, plus the authenticated admin API.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	defer log.Sync()

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set (JWT_SECRET)")
	}

	// --- Store, storage and services ---
	ctx := context.Background()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("could not initialize application", "error", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("failed to close backends", "error", err)
		}
	}()
	svc := application.Services()

	// --- Router ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Dependencies{
		JWTSecret:       cfg.JWT.Secret,
		CORSOrigins:     cfg.Server.CORSOrigins,
		SiteURL:         cfg.Site.BaseURL,
		Paginator:       api.Paginator{DefaultSize: cfg.API.DefaultPageSize, MaxSize: cfg.API.MaxPageSize},
		Media:           application.MediaURL,
		Log:             log.With("component", "http"),
		AuthService:     svc.Auth,
		BodyPartService: svc.BodyParts,
		ExerciseService: svc.Exercises,
		ArticleService:  svc.Articles,
		UploadService:   svc.Uploads,
		Sitemap:         svc.Sitemap,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server starting", "address", cfg.Server.Address, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}
	log.Info("server exited")
}
