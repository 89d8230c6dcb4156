// Package app opens the configured backends and assembles the services shared by the
// HTTP server and the fitctl batch commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"heartwellness/fitness-cms/internal/config"
	"heartwellness/fitness-cms/internal/enrich"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/repository/mongo"
	"heartwellness/fitness-cms/internal/repository/sqlstore"
	"heartwellness/fitness-cms/internal/service"
	"heartwellness/fitness-cms/internal/sitemap"
	"heartwellness/fitness-cms/internal/storage"
)

const indexTimeout = time.Minute

// App owns the open store and optional file storage.
type App struct {
	Config  config.Config
	Log     *logger.Logger
	Repos   repository.Repositories
	Storage storage.FileStorage // nil when s3.enabled is false

	closers []func() error
}

// Services are the business services built on top of the store.
type Services struct {
	Auth      service.AuthService
	BodyParts service.BodyPartService
	Exercises service.ExerciseService
	Articles  service.ArticleService
	Uploads   service.UploadService
	Sitemap   *sitemap.Synchronizer
}

// New connects the content store selected by cfg.Database.Driver and, when enabled, S3 storage.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	if cfg.S3.Enabled {
		fileStorage, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		a.Storage = fileStorage
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config.Database
	switch cfg.Driver {
	case "mongo":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		a.closers = append(a.closers, func() error { return mongo.DisconnectDB(client) })

		db := client.Database(cfg.Name)
		indexCtx, cancel := context.WithTimeout(ctx, indexTimeout)
		defer cancel()
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			_ = a.Close()
			return fmt.Errorf("ensure indexes: %w", err)
		}
		a.Repos = mongo.NewRepositories(db)
		a.Log.Info("content store ready", "driver", "mongo", "database", cfg.Name)
	default:
		db, err := sqlstore.Open(cfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { return sqlstore.Close(db) })
		a.Repos = sqlstore.NewRepositories(db)
		a.Log.Info("content store ready", "driver", cfg.Driver)
	}
	return nil
}

// Services wires the business services. The article service keeps the sitemap in sync.
func (a *App) Services() Services {
	syncer := a.Sitemap()
	return Services{
		Auth:      service.NewAuthService(a.Repos.Users, a.Config.JWT.Secret, a.Config.JWT.Expiration),
		BodyParts: service.NewBodyPartService(a.Repos.BodyParts, a.Repos.Exercises),
		Exercises: service.NewExerciseService(a.Repos.Exercises, a.Repos.BodyParts, a.Repos.Keywords),
		Articles:  service.NewArticleService(a.Repos.Articles, syncer, a.Log.With("component", "articles")),
		Uploads:   service.NewUploadService(a.Storage),
		Sitemap:   syncer,
	}
}

// Sitemap returns a synchronizer writing the local file and, when configured, the S3 object.
func (a *App) Sitemap() *sitemap.Synchronizer {
	cfg := a.Config.Sitemap
	builder := sitemap.NewBuilder(a.Config.Site.BaseURL, cfg.StaticPages, a.Repos.Articles, a.Repos.Exercises)

	targets := []sitemap.Target{sitemap.FileTarget{Path: cfg.Path}}
	if cfg.PublishToS3 {
		if a.Storage == nil {
			a.Log.Warn("sitemap.publish_to_s3 is set but s3 storage is disabled")
		} else {
			targets = append(targets, sitemap.ObjectTarget{Storage: a.Storage, Key: cfg.ObjectKey})
		}
	}
	return sitemap.NewSynchronizer(builder, a.Log, targets...)
}

// ProgressStore opens the video import progress store named by youtube.progress_store.
func (a *App) ProgressStore(ctx context.Context) (enrich.ProgressStore, error) {
	switch a.Config.YouTube.ProgressStore {
	case "", "file":
		return enrich.NewFileProgressStore(a.Config.YouTube.ProgressFile), nil
	case "redis":
		rc := a.Config.Redis
		client := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", rc.Addr, err)
		}
		a.closers = append(a.closers, client.Close)
		return enrich.NewRedisProgressStore(client, rc.ProgressKey), nil
	default:
		return nil, fmt.Errorf("unknown progress store %q", a.Config.YouTube.ProgressStore)
	}
}

// MediaURL turns a stored image key into a public URL. Absolute URLs pass through.
func (a *App) MediaURL(key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if a.Storage != nil {
		return a.Storage.PublicURL(key)
	}
	return strings.TrimRight(a.Config.Site.MediaBaseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// Close releases every opened backend in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
