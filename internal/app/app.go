// Package app assembles storage, services and background workers from
// configuration. Both the API server and the admin CLI start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandenic/media-review-board/internal/auth"
	"github.com/pandenic/media-review-board/internal/config"
	"github.com/pandenic/media-review-board/internal/db"
	"github.com/pandenic/media-review-board/internal/mail"
	"github.com/pandenic/media-review-board/internal/middleware"
	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/repository/memory"
	"github.com/pandenic/media-review-board/internal/repository/postgres"
	"github.com/pandenic/media-review-board/internal/services"
	"github.com/pandenic/media-review-board/internal/worker"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	maxConns   = 10
	queueDepth = 256
)

type App struct {
	Cfg    config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool // nil with memory storage
	Repos  repository.Repositories
	Tokens *auth.TokenManager
	Jobs   *worker.Pool

	Users      *services.UserService
	Categories *services.TaxonomyService[models.Category]
	Genres     *services.TaxonomyService[models.Genre]
	Titles     *services.TitleService
	Reviews    *services.ReviewService
	Auth       *middleware.AuthMiddleware
}

// Open connects storage and builds the services. Migrations run first when
// cfg.Migrate is set.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if cfg.MinScore > cfg.MaxScore {
		return nil, fmt.Errorf("score bounds: MIN_SCORE %d > MAX_SCORE %d", cfg.MinScore, cfg.MaxScore)
	}
	a := &App{Cfg: cfg, Log: log}

	switch cfg.Storage {
	case StoragePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, maxConns)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if cfg.Migrate {
			applied, err := db.RunMigrations(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
			log.Info("migrations done", "applied", len(applied))
		}
		a.Pool = pool
		a.Repos = postgres.NewRepositories(pool)
	case StorageMemory:
		log.Warn("using in-memory storage, data is lost on exit")
		a.Repos = memory.NewRepositories()
	default:
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}

	a.Tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	a.Jobs = worker.NewPool(cfg.Workers, queueDepth)

	a.Users = services.NewUserService(a.Repos.Users, a.Tokens, mail.New(cfg.Mail, log), a.Jobs, cfg)
	a.Categories = services.NewTaxonomyService(a.Repos.Categories)
	a.Genres = services.NewTaxonomyService(a.Repos.Genres)
	a.Titles = services.NewTitleService(a.Repos)
	a.Reviews = services.NewReviewService(a.Repos, services.ScoreBounds{Min: cfg.MinScore, Max: cfg.MaxScore})
	a.Auth = middleware.NewAuthMiddleware(a.Tokens, a.Repos.Users)
	return a, nil
}

// Close drains pending jobs and releases the database pool.
func (a *App) Close() {
	a.Jobs.Stop()
	if a.Pool != nil {
		a.Pool.Close()
	}
}
