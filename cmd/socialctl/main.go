package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "socialctl",
		Usage: "maintenance commands for the linkup backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				EnvVars: []string{"SOCIALCTL_TIMEOUT"},
				Value:   5 * time.Minute,
			},
		},
		Before: func(cmd *cli.Context) error {
			config.LoadDotEnv()
			return logger.Init("socialctl", os.Getenv("ENV"), cmd.String("log-level"))
		},
		After: func(*cli.Context) error {
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create or update tables and post indexes",
				Action: migrate,
			},
			{
				Name:   "reindex-hashtags",
				Usage:  "rebuild hashtag links from every stored post",
				Action: reindexHashtags,
			},
			{
				Name:   "check",
				Usage:  "ping every configured store",
				Action: check,
			},
		},
		ErrWriter: os.Stderr,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withDB opens every store, runs fn and closes them again.
func withDB(cmd *cli.Context, fn func(ctx context.Context, db *config.DB) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context, cmd.Duration("timeout"))
	defer cancel()

	db, err := config.InitDB(ctx, config.Load())
	if err != nil {
		return err
	}
	defer db.CloseDB()
	return fn(ctx, db)
}

func migrate(cmd *cli.Context) error {
	return withDB(cmd, func(ctx context.Context, db *config.DB) error {
		if err := repositories.AutoMigrate(db.Postgres); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		if err := repositories.NewMongoPostRepository(db.MongoDB).EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("post indexes: %w", err)
		}
		logger.Log.Info("migration complete")
		return nil
	})
}

func reindexHashtags(cmd *cli.Context) error {
	return withDB(cmd, func(ctx context.Context, db *config.DB) error {
		posts := repositories.NewMongoPostRepository(db.MongoDB)
		svc := services.New(services.PostgresRepos(db.Postgres, posts), services.Options{})
		n, err := svc.Hashtags.Reindex(ctx)
		if err != nil {
			return err
		}
		logger.Log.Info("hashtags reindexed", zap.Int("posts", n))
		return nil
	})
}

func check(cmd *cli.Context) error {
	return withDB(cmd, func(ctx context.Context, db *config.DB) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			sqlDB, err := db.Postgres.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			if err := db.Mongo.Ping(ctx, nil); err != nil {
				return fmt.Errorf("mongo: %w", err)
			}
			return nil
		})
		if db.Redis != nil {
			g.Go(func() error {
				if err := db.Redis.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		logger.Log.Info("all stores reachable")
		return nil
	})
}
