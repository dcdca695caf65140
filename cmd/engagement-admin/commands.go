package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"storyhub/internal/config"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/microservices/http-api/server"
	"storyhub/internal/microservices/http-api/service"
)

// env is what every subcommand needs once config is loaded.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "engagement-admin",
		Short:        "Maintenance tasks for the StoryHub engagement service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			log, err := logger.New(cfg.GoEnv, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			e.cfg, e.log = cfg, log.With("component", "engagement-admin")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				e.log.Sync()
			}
		},
	}

	root.AddCommand(newRecomputeCmd(e), newTokenCmd(e), newMigrateCmd(e))
	return root
}

// withServices opens the database, builds the services and hands them to fn.
func (e *env) withServices(fn func(ctx context.Context, deps server.Deps, svc *server.Services) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := server.Bootstrap(ctx, e.cfg, e.log)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, deps, server.NewServices(deps))
}

func newRecomputeCmd(e *env) *cobra.Command {
	var (
		storyID string
		all     bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild stored rating aggregates from the ratings table",
		Long: `Recalculates average_rating and rating_count for one story (--story)
or for every story (--all). Each story is recomputed under the same lock the
API uses for rating writes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (storyID != "") {
				return fmt.Errorf("pass exactly one of --story or --all")
			}
			if storyID != "" {
				if _, err := uuid.Parse(storyID); err != nil {
					return fmt.Errorf("invalid story id %q", storyID)
				}
			}

			return e.withServices(func(ctx context.Context, deps server.Deps, svc *server.Services) error {
				if storyID != "" {
					agg, err := svc.Ratings.RecomputeAggregate(ctx, storyID)
					if err != nil {
						return err
					}
					color.Green("✓ %s  average %.2f over %d ratings", agg.StoryID, agg.AverageRating, agg.RatingCount)
					return nil
				}

				ids, err := repository.NewStoryRepository(deps.DB).ListIDs(ctx)
				if err != nil {
					return fmt.Errorf("list stories: %w", err)
				}
				done, failed := recomputeAll(ctx, svc.Ratings, ids, workers, e.log)
				if failed > 0 {
					color.Yellow("recomputed %d stories, %d failed", done, failed)
					return fmt.Errorf("%d stories failed", failed)
				}
				color.Green("✓ recomputed %d stories", done)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&storyID, "story", "", "Story ID to recompute")
	cmd.Flags().BoolVar(&all, "all", false, "Recompute every story")
	cmd.Flags().IntVar(&workers, "workers", 4, "Parallel recomputes when using --all")
	return cmd
}

// recomputeAll fans the stories out over a bounded worker group. A failed
// story is logged and counted; the rest still run.
func recomputeAll(ctx context.Context, ratings service.RatingService, ids []string, workers int, log *logger.Logger) (done, failed int64) {
	if workers < 1 {
		workers = 1
	}
	var okCount, errCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		if gctx.Err() != nil {
			break
		}
		id := id
		g.Go(func() error {
			if _, err := ratings.RecomputeAggregate(gctx, id); err != nil {
				errCount.Add(1)
				log.Warn("recompute failed", "story_id", id, "error", err)
				return nil
			}
			okCount.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return okCount.Load(), errCount.Load()
}

func newTokenCmd(e *env) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user must be a UUID")
			}
			if role != "user" && role != "admin" {
				return fmt.Errorf("--role must be user or admin")
			}

			token, err := service.NewAuthService(e.cfg.JWTSecret).IssueToken(userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (subject of the token)")
	cmd.Flags().StringVar(&role, "role", "user", "Role claim: user or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the engagement tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bootstrap connects through database.Connect, which migrates.
			return e.withServices(func(ctx context.Context, deps server.Deps, svc *server.Services) error {
				color.Green("✓ schema up to date")
				return nil
			})
		},
	}
}
