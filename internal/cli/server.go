package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"psych-academy/internal/app"
	"psych-academy/internal/config"
	"psych-academy/internal/content"
	"psych-academy/internal/infra/gemini"
	"psych-academy/internal/infra/memory"
	pgstore "psych-academy/internal/infra/postgres"
	redisstore "psych-academy/internal/infra/redis"
	"psych-academy/internal/metrics"
	transport "psych-academy/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the academy server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	checks := map[string]transport.Checker{}
	recorder := metrics.Recorder{}

	var loader memory.CourseLoader = memory.NewStaticCourseLoader(content.Bundled())
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		store := pgstore.NewCourseStore(pool)
		loader = store
		checks["postgres"] = store
		log.Info("loading course content from postgres")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("pinging redis: %w", err)
		}
		checks["redis"] = transport.CheckerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.WithField("addr", cfg.Redis.Addr).Info("connected to redis")
	}

	courseTTL := config.TTLDuration(cfg.Course.TTL, 10*time.Minute)
	var courses app.CourseRepository
	if redisClient != nil {
		courses = redisstore.NewCourseRepository(redisClient, loader, courseTTL)
	} else {
		courses = memory.NewCourseRepository(loader, courseTTL)
	}

	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	onEvict := func(string) { recorder.SessionClosed() }
	var sessions app.SessionRepository
	var sweeper interface {
		RunSweeper(ctx context.Context, interval time.Duration) error
	}
	if redisClient != nil {
		store := redisstore.NewSessionStore(redisClient, sessionTTL, onEvict)
		sessions, sweeper = store, store
	} else {
		store := memory.NewSessionStore(sessionTTL, onEvict)
		sessions, sweeper = store, store
	}

	service := app.NewAcademyService(sessions, courses, app.Options{
		DefaultCourseID: cfg.Course.ID,
		Countdown:       cfg.Game.Countdown,
		ChatTimeout:     config.TTLDuration(cfg.Tutor.ChatTimeout, 45*time.Second),
		Recorder:        recorder,
		Generator: gemini.NewClient(gemini.Config{
			APIKey:  cfg.Tutor.APIKey,
			Model:   cfg.Tutor.Model,
			BaseURL: cfg.Tutor.BaseURL,
			Timeout: config.TTLDuration(cfg.Tutor.Timeout, gemini.DefaultTimeout),
		}),
	})
	if cfg.Tutor.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, tutor will answer with a configuration notice")
	}

	// fail fast on broken content instead of on the first learner request
	if _, err := service.Course(ctx, ""); err != nil {
		return fmt.Errorf("load course %q: %w", cfg.Course.ID, err)
	}

	server := transport.NewServer(":"+finalPort, transport.NewRouter(service, checks))
	shutdownTimeout := config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", finalPort).Info("starting academy server")
		return server.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")
		return server.Shutdown(context.Background(), shutdownTimeout)
	})
	g.Go(func() error {
		return sweeper.RunSweeper(gctx, config.TTLDuration(cfg.Redis.SweepInterval, time.Minute))
	})
	return g.Wait()
}
