package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"psych-academy/internal/config"
	"psych-academy/internal/content"
	"psych-academy/internal/domain"
	pgstore "psych-academy/internal/infra/postgres"
	redisstore "psych-academy/internal/infra/redis"
)

// NewSeedCmd stores a course document in Postgres: the bundled course, or a
// JSON file given with --file.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load course content into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg)
			course := content.Bundled()
			if file != "" {
				if course, err = readCourseFile(file); err != nil {
					return err
				}
			}
			return runSeed(cmd.Context(), cfg, course)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON course document to load instead of the bundled course")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, course domain.Course) error {
	if err := runMigrations(ctx, cfg); err != nil {
		return err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	store := pgstore.NewCourseStore(pool)
	if err := store.SaveCourse(ctx, course); err != nil {
		return err
	}
	ids, err := store.CourseIDs(ctx)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"course":    course.ID,
		"lectures":  len(course.Lectures),
		"questions": len(course.Questions),
		"stored":    ids,
	}).Info("course seeded")

	// running servers would keep serving the old document until the cache TTL
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		cache := redisstore.NewCourseRepository(client, store, config.TTLDuration(cfg.Course.TTL, 10*time.Minute))
		if err := cache.Invalidate(ctx, course.ID); err != nil {
			log.WithError(err).Warn("could not invalidate cached course")
		}
	}
	return nil
}

func readCourseFile(path string) (domain.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Course{}, err
	}
	var course domain.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return domain.Course{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return course, nil
}
