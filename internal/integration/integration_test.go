package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"psych-academy/internal/app"
	"psych-academy/internal/content"
	"psych-academy/internal/domain"
	pgstore "psych-academy/internal/infra/postgres"
	pgmigrations "psych-academy/internal/infra/postgres/migrations"
	infraredis "psych-academy/internal/infra/redis"
	"psych-academy/internal/quiz"
)

func TestQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	if _, err := pgmigrations.Run(ctx, pgURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	store := pgstore.NewCourseStore(pool)
	if err := store.SaveCourse(ctx, content.Bundled()); err != nil {
		t.Fatalf("seed course: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	courses := infraredis.NewCourseRepository(redisClient, store, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute, nil)
	service := app.NewAcademyService(sessions, courses, app.Options{})

	session, err := service.StartSession(ctx, content.BundledCourseID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if n, err := redisClient.Exists(ctx, "course:"+content.BundledCourseID, "academy:session:"+session.ID()).Result(); err != nil || n != 2 {
		t.Fatalf("expected course cache and liveness key, got %d (%v)", n, err)
	}

	if _, err := service.Navigate(ctx, session.ID(), app.NavQuiz, 0); err != nil {
		t.Fatalf("open quiz: %v", err)
	}
	questions := session.Catalog().Questions()
	for i, q := range questions {
		choice := q.CorrectAnswer
		if i%2 == 1 {
			choice = (q.CorrectAnswer + 1) % len(q.Options)
		}
		if _, err := service.SelectAnswer(ctx, session.ID(), i, choice); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if _, err := service.AdvanceQuiz(ctx, session.ID()); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	view, err := service.SubmitQuiz(ctx, session.ID())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.Phase != quiz.PhaseSubmitted || view.Score == nil || *view.Score != (len(questions)+1)/2 {
		t.Fatalf("unexpected result %+v", view)
	}
	if view.Grade != quiz.GradeGood {
		t.Fatalf("expected good grade at 50%%, got %s", view.Grade)
	}

	if err := service.EndSession(ctx, session.ID()); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := service.View(ctx, session.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "academy", "POSTGRES_PASSWORD": "academypass", "POSTGRES_DB": "academy"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://academy:academypass@%s:%s/academy?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
