package memory

import (
	"context"
	"testing"
	"time"

	"psych-academy/internal/app"
	"psych-academy/internal/content"
	"psych-academy/internal/game"
)

func TestSessionStoreEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	var evicted []string
	store := newSessionStoreWithClock(time.Minute, func(id string) { evicted = append(evicted, id) },
		func() time.Time { return now })
	service := app.NewAcademyService(store,
		NewCourseRepository(NewStaticCourseLoader(content.Bundled()), time.Minute),
		app.Options{})

	idle, err := service.StartSession(ctx, "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := service.Navigate(ctx, idle.ID(), app.NavOpenLecture, 1); err != nil {
		t.Fatalf("open lecture: %v", err)
	}
	if _, err := service.SetGameMode(ctx, idle.ID(), game.ModeMatching); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	lecture, err := idle.Catalog().Lecture(1)
	if err != nil {
		t.Fatalf("lecture: %v", err)
	}
	if _, err := service.SelectTerm(ctx, idle.ID(), lecture.Game.Pairs[0].ID); err != nil {
		t.Fatalf("select term: %v", err)
	}
	if !idle.GameTicking() {
		t.Fatalf("expected game clock running")
	}

	now = now.Add(45 * time.Second)
	active, err := service.StartSession(ctx, "")
	if err != nil {
		t.Fatalf("start second session: %v", err)
	}
	if n := store.Sweep(ctx); n != 0 {
		t.Fatalf("swept %d sessions before ttl", n)
	}

	now = now.Add(30 * time.Second)
	if _, err := service.View(ctx, active.ID()); err != nil {
		t.Fatalf("touch active session: %v", err)
	}
	if n := store.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 idle session evicted, got %d", n)
	}
	if idle.GameTicking() {
		t.Fatalf("evicted session still ticking")
	}
	if len(evicted) != 1 || evicted[0] != idle.ID() {
		t.Fatalf("unexpected evictions %v", evicted)
	}
	if _, ok := store.Get(ctx, active.ID()); !ok {
		t.Fatalf("recently used session was evicted")
	}
	if _, err := service.View(ctx, idle.ID()); err == nil {
		t.Fatalf("expected evicted session to be gone")
	}
}

func TestSessionStoreWithoutTTLKeepsSessions(t *testing.T) {
	now := time.Now()
	store := newSessionStoreWithClock(0, nil, func() time.Time { return now })
	service := app.NewAcademyService(store,
		NewCourseRepository(NewStaticCourseLoader(content.Bundled()), time.Minute),
		app.Options{})
	if _, err := service.StartSession(context.Background(), ""); err != nil {
		t.Fatalf("start session: %v", err)
	}
	now = now.Add(24 * time.Hour)
	if n := store.Sweep(context.Background()); n != 0 || store.Len() != 1 {
		t.Fatalf("expected session kept, swept %d len %d", n, store.Len())
	}
}
