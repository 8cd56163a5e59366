package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"psych-academy/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions stay in a local map because their game clocks and subscribers
// live in this process. Redis holds a liveness key per session whose TTL is
// refreshed on every access; once the key expires the session is evicted.
type SessionStore struct {
	client  *redis.Client
	ttl     time.Duration
	onEvict func(id string)

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

// NewSessionStore returns a store; onEvict, if set, is told about every
// session dropped because its liveness key expired.
func NewSessionStore(client *redis.Client, ttl time.Duration, onEvict func(id string)) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		onEvict:  onEvict,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *app.Session) error {
	if err := s.client.Set(ctx, s.key(session.ID()), session.CourseID(), s.ttl).Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	alive, err := s.client.Expire(ctx, s.key(id), s.ttl).Result()
	if err != nil {
		// best effort: an unreachable Redis must not lock learners out
		log.WithError(err).WithField("session", id).Warn("session liveness refresh failed")
		return session, true
	}
	if !alive {
		s.evict(id)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	_ = s.client.Del(ctx, s.key(id)).Err()
}

// Sweep evicts every local session whose liveness key has expired.
func (s *SessionStore) Sweep(ctx context.Context) (int, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	evicted := 0
	for i, cmd := range checks {
		if cmd.Val() == 0 {
			if s.evict(ids[i]) {
				evicted++
			}
		}
	}
	return evicted, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				log.WithError(err).Warn("session sweep failed")
				continue
			}
			if n > 0 {
				log.WithField("evicted", n).Info("expired sessions evicted")
			}
		}
	}
}

func (s *SessionStore) evict(id string) bool {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	session.Close()
	if s.onEvict != nil {
		s.onEvict(id)
	}
	return true
}

func (s *SessionStore) key(id string) string {
	return "academy:session:" + id
}
