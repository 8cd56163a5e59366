package memory

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"psych-academy/internal/app"
)

type sessionEntry struct {
	session  *app.Session
	lastSeen time.Time
}

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions idle for longer than ttl are closed by Sweep; ttl <= 0 keeps them
// until Delete.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(id string)
}

func NewSessionStore(ttl time.Duration, onEvict func(id string)) *SessionStore {
	return newSessionStoreWithClock(ttl, onEvict, time.Now)
}

func newSessionStoreWithClock(ttl time.Duration, onEvict func(id string), now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      now,
		onEvict:  onEvict,
	}
}

func (s *SessionStore) Save(_ context.Context, session *app.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = &sessionEntry{session: session, lastSeen: s.now()}
	return nil
}

// Get returns the session and marks it as used.
func (s *SessionStore) Get(_ context.Context, id string) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.session, true
}

func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes and drops every session idle for longer than the TTL.
func (s *SessionStore) Sweep(_ context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*sessionEntry
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, entry := range expired {
		entry.session.Close()
		if s.onEvict != nil {
			s.onEvict(entry.session.ID())
		}
	}
	return len(expired)
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
			if n := s.Sweep(ctx); n > 0 {
				log.WithField("evicted", n).Info("idle sessions evicted")
			}
		}
	}
}
