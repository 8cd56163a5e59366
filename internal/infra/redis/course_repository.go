package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"psych-academy/internal/content"
	"psych-academy/internal/domain"
)

// CourseLoader fetches raw course content from a backing store (e.g., Postgres).
type CourseLoader interface {
	LoadCourse(ctx context.Context, courseID string) (domain.Course, error)
}

// CourseRepository caches course documents in Redis as JSON
// (SET course:{courseID} <json> EX ttl) and falls back to a loader on miss.
// Cached documents are validated again on read.
type CourseRepository struct {
	client *redis.Client
	loader CourseLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCourseRepository(client *redis.Client, loader CourseLoader, ttl time.Duration) *CourseRepository {
	return &CourseRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID string) (*content.Catalog, error) {
	if catalog, ok := r.fromCache(ctx, courseID); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(courseID, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if catalog, ok := r.fromCache(ctx, courseID); ok {
			return catalog, nil
		}

		course, err := r.loader.LoadCourse(ctx, courseID)
		if err != nil {
			return nil, err
		}
		catalog, err := content.NewCatalog(course)
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", courseID, err)
		}

		data, err := json.Marshal(catalog.Course())
		if err != nil {
			return nil, fmt.Errorf("encode course: %w", err)
		}
		if err := r.client.Set(ctx, r.key(courseID), data, r.ttlWithJitter()).Err(); err != nil {
			log.WithError(err).WithField("course", courseID).Warn("course cache write failed")
		}
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*content.Catalog), nil
}

// Invalidate drops the cached document so the next read goes to the loader.
func (r *CourseRepository) Invalidate(ctx context.Context, courseID string) error {
	return r.client.Del(ctx, r.key(courseID)).Err()
}

func (r *CourseRepository) fromCache(ctx context.Context, courseID string) (*content.Catalog, bool) {
	data, err := r.client.Get(ctx, r.key(courseID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("course", courseID).Warn("course cache read failed")
		}
		return nil, false
	}
	var course domain.Course
	if err := json.Unmarshal(data, &course); err != nil {
		log.WithError(err).WithField("course", courseID).Warn("discarding undecodable cached course")
		return nil, false
	}
	catalog, err := content.NewCatalog(course)
	if err != nil {
		log.WithError(err).WithField("course", courseID).Warn("discarding invalid cached course")
		return nil, false
	}
	return catalog, true
}

func (r *CourseRepository) key(courseID string) string {
	return "course:" + courseID
}

func (r *CourseRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
