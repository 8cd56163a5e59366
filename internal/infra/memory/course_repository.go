package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"psych-academy/internal/content"
	"psych-academy/internal/domain"
)

// CourseLoader fetches raw course content from a backing store (e.g., Postgres).
type CourseLoader interface {
	LoadCourse(ctx context.Context, courseID string) (domain.Course, error)
}

// CourseRepository caches validated catalogs with TTL to avoid repeated DB hits.
type CourseRepository struct {
	loader CourseLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedCourse
}

type cachedCourse struct {
	catalog   *content.Catalog
	expiresAt time.Time
}

func NewCourseRepository(loader CourseLoader, ttl time.Duration) *CourseRepository {
	return newCourseRepositoryWithClock(loader, ttl, time.Now)
}

func newCourseRepositoryWithClock(loader CourseLoader, ttl time.Duration, clock func() time.Time) *CourseRepository {
	return &CourseRepository{
		loader: loader,
		ttl:    ttl,
		clock:  clock,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedCourse),
	}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID string) (*content.Catalog, error) {
	if catalog, ok := r.cached(courseID); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(courseID, func() (interface{}, error) {
		// another caller may have filled the cache while we waited
		if catalog, ok := r.cached(courseID); ok {
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

		r.mu.Lock()
		r.cache[courseID] = cachedCourse{
			catalog:   catalog,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*content.Catalog), nil
}

func (r *CourseRepository) cached(courseID string) (*content.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[courseID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return entry.catalog, true
}

func (r *CourseRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCourseLoader serves courses compiled into the binary (bundled content, tests).
type StaticCourseLoader struct {
	courses map[string]domain.Course
}

func NewStaticCourseLoader(courses ...domain.Course) *StaticCourseLoader {
	l := &StaticCourseLoader{courses: make(map[string]domain.Course, len(courses))}
	for _, c := range courses {
		l.courses[c.ID] = c
	}
	return l
}

func (l *StaticCourseLoader) LoadCourse(_ context.Context, courseID string) (domain.Course, error) {
	if course, ok := l.courses[courseID]; ok {
		return course, nil
	}
	return domain.Course{}, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, courseID)
}
