package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"psych-academy/internal/content"
	"psych-academy/internal/domain"
)

// CourseStore keeps course documents as JSONB in the courses table.
type CourseStore struct {
	pool *pgxpool.Pool
}

func NewCourseStore(pool *pgxpool.Pool) *CourseStore {
	return &CourseStore{pool: pool}
}

func (s *CourseStore) LoadCourse(ctx context.Context, courseID string) (domain.Course, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM courses WHERE id=$1`, courseID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, courseID)
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("load course: %w", err)
	}
	var course domain.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		return domain.Course{}, fmt.Errorf("unmarshal course: %w", err)
	}
	return course, nil
}

// SaveCourse validates course and upserts it.
func (s *CourseStore) SaveCourse(ctx context.Context, course domain.Course) error {
	if err := content.Validate(course); err != nil {
		return err
	}
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO courses (id, title, data, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, data = EXCLUDED.data, updated_at = now()`,
		course.ID, course.Title, string(data))
	if err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	return nil
}

// CourseIDs lists stored courses ordered by id.
func (s *CourseStore) CourseIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ping satisfies the health checker.
func (s *CourseStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
