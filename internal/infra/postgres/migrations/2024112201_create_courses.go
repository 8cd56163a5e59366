package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

const createCoursesSQL = `
CREATE TABLE IF NOT EXISTS courses (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createCoursesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS courses`)
			return err
		},
	)
}
