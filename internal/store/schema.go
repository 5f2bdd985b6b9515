package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL UNIQUE,
	password     TEXT NOT NULL,
	display_name TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS designs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	width      INTEGER NOT NULL DEFAULT 1024,
	height     INTEGER NOT NULL DEFAULT 1024,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS design_members (
	design_id TEXT NOT NULL REFERENCES designs(id) ON DELETE CASCADE,
	user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role      TEXT NOT NULL,
	PRIMARY KEY (design_id, user_id)
);

CREATE TABLE IF NOT EXISTS design_snapshots (
	id         TEXT PRIMARY KEY,
	design_id  TEXT NOT NULL REFERENCES designs(id) ON DELETE CASCADE,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (design_id, version)
);

CREATE INDEX IF NOT EXISTS design_snapshots_design_version
	ON design_snapshots (design_id, version DESC);
`

// Migrate applies the schema. Statements are idempotent so startup can run
// it unconditionally.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
