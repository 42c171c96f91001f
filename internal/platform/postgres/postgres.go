package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// schema is applied at startup. Statements are idempotent so restarting the
// server against an existing database is safe.
const schema = `
CREATE TABLE IF NOT EXISTS organizations (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT,
	parent_organization_id UUID REFERENCES organizations(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name TEXT,
	role TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	organization_id UUID NOT NULL REFERENCES organizations(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS key_contacts (
	id UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id),
	name TEXT NOT NULL,
	title TEXT,
	email TEXT,
	phone TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
	id UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id),
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_types (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	template TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS location_assets (
	id UUID PRIMARY KEY,
	location_id UUID NOT NULL REFERENCES locations(id),
	asset_type_id UUID NOT NULL REFERENCES asset_types(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS work_areas (
	id UUID PRIMARY KEY,
	asset_id UUID NOT NULL REFERENCES location_assets(id),
	statement TEXT NOT NULL,
	is_relevant BOOLEAN NOT NULL DEFAULT TRUE,
	position INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS work_items (
	id UUID PRIMARY KEY,
	work_area_id UUID NOT NULL REFERENCES work_areas(id),
	statement TEXT NOT NULL,
	description TEXT,
	review_date TIMESTAMPTZ,
	position INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS item_updates (
	id UUID PRIMARY KEY,
	work_item_id UUID NOT NULL REFERENCES work_items(id),
	user_id UUID NOT NULL REFERENCES users(id),
	narrative TEXT NOT NULL,
	review_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_work_areas_asset ON work_areas(asset_id);
CREATE INDEX IF NOT EXISTS idx_work_items_area ON work_items(work_area_id);
CREATE INDEX IF NOT EXISTS idx_item_updates_item ON item_updates(work_item_id);
CREATE INDEX IF NOT EXISTS idx_locations_org ON locations(organization_id);
CREATE INDEX IF NOT EXISTS idx_location_assets_location ON location_assets(location_id);
`

// EnsureSchema creates the application tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
