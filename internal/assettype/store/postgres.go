package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/chrisstorey/community-building-manager/internal/assettype/models"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
)

// Postgres persists asset types.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const uniqueViolation = "23505"

func (s *Postgres) Create(ctx context.Context, at *models.AssetType) error {
	query := `
		INSERT INTO asset_types (id, name, description, template)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query, at.ID, at.Name, at.Description, at.Template)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert asset type: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.AssetType, error) {
	query := `
		SELECT id, name, description, template
		FROM asset_types
		WHERE id = $1
	`
	var at models.AssetType
	var description sql.NullString
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(&at.ID, &at.Name, &description, &at.Template)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan asset type: %w", err)
	}
	at.Description = description.String
	return &at, nil
}

func (s *Postgres) List(ctx context.Context, offset, limit int) ([]models.AssetType, error) {
	query := `
		SELECT id, name, description, template
		FROM asset_types
		ORDER BY name
		OFFSET $1 LIMIT $2
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list asset types: %w", err)
	}
	defer rows.Close()

	var out []models.AssetType
	for rows.Next() {
		var at models.AssetType
		var description sql.NullString
		if err := rows.Scan(&at.ID, &at.Name, &description, &at.Template); err != nil {
			return nil, fmt.Errorf("scan asset type: %w", err)
		}
		at.Description = description.String
		out = append(out, at)
	}
	return out, rows.Err()
}
