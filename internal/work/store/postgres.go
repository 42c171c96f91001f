package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/chrisstorey/community-building-manager/internal/work/models"
	"github.com/chrisstorey/community-building-manager/internal/work/template"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
)

// Postgres persists work areas, items, and updates. This store is pure I/O;
// expansion and dashboard classification belong to the services.
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

// CreateGroups persists the output of one template expansion. Callers run it
// inside a transaction (pkg/platform/tx) together with the asset insert so a
// failure leaves no partial areas or items behind.
func (s *Postgres) CreateGroups(ctx context.Context, groups []template.AreaGroup) error {
	execer := s.execer(ctx)
	areaQuery := `
		INSERT INTO work_areas (id, asset_id, statement, is_relevant, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	itemQuery := `
		INSERT INTO work_items (id, work_area_id, statement, description, review_date, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, g := range groups {
		area := g.Area
		_, err := execer.ExecContext(ctx, areaQuery,
			area.ID, area.AssetID, area.Statement, area.IsRelevant, area.Position, area.CreatedAt, area.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert work area: %w", err)
		}
		for _, item := range g.Items {
			_, err := execer.ExecContext(ctx, itemQuery,
				item.ID, item.WorkAreaID, item.Statement, nullString(item.Description), item.ReviewDate,
				item.Position, item.CreatedAt, item.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert work item: %w", err)
			}
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Postgres) ListAreasByAsset(ctx context.Context, assetID uuid.UUID) ([]models.WorkArea, error) {
	query := `
		SELECT id, asset_id, statement, is_relevant, position, created_at, updated_at
		FROM work_areas
		WHERE asset_id = $1
		ORDER BY position
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("list work areas: %w", err)
	}
	defer rows.Close()

	var out []models.WorkArea
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *area)
	}
	return out, rows.Err()
}

func (s *Postgres) FindAreaByID(ctx context.Context, areaID uuid.UUID) (*models.WorkArea, error) {
	query := `
		SELECT id, asset_id, statement, is_relevant, position, created_at, updated_at
		FROM work_areas
		WHERE id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, areaID)
	area, err := scanAreaRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return area, nil
}

func (s *Postgres) UpdateAreaRelevance(ctx context.Context, areaID uuid.UUID, isRelevant bool, now time.Time) (*models.WorkArea, error) {
	query := `
		UPDATE work_areas
		SET is_relevant = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, asset_id, statement, is_relevant, position, created_at, updated_at
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, areaID, isRelevant, now)
	area, err := scanAreaRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return area, nil
}

func (s *Postgres) ListItemsByArea(ctx context.Context, areaID uuid.UUID) ([]models.WorkItem, error) {
	query := `
		SELECT id, work_area_id, statement, description, review_date, position, created_at, updated_at
		FROM work_items
		WHERE work_area_id = $1
		ORDER BY position
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, areaID)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	defer rows.Close()

	var out []models.WorkItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (s *Postgres) FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.WorkItem, error) {
	query := `
		SELECT id, work_area_id, statement, description, review_date, position, created_at, updated_at
		FROM work_items
		WHERE id = $1
	`
	var item models.WorkItem
	var description sql.NullString
	var reviewDate sql.NullTime
	err := s.execer(ctx).QueryRowContext(ctx, query, itemID).Scan(
		&item.ID, &item.WorkAreaID, &item.Statement, &description, &reviewDate,
		&item.Position, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan work item: %w", err)
	}
	item.Description = description.String
	if reviewDate.Valid {
		item.ReviewDate = &reviewDate.Time
	}
	return &item, nil
}

func (s *Postgres) CreateItemUpdate(ctx context.Context, update *models.ItemUpdate) error {
	query := `
		INSERT INTO item_updates (id, work_item_id, user_id, narrative, review_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		update.ID, update.WorkItemID, update.UserID, update.Narrative, update.ReviewDate, update.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item update: %w", err)
	}
	return nil
}

func (s *Postgres) ListUpdatesByItem(ctx context.Context, itemID uuid.UUID) ([]models.ItemUpdate, error) {
	query := `
		SELECT id, work_item_id, user_id, narrative, review_date, created_at
		FROM item_updates
		WHERE work_item_id = $1
		ORDER BY created_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item updates: %w", err)
	}
	defer rows.Close()

	var out []models.ItemUpdate
	for rows.Next() {
		var update models.ItemUpdate
		var reviewDate sql.NullTime
		if err := rows.Scan(&update.ID, &update.WorkItemID, &update.UserID, &update.Narrative, &reviewDate, &update.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item update: %w", err)
		}
		if reviewDate.Valid {
			update.ReviewDate = &reviewDate.Time
		}
		out = append(out, update)
	}
	return out, rows.Err()
}

// ListItemStatusByAssets builds the dashboard reporting rows for the given
// asset instances in one round trip.
func (s *Postgres) ListItemStatusByAssets(ctx context.Context, assetIDs []uuid.UUID, now, horizon time.Time) ([]models.ItemStatus, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT
			i.id, i.work_area_id, i.statement, i.description, i.review_date, i.position, i.created_at, i.updated_at,
			a.statement, a.asset_id,
			EXISTS (SELECT 1 FROM item_updates u WHERE u.work_item_id = i.id),
			EXISTS (SELECT 1 FROM item_updates u WHERE u.work_item_id = i.id AND u.review_date IS NOT NULL AND u.review_date < $2),
			EXISTS (SELECT 1 FROM item_updates u WHERE u.work_item_id = i.id AND u.review_date IS NOT NULL AND u.review_date >= $2 AND u.review_date <= $3),
			(SELECT max(u.created_at) FROM item_updates u WHERE u.work_item_id = i.id)
		FROM work_items i
		JOIN work_areas a ON a.id = i.work_area_id
		WHERE a.asset_id = ANY($1)
		ORDER BY a.statement, i.position
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(assetIDs), now, horizon)
	if err != nil {
		return nil, fmt.Errorf("list item status: %w", err)
	}
	defer rows.Close()

	var out []models.ItemStatus
	for rows.Next() {
		var status models.ItemStatus
		var description sql.NullString
		var reviewDate sql.NullTime
		var lastUpdate sql.NullTime
		err := rows.Scan(
			&status.Item.ID, &status.Item.WorkAreaID, &status.Item.Statement, &description, &reviewDate,
			&status.Item.Position, &status.Item.CreatedAt, &status.Item.UpdatedAt,
			&status.AreaStatement, &status.AssetID,
			&status.HasUpdates, &status.HasOverdueReview, &status.HasReviewDue,
			&lastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item status: %w", err)
		}
		status.Item.Description = description.String
		if reviewDate.Valid {
			status.Item.ReviewDate = &reviewDate.Time
		}
		if lastUpdate.Valid {
			status.LastUpdateAt = &lastUpdate.Time
		}
		out = append(out, status)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArea(scanner rowScanner) (*models.WorkArea, error) {
	var area models.WorkArea
	err := scanner.Scan(
		&area.ID, &area.AssetID, &area.Statement, &area.IsRelevant, &area.Position, &area.CreatedAt, &area.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan work area: %w", err)
	}
	return &area, nil
}

func scanItem(scanner rowScanner) (*models.WorkItem, error) {
	var item models.WorkItem
	var description sql.NullString
	var reviewDate sql.NullTime
	err := scanner.Scan(
		&item.ID, &item.WorkAreaID, &item.Statement, &description, &reviewDate,
		&item.Position, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan work item: %w", err)
	}
	item.Description = description.String
	if reviewDate.Valid {
		item.ReviewDate = &reviewDate.Time
	}
	return &item, nil
}

func scanAreaRow(row *sql.Row) (*models.WorkArea, error) {
	var area models.WorkArea
	err := row.Scan(
		&area.ID, &area.AssetID, &area.Statement, &area.IsRelevant, &area.Position, &area.CreatedAt, &area.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &area, nil
}
