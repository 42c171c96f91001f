package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/chrisstorey/community-building-manager/internal/organization/models"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
)

// Postgres persists organizations, key contacts, locations, and assets.
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

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func (s *Postgres) CreateOrganization(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (id, name, address, parent_organization_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		org.ID, org.Name, nullString(org.Address), org.ParentOrganizationID, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (s *Postgres) FindOrganizationByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT id, name, address, parent_organization_id, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	org, err := scanOrganization(s.execer(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *Postgres) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, address = $3, parent_organization_id = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		org.ID, org.Name, nullString(org.Address), org.ParentOrganizationID, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	query := `
		SELECT id, name, address, parent_organization_id, created_at, updated_at
		FROM organizations
		ORDER BY name
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *org)
	}
	return out, rows.Err()
}

func (s *Postgres) CreateKeyContact(ctx context.Context, contact *models.KeyContact) error {
	query := `
		INSERT INTO key_contacts (id, organization_id, name, title, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		contact.ID, contact.OrganizationID, contact.Name,
		nullString(contact.Title), nullString(contact.Email), nullString(contact.Phone), contact.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert key contact: %w", err)
	}
	return nil
}

func (s *Postgres) ListKeyContactsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.KeyContact, error) {
	query := `
		SELECT id, organization_id, name, title, email, phone, created_at
		FROM key_contacts
		WHERE organization_id = $1
		ORDER BY name
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list key contacts: %w", err)
	}
	defer rows.Close()

	var out []models.KeyContact
	for rows.Next() {
		var contact models.KeyContact
		var title, email, phone sql.NullString
		err := rows.Scan(&contact.ID, &contact.OrganizationID, &contact.Name, &title, &email, &phone, &contact.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan key contact: %w", err)
		}
		contact.Title = title.String
		contact.Email = email.String
		contact.Phone = phone.String
		out = append(out, contact)
	}
	return out, rows.Err()
}

func (s *Postgres) CreateLocation(ctx context.Context, loc *models.Location) error {
	query := `
		INSERT INTO locations (id, organization_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		loc.ID, loc.OrganizationID, loc.Name, loc.Address, loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (s *Postgres) FindLocationByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	query := `
		SELECT id, organization_id, name, address, created_at, updated_at
		FROM locations
		WHERE id = $1
	`
	var loc models.Location
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(
		&loc.ID, &loc.OrganizationID, &loc.Name, &loc.Address, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan location: %w", err)
	}
	return &loc, nil
}

func (s *Postgres) UpdateLocation(ctx context.Context, loc *models.Location) error {
	query := `
		UPDATE locations
		SET name = $2, address = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query, loc.ID, loc.Name, loc.Address, loc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return requireRow(result)
}

func (s *Postgres) ListLocationsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Location, error) {
	query := `
		SELECT id, organization_id, name, address, created_at, updated_at
		FROM locations
		WHERE organization_id = $1
		ORDER BY name
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []models.Location
	for rows.Next() {
		var loc models.Location
		err := rows.Scan(&loc.ID, &loc.OrganizationID, &loc.Name, &loc.Address, &loc.CreatedAt, &loc.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (s *Postgres) CreateAsset(ctx context.Context, asset *models.LocationAsset) error {
	query := `
		INSERT INTO location_assets (id, location_id, asset_type_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		asset.ID, asset.LocationID, asset.AssetTypeID, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert location asset: %w", err)
	}
	return nil
}

func (s *Postgres) FindAssetByID(ctx context.Context, id uuid.UUID) (*models.LocationAsset, error) {
	query := `
		SELECT id, location_id, asset_type_id, created_at, updated_at
		FROM location_assets
		WHERE id = $1
	`
	var asset models.LocationAsset
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(
		&asset.ID, &asset.LocationID, &asset.AssetTypeID, &asset.CreatedAt, &asset.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan location asset: %w", err)
	}
	return &asset, nil
}

func (s *Postgres) ListAssetsByLocation(ctx context.Context, locationID uuid.UUID) ([]models.LocationAsset, error) {
	query := `
		SELECT id, location_id, asset_type_id, created_at, updated_at
		FROM location_assets
		WHERE location_id = $1
		ORDER BY created_at
	`
	return s.listAssets(ctx, query, locationID)
}

// ListAssetsByOrganization gathers assets across all of the organization's
// locations. The dashboard uses this to scope reporting.
func (s *Postgres) ListAssetsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.LocationAsset, error) {
	query := `
		SELECT a.id, a.location_id, a.asset_type_id, a.created_at, a.updated_at
		FROM location_assets a
		JOIN locations l ON l.id = a.location_id
		WHERE l.organization_id = $1
		ORDER BY a.created_at
	`
	return s.listAssets(ctx, query, orgID)
}

func (s *Postgres) listAssets(ctx context.Context, query string, arg any) ([]models.LocationAsset, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list location assets: %w", err)
	}
	defer rows.Close()

	var out []models.LocationAsset
	for rows.Next() {
		var asset models.LocationAsset
		err := rows.Scan(&asset.ID, &asset.LocationID, &asset.AssetTypeID, &asset.CreatedAt, &asset.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan location asset: %w", err)
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(scanner rowScanner) (*models.Organization, error) {
	var org models.Organization
	var address sql.NullString
	var parentID uuid.NullUUID
	err := scanner.Scan(&org.ID, &org.Name, &address, &parentID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	org.Address = address.String
	if parentID.Valid {
		id := parentID.UUID
		org.ParentOrganizationID = &id
	}
	return &org, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
