package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radekzitek/crudelty/internal/models"
)

// OrganizationRepository handles organization database operations
type OrganizationRepository struct {
	db *DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func orgCacheKey(id int64) string {
	return fmt.Sprintf("org:%d", id)
}

// Create inserts a new organization and fills in its generated fields
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, address, phone, email, website, top_department_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING organization_id, created_at, updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		org.Name, org.Address, org.Phone, org.Email, org.Website, org.TopDepartmentID,
	).Scan(&org.OrganizationID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	if cached, found := r.db.orgCache.Get(orgCacheKey(id)); found {
		return cached.(*models.Organization), nil
	}

	var org models.Organization
	query := `
		SELECT organization_id, name, address, phone, email, website,
		       top_department_id, created_at, updated_at
		FROM organizations
		WHERE organization_id = $1
	`

	err := r.db.conn.GetContext(ctx, &org, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	r.db.orgCache.Set(orgCacheKey(id), &org)
	return &org, nil
}

// List returns organizations with offset/limit pagination
func (r *OrganizationRepository) List(ctx context.Context, offset, limit int) ([]*models.Organization, error) {
	query := `
		SELECT organization_id, name, address, phone, email, website,
		       top_department_id, created_at, updated_at
		FROM organizations
		ORDER BY organization_id
		OFFSET $1 LIMIT $2
	`

	orgs := []*models.Organization{}
	err := r.db.conn.SelectContext(ctx, &orgs, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	return orgs, nil
}

// Update persists all mutable fields of an organization
func (r *OrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, address = $2, phone = $3, email = $4, website = $5,
		    top_department_id = $6, updated_at = NOW()
		WHERE organization_id = $7
		RETURNING updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		org.Name, org.Address, org.Phone, org.Email, org.Website,
		org.TopDepartmentID, org.OrganizationID,
	).Scan(&org.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to update organization: %w", err)
	}

	r.db.orgCache.Delete(orgCacheKey(org.OrganizationID))
	return nil
}

// Delete removes an organization by ID
func (r *OrganizationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM organizations WHERE organization_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrOrganizationNotFound
	}

	r.db.orgCache.Delete(orgCacheKey(id))
	return nil
}
