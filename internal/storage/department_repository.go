package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radekzitek/crudelty/internal/models"
)

// DepartmentRepository handles department database operations
type DepartmentRepository struct {
	db *DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a new department and fills in its generated fields
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	query := `
		INSERT INTO departments (name, description, parent_department_id, head_of_department_id, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING department_id, created_at, updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		dept.Name, dept.Description, dept.ParentDepartmentID, dept.HeadOfDepartmentID, dept.OrganizationID,
	).Scan(&dept.DepartmentID, &dept.CreatedAt, &dept.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	var dept models.Department
	query := `
		SELECT department_id, name, description, parent_department_id,
		       head_of_department_id, organization_id, created_at, updated_at
		FROM departments
		WHERE department_id = $1
	`

	err := r.db.conn.GetContext(ctx, &dept, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return &dept, nil
}

// List returns departments, optionally filtered by organization
func (r *DepartmentRepository) List(ctx context.Context, orgID *int64, offset, limit int) ([]*models.Department, error) {
	query := `
		SELECT department_id, name, description, parent_department_id,
		       head_of_department_id, organization_id, created_at, updated_at
		FROM departments
	`
	args := []interface{}{}

	if orgID != nil {
		query += ` WHERE organization_id = $1 ORDER BY department_id OFFSET $2 LIMIT $3`
		args = append(args, *orgID, offset, limit)
	} else {
		query += ` ORDER BY department_id OFFSET $1 LIMIT $2`
		args = append(args, offset, limit)
	}

	depts := []*models.Department{}
	err := r.db.conn.SelectContext(ctx, &depts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	return depts, nil
}

// Update persists all mutable fields of a department
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	query := `
		UPDATE departments
		SET name = $1, description = $2, parent_department_id = $3,
		    head_of_department_id = $4, organization_id = $5, updated_at = NOW()
		WHERE department_id = $6
		RETURNING updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		dept.Name, dept.Description, dept.ParentDepartmentID,
		dept.HeadOfDepartmentID, dept.OrganizationID, dept.DepartmentID,
	).Scan(&dept.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to update department: %w", err)
	}

	return nil
}

// Delete removes a department by ID
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM departments WHERE department_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrDepartmentNotFound
	}

	return nil
}
