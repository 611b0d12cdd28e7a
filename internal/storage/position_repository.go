package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radekzitek/crudelty/internal/models"
)

// PositionRepository handles position database operations
type PositionRepository struct {
	db *DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Create inserts a new position and fills in its generated fields
func (r *PositionRepository) Create(ctx context.Context, pos *models.Position) error {
	query := `
		INSERT INTO positions (name, description, department_id)
		VALUES ($1, $2, $3)
		RETURNING position_id, created_at, updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		pos.Name, pos.Description, pos.DepartmentID,
	).Scan(&pos.PositionID, &pos.CreatedAt, &pos.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}

	return nil
}

// GetByID retrieves a position by ID
func (r *PositionRepository) GetByID(ctx context.Context, id int64) (*models.Position, error) {
	var pos models.Position
	query := `
		SELECT position_id, name, description, department_id, created_at, updated_at
		FROM positions
		WHERE position_id = $1
	`

	err := r.db.conn.GetContext(ctx, &pos, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	return &pos, nil
}

// List returns positions, optionally filtered by department
func (r *PositionRepository) List(ctx context.Context, deptID *int64, offset, limit int) ([]*models.Position, error) {
	query := `
		SELECT position_id, name, description, department_id, created_at, updated_at
		FROM positions
	`
	args := []interface{}{}

	if deptID != nil {
		query += ` WHERE department_id = $1 ORDER BY position_id OFFSET $2 LIMIT $3`
		args = append(args, *deptID, offset, limit)
	} else {
		query += ` ORDER BY position_id OFFSET $1 LIMIT $2`
		args = append(args, offset, limit)
	}

	positions := []*models.Position{}
	err := r.db.conn.SelectContext(ctx, &positions, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	return positions, nil
}

// Update persists all mutable fields of a position
func (r *PositionRepository) Update(ctx context.Context, pos *models.Position) error {
	query := `
		UPDATE positions
		SET name = $1, description = $2, department_id = $3, updated_at = NOW()
		WHERE position_id = $4
		RETURNING updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		pos.Name, pos.Description, pos.DepartmentID, pos.PositionID,
	).Scan(&pos.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPositionNotFound
		}
		return fmt.Errorf("failed to update position: %w", err)
	}

	return nil
}

// Delete removes a position by ID
func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM positions WHERE position_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrPositionNotFound
	}

	return nil
}
