package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radekzitek/crudelty/internal/models"
)

// EmployeeRepository handles employee database operations
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee and fills in its generated fields.
// Returns ErrDuplicateEmail when the email is already registered.
func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	taken, err := r.emailTaken(ctx, emp.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}

	query := `
		INSERT INTO employees (name, email, phone, organization_id)
		VALUES ($1, $2, $3, $4)
		RETURNING employee_id, created_at, updated_at
	`

	err = r.db.conn.QueryRowxContext(ctx, query,
		emp.Name, emp.Email, emp.Phone, emp.OrganizationID,
	).Scan(&emp.EmployeeID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	var emp models.Employee
	query := `
		SELECT employee_id, name, email, phone, organization_id, created_at, updated_at
		FROM employees
		WHERE employee_id = $1
	`

	err := r.db.conn.GetContext(ctx, &emp, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return &emp, nil
}

// List returns employees, optionally filtered by organization
func (r *EmployeeRepository) List(ctx context.Context, orgID *int64, offset, limit int) ([]*models.Employee, error) {
	query := `
		SELECT employee_id, name, email, phone, organization_id, created_at, updated_at
		FROM employees
	`
	args := []interface{}{}

	if orgID != nil {
		query += ` WHERE organization_id = $1 ORDER BY employee_id OFFSET $2 LIMIT $3`
		args = append(args, *orgID, offset, limit)
	} else {
		query += ` ORDER BY employee_id OFFSET $1 LIMIT $2`
		args = append(args, offset, limit)
	}

	emps := []*models.Employee{}
	err := r.db.conn.SelectContext(ctx, &emps, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return emps, nil
}

// Update persists all mutable fields of an employee.
// Returns ErrDuplicateEmail when the new email belongs to someone else.
func (r *EmployeeRepository) Update(ctx context.Context, emp *models.Employee) error {
	taken, err := r.emailTaken(ctx, emp.Email, emp.EmployeeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}

	query := `
		UPDATE employees
		SET name = $1, email = $2, phone = $3, organization_id = $4, updated_at = NOW()
		WHERE employee_id = $5
		RETURNING updated_at
	`

	err = r.db.conn.QueryRowxContext(ctx, query,
		emp.Name, emp.Email, emp.Phone, emp.OrganizationID, emp.EmployeeID,
	).Scan(&emp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}

// Delete removes an employee by ID
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM employees WHERE employee_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

// emailTaken reports whether an email belongs to an employee other than excludeID
func (r *EmployeeRepository) emailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM employees WHERE email = $1 AND employee_id <> $2`

	err := r.db.conn.GetContext(ctx, &count, query, email, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	return count > 0, nil
}
