package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radekzitek/crudelty/internal/models"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a new team and fills in its generated fields
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, description, team_leader_id, parent_team_id, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING team_id, created_at, updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		team.Name, team.Description, team.TeamLeaderID, team.ParentTeamID, team.OrganizationID,
	).Scan(&team.TeamID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	query := `
		SELECT team_id, name, description, team_leader_id, parent_team_id,
		       organization_id, created_at, updated_at
		FROM teams
		WHERE team_id = $1
	`

	err := r.db.conn.GetContext(ctx, &team, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List returns teams, optionally filtered by organization
func (r *TeamRepository) List(ctx context.Context, orgID *int64, offset, limit int) ([]*models.Team, error) {
	query := `
		SELECT team_id, name, description, team_leader_id, parent_team_id,
		       organization_id, created_at, updated_at
		FROM teams
	`
	args := []interface{}{}

	if orgID != nil {
		query += ` WHERE organization_id = $1 ORDER BY team_id OFFSET $2 LIMIT $3`
		args = append(args, *orgID, offset, limit)
	} else {
		query += ` ORDER BY team_id OFFSET $1 LIMIT $2`
		args = append(args, offset, limit)
	}

	teams := []*models.Team{}
	err := r.db.conn.SelectContext(ctx, &teams, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return teams, nil
}

// Update persists all mutable fields of a team
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, description = $2, team_leader_id = $3,
		    parent_team_id = $4, organization_id = $5, updated_at = NOW()
		WHERE team_id = $6
		RETURNING updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		team.Name, team.Description, team.TeamLeaderID,
		team.ParentTeamID, team.OrganizationID, team.TeamID,
	).Scan(&team.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to update team: %w", err)
	}

	return nil
}

// Delete removes a team by ID
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM teams WHERE team_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrTeamNotFound
	}

	return nil
}
