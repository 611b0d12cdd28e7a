package models

import "time"

// Team belongs to exactly one organization, may nest under a parent
// team, and optionally has a leader (an employee).
type Team struct {
	TeamID         int64     `db:"team_id" json:"TeamID"`
	Name           string    `db:"name" json:"Name"`
	Description    *string   `db:"description" json:"Description,omitempty"`
	TeamLeaderID   *int64    `db:"team_leader_id" json:"TeamLeaderID,omitempty"`
	ParentTeamID   *int64    `db:"parent_team_id" json:"ParentTeamID,omitempty"`
	OrganizationID int64     `db:"organization_id" json:"OrganizationID"`
	CreatedAt      time.Time `db:"created_at" json:"CreatedAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"UpdatedAt"`
}
