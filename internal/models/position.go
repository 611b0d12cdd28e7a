package models

import "time"

// Position is a job definition scoped to a department.
type Position struct {
	PositionID   int64     `db:"position_id" json:"PositionID"`
	Name         string    `db:"name" json:"Name"`
	Description  *string   `db:"description" json:"Description,omitempty"`
	DepartmentID int64     `db:"department_id" json:"DepartmentID"`
	CreatedAt    time.Time `db:"created_at" json:"CreatedAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"UpdatedAt"`
}
