package models

import "time"

// Organization is the top-level entity of the hierarchy. Departments,
// employees and teams all hang off an organization.
type Organization struct {
	OrganizationID  int64     `db:"organization_id" json:"OrganizationID"`
	Name            string    `db:"name" json:"Name"`
	Address         *string   `db:"address" json:"Address,omitempty"`
	Phone           *string   `db:"phone" json:"Phone,omitempty"`
	Email           *string   `db:"email" json:"Email,omitempty"`
	Website         *string   `db:"website" json:"Website,omitempty"`
	TopDepartmentID *int64    `db:"top_department_id" json:"TopDepartmentID,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"CreatedAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"UpdatedAt"`
}
