package models

import "time"

// Department belongs to exactly one organization and may nest under a
// parent department. HeadOfDepartmentID references an employee.
type Department struct {
	DepartmentID       int64     `db:"department_id" json:"DepartmentID"`
	Name               string    `db:"name" json:"Name"`
	Description        *string   `db:"description" json:"Description,omitempty"`
	ParentDepartmentID *int64    `db:"parent_department_id" json:"ParentDepartmentID,omitempty"`
	HeadOfDepartmentID *int64    `db:"head_of_department_id" json:"HeadOfDepartmentID,omitempty"`
	OrganizationID     int64     `db:"organization_id" json:"OrganizationID"`
	CreatedAt          time.Time `db:"created_at" json:"CreatedAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"UpdatedAt"`
}
