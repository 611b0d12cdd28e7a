package models

import (
	"strings"
	"time"
)

// Employee belongs to exactly one organization. Email is unique across
// all employees.
type Employee struct {
	EmployeeID     int64     `db:"employee_id" json:"EmployeeID"`
	Name           string    `db:"name" json:"Name"`
	Email          string    `db:"email" json:"Email"`
	Phone          *string   `db:"phone" json:"Phone,omitempty"`
	OrganizationID int64     `db:"organization_id" json:"OrganizationID"`
	CreatedAt      time.Time `db:"created_at" json:"CreatedAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"UpdatedAt"`
}

// NormalizeEmail lowercases and trims an email address so uniqueness
// checks are not defeated by casing or stray whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
