package storage

import "errors"

var (
	// ErrOrganizationNotFound is returned when an organization is not found
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrDepartmentNotFound is returned when a department is not found
	ErrDepartmentNotFound = errors.New("department not found")

	// ErrEmployeeNotFound is returned when an employee is not found
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrPositionNotFound is returned when a position is not found
	ErrPositionNotFound = errors.New("position not found")

	// ErrTeamNotFound is returned when a team is not found
	ErrTeamNotFound = errors.New("team not found")

	// ErrDuplicateEmail is returned when an employee email is already registered
	ErrDuplicateEmail = errors.New("email already registered")
)
