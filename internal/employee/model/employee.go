// Package model defines data structures for employee management.
package model

// Employee is the HR record behind a user account. An employee is placed in
// the organization through faculty/department/position references, any of
// which may be empty for office staff or unassigned hires.
type Employee struct {
	EmployeeID   string  `json:"employee_id"`
	UserID       string  `json:"user_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	FacultyID    *string `json:"faculty_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	PositionID   *string `json:"position_id,omitempty"`
	HiredAt      int64   `json:"hired_at"`
	Active       bool    `json:"active"`
	CreatedTime  int64   `json:"created_time"`
	UpdatedTime  int64   `json:"updated_time"`
}

// EmployeeRequest is the API payload for creating or updating an employee.
type EmployeeRequest struct {
	UserID       string  `json:"user_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	FacultyID    *string `json:"faculty_id"`
	DepartmentID *string `json:"department_id"`
	PositionID   *string `json:"position_id"`
	HiredAt      int64   `json:"hired_at"`
	Active       *bool   `json:"active"`
}

// EmployeeFilter narrows employee listings. Zero values mean no filtering on
// that attribute.
type EmployeeFilter struct {
	FacultyID    string
	DepartmentID string
	PositionID   string
	ActiveOnly   bool
}
