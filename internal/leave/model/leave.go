// Package model defines data structures for leave management.
package model

// LeaveType is a category of leave (annual, sick, ...) with the default
// yearly allowance granted when a balance row is first created.
type LeaveType struct {
	LeaveTypeID string `json:"leave_type_id"`
	Name        string `json:"name"`
	DefaultDays int    `json:"default_days"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
}

// LeaveBalance tracks one employee's allowance for one leave type and year.
type LeaveBalance struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	TotalDays   int    `json:"total_days"`
	UsedDays    int    `json:"used_days"`
}

// Remaining returns the days still available.
func (b LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}

// LeaveTypeRequest is the API payload for creating or updating a leave type.
type LeaveTypeRequest struct {
	Name        string `json:"name"`
	DefaultDays int    `json:"default_days"`
}

// BalanceRequest is the API payload for setting an employee's balance.
type BalanceRequest struct {
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	TotalDays   int    `json:"total_days"`
	UsedDays    *int   `json:"used_days"`
}
