package model

// Faculty is the top level of the organizational hierarchy.
type Faculty struct {
	FacultyID   string `json:"faculty_id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
}

// Department belongs to a faculty. Administrative offices are modeled as
// departments with IsOffice set and no faculty.
type Department struct {
	DepartmentID string  `json:"department_id"`
	FacultyID    *string `json:"faculty_id,omitempty"`
	Name         string  `json:"name"`
	IsOffice     bool    `json:"is_office"`
	CreatedTime  int64   `json:"created_time"`
	UpdatedTime  int64   `json:"updated_time"`
}

// Position is a role slot within a department, a faculty, or the whole
// organization. Rank orders authority: lower rank means higher authority,
// and escalation climbs toward lower ranks.
type Position struct {
	PositionID   string  `json:"position_id"`
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id,omitempty"`
	FacultyID    *string `json:"faculty_id,omitempty"`
	Rank         int     `json:"rank"`
	CreatedTime  int64   `json:"created_time"`
	UpdatedTime  int64   `json:"updated_time"`
}

// FacultyRequest is the API payload for creating or updating a faculty.
type FacultyRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// DepartmentRequest is the API payload for creating or updating a department.
type DepartmentRequest struct {
	FacultyID *string `json:"faculty_id"`
	Name      string  `json:"name"`
	IsOffice  bool    `json:"is_office"`
}

// PositionRequest is the API payload for creating or updating a position.
type PositionRequest struct {
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id"`
	FacultyID    *string `json:"faculty_id"`
	Rank         int     `json:"rank"`
}
