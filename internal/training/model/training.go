// Package model defines data structures for training management.
package model

// Training application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Scope row kinds for the training allow-list.
const (
	ScopeFaculty    = "faculty"
	ScopeDepartment = "department"
)

// Training is an offered course. When RequiresApproval is set the training
// must be wired to a request type whose chain decides each application;
// AllowedFacultyIDs/AllowedDepartmentIDs restrict both who may apply and
// which employees are considered as approvers.
type Training struct {
	TrainingID           string   `json:"training_id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	StartsAt             int64    `json:"starts_at"`
	EndsAt               int64    `json:"ends_at"`
	Capacity             int      `json:"capacity"`
	RequiresApproval     bool     `json:"requires_approval"`
	RequestTypeID        *string  `json:"request_type_id,omitempty"`
	MaxReapplications    int      `json:"max_reapplications"`
	AllowedFacultyIDs    []string `json:"allowed_faculty_ids"`
	AllowedDepartmentIDs []string `json:"allowed_department_ids"`
	CreatedTime          int64    `json:"created_time"`
	UpdatedTime          int64    `json:"updated_time"`
}

// TrainingApplication is one user's attempt to join a training. Attempt
// counts prior applications by the same user including this one.
type TrainingApplication struct {
	ApplicationID string  `json:"application_id"`
	TrainingID    string  `json:"training_id"`
	UserID        string  `json:"user_id"`
	SubmissionID  *string `json:"submission_id,omitempty"`
	Status        string  `json:"status"`
	Attempt       int     `json:"attempt"`
	CreatedTime   int64   `json:"created_time"`
	UpdatedTime   int64   `json:"updated_time"`
}

// TrainingRequest is the API payload for creating or updating a training.
type TrainingRequest struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	StartsAt             int64    `json:"starts_at"`
	EndsAt               int64    `json:"ends_at"`
	Capacity             int      `json:"capacity"`
	RequiresApproval     bool     `json:"requires_approval"`
	RequestTypeID        *string  `json:"request_type_id"`
	MaxReapplications    *int     `json:"max_reapplications"`
	AllowedFacultyIDs    []string `json:"allowed_faculty_ids"`
	AllowedDepartmentIDs []string `json:"allowed_department_ids"`
}

// ApplyRequest is the API payload for applying to a training. Answers feed
// the wired request type's form when the training requires approval.
type ApplyRequest struct {
	Answers map[string]string `json:"answers"`
}
