// Package model defines data structures for request submissions and their
// approval lifecycle.
package model

// Submission statuses.
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusFulfillment = "fulfillment"
	StatusCompleted   = "completed"
	StatusRejected    = "rejected"
)

// Approval action statuses.
const (
	ActionPending  = "pending"
	ActionApproved = "approved"
	ActionRejected = "rejected"
)

// IsTerminal reports whether a submission status admits no further
// transition.
func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusCompleted || status == StatusRejected
}

// RequestSubmission is one filed request moving through its type's approval
// chain. CurrentStepIndex is nil once the chain has been decided.
type RequestSubmission struct {
	SubmissionID     string `json:"submission_id"`
	RequestTypeID    string `json:"request_type_id"`
	UserID           string `json:"user_id"`
	Status           string `json:"status"`
	CurrentStepIndex *int   `json:"current_step_index"`
	SubmittedTime    int64  `json:"submitted_time"`
	FulfilledTime    *int64 `json:"fulfilled_time,omitempty"`
}

// RequestAnswer is one form field value of a submission.
type RequestAnswer struct {
	AnswerID     string `json:"answer_id"`
	SubmissionID string `json:"submission_id"`
	FieldID      string `json:"field_id"`
	FieldKey     string `json:"field_key"`
	Value        string `json:"value"`
}

// ActionMeta carries resolution provenance on an approval action.
type ActionMeta struct {
	WasResolvedFromRole     bool `json:"was_resolved_from_role,omitempty"`
	WasResolvedFromPosition bool `json:"was_resolved_from_position,omitempty"`
	WasEscalated            bool `json:"was_escalated,omitempty"`
}

// RequestApprovalAction is one approver's slot at one step of a submission.
// The approver reference columns mirror how the approver was resolved; an
// acted action additionally records who clicked and when.
type RequestApprovalAction struct {
	ActionID           string     `json:"action_id"`
	SubmissionID       string     `json:"submission_id"`
	StepIndex          int        `json:"step_index"`
	Status             string     `json:"status"`
	ApproverUserID     *string    `json:"approver_user_id,omitempty"`
	ApproverRoleID     *string    `json:"approver_role_id,omitempty"`
	ApproverPositionID *string    `json:"approver_position_id,omitempty"`
	ActedBy            *string    `json:"acted_by,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	ActedAt            *int64     `json:"acted_at,omitempty"`
	Meta               ActionMeta `json:"meta"`
}

// Fulfillment records the deliverable attached when a fulfillment-bearing
// request is completed.
type Fulfillment struct {
	SubmissionID string  `json:"submission_id"`
	FulfillerID  string  `json:"fulfiller_id"`
	FilePath     string  `json:"file_path"`
	FileName     string  `json:"file_name"`
	Notes        *string `json:"notes,omitempty"`
	CompletedAt  int64   `json:"completed_at"`
}

// StepState is the derived aggregate of one step's actions.
type StepState struct {
	StepIndex int                     `json:"step_index"`
	Status    string                  `json:"status"`
	Actions   []RequestApprovalAction `json:"actions"`
}

// ApprovalState is the derived view of the whole chain, rebuilt from action
// rows on every read.
type ApprovalState struct {
	Steps            []StepState `json:"steps"`
	CurrentStepIndex *int        `json:"current_step_index"`
}

// SubmissionDetail is a submission with everything a detail view needs.
type SubmissionDetail struct {
	Submission    RequestSubmission       `json:"submission"`
	Answers       []RequestAnswer         `json:"answers"`
	Actions       []RequestApprovalAction `json:"actions"`
	ApprovalState ApprovalState           `json:"approval_state"`
	Fulfillment   *Fulfillment            `json:"fulfillment,omitempty"`
}

// SubmitRequest is the API payload for filing a request: field key to raw
// value.
type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

// DecisionRequest is the API payload for approve/reject.
type DecisionRequest struct {
	Notes string `json:"notes"`
}

// ListFilter narrows submission listings.
type ListFilter struct {
	Scope         string // mine | assigned | all
	Status        string
	RequestTypeID string
}
