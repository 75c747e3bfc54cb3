// Package model defines data structures for request type workflow templates.
package model

// Field types accepted in a request form definition.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeTextarea = "textarea"
	FieldTypeCheckbox = "checkbox"
	FieldTypeDropdown = "dropdown"
	FieldTypeRadio    = "radio"
	FieldTypeFile     = "file"
)

// ValidFieldTypes enumerates every accepted field type.
var ValidFieldTypes = []string{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeTextarea,
	FieldTypeCheckbox,
	FieldTypeDropdown,
	FieldTypeRadio,
	FieldTypeFile,
}

// ApproverType discriminates how an approver reference is resolved.
type ApproverType string

const (
	ApproverTypeUser     ApproverType = "user"
	ApproverTypeRole     ApproverType = "role"
	ApproverTypePosition ApproverType = "position"
)

// ApproverRef is a tagged reference to a user, role, or position. Exactly one
// resolution path applies, selected by Type; RefID carries the target ID.
type ApproverRef struct {
	Type  ApproverType `json:"type"`
	RefID string       `json:"ref_id"`
}

// RequestType is a workflow template: a form definition plus an ordered
// chain of approval steps.
type RequestType struct {
	RequestTypeID  string `json:"request_type_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	HasFulfillment bool   `json:"has_fulfillment"`
	Published      bool   `json:"published"`
	CreatedTime    int64  `json:"created_time"`
	UpdatedTime    int64  `json:"updated_time"`
}

// RequestField is one form field of a request type.
type RequestField struct {
	FieldID       string   `json:"field_id"`
	RequestTypeID string   `json:"request_type_id"`
	FieldKey      string   `json:"field_key"`
	Label         string   `json:"label"`
	FieldType     string   `json:"field_type"`
	Required      bool     `json:"required"`
	Options       []string `json:"options,omitempty"`
	SortOrder     int      `json:"sort_order"`
}

// ApprovalStep is one stage of the approval chain. StepIndex orders steps;
// the engine always works on the lowest pending index.
type ApprovalStep struct {
	StepID        string        `json:"step_id"`
	RequestTypeID string        `json:"request_type_id"`
	StepIndex     int           `json:"step_index"`
	Name          string        `json:"name"`
	Approvers     []ApproverRef `json:"approvers"`
}

// RequestTypeDefinition is a request type with its full form and chain.
type RequestTypeDefinition struct {
	RequestType RequestType    `json:"request_type"`
	Fields      []RequestField `json:"fields"`
	Steps       []ApprovalStep `json:"steps"`
}

// FieldRequest is the API payload for one field of a type definition.
type FieldRequest struct {
	FieldKey  string   `json:"field_key"`
	Label     string   `json:"label"`
	FieldType string   `json:"field_type"`
	Required  bool     `json:"required"`
	Options   []string `json:"options"`
	SortOrder int      `json:"sort_order"`
}

// StepRequest is the API payload for one approval step.
type StepRequest struct {
	Name      string        `json:"name"`
	Approvers []ApproverRef `json:"approvers"`
}

// RequestTypeRequest is the API payload for creating or replacing a request
// type definition. Fields and steps are replace-all: the stored definition
// becomes exactly what the payload carries.
type RequestTypeRequest struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	HasFulfillment bool           `json:"has_fulfillment"`
	Fields         []FieldRequest `json:"fields"`
	Steps          []StepRequest  `json:"steps"`
}
