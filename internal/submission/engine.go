package submission

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	rtmodel "github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/submission/model"
)

// StepStatus aggregates one step's actions: rejected as soon as any action
// is rejected, approved only when every action is approved, pending
// otherwise. A step with no actions is vacuously approved.
func StepStatus(actions []model.RequestApprovalAction) string {
	if len(actions) == 0 {
		return model.ActionApproved
	}
	allApproved := true
	for _, a := range actions {
		switch a.Status {
		case model.ActionRejected:
			return model.ActionRejected
		case model.ActionPending:
			allApproved = false
		}
	}
	if allApproved {
		return model.ActionApproved
	}
	return model.ActionPending
}

// NextPendingStep returns the lowest step index that still has a pending
// action, or nil when every action has been decided.
func NextPendingStep(actions []model.RequestApprovalAction) *int {
	var next *int
	for _, a := range actions {
		if a.Status != model.ActionPending {
			continue
		}
		if next == nil || a.StepIndex < *next {
			idx := a.StepIndex
			next = &idx
		}
	}
	return next
}

// BuildApprovalState derives the chain view from action rows. It is never
// stored; every read rebuilds it so the rows stay the single source of truth.
func BuildApprovalState(actions []model.RequestApprovalAction) model.ApprovalState {
	byStep := make(map[int][]model.RequestApprovalAction)
	order := make([]int, 0)
	for _, a := range actions {
		if _, seen := byStep[a.StepIndex]; !seen {
			order = append(order, a.StepIndex)
		}
		byStep[a.StepIndex] = append(byStep[a.StepIndex], a)
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j] < order[j-1]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	state := model.ApprovalState{Steps: make([]model.StepState, 0, len(order))}
	for _, idx := range order {
		state.Steps = append(state.Steps, model.StepState{
			StepIndex: idx,
			Status:    StepStatus(byStep[idx]),
			Actions:   byStep[idx],
		})
	}
	state.CurrentStepIndex = NextPendingStep(actions)
	return state
}

// MatchContext is everything needed to decide whether an action row belongs
// to a user: the user itself, the roles the user holds, and the position on
// the user's employee record.
type MatchContext struct {
	UserID     string
	RoleIDs    map[string]struct{}
	PositionID string
}

// ActionMatches reports whether the action's approver reference resolves to
// the given user.
func ActionMatches(action model.RequestApprovalAction, mc MatchContext) bool {
	if action.ApproverUserID != nil && *action.ApproverUserID == mc.UserID {
		return true
	}
	if action.ApproverRoleID != nil {
		if _, ok := mc.RoleIDs[*action.ApproverRoleID]; ok {
			return true
		}
	}
	if action.ApproverPositionID != nil && mc.PositionID != "" && *action.ApproverPositionID == mc.PositionID {
		return true
	}
	return false
}

// FindPendingAction returns the user's pending action at the given step, or
// nil when the user has nothing to act on there.
func FindPendingAction(actions []model.RequestApprovalAction, stepIndex int, mc MatchContext) *model.RequestApprovalAction {
	for i := range actions {
		a := actions[i]
		if a.StepIndex != stepIndex || a.Status != model.ActionPending {
			continue
		}
		if ActionMatches(a, mc) {
			return &a
		}
	}
	return nil
}

// MaxApprovedAction returns the approved action with the highest step index.
func MaxApprovedAction(actions []model.RequestApprovalAction) *model.RequestApprovalAction {
	var max *model.RequestApprovalAction
	for i := range actions {
		a := actions[i]
		if a.Status != model.ActionApproved {
			continue
		}
		if max == nil || a.StepIndex > max.StepIndex {
			max = &a
		}
	}
	return max
}

// ValidateAnswer checks one raw value against its field definition and
// returns a field-scoped message on failure. Empty optional values pass
// without type checking.
func ValidateAnswer(field rtmodel.RequestField, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if field.Required {
			return fmt.Errorf("%s: field is required", field.FieldKey)
		}
		return nil
	}

	switch field.FieldType {
	case rtmodel.FieldTypeNumber:
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Errorf("%s: value must be a number", field.FieldKey)
		}
	case rtmodel.FieldTypeDate:
		if _, err := time.Parse("2006-01-02", trimmed); err != nil {
			return fmt.Errorf("%s: value must be a date (YYYY-MM-DD)", field.FieldKey)
		}
	case rtmodel.FieldTypeCheckbox:
		if _, err := strconv.ParseBool(trimmed); err != nil {
			return fmt.Errorf("%s: value must be a boolean", field.FieldKey)
		}
	case rtmodel.FieldTypeDropdown, rtmodel.FieldTypeRadio:
		for _, opt := range field.Options {
			if trimmed == opt {
				return nil
			}
		}
		return fmt.Errorf("%s: value is not one of the allowed options", field.FieldKey)
	}
	return nil
}

// ValidateAnswers checks the full answer map against the field definitions.
// Unknown keys are rejected so clients cannot smuggle data past the form.
func ValidateAnswers(fields []rtmodel.RequestField, answers map[string]string) error {
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.FieldKey] = struct{}{}
		if err := ValidateAnswer(f, answers[f.FieldKey]); err != nil {
			return err
		}
	}
	for key := range answers {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%s: unknown field", key)
		}
	}
	return nil
}
