package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	rtmodel "github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/submission/model"
)

func strPtr(s string) *string { return &s }

func action(step int, status string) model.RequestApprovalAction {
	return model.RequestApprovalAction{StepIndex: step, Status: status}
}

func TestStepStatusAggregation(t *testing.T) {
	// Any rejection terminates the step regardless of other actions.
	assert.Equal(t, model.ActionRejected, StepStatus([]model.RequestApprovalAction{
		action(0, model.ActionApproved),
		action(0, model.ActionRejected),
		action(0, model.ActionPending),
	}))

	// Approved only when every action is approved.
	assert.Equal(t, model.ActionApproved, StepStatus([]model.RequestApprovalAction{
		action(0, model.ActionApproved),
		action(0, model.ActionApproved),
	}))

	// A single undecided action keeps the step pending.
	assert.Equal(t, model.ActionPending, StepStatus([]model.RequestApprovalAction{
		action(0, model.ActionApproved),
		action(0, model.ActionPending),
	}))

	// A step with no actions is vacuously approved.
	assert.Equal(t, model.ActionApproved, StepStatus(nil))
}

func TestNextPendingStep(t *testing.T) {
	actions := []model.RequestApprovalAction{
		action(2, model.ActionPending),
		action(0, model.ActionApproved),
		action(1, model.ActionPending),
	}
	next := NextPendingStep(actions)
	assert.NotNil(t, next)
	assert.Equal(t, 1, *next)

	decided := []model.RequestApprovalAction{
		action(0, model.ActionApproved),
		action(1, model.ActionRejected),
	}
	assert.Nil(t, NextPendingStep(decided))

	assert.Nil(t, NextPendingStep(nil))
}

func TestBuildApprovalStateOrdersSteps(t *testing.T) {
	actions := []model.RequestApprovalAction{
		action(2, model.ActionPending),
		action(0, model.ActionApproved),
		action(1, model.ActionApproved),
		action(2, model.ActionPending),
	}

	state := BuildApprovalState(actions)
	assert.Len(t, state.Steps, 3)
	assert.Equal(t, 0, state.Steps[0].StepIndex)
	assert.Equal(t, 1, state.Steps[1].StepIndex)
	assert.Equal(t, 2, state.Steps[2].StepIndex)

	assert.Equal(t, model.ActionApproved, state.Steps[0].Status)
	assert.Equal(t, model.ActionApproved, state.Steps[1].Status)
	assert.Equal(t, model.ActionPending, state.Steps[2].Status)
	assert.Len(t, state.Steps[2].Actions, 2)

	assert.NotNil(t, state.CurrentStepIndex)
	assert.Equal(t, 2, *state.CurrentStepIndex)
}

func TestActionMatches(t *testing.T) {
	mc := MatchContext{
		UserID:     "user-1",
		RoleIDs:    map[string]struct{}{"role-hr": {}},
		PositionID: "pos-dean",
	}

	assert.True(t, ActionMatches(model.RequestApprovalAction{ApproverUserID: strPtr("user-1")}, mc))
	assert.False(t, ActionMatches(model.RequestApprovalAction{ApproverUserID: strPtr("user-2")}, mc))

	assert.True(t, ActionMatches(model.RequestApprovalAction{ApproverRoleID: strPtr("role-hr")}, mc))
	assert.False(t, ActionMatches(model.RequestApprovalAction{ApproverRoleID: strPtr("role-admin")}, mc))

	assert.True(t, ActionMatches(model.RequestApprovalAction{ApproverPositionID: strPtr("pos-dean")}, mc))
	assert.False(t, ActionMatches(model.RequestApprovalAction{ApproverPositionID: strPtr("pos-hod")}, mc))

	// A user without an employee position never matches position actions.
	noPosition := MatchContext{UserID: "user-1"}
	assert.False(t, ActionMatches(model.RequestApprovalAction{ApproverPositionID: strPtr("pos-dean")}, noPosition))
}

func TestFindPendingAction(t *testing.T) {
	actions := []model.RequestApprovalAction{
		{ActionID: "a1", StepIndex: 0, Status: model.ActionApproved, ApproverUserID: strPtr("user-1")},
		{ActionID: "a2", StepIndex: 1, Status: model.ActionPending, ApproverUserID: strPtr("user-1")},
		{ActionID: "a3", StepIndex: 1, Status: model.ActionPending, ApproverUserID: strPtr("user-2")},
	}
	mc := MatchContext{UserID: "user-1"}

	found := FindPendingAction(actions, 1, mc)
	assert.NotNil(t, found)
	assert.Equal(t, "a2", found.ActionID)

	// Already decided at step 0, nothing pending there for this user.
	assert.Nil(t, FindPendingAction(actions, 0, mc))

	// Step 1 holds nothing for a stranger.
	assert.Nil(t, FindPendingAction(actions, 1, MatchContext{UserID: "user-3"}))
}

func TestMaxApprovedAction(t *testing.T) {
	actions := []model.RequestApprovalAction{
		{ActionID: "a1", StepIndex: 0, Status: model.ActionApproved},
		{ActionID: "a2", StepIndex: 2, Status: model.ActionApproved},
		{ActionID: "a3", StepIndex: 3, Status: model.ActionPending},
	}

	max := MaxApprovedAction(actions)
	assert.NotNil(t, max)
	assert.Equal(t, "a2", max.ActionID)

	assert.Nil(t, MaxApprovedAction([]model.RequestApprovalAction{
		{StepIndex: 0, Status: model.ActionPending},
	}))
}

func TestValidateAnswer(t *testing.T) {
	required := rtmodel.RequestField{FieldKey: "reason", FieldType: rtmodel.FieldTypeText, Required: true}
	assert.Error(t, ValidateAnswer(required, ""))
	assert.Error(t, ValidateAnswer(required, "   "))
	assert.NoError(t, ValidateAnswer(required, "sabbatical"))

	optional := rtmodel.RequestField{FieldKey: "note", FieldType: rtmodel.FieldTypeNumber}
	assert.NoError(t, ValidateAnswer(optional, ""))

	number := rtmodel.RequestField{FieldKey: "amount", FieldType: rtmodel.FieldTypeNumber}
	assert.NoError(t, ValidateAnswer(number, "42.5"))
	assert.Error(t, ValidateAnswer(number, "forty-two"))

	date := rtmodel.RequestField{FieldKey: "start_date", FieldType: rtmodel.FieldTypeDate}
	assert.NoError(t, ValidateAnswer(date, "2025-06-01"))
	assert.Error(t, ValidateAnswer(date, "01/06/2025"))

	checkbox := rtmodel.RequestField{FieldKey: "agree", FieldType: rtmodel.FieldTypeCheckbox}
	assert.NoError(t, ValidateAnswer(checkbox, "true"))
	assert.Error(t, ValidateAnswer(checkbox, "yes please"))

	dropdown := rtmodel.RequestField{
		FieldKey:  "leave_type",
		FieldType: rtmodel.FieldTypeDropdown,
		Options:   []string{"annual", "sick"},
	}
	assert.NoError(t, ValidateAnswer(dropdown, "annual"))
	assert.Error(t, ValidateAnswer(dropdown, "unpaid"))
}

func TestValidateAnswersRejectsUnknownKeys(t *testing.T) {
	fields := []rtmodel.RequestField{
		{FieldKey: "reason", FieldType: rtmodel.FieldTypeText, Required: true},
	}

	err := ValidateAnswers(fields, map[string]string{"reason": "ok", "smuggled": "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "smuggled")

	assert.NoError(t, ValidateAnswers(fields, map[string]string{"reason": "ok"}))

	// Missing required answer is a field-scoped failure.
	err = ValidateAnswers(fields, map[string]string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
}
