package submission

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campushr/hr-management-api/internal/submission/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for submission operations
var (
	QueryCreateSubmission = dbmodel.DBQuery{
		ID:    "CREATE_SUBMISSION",
		Query: "INSERT INTO REQUEST_SUBMISSION (SUBMISSION_ID, REQUEST_TYPE_ID, USER_ID, STATUS, CURRENT_STEP_INDEX, SUBMITTED_TIME, FULFILLED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetSubmissionByID = dbmodel.DBQuery{
		ID:    "GET_SUBMISSION_BY_ID",
		Query: "SELECT SUBMISSION_ID, REQUEST_TYPE_ID, USER_ID, STATUS, CURRENT_STEP_INDEX, SUBMITTED_TIME, FULFILLED_TIME FROM REQUEST_SUBMISSION WHERE SUBMISSION_ID = ?",
	}

	QueryListSubmissions = dbmodel.DBQuery{
		ID:    "LIST_SUBMISSIONS",
		Query: "SELECT SUBMISSION_ID, REQUEST_TYPE_ID, USER_ID, STATUS, CURRENT_STEP_INDEX, SUBMITTED_TIME, FULFILLED_TIME FROM REQUEST_SUBMISSION ORDER BY SUBMITTED_TIME DESC",
	}

	QueryListSubmissionsByUser = dbmodel.DBQuery{
		ID:    "LIST_SUBMISSIONS_BY_USER",
		Query: "SELECT SUBMISSION_ID, REQUEST_TYPE_ID, USER_ID, STATUS, CURRENT_STEP_INDEX, SUBMITTED_TIME, FULFILLED_TIME FROM REQUEST_SUBMISSION WHERE USER_ID = ? ORDER BY SUBMITTED_TIME DESC",
	}

	// A submission is assigned to a user when any of its action rows
	// references the user directly, one of the user's roles, or the
	// position the user's employee record holds.
	QueryListSubmissionsAssigned = dbmodel.DBQuery{
		ID: "LIST_SUBMISSIONS_ASSIGNED",
		Query: "SELECT DISTINCT S.SUBMISSION_ID, S.REQUEST_TYPE_ID, S.USER_ID, S.STATUS, S.CURRENT_STEP_INDEX, S.SUBMITTED_TIME, S.FULFILLED_TIME " +
			"FROM REQUEST_SUBMISSION S INNER JOIN REQUEST_APPROVAL_ACTION A ON S.SUBMISSION_ID = A.SUBMISSION_ID " +
			"WHERE A.APPROVER_USER_ID = ? " +
			"OR (A.APPROVER_ROLE_ID IS NOT NULL AND A.APPROVER_ROLE_ID IN (SELECT ROLE_ID FROM USER_ROLE WHERE USER_ID = ?)) " +
			"OR (A.APPROVER_POSITION_ID IS NOT NULL AND A.APPROVER_POSITION_ID IN (SELECT POSITION_ID FROM EMPLOYEE WHERE USER_ID = ? AND POSITION_ID IS NOT NULL)) " +
			"ORDER BY S.SUBMITTED_TIME DESC",
	}

	QueryUpdateSubmissionState = dbmodel.DBQuery{
		ID:    "UPDATE_SUBMISSION_STATE",
		Query: "UPDATE REQUEST_SUBMISSION SET STATUS = ?, CURRENT_STEP_INDEX = ?, FULFILLED_TIME = ? WHERE SUBMISSION_ID = ?",
	}

	QueryCreateAnswer = dbmodel.DBQuery{
		ID:    "CREATE_ANSWER",
		Query: "INSERT INTO REQUEST_ANSWER (ANSWER_ID, SUBMISSION_ID, FIELD_ID, FIELD_KEY, VALUE) VALUES (?, ?, ?, ?, ?)",
	}

	QueryGetAnswersBySubmission = dbmodel.DBQuery{
		ID:    "GET_ANSWERS_BY_SUBMISSION",
		Query: "SELECT ANSWER_ID, SUBMISSION_ID, FIELD_ID, FIELD_KEY, VALUE FROM REQUEST_ANSWER WHERE SUBMISSION_ID = ?",
	}

	QueryCreateAction = dbmodel.DBQuery{
		ID:    "CREATE_ACTION",
		Query: "INSERT INTO REQUEST_APPROVAL_ACTION (ACTION_ID, SUBMISSION_ID, STEP_INDEX, STATUS, APPROVER_USER_ID, APPROVER_ROLE_ID, APPROVER_POSITION_ID, ACTED_BY, NOTES, ACTED_AT, META) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetActionsBySubmission = dbmodel.DBQuery{
		ID:    "GET_ACTIONS_BY_SUBMISSION",
		Query: "SELECT ACTION_ID, SUBMISSION_ID, STEP_INDEX, STATUS, APPROVER_USER_ID, APPROVER_ROLE_ID, APPROVER_POSITION_ID, ACTED_BY, NOTES, ACTED_AT, META FROM REQUEST_APPROVAL_ACTION WHERE SUBMISSION_ID = ? ORDER BY STEP_INDEX",
	}

	QueryUpdateAction = dbmodel.DBQuery{
		ID:    "UPDATE_ACTION",
		Query: "UPDATE REQUEST_APPROVAL_ACTION SET STATUS = ?, ACTED_BY = ?, NOTES = ?, ACTED_AT = ? WHERE ACTION_ID = ?",
	}

	QueryCreateFulfillment = dbmodel.DBQuery{
		ID:    "CREATE_FULFILLMENT",
		Query: "INSERT INTO FULFILLMENT (SUBMISSION_ID, FULFILLER_ID, FILE_PATH, FILE_NAME, NOTES, COMPLETED_AT) VALUES (?, ?, ?, ?, ?, ?)",
	}

	QueryGetFulfillmentBySubmission = dbmodel.DBQuery{
		ID:    "GET_FULFILLMENT_BY_SUBMISSION",
		Query: "SELECT SUBMISSION_ID, FULFILLER_ID, FILE_PATH, FILE_NAME, NOTES, COMPLETED_AT FROM FULFILLMENT WHERE SUBMISSION_ID = ?",
	}
)

// SubmissionStore defines the submission lookups other modules consume.
type SubmissionStore interface {
	GetSubmissionByID(ctx context.Context, submissionID string) (*model.RequestSubmission, error)
	GetAnswersBySubmission(ctx context.Context, submissionID string) ([]model.RequestAnswer, error)
	GetActionsBySubmission(ctx context.Context, submissionID string) ([]model.RequestApprovalAction, error)
	ListSubmissions(ctx context.Context) ([]model.RequestSubmission, error)
}

// submissionStore defines the full interface used by the submission service.
type submissionStore interface {
	SubmissionStore

	ListSubmissionsByUser(ctx context.Context, userID string) ([]model.RequestSubmission, error)
	ListSubmissionsAssigned(ctx context.Context, userID string) ([]model.RequestSubmission, error)
	GetFulfillmentBySubmission(ctx context.Context, submissionID string) (*model.Fulfillment, error)

	BuildCreateSubmission(s *model.RequestSubmission) func(tx dbmodel.TxInterface) error
	BuildCreateAnswer(a *model.RequestAnswer) func(tx dbmodel.TxInterface) error
	BuildCreateAction(a *model.RequestApprovalAction) func(tx dbmodel.TxInterface) error
	BuildUpdateAction(a *model.RequestApprovalAction) func(tx dbmodel.TxInterface) error
	BuildUpdateSubmissionState(submissionID, status string, currentStepIndex *int, fulfilledTime *int64) func(tx dbmodel.TxInterface) error
	BuildCreateFulfillment(f *model.Fulfillment) func(tx dbmodel.TxInterface) error
}

// store implements the submissionStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newSubmissionStore creates a new submission store
func newSubmissionStore(dbClient provider.DBClientInterface) submissionStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) GetSubmissionByID(ctx context.Context, submissionID string) (*model.RequestSubmission, error) {
	rows, err := s.dbClient.Query(QueryGetSubmissionByID, submissionID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToSubmission(rows[0]), nil
}

func (s *store) ListSubmissions(ctx context.Context) ([]model.RequestSubmission, error) {
	rows, err := s.dbClient.Query(QueryListSubmissions)
	if err != nil {
		return nil, err
	}
	return mapToSubmissions(rows), nil
}

func (s *store) ListSubmissionsByUser(ctx context.Context, userID string) ([]model.RequestSubmission, error) {
	rows, err := s.dbClient.Query(QueryListSubmissionsByUser, userID)
	if err != nil {
		return nil, err
	}
	return mapToSubmissions(rows), nil
}

func (s *store) ListSubmissionsAssigned(ctx context.Context, userID string) ([]model.RequestSubmission, error) {
	rows, err := s.dbClient.Query(QueryListSubmissionsAssigned, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	return mapToSubmissions(rows), nil
}

func (s *store) GetAnswersBySubmission(ctx context.Context, submissionID string) ([]model.RequestAnswer, error) {
	rows, err := s.dbClient.Query(QueryGetAnswersBySubmission, submissionID)
	if err != nil {
		return nil, err
	}
	answers := make([]model.RequestAnswer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, model.RequestAnswer{
			AnswerID:     utils.RowString(row, "ANSWER_ID"),
			SubmissionID: utils.RowString(row, "SUBMISSION_ID"),
			FieldID:      utils.RowString(row, "FIELD_ID"),
			FieldKey:     utils.RowString(row, "FIELD_KEY"),
			Value:        utils.RowString(row, "VALUE"),
		})
	}
	return answers, nil
}

func (s *store) GetActionsBySubmission(ctx context.Context, submissionID string) ([]model.RequestApprovalAction, error) {
	rows, err := s.dbClient.Query(QueryGetActionsBySubmission, submissionID)
	if err != nil {
		return nil, err
	}
	actions := make([]model.RequestApprovalAction, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, *mapToAction(row))
	}
	return actions, nil
}

func (s *store) GetFulfillmentBySubmission(ctx context.Context, submissionID string) (*model.Fulfillment, error) {
	rows, err := s.dbClient.Query(QueryGetFulfillmentBySubmission, submissionID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &model.Fulfillment{
		SubmissionID: utils.RowString(row, "SUBMISSION_ID"),
		FulfillerID:  utils.RowString(row, "FULFILLER_ID"),
		FilePath:     utils.RowString(row, "FILE_PATH"),
		FileName:     utils.RowString(row, "FILE_NAME"),
		Notes:        utils.RowNullableString(row, "NOTES"),
		CompletedAt:  utils.RowInt64(row, "COMPLETED_AT"),
	}, nil
}

func (s *store) BuildCreateSubmission(sub *model.RequestSubmission) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryCreateSubmission.GetQuery(dbType),
			sub.SubmissionID, sub.RequestTypeID, sub.UserID, sub.Status,
			sub.CurrentStepIndex, sub.SubmittedTime, sub.FulfilledTime)
		return err
	}
}

func (s *store) BuildCreateAnswer(a *model.RequestAnswer) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryCreateAnswer.GetQuery(dbType),
			a.AnswerID, a.SubmissionID, a.FieldID, a.FieldKey, a.Value)
		return err
	}
}

func (s *store) BuildCreateAction(a *model.RequestApprovalAction) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		meta, err := json.Marshal(a.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal action meta: %w", err)
		}
		_, err = tx.Exec(QueryCreateAction.GetQuery(dbType),
			a.ActionID, a.SubmissionID, a.StepIndex, a.Status,
			a.ApproverUserID, a.ApproverRoleID, a.ApproverPositionID,
			a.ActedBy, a.Notes, a.ActedAt, string(meta))
		return err
	}
}

func (s *store) BuildUpdateAction(a *model.RequestApprovalAction) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryUpdateAction.GetQuery(dbType),
			a.Status, a.ActedBy, a.Notes, a.ActedAt, a.ActionID)
		return err
	}
}

func (s *store) BuildUpdateSubmissionState(submissionID, status string, currentStepIndex *int, fulfilledTime *int64) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryUpdateSubmissionState.GetQuery(dbType),
			status, currentStepIndex, fulfilledTime, submissionID)
		return err
	}
}

func (s *store) BuildCreateFulfillment(f *model.Fulfillment) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryCreateFulfillment.GetQuery(dbType),
			f.SubmissionID, f.FulfillerID, f.FilePath, f.FileName, f.Notes, f.CompletedAt)
		return err
	}
}

func mapToSubmissions(rows []map[string]interface{}) []model.RequestSubmission {
	submissions := make([]model.RequestSubmission, 0, len(rows))
	for _, row := range rows {
		submissions = append(submissions, *mapToSubmission(row))
	}
	return submissions
}

func mapToSubmission(row map[string]interface{}) *model.RequestSubmission {
	sub := &model.RequestSubmission{
		SubmissionID:  utils.RowString(row, "SUBMISSION_ID"),
		RequestTypeID: utils.RowString(row, "REQUEST_TYPE_ID"),
		UserID:        utils.RowString(row, "USER_ID"),
		Status:        utils.RowString(row, "STATUS"),
		SubmittedTime: utils.RowInt64(row, "SUBMITTED_TIME"),
		FulfilledTime: utils.RowNullableInt64(row, "FULFILLED_TIME"),
	}
	if step := utils.RowNullableInt64(row, "CURRENT_STEP_INDEX"); step != nil {
		idx := int(*step)
		sub.CurrentStepIndex = &idx
	}
	return sub
}

func mapToAction(row map[string]interface{}) *model.RequestApprovalAction {
	action := &model.RequestApprovalAction{
		ActionID:           utils.RowString(row, "ACTION_ID"),
		SubmissionID:       utils.RowString(row, "SUBMISSION_ID"),
		StepIndex:          utils.RowInt(row, "STEP_INDEX"),
		Status:             utils.RowString(row, "STATUS"),
		ApproverUserID:     utils.RowNullableString(row, "APPROVER_USER_ID"),
		ApproverRoleID:     utils.RowNullableString(row, "APPROVER_ROLE_ID"),
		ApproverPositionID: utils.RowNullableString(row, "APPROVER_POSITION_ID"),
		ActedBy:            utils.RowNullableString(row, "ACTED_BY"),
		Notes:              utils.RowNullableString(row, "NOTES"),
		ActedAt:            utils.RowNullableInt64(row, "ACTED_AT"),
	}
	raw := utils.RowString(row, "META")
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &action.Meta)
	}
	return action
}
