package requesttype

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/campushr/hr-management-api/internal/requesttype/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for request type operations
var (
	QueryCreateRequestType = dbmodel.DBQuery{
		ID:    "CREATE_REQUEST_TYPE",
		Query: "INSERT INTO REQUEST_TYPE (REQUEST_TYPE_ID, NAME, DESCRIPTION, HAS_FULFILLMENT, PUBLISHED, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetRequestTypeByID = dbmodel.DBQuery{
		ID:    "GET_REQUEST_TYPE_BY_ID",
		Query: "SELECT REQUEST_TYPE_ID, NAME, DESCRIPTION, HAS_FULFILLMENT, PUBLISHED, CREATED_TIME, UPDATED_TIME FROM REQUEST_TYPE WHERE REQUEST_TYPE_ID = ?",
	}

	QueryListRequestTypes = dbmodel.DBQuery{
		ID:    "LIST_REQUEST_TYPES",
		Query: "SELECT REQUEST_TYPE_ID, NAME, DESCRIPTION, HAS_FULFILLMENT, PUBLISHED, CREATED_TIME, UPDATED_TIME FROM REQUEST_TYPE ORDER BY NAME",
	}

	QueryUpdateRequestType = dbmodel.DBQuery{
		ID:    "UPDATE_REQUEST_TYPE",
		Query: "UPDATE REQUEST_TYPE SET NAME = ?, DESCRIPTION = ?, HAS_FULFILLMENT = ?, UPDATED_TIME = ? WHERE REQUEST_TYPE_ID = ?",
	}

	QuerySetRequestTypePublished = dbmodel.DBQuery{
		ID:    "SET_REQUEST_TYPE_PUBLISHED",
		Query: "UPDATE REQUEST_TYPE SET PUBLISHED = ?, UPDATED_TIME = ? WHERE REQUEST_TYPE_ID = ?",
	}

	QueryDeleteRequestType = dbmodel.DBQuery{
		ID:    "DELETE_REQUEST_TYPE",
		Query: "DELETE FROM REQUEST_TYPE WHERE REQUEST_TYPE_ID = ?",
	}

	QueryCreateRequestField = dbmodel.DBQuery{
		ID:    "CREATE_REQUEST_FIELD",
		Query: "INSERT INTO REQUEST_FIELD (FIELD_ID, REQUEST_TYPE_ID, FIELD_KEY, LABEL, FIELD_TYPE, REQUIRED, OPTIONS, SORT_ORDER) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetFieldsByType = dbmodel.DBQuery{
		ID:    "GET_FIELDS_BY_TYPE",
		Query: "SELECT FIELD_ID, REQUEST_TYPE_ID, FIELD_KEY, LABEL, FIELD_TYPE, REQUIRED, OPTIONS, SORT_ORDER FROM REQUEST_FIELD WHERE REQUEST_TYPE_ID = ? ORDER BY SORT_ORDER",
	}

	QueryDeleteFieldsByType = dbmodel.DBQuery{
		ID:    "DELETE_FIELDS_BY_TYPE",
		Query: "DELETE FROM REQUEST_FIELD WHERE REQUEST_TYPE_ID = ?",
	}

	QueryCreateApprovalStep = dbmodel.DBQuery{
		ID:    "CREATE_APPROVAL_STEP",
		Query: "INSERT INTO APPROVAL_STEP (STEP_ID, REQUEST_TYPE_ID, STEP_INDEX, NAME) VALUES (?, ?, ?, ?)",
	}

	QueryGetStepsByType = dbmodel.DBQuery{
		ID:    "GET_STEPS_BY_TYPE",
		Query: "SELECT STEP_ID, REQUEST_TYPE_ID, STEP_INDEX, NAME FROM APPROVAL_STEP WHERE REQUEST_TYPE_ID = ? ORDER BY STEP_INDEX",
	}

	QueryDeleteStepsByType = dbmodel.DBQuery{
		ID:    "DELETE_STEPS_BY_TYPE",
		Query: "DELETE FROM APPROVAL_STEP WHERE REQUEST_TYPE_ID = ?",
	}

	QueryCreateStepApprover = dbmodel.DBQuery{
		ID:    "CREATE_STEP_APPROVER",
		Query: "INSERT INTO STEP_APPROVER (STEP_APPROVER_ID, STEP_ID, APPROVER_TYPE, APPROVER_USER_ID, APPROVER_ROLE_ID, APPROVER_POSITION_ID) VALUES (?, ?, ?, ?, ?, ?)",
	}

	QueryGetApproversByType = dbmodel.DBQuery{
		ID:    "GET_APPROVERS_BY_TYPE",
		Query: "SELECT SA.STEP_APPROVER_ID, SA.STEP_ID, SA.APPROVER_TYPE, SA.APPROVER_USER_ID, SA.APPROVER_ROLE_ID, SA.APPROVER_POSITION_ID FROM STEP_APPROVER SA INNER JOIN APPROVAL_STEP S ON SA.STEP_ID = S.STEP_ID WHERE S.REQUEST_TYPE_ID = ?",
	}

	QueryDeleteApproversByType = dbmodel.DBQuery{
		ID:    "DELETE_APPROVERS_BY_TYPE",
		Query: "DELETE FROM STEP_APPROVER WHERE STEP_ID IN (SELECT STEP_ID FROM APPROVAL_STEP WHERE REQUEST_TYPE_ID = ?)",
	}

	QueryCountSubmissionsByType = dbmodel.DBQuery{
		ID:    "COUNT_SUBMISSIONS_BY_TYPE",
		Query: "SELECT COUNT(*) as count FROM REQUEST_SUBMISSION WHERE REQUEST_TYPE_ID = ?",
	}
)

// RequestTypeStore defines the request type lookups other modules consume.
type RequestTypeStore interface {
	GetRequestTypeByID(ctx context.Context, requestTypeID string) (*model.RequestType, error)
	GetDefinition(ctx context.Context, requestTypeID string) (*model.RequestTypeDefinition, error)
}

// requestTypeStore defines the full interface used by the request type service.
type requestTypeStore interface {
	RequestTypeStore

	ListRequestTypes(ctx context.Context) ([]model.RequestType, error)
	SetPublished(ctx context.Context, requestTypeID string, published bool, updatedTime int64) error
	CountSubmissionsByType(ctx context.Context, requestTypeID string) (int, error)

	BuildCreateDefinition(def *model.RequestTypeDefinition) []func(tx dbmodel.TxInterface) error
	BuildReplaceDefinition(def *model.RequestTypeDefinition) []func(tx dbmodel.TxInterface) error
	BuildDeleteDefinition(requestTypeID string) []func(tx dbmodel.TxInterface) error
}

// store implements the requestTypeStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newRequestTypeStore creates a new request type store
func newRequestTypeStore(dbClient provider.DBClientInterface) requestTypeStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) GetRequestTypeByID(ctx context.Context, requestTypeID string) (*model.RequestType, error) {
	rows, err := s.dbClient.Query(QueryGetRequestTypeByID, requestTypeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToRequestType(rows[0]), nil
}

func (s *store) ListRequestTypes(ctx context.Context) ([]model.RequestType, error) {
	rows, err := s.dbClient.Query(QueryListRequestTypes)
	if err != nil {
		return nil, err
	}
	types := make([]model.RequestType, 0, len(rows))
	for _, row := range rows {
		types = append(types, *mapToRequestType(row))
	}
	return types, nil
}

// GetDefinition assembles the full definition: the type row, its ordered
// fields, and its steps each carrying their approver references.
func (s *store) GetDefinition(ctx context.Context, requestTypeID string) (*model.RequestTypeDefinition, error) {
	requestType, err := s.GetRequestTypeByID(ctx, requestTypeID)
	if err != nil {
		return nil, err
	}
	if requestType == nil {
		return nil, nil
	}

	fieldRows, err := s.dbClient.Query(QueryGetFieldsByType, requestTypeID)
	if err != nil {
		return nil, err
	}
	fields := make([]model.RequestField, 0, len(fieldRows))
	for _, row := range fieldRows {
		fields = append(fields, *mapToRequestField(row))
	}

	stepRows, err := s.dbClient.Query(QueryGetStepsByType, requestTypeID)
	if err != nil {
		return nil, err
	}
	approverRows, err := s.dbClient.Query(QueryGetApproversByType, requestTypeID)
	if err != nil {
		return nil, err
	}
	approversByStep := make(map[string][]model.ApproverRef)
	for _, row := range approverRows {
		stepID := utils.RowString(row, "STEP_ID")
		approversByStep[stepID] = append(approversByStep[stepID], mapToApproverRef(row))
	}

	steps := make([]model.ApprovalStep, 0, len(stepRows))
	for _, row := range stepRows {
		step := mapToApprovalStep(row)
		step.Approvers = approversByStep[step.StepID]
		if step.Approvers == nil {
			step.Approvers = []model.ApproverRef{}
		}
		steps = append(steps, *step)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].StepIndex < steps[j].StepIndex })

	return &model.RequestTypeDefinition{
		RequestType: *requestType,
		Fields:      fields,
		Steps:       steps,
	}, nil
}

func (s *store) SetPublished(ctx context.Context, requestTypeID string, published bool, updatedTime int64) error {
	_, err := s.dbClient.Execute(QuerySetRequestTypePublished, published, updatedTime, requestTypeID)
	return err
}

func (s *store) CountSubmissionsByType(ctx context.Context, requestTypeID string) (int, error) {
	rows, err := s.dbClient.Query(QueryCountSubmissionsByType, requestTypeID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utils.RowInt(rows[0], "count"), nil
}

// BuildCreateDefinition returns the transaction steps inserting a complete
// new definition.
func (s *store) BuildCreateDefinition(def *model.RequestTypeDefinition) []func(tx dbmodel.TxInterface) error {
	rt := def.RequestType
	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryCreateRequestType.GetQuery(s.dbClient.DBType()),
				rt.RequestTypeID, rt.Name, rt.Description, rt.HasFulfillment, rt.Published,
				rt.CreatedTime, rt.UpdatedTime)
			return err
		},
	}
	return append(queries, s.buildInsertChildren(def)...)
}

// BuildReplaceDefinition returns the transaction steps for a replace-all
// update: the type row is updated in place and every field, step, and
// approver row is deleted and re-inserted from the new definition.
func (s *store) BuildReplaceDefinition(def *model.RequestTypeDefinition) []func(tx dbmodel.TxInterface) error {
	rt := def.RequestType
	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryUpdateRequestType.GetQuery(s.dbClient.DBType()),
				rt.Name, rt.Description, rt.HasFulfillment, rt.UpdatedTime, rt.RequestTypeID)
			return err
		},
	}
	queries = append(queries, s.buildDeleteChildren(rt.RequestTypeID)...)
	return append(queries, s.buildInsertChildren(def)...)
}

// BuildDeleteDefinition returns the transaction steps removing a definition
// and all its child rows.
func (s *store) BuildDeleteDefinition(requestTypeID string) []func(tx dbmodel.TxInterface) error {
	queries := s.buildDeleteChildren(requestTypeID)
	return append(queries, func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryDeleteRequestType.GetQuery(s.dbClient.DBType()), requestTypeID)
		return err
	})
}

func (s *store) buildDeleteChildren(requestTypeID string) []func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return []func(tx dbmodel.TxInterface) error{
		// Approvers before steps so the subquery still sees the step rows.
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryDeleteApproversByType.GetQuery(dbType), requestTypeID)
			return err
		},
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryDeleteStepsByType.GetQuery(dbType), requestTypeID)
			return err
		},
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryDeleteFieldsByType.GetQuery(dbType), requestTypeID)
			return err
		},
	}
}

func (s *store) buildInsertChildren(def *model.RequestTypeDefinition) []func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	queries := make([]func(tx dbmodel.TxInterface) error, 0, len(def.Fields)+len(def.Steps))

	for i := range def.Fields {
		field := def.Fields[i]
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			options, err := json.Marshal(field.Options)
			if err != nil {
				return fmt.Errorf("failed to marshal field options: %w", err)
			}
			_, err = tx.Exec(QueryCreateRequestField.GetQuery(dbType),
				field.FieldID, field.RequestTypeID, field.FieldKey, field.Label,
				field.FieldType, field.Required, string(options), field.SortOrder)
			return err
		})
	}

	for i := range def.Steps {
		step := def.Steps[i]
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryCreateApprovalStep.GetQuery(dbType),
				step.StepID, step.RequestTypeID, step.StepIndex, step.Name)
			return err
		})
		for j := range step.Approvers {
			ref := step.Approvers[j]
			stepID := step.StepID
			queries = append(queries, func(tx dbmodel.TxInterface) error {
				userID, roleID, positionID := splitApproverRef(ref)
				_, err := tx.Exec(QueryCreateStepApprover.GetQuery(dbType),
					utils.GenerateUUID(), stepID, string(ref.Type), userID, roleID, positionID)
				return err
			})
		}
	}
	return queries
}

// splitApproverRef spreads a tagged reference across the three nullable
// storage columns.
func splitApproverRef(ref model.ApproverRef) (userID, roleID, positionID *string) {
	id := ref.RefID
	switch ref.Type {
	case model.ApproverTypeUser:
		userID = &id
	case model.ApproverTypeRole:
		roleID = &id
	case model.ApproverTypePosition:
		positionID = &id
	}
	return userID, roleID, positionID
}

func mapToRequestType(row map[string]interface{}) *model.RequestType {
	return &model.RequestType{
		RequestTypeID:  utils.RowString(row, "REQUEST_TYPE_ID"),
		Name:           utils.RowString(row, "NAME"),
		Description:    utils.RowString(row, "DESCRIPTION"),
		HasFulfillment: utils.RowBool(row, "HAS_FULFILLMENT"),
		Published:      utils.RowBool(row, "PUBLISHED"),
		CreatedTime:    utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime:    utils.RowInt64(row, "UPDATED_TIME"),
	}
}

func mapToRequestField(row map[string]interface{}) *model.RequestField {
	field := &model.RequestField{
		FieldID:       utils.RowString(row, "FIELD_ID"),
		RequestTypeID: utils.RowString(row, "REQUEST_TYPE_ID"),
		FieldKey:      utils.RowString(row, "FIELD_KEY"),
		Label:         utils.RowString(row, "LABEL"),
		FieldType:     utils.RowString(row, "FIELD_TYPE"),
		Required:      utils.RowBool(row, "REQUIRED"),
		Options:       []string{},
		SortOrder:     utils.RowInt(row, "SORT_ORDER"),
	}
	raw := utils.RowString(row, "OPTIONS")
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &field.Options)
	}
	return field
}

func mapToApprovalStep(row map[string]interface{}) *model.ApprovalStep {
	return &model.ApprovalStep{
		StepID:        utils.RowString(row, "STEP_ID"),
		RequestTypeID: utils.RowString(row, "REQUEST_TYPE_ID"),
		StepIndex:     utils.RowInt(row, "STEP_INDEX"),
		Name:          utils.RowString(row, "NAME"),
	}
}

// mapToApproverRef rebuilds the tagged reference from whichever storage
// column is populated.
func mapToApproverRef(row map[string]interface{}) model.ApproverRef {
	ref := model.ApproverRef{Type: model.ApproverType(utils.RowString(row, "APPROVER_TYPE"))}
	switch ref.Type {
	case model.ApproverTypeUser:
		ref.RefID = utils.RowString(row, "APPROVER_USER_ID")
	case model.ApproverTypeRole:
		ref.RefID = utils.RowString(row, "APPROVER_ROLE_ID")
	case model.ApproverTypePosition:
		ref.RefID = utils.RowString(row, "APPROVER_POSITION_ID")
	}
	return ref
}
