package training

import (
	"context"

	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
	"github.com/campushr/hr-management-api/internal/training/model"
)

// DBQuery objects for training operations
var (
	QueryCreateTraining = dbmodel.DBQuery{
		ID:    "CREATE_TRAINING",
		Query: "INSERT INTO TRAINING (TRAINING_ID, TITLE, DESCRIPTION, STARTS_AT, ENDS_AT, CAPACITY, REQUIRES_APPROVAL, REQUEST_TYPE_ID, MAX_REAPPLICATIONS, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetTrainingByID = dbmodel.DBQuery{
		ID:    "GET_TRAINING_BY_ID",
		Query: "SELECT TRAINING_ID, TITLE, DESCRIPTION, STARTS_AT, ENDS_AT, CAPACITY, REQUIRES_APPROVAL, REQUEST_TYPE_ID, MAX_REAPPLICATIONS, CREATED_TIME, UPDATED_TIME FROM TRAINING WHERE TRAINING_ID = ?",
	}

	QueryListTrainings = dbmodel.DBQuery{
		ID:    "LIST_TRAININGS",
		Query: "SELECT TRAINING_ID, TITLE, DESCRIPTION, STARTS_AT, ENDS_AT, CAPACITY, REQUIRES_APPROVAL, REQUEST_TYPE_ID, MAX_REAPPLICATIONS, CREATED_TIME, UPDATED_TIME FROM TRAINING ORDER BY STARTS_AT DESC",
	}

	QueryUpdateTraining = dbmodel.DBQuery{
		ID:    "UPDATE_TRAINING",
		Query: "UPDATE TRAINING SET TITLE = ?, DESCRIPTION = ?, STARTS_AT = ?, ENDS_AT = ?, CAPACITY = ?, REQUIRES_APPROVAL = ?, REQUEST_TYPE_ID = ?, MAX_REAPPLICATIONS = ?, UPDATED_TIME = ? WHERE TRAINING_ID = ?",
	}

	QueryDeleteTraining = dbmodel.DBQuery{
		ID:    "DELETE_TRAINING",
		Query: "DELETE FROM TRAINING WHERE TRAINING_ID = ?",
	}

	QueryCreateTrainingScope = dbmodel.DBQuery{
		ID:    "CREATE_TRAINING_SCOPE",
		Query: "INSERT INTO TRAINING_SCOPE (TRAINING_ID, SCOPE_TYPE, REF_ID) VALUES (?, ?, ?)",
	}

	QueryGetScopesByTraining = dbmodel.DBQuery{
		ID:    "GET_SCOPES_BY_TRAINING",
		Query: "SELECT TRAINING_ID, SCOPE_TYPE, REF_ID FROM TRAINING_SCOPE WHERE TRAINING_ID = ?",
	}

	QueryDeleteScopesByTraining = dbmodel.DBQuery{
		ID:    "DELETE_SCOPES_BY_TRAINING",
		Query: "DELETE FROM TRAINING_SCOPE WHERE TRAINING_ID = ?",
	}

	QueryCreateApplication = dbmodel.DBQuery{
		ID:    "CREATE_TRAINING_APPLICATION",
		Query: "INSERT INTO TRAINING_APPLICATION (APPLICATION_ID, TRAINING_ID, USER_ID, SUBMISSION_ID, STATUS, ATTEMPT, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetApplicationByID = dbmodel.DBQuery{
		ID:    "GET_TRAINING_APPLICATION_BY_ID",
		Query: "SELECT APPLICATION_ID, TRAINING_ID, USER_ID, SUBMISSION_ID, STATUS, ATTEMPT, CREATED_TIME, UPDATED_TIME FROM TRAINING_APPLICATION WHERE APPLICATION_ID = ?",
	}

	QueryGetApplicationBySubmission = dbmodel.DBQuery{
		ID:    "GET_TRAINING_APPLICATION_BY_SUBMISSION",
		Query: "SELECT APPLICATION_ID, TRAINING_ID, USER_ID, SUBMISSION_ID, STATUS, ATTEMPT, CREATED_TIME, UPDATED_TIME FROM TRAINING_APPLICATION WHERE SUBMISSION_ID = ?",
	}

	QueryListApplicationsByTraining = dbmodel.DBQuery{
		ID:    "LIST_TRAINING_APPLICATIONS_BY_TRAINING",
		Query: "SELECT APPLICATION_ID, TRAINING_ID, USER_ID, SUBMISSION_ID, STATUS, ATTEMPT, CREATED_TIME, UPDATED_TIME FROM TRAINING_APPLICATION WHERE TRAINING_ID = ? ORDER BY CREATED_TIME DESC",
	}

	QueryListApplicationsByUser = dbmodel.DBQuery{
		ID:    "LIST_TRAINING_APPLICATIONS_BY_USER",
		Query: "SELECT APPLICATION_ID, TRAINING_ID, USER_ID, SUBMISSION_ID, STATUS, ATTEMPT, CREATED_TIME, UPDATED_TIME FROM TRAINING_APPLICATION WHERE USER_ID = ? ORDER BY CREATED_TIME DESC",
	}

	QueryListApplicationsByTrainingAndUser = dbmodel.DBQuery{
		ID:    "LIST_TRAINING_APPLICATIONS_BY_TRAINING_AND_USER",
		Query: "SELECT APPLICATION_ID, TRAINING_ID, USER_ID, SUBMISSION_ID, STATUS, ATTEMPT, CREATED_TIME, UPDATED_TIME FROM TRAINING_APPLICATION WHERE TRAINING_ID = ? AND USER_ID = ? ORDER BY CREATED_TIME DESC",
	}

	QueryCountActiveApplications = dbmodel.DBQuery{
		ID:    "COUNT_ACTIVE_TRAINING_APPLICATIONS",
		Query: "SELECT COUNT(*) as count FROM TRAINING_APPLICATION WHERE TRAINING_ID = ? AND STATUS IN ('pending', 'approved')",
	}

	QueryUpdateApplicationStatus = dbmodel.DBQuery{
		ID:    "UPDATE_TRAINING_APPLICATION_STATUS",
		Query: "UPDATE TRAINING_APPLICATION SET STATUS = ?, UPDATED_TIME = ? WHERE APPLICATION_ID = ?",
	}
)

// TrainingStore defines the training lookups other modules consume.
type TrainingStore interface {
	GetTrainingByID(ctx context.Context, trainingID string) (*model.Training, error)
	GetApplicationBySubmission(ctx context.Context, submissionID string) (*model.TrainingApplication, error)
}

// trainingStore defines the full interface used by the training service.
type trainingStore interface {
	TrainingStore

	ListTrainings(ctx context.Context) ([]model.Training, error)
	GetApplicationByID(ctx context.Context, applicationID string) (*model.TrainingApplication, error)
	ListApplicationsByTraining(ctx context.Context, trainingID string) ([]model.TrainingApplication, error)
	ListApplicationsByUser(ctx context.Context, userID string) ([]model.TrainingApplication, error)
	ListApplicationsByTrainingAndUser(ctx context.Context, trainingID, userID string) ([]model.TrainingApplication, error)
	CountActiveApplications(ctx context.Context, trainingID string) (int, error)
	DeleteTraining(ctx context.Context, trainingID string) error

	BuildCreateTraining(t *model.Training) []func(tx dbmodel.TxInterface) error
	BuildUpdateTraining(t *model.Training) []func(tx dbmodel.TxInterface) error
	BuildCreateApplication(a *model.TrainingApplication) func(tx dbmodel.TxInterface) error
	BuildUpdateApplicationStatus(applicationID, status string, updatedTime int64) func(tx dbmodel.TxInterface) error
}

// store implements the trainingStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newTrainingStore creates a new training store
func newTrainingStore(dbClient provider.DBClientInterface) trainingStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) GetTrainingByID(ctx context.Context, trainingID string) (*model.Training, error) {
	rows, err := s.dbClient.Query(QueryGetTrainingByID, trainingID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	training := mapToTraining(rows[0])
	if err := s.attachScopes(training); err != nil {
		return nil, err
	}
	return training, nil
}

func (s *store) ListTrainings(ctx context.Context) ([]model.Training, error) {
	rows, err := s.dbClient.Query(QueryListTrainings)
	if err != nil {
		return nil, err
	}
	trainings := make([]model.Training, 0, len(rows))
	for _, row := range rows {
		training := mapToTraining(row)
		if err := s.attachScopes(training); err != nil {
			return nil, err
		}
		trainings = append(trainings, *training)
	}
	return trainings, nil
}

func (s *store) attachScopes(training *model.Training) error {
	rows, err := s.dbClient.Query(QueryGetScopesByTraining, training.TrainingID)
	if err != nil {
		return err
	}
	training.AllowedFacultyIDs = []string{}
	training.AllowedDepartmentIDs = []string{}
	for _, row := range rows {
		refID := utils.RowString(row, "REF_ID")
		switch utils.RowString(row, "SCOPE_TYPE") {
		case model.ScopeFaculty:
			training.AllowedFacultyIDs = append(training.AllowedFacultyIDs, refID)
		case model.ScopeDepartment:
			training.AllowedDepartmentIDs = append(training.AllowedDepartmentIDs, refID)
		}
	}
	return nil
}

func (s *store) DeleteTraining(ctx context.Context, trainingID string) error {
	if _, err := s.dbClient.Execute(QueryDeleteScopesByTraining, trainingID); err != nil {
		return err
	}
	_, err := s.dbClient.Execute(QueryDeleteTraining, trainingID)
	return err
}

func (s *store) GetApplicationByID(ctx context.Context, applicationID string) (*model.TrainingApplication, error) {
	rows, err := s.dbClient.Query(QueryGetApplicationByID, applicationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToApplication(rows[0]), nil
}

func (s *store) GetApplicationBySubmission(ctx context.Context, submissionID string) (*model.TrainingApplication, error) {
	rows, err := s.dbClient.Query(QueryGetApplicationBySubmission, submissionID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToApplication(rows[0]), nil
}

func (s *store) ListApplicationsByTraining(ctx context.Context, trainingID string) ([]model.TrainingApplication, error) {
	rows, err := s.dbClient.Query(QueryListApplicationsByTraining, trainingID)
	if err != nil {
		return nil, err
	}
	return mapToApplications(rows), nil
}

func (s *store) ListApplicationsByUser(ctx context.Context, userID string) ([]model.TrainingApplication, error) {
	rows, err := s.dbClient.Query(QueryListApplicationsByUser, userID)
	if err != nil {
		return nil, err
	}
	return mapToApplications(rows), nil
}

func (s *store) ListApplicationsByTrainingAndUser(ctx context.Context, trainingID, userID string) ([]model.TrainingApplication, error) {
	rows, err := s.dbClient.Query(QueryListApplicationsByTrainingAndUser, trainingID, userID)
	if err != nil {
		return nil, err
	}
	return mapToApplications(rows), nil
}

func (s *store) CountActiveApplications(ctx context.Context, trainingID string) (int, error) {
	rows, err := s.dbClient.Query(QueryCountActiveApplications, trainingID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utils.RowInt(rows[0], "count"), nil
}

func (s *store) BuildCreateTraining(t *model.Training) []func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryCreateTraining.GetQuery(dbType),
				t.TrainingID, t.Title, t.Description, t.StartsAt, t.EndsAt, t.Capacity,
				t.RequiresApproval, t.RequestTypeID, t.MaxReapplications, t.CreatedTime, t.UpdatedTime)
			return err
		},
	}
	return append(queries, s.buildInsertScopes(t)...)
}

func (s *store) BuildUpdateTraining(t *model.Training) []func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryUpdateTraining.GetQuery(dbType),
				t.Title, t.Description, t.StartsAt, t.EndsAt, t.Capacity,
				t.RequiresApproval, t.RequestTypeID, t.MaxReapplications, t.UpdatedTime, t.TrainingID)
			return err
		},
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryDeleteScopesByTraining.GetQuery(dbType), t.TrainingID)
			return err
		},
	}
	return append(queries, s.buildInsertScopes(t)...)
}

func (s *store) buildInsertScopes(t *model.Training) []func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	queries := make([]func(tx dbmodel.TxInterface) error, 0, len(t.AllowedFacultyIDs)+len(t.AllowedDepartmentIDs))
	for _, id := range t.AllowedFacultyIDs {
		refID := id
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryCreateTrainingScope.GetQuery(dbType), t.TrainingID, model.ScopeFaculty, refID)
			return err
		})
	}
	for _, id := range t.AllowedDepartmentIDs {
		refID := id
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(QueryCreateTrainingScope.GetQuery(dbType), t.TrainingID, model.ScopeDepartment, refID)
			return err
		})
	}
	return queries
}

func (s *store) BuildCreateApplication(a *model.TrainingApplication) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryCreateApplication.GetQuery(dbType),
			a.ApplicationID, a.TrainingID, a.UserID, a.SubmissionID, a.Status,
			a.Attempt, a.CreatedTime, a.UpdatedTime)
		return err
	}
}

func (s *store) BuildUpdateApplicationStatus(applicationID, status string, updatedTime int64) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryUpdateApplicationStatus.GetQuery(dbType), status, updatedTime, applicationID)
		return err
	}
}

func mapToTraining(row map[string]interface{}) *model.Training {
	return &model.Training{
		TrainingID:        utils.RowString(row, "TRAINING_ID"),
		Title:             utils.RowString(row, "TITLE"),
		Description:       utils.RowString(row, "DESCRIPTION"),
		StartsAt:          utils.RowInt64(row, "STARTS_AT"),
		EndsAt:            utils.RowInt64(row, "ENDS_AT"),
		Capacity:          utils.RowInt(row, "CAPACITY"),
		RequiresApproval:  utils.RowBool(row, "REQUIRES_APPROVAL"),
		RequestTypeID:     utils.RowNullableString(row, "REQUEST_TYPE_ID"),
		MaxReapplications: utils.RowInt(row, "MAX_REAPPLICATIONS"),
		CreatedTime:       utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime:       utils.RowInt64(row, "UPDATED_TIME"),
	}
}

func mapToApplications(rows []map[string]interface{}) []model.TrainingApplication {
	applications := make([]model.TrainingApplication, 0, len(rows))
	for _, row := range rows {
		applications = append(applications, *mapToApplication(row))
	}
	return applications
}

func mapToApplication(row map[string]interface{}) *model.TrainingApplication {
	return &model.TrainingApplication{
		ApplicationID: utils.RowString(row, "APPLICATION_ID"),
		TrainingID:    utils.RowString(row, "TRAINING_ID"),
		UserID:        utils.RowString(row, "USER_ID"),
		SubmissionID:  utils.RowNullableString(row, "SUBMISSION_ID"),
		Status:        utils.RowString(row, "STATUS"),
		Attempt:       utils.RowInt(row, "ATTEMPT"),
		CreatedTime:   utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime:   utils.RowInt64(row, "UPDATED_TIME"),
	}
}
