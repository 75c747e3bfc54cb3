package training

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushr/hr-management-api/internal/approver"
	emodel "github.com/campushr/hr-management-api/internal/employee/model"
	imodel "github.com/campushr/hr-management-api/internal/identity/model"
	omodel "github.com/campushr/hr-management-api/internal/organization/model"
	rtmodel "github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/submission"
	submodel "github.com/campushr/hr-management-api/internal/submission/model"
	"github.com/campushr/hr-management-api/internal/system/config"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/training/model"
)

// The tests wire the real submission service behind the training service so
// the scope filter, the shared transaction, and the decision hook are
// exercised end to end over in-memory stores.

type fakeTx struct{}

func (t *fakeTx) Exec(query string, args ...interface{}) (sql.Result, error) { return nil, nil }
func (t *fakeTx) Query(query string, args ...interface{}) (*sql.Rows, error) { return nil, nil }
func (t *fakeTx) Commit() error                                              { return nil }
func (t *fakeTx) Rollback() error                                            { return nil }

type fakeDBClient struct{}

func (c *fakeDBClient) Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	return nil, nil
}
func (c *fakeDBClient) Execute(query dbmodel.DBQuery, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (c *fakeDBClient) BeginTx() (dbmodel.TxInterface, error) { return &fakeTx{}, nil }
func (c *fakeDBClient) DBType() string                        { return "sqlite" }

type fakeTrainingStore struct {
	trainings    map[string]*model.Training
	applications map[string]*model.TrainingApplication
}

func newFakeTrainingStore() *fakeTrainingStore {
	return &fakeTrainingStore{
		trainings:    map[string]*model.Training{},
		applications: map[string]*model.TrainingApplication{},
	}
}

func (f *fakeTrainingStore) GetTrainingByID(ctx context.Context, trainingID string) (*model.Training, error) {
	return f.trainings[trainingID], nil
}

func (f *fakeTrainingStore) GetApplicationBySubmission(ctx context.Context, submissionID string) (*model.TrainingApplication, error) {
	for _, a := range f.applications {
		if a.SubmissionID != nil && *a.SubmissionID == submissionID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTrainingStore) ListTrainings(ctx context.Context) ([]model.Training, error) {
	out := []model.Training{}
	for _, t := range f.trainings {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTrainingStore) GetApplicationByID(ctx context.Context, applicationID string) (*model.TrainingApplication, error) {
	return f.applications[applicationID], nil
}

func (f *fakeTrainingStore) ListApplicationsByTraining(ctx context.Context, trainingID string) ([]model.TrainingApplication, error) {
	out := []model.TrainingApplication{}
	for _, a := range f.applications {
		if a.TrainingID == trainingID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeTrainingStore) ListApplicationsByUser(ctx context.Context, userID string) ([]model.TrainingApplication, error) {
	out := []model.TrainingApplication{}
	for _, a := range f.applications {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeTrainingStore) ListApplicationsByTrainingAndUser(ctx context.Context, trainingID, userID string) ([]model.TrainingApplication, error) {
	out := []model.TrainingApplication{}
	for _, a := range f.applications {
		if a.TrainingID == trainingID && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeTrainingStore) CountActiveApplications(ctx context.Context, trainingID string) (int, error) {
	count := 0
	for _, a := range f.applications {
		if a.TrainingID == trainingID &&
			(a.Status == model.ApplicationPending || a.Status == model.ApplicationApproved) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTrainingStore) DeleteTraining(ctx context.Context, trainingID string) error {
	delete(f.trainings, trainingID)
	return nil
}

func (f *fakeTrainingStore) BuildCreateTraining(t *model.Training) []func(tx dbmodel.TxInterface) error {
	return []func(tx dbmodel.TxInterface) error{func(tx dbmodel.TxInterface) error {
		copied := *t
		f.trainings[t.TrainingID] = &copied
		return nil
	}}
}

func (f *fakeTrainingStore) BuildUpdateTraining(t *model.Training) []func(tx dbmodel.TxInterface) error {
	return f.BuildCreateTraining(t)
}

func (f *fakeTrainingStore) BuildCreateApplication(a *model.TrainingApplication) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		copied := *a
		f.applications[a.ApplicationID] = &copied
		return nil
	}
}

func (f *fakeTrainingStore) BuildUpdateApplicationStatus(applicationID, status string, updatedTime int64) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		if a, ok := f.applications[applicationID]; ok {
			a.Status = status
			a.UpdatedTime = updatedTime
		}
		return nil
	}
}

// fakeSubmissionStore backs the real submission service in memory.
type fakeSubmissionStore struct {
	submissions map[string]*submodel.RequestSubmission
	answers     map[string][]submodel.RequestAnswer
	actions     map[string][]submodel.RequestApprovalAction
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{
		submissions: map[string]*submodel.RequestSubmission{},
		answers:     map[string][]submodel.RequestAnswer{},
		actions:     map[string][]submodel.RequestApprovalAction{},
	}
}

func (f *fakeSubmissionStore) GetSubmissionByID(ctx context.Context, submissionID string) (*submodel.RequestSubmission, error) {
	if s, ok := f.submissions[submissionID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeSubmissionStore) GetAnswersBySubmission(ctx context.Context, submissionID string) ([]submodel.RequestAnswer, error) {
	return f.answers[submissionID], nil
}

func (f *fakeSubmissionStore) GetActionsBySubmission(ctx context.Context, submissionID string) ([]submodel.RequestApprovalAction, error) {
	return append([]submodel.RequestApprovalAction{}, f.actions[submissionID]...), nil
}

func (f *fakeSubmissionStore) ListSubmissions(ctx context.Context) ([]submodel.RequestSubmission, error) {
	out := []submodel.RequestSubmission{}
	for _, s := range f.submissions {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSubmissionStore) ListSubmissionsByUser(ctx context.Context, userID string) ([]submodel.RequestSubmission, error) {
	return nil, nil
}

func (f *fakeSubmissionStore) ListSubmissionsAssigned(ctx context.Context, userID string) ([]submodel.RequestSubmission, error) {
	return nil, nil
}

func (f *fakeSubmissionStore) GetFulfillmentBySubmission(ctx context.Context, submissionID string) (*submodel.Fulfillment, error) {
	return nil, nil
}

func (f *fakeSubmissionStore) BuildCreateSubmission(s *submodel.RequestSubmission) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		copied := *s
		f.submissions[s.SubmissionID] = &copied
		return nil
	}
}

func (f *fakeSubmissionStore) BuildCreateAnswer(a *submodel.RequestAnswer) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		f.answers[a.SubmissionID] = append(f.answers[a.SubmissionID], *a)
		return nil
	}
}

func (f *fakeSubmissionStore) BuildCreateAction(a *submodel.RequestApprovalAction) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		f.actions[a.SubmissionID] = append(f.actions[a.SubmissionID], *a)
		return nil
	}
}

func (f *fakeSubmissionStore) BuildUpdateAction(a *submodel.RequestApprovalAction) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		list := f.actions[a.SubmissionID]
		for i := range list {
			if list[i].ActionID == a.ActionID {
				list[i] = *a
			}
		}
		return nil
	}
}

func (f *fakeSubmissionStore) BuildUpdateSubmissionState(submissionID, status string, currentStepIndex *int, fulfilledTime *int64) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		s := f.submissions[submissionID]
		s.Status = status
		s.CurrentStepIndex = currentStepIndex
		if fulfilledTime != nil {
			s.FulfilledTime = fulfilledTime
		}
		return nil
	}
}

func (f *fakeSubmissionStore) BuildCreateFulfillment(fl *submodel.Fulfillment) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error { return nil }
}

type fakeRequestTypeStore struct {
	definitions map[string]*rtmodel.RequestTypeDefinition
}

func (f *fakeRequestTypeStore) GetRequestTypeByID(ctx context.Context, requestTypeID string) (*rtmodel.RequestType, error) {
	if def, ok := f.definitions[requestTypeID]; ok {
		copied := def.RequestType
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRequestTypeStore) GetDefinition(ctx context.Context, requestTypeID string) (*rtmodel.RequestTypeDefinition, error) {
	return f.definitions[requestTypeID], nil
}

type fakeIdentityStore struct{}

func (f *fakeIdentityStore) GetUserByID(ctx context.Context, userID string) (*imodel.User, error) {
	return &imodel.User{UserID: userID}, nil
}
func (f *fakeIdentityStore) GetRoleByID(ctx context.Context, roleID string) (*imodel.Role, error) {
	return nil, nil
}
func (f *fakeIdentityStore) GetRolesByUser(ctx context.Context, userID string) ([]imodel.Role, error) {
	return nil, nil
}
func (f *fakeIdentityStore) GetUserIDsByRole(ctx context.Context, roleID string) ([]string, error) {
	return nil, nil
}
func (f *fakeIdentityStore) UserHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	return false, nil
}
func (f *fakeIdentityStore) UserHasPermission(ctx context.Context, userID, permission string) (bool, error) {
	return false, nil
}

type fakeEmployeeStore struct {
	byUser map[string]*emodel.Employee
}

func (f *fakeEmployeeStore) GetEmployeeByID(ctx context.Context, employeeID string) (*emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) GetEmployeeByUserID(ctx context.Context, userID string) (*emodel.Employee, error) {
	return f.byUser[userID], nil
}
func (f *fakeEmployeeStore) ListEmployees(ctx context.Context) ([]emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) ListEmployeesByPosition(ctx context.Context, positionID string) ([]emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) ListEmployeesByPositionInDepartment(ctx context.Context, positionID, departmentID string) ([]emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) ListEmployeesByPositionInFaculty(ctx context.Context, positionID, facultyID string) ([]emodel.Employee, error) {
	return nil, nil
}

type fakeOrgStore struct {
	faculties   map[string]*omodel.Faculty
	departments map[string]*omodel.Department
}

func (f *fakeOrgStore) GetFacultyByID(ctx context.Context, facultyID string) (*omodel.Faculty, error) {
	return f.faculties[facultyID], nil
}
func (f *fakeOrgStore) GetDepartmentByID(ctx context.Context, departmentID string) (*omodel.Department, error) {
	return f.departments[departmentID], nil
}
func (f *fakeOrgStore) GetPositionByID(ctx context.Context, positionID string) (*omodel.Position, error) {
	return nil, nil
}
func (f *fakeOrgStore) ListDepartmentsByFaculty(ctx context.Context, facultyID string) ([]omodel.Department, error) {
	return nil, nil
}

// fakeResolver resolves user refs to themselves and records the scope
// filter it was handed.
type fakeResolver struct {
	lastScope approver.ScopeFilter
}

func (f *fakeResolver) Resolve(ctx context.Context, refs []rtmodel.ApproverRef, requester approver.RequesterContext, scope approver.ScopeFilter) ([]approver.ResolvedApprover, *serviceerror.ServiceError) {
	f.lastScope = scope
	resolved := []approver.ResolvedApprover{}
	for _, ref := range refs {
		if ref.Type == rtmodel.ApproverTypeUser {
			resolved = append(resolved, approver.ResolvedApprover{Type: rtmodel.ApproverTypeUser, UserID: ref.RefID})
		}
	}
	return resolved, nil
}

func (f *fakeResolver) BuildRequesterContext(ctx context.Context, userID string) (approver.RequesterContext, *serviceerror.ServiceError) {
	return approver.RequesterContext{UserID: userID}, nil
}

type fakeNotifier struct {
	trainings []string
}

func (f *fakeNotifier) SubmissionDecided(submissionID, requesterID, status string)    {}
func (f *fakeNotifier) SubmissionFulfilled(submissionID, requesterID, fulfillerID string) {}
func (f *fakeNotifier) TrainingDecided(applicationID, applicantID, status string) {
	f.trainings = append(f.trainings, applicantID+":"+status)
}

type noopFileStore struct{}

func (n *noopFileStore) Save(path string, content []byte) error { return nil }
func (n *noopFileStore) Read(path string) ([]byte, error)       { return nil, nil }
func (n *noopFileStore) Delete(path string) error               { return nil }
func (n *noopFileStore) FullPath(path string) string            { return path }

type fixture struct {
	svc           TrainingService
	submissions   submission.SubmissionService
	trainingStore *fakeTrainingStore
	subStore      *fakeSubmissionStore
	employees     *fakeEmployeeStore
	resolver      *fakeResolver
	notifier      *fakeNotifier
}

func newFixture(definitions map[string]*rtmodel.RequestTypeDefinition) *fixture {
	gin.SetMode(gin.TestMode)

	trainingStore := newFakeTrainingStore()
	subStore := newFakeSubmissionStore()
	employees := &fakeEmployeeStore{byUser: map[string]*emodel.Employee{}}

	registry := stores.NewStoreRegistry(&fakeDBClient{})
	registry.Training = trainingStore
	registry.Submission = subStore
	registry.RequestType = &fakeRequestTypeStore{definitions: definitions}
	registry.Identity = &fakeIdentityStore{}
	registry.Employee = employees
	registry.Organization = &fakeOrgStore{
		faculties:   map[string]*omodel.Faculty{"fac-sci": {FacultyID: "fac-sci", Name: "Science"}},
		departments: map[string]*omodel.Department{"dept-cs": {DepartmentID: "dept-cs", Name: "Computer Science"}},
	}

	resolver := &fakeResolver{}
	notifier := &fakeNotifier{}
	authz := func(permission string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Next() }
	}
	rg := gin.New().Group("/")

	submissions := submission.Initialize(rg, registry, authz, resolver, nil, notifier, &noopFileStore{}, config.ApprovalConfig{})
	svc := Initialize(rg, registry, authz, submissions, notifier, config.TrainingConfig{DefaultMaxReapplications: 2})

	return &fixture{
		svc:           svc,
		submissions:   submissions,
		trainingStore: trainingStore,
		subStore:      subStore,
		employees:     employees,
		resolver:      resolver,
		notifier:      notifier,
	}
}

func strPtr(s string) *string { return &s }

func approvalDefinition() map[string]*rtmodel.RequestTypeDefinition {
	return map[string]*rtmodel.RequestTypeDefinition{
		"rt-training": {
			RequestType: rtmodel.RequestType{RequestTypeID: "rt-training", Name: "Training Application", Published: true},
			Steps: []rtmodel.ApprovalStep{
				{StepID: "s-0", StepIndex: 0, Approvers: []rtmodel.ApproverRef{{Type: rtmodel.ApproverTypeUser, RefID: "head-of-dept"}}},
			},
		},
	}
}

func seedTraining(fx *fixture, t *model.Training) {
	copied := *t
	if copied.AllowedFacultyIDs == nil {
		copied.AllowedFacultyIDs = []string{}
	}
	if copied.AllowedDepartmentIDs == nil {
		copied.AllowedDepartmentIDs = []string{}
	}
	fx.trainingStore.trainings[t.TrainingID] = &copied
}

func TestApplyWithoutApprovalApprovesDirectly(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{TrainingID: "tr-1", Title: "First Aid", Capacity: 10, MaxReapplications: 2})

	app, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)
	assert.Equal(t, model.ApplicationApproved, app.Status)
	assert.Equal(t, 1, app.Attempt)
	assert.Nil(t, app.SubmissionID)
	assert.Contains(t, fx.notifier.trainings, "alice:approved")
	assert.Len(t, fx.trainingStore.applications, 1)
}

func TestApplyWithApprovalCreatesPendingSubmission(t *testing.T) {
	fx := newFixture(approvalDefinition())
	seedTraining(fx, &model.Training{
		TrainingID: "tr-1", Title: "Data Protection", Capacity: 10,
		RequiresApproval: true, RequestTypeID: strPtr("rt-training"), MaxReapplications: 2,
		AllowedFacultyIDs: []string{"fac-sci"},
	})
	facSci := "fac-sci"
	fx.employees.byUser["alice"] = &emodel.Employee{EmployeeID: "emp-1", UserID: "alice", FacultyID: &facSci}

	app, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)
	assert.Equal(t, model.ApplicationPending, app.Status)
	require.NotNil(t, app.SubmissionID)

	sub := fx.subStore.submissions[*app.SubmissionID]
	require.NotNil(t, sub)
	assert.Equal(t, submodel.StatusPending, sub.Status)

	// The training allow-list rides into approver resolution.
	assert.Equal(t, []string{"fac-sci"}, fx.resolver.lastScope.FacultyIDs)
}

func TestDecisionHookMirrorsApproval(t *testing.T) {
	fx := newFixture(approvalDefinition())
	seedTraining(fx, &model.Training{
		TrainingID: "tr-1", Title: "Data Protection", Capacity: 10,
		RequiresApproval: true, RequestTypeID: strPtr("rt-training"), MaxReapplications: 2,
	})

	app, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)

	_, svcErr = fx.submissions.Approve(context.Background(), *app.SubmissionID, "head-of-dept", "welcome aboard")
	require.Nil(t, svcErr)

	stored := fx.trainingStore.applications[app.ApplicationID]
	assert.Equal(t, model.ApplicationApproved, stored.Status)
	assert.Contains(t, fx.notifier.trainings, "alice:approved")
}

func TestDecisionHookMirrorsRejection(t *testing.T) {
	fx := newFixture(approvalDefinition())
	seedTraining(fx, &model.Training{
		TrainingID: "tr-1", Title: "Data Protection", Capacity: 10,
		RequiresApproval: true, RequestTypeID: strPtr("rt-training"), MaxReapplications: 2,
	})

	app, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)

	_, svcErr = fx.submissions.Reject(context.Background(), *app.SubmissionID, "head-of-dept", "course is oversubscribed")
	require.Nil(t, svcErr)
	assert.Equal(t, model.ApplicationRejected, fx.trainingStore.applications[app.ApplicationID].Status)

	// A rejected attempt frees the applicant to try again.
	again, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)
	assert.Equal(t, 2, again.Attempt)
}

func TestApplyWithEmptyChainApprovesImmediately(t *testing.T) {
	definitions := map[string]*rtmodel.RequestTypeDefinition{
		"rt-training": {
			RequestType: rtmodel.RequestType{RequestTypeID: "rt-training", Name: "Training Application", Published: true},
		},
	}
	fx := newFixture(definitions)
	seedTraining(fx, &model.Training{
		TrainingID: "tr-1", Title: "Fire Safety", Capacity: 10,
		RequiresApproval: true, RequestTypeID: strPtr("rt-training"), MaxReapplications: 2,
	})

	app, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)
	assert.Equal(t, model.ApplicationApproved, app.Status)
	assert.Equal(t, model.ApplicationApproved, fx.trainingStore.applications[app.ApplicationID].Status)
	assert.Contains(t, fx.notifier.trainings, "alice:approved")
}

func TestApplyRejectsDuplicateActiveApplication(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{TrainingID: "tr-1", Title: "First Aid", Capacity: 10, MaxReapplications: 3})

	_, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)

	_, svcErr = fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "active application")
}

func TestApplyEnforcesReapplicationCap(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{TrainingID: "tr-1", Title: "First Aid", Capacity: 10, MaxReapplications: 2})

	fx.trainingStore.applications["app-1"] = &model.TrainingApplication{
		ApplicationID: "app-1", TrainingID: "tr-1", UserID: "alice", Status: model.ApplicationRejected, Attempt: 1,
	}
	fx.trainingStore.applications["app-2"] = &model.TrainingApplication{
		ApplicationID: "app-2", TrainingID: "tr-1", UserID: "alice", Status: model.ApplicationRejected, Attempt: 2,
	}

	_, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "re-application limit reached")
}

func TestApplyEnforcesCapacity(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{TrainingID: "tr-1", Title: "First Aid", Capacity: 1, MaxReapplications: 2})

	fx.trainingStore.applications["app-1"] = &model.TrainingApplication{
		ApplicationID: "app-1", TrainingID: "tr-1", UserID: "bob", Status: model.ApplicationApproved, Attempt: 1,
	}

	_, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "training is full")
}

func TestApplyEnforcesScope(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{
		TrainingID: "tr-1", Title: "Faculty Retreat", Capacity: 10, MaxReapplications: 2,
		AllowedFacultyIDs: []string{"fac-sci"},
	})

	// No employee record at all.
	_, svcErr := fx.svc.Apply(context.Background(), "tr-1", "outsider", model.ApplyRequest{})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "not open to your faculty or department")

	// Placed in another faculty.
	facArts := "fac-arts"
	fx.employees.byUser["bob"] = &emodel.Employee{EmployeeID: "emp-2", UserID: "bob", FacultyID: &facArts}
	_, svcErr = fx.svc.Apply(context.Background(), "tr-1", "bob", model.ApplyRequest{})
	require.NotNil(t, svcErr)

	// Placed in the allowed faculty.
	facSci := "fac-sci"
	fx.employees.byUser["carol"] = &emodel.Employee{EmployeeID: "emp-3", UserID: "carol", FacultyID: &facSci}
	_, svcErr = fx.svc.Apply(context.Background(), "tr-1", "carol", model.ApplyRequest{})
	require.Nil(t, svcErr)
}

func TestApplyAfterTrainingEnded(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{
		TrainingID: "tr-1", Title: "Archive Skills", Capacity: 10, MaxReapplications: 2,
		EndsAt: 1, // long past
	})

	_, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "already ended")
}

func TestApplyRequiresConfiguredRequestType(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{
		TrainingID: "tr-1", Title: "Leadership", Capacity: 10, MaxReapplications: 2,
		RequiresApproval: true,
	})

	_, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "no request type is configured")
}

func TestCreateTrainingValidation(t *testing.T) {
	fx := newFixture(approvalDefinition())

	_, svcErr := fx.svc.CreateTraining(context.Background(), model.TrainingRequest{})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "title is required")

	_, svcErr = fx.svc.CreateTraining(context.Background(), model.TrainingRequest{
		Title: "X", StartsAt: 200, EndsAt: 100,
	})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "ends_at precedes starts_at")

	_, svcErr = fx.svc.CreateTraining(context.Background(), model.TrainingRequest{
		Title: "X", RequestTypeID: strPtr("rt-unknown"),
	})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "does not reference an existing request type")

	_, svcErr = fx.svc.CreateTraining(context.Background(), model.TrainingRequest{
		Title: "X", AllowedFacultyIDs: []string{"fac-unknown"},
	})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "does not exist")

	created, svcErr := fx.svc.CreateTraining(context.Background(), model.TrainingRequest{
		Title: "Induction", Capacity: 30, AllowedFacultyIDs: []string{"fac-sci"},
	})
	require.Nil(t, svcErr)
	assert.Equal(t, 2, created.MaxReapplications) // default applied
}

func TestDeleteTrainingWithApplicationsConflicts(t *testing.T) {
	fx := newFixture(nil)
	seedTraining(fx, &model.Training{TrainingID: "tr-1", Title: "First Aid", Capacity: 10, MaxReapplications: 2})

	_, svcErr := fx.svc.Apply(context.Background(), "tr-1", "alice", model.ApplyRequest{})
	require.Nil(t, svcErr)

	svcErr = fx.svc.DeleteTraining(context.Background(), "tr-1")
	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.ConflictError.Code, svcErr.Code)
}
