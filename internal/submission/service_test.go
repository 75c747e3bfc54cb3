package submission

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushr/hr-management-api/internal/approver"
	emodel "github.com/campushr/hr-management-api/internal/employee/model"
	imodel "github.com/campushr/hr-management-api/internal/identity/model"
	"github.com/campushr/hr-management-api/internal/leave"
	lmodel "github.com/campushr/hr-management-api/internal/leave/model"
	rtmodel "github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/submission/model"
	"github.com/campushr/hr-management-api/internal/system/config"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// --- in-memory transaction plumbing ---

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

// memSubmissionStore keeps everything in memory; the Build* closures mutate
// it when the transaction runner invokes them.
type memSubmissionStore struct {
	submissions  map[string]*model.RequestSubmission
	answers      map[string][]model.RequestAnswer
	actions      map[string][]model.RequestApprovalAction
	fulfillments map[string]*model.Fulfillment
}

func newMemSubmissionStore() *memSubmissionStore {
	return &memSubmissionStore{
		submissions:  map[string]*model.RequestSubmission{},
		answers:      map[string][]model.RequestAnswer{},
		actions:      map[string][]model.RequestApprovalAction{},
		fulfillments: map[string]*model.Fulfillment{},
	}
}

func (m *memSubmissionStore) GetSubmissionByID(ctx context.Context, id string) (*model.RequestSubmission, error) {
	if s, ok := m.submissions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *memSubmissionStore) GetAnswersBySubmission(ctx context.Context, id string) ([]model.RequestAnswer, error) {
	return m.answers[id], nil
}

func (m *memSubmissionStore) GetActionsBySubmission(ctx context.Context, id string) ([]model.RequestApprovalAction, error) {
	return append([]model.RequestApprovalAction{}, m.actions[id]...), nil
}

func (m *memSubmissionStore) ListSubmissions(ctx context.Context) ([]model.RequestSubmission, error) {
	out := []model.RequestSubmission{}
	for _, s := range m.submissions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSubmissionStore) ListSubmissionsByUser(ctx context.Context, userID string) ([]model.RequestSubmission, error) {
	out := []model.RequestSubmission{}
	for _, s := range m.submissions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSubmissionStore) ListSubmissionsAssigned(ctx context.Context, userID string) ([]model.RequestSubmission, error) {
	out := []model.RequestSubmission{}
	for id, s := range m.submissions {
		for _, a := range m.actions[id] {
			if a.ApproverUserID != nil && *a.ApproverUserID == userID {
				out = append(out, *s)
				break
			}
		}
	}
	return out, nil
}

func (m *memSubmissionStore) GetFulfillmentBySubmission(ctx context.Context, id string) (*model.Fulfillment, error) {
	return m.fulfillments[id], nil
}

func (m *memSubmissionStore) BuildCreateSubmission(s *model.RequestSubmission) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		copied := *s
		m.submissions[s.SubmissionID] = &copied
		return nil
	}
}

func (m *memSubmissionStore) BuildCreateAnswer(a *model.RequestAnswer) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		m.answers[a.SubmissionID] = append(m.answers[a.SubmissionID], *a)
		return nil
	}
}

func (m *memSubmissionStore) BuildCreateAction(a *model.RequestApprovalAction) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		m.actions[a.SubmissionID] = append(m.actions[a.SubmissionID], *a)
		return nil
	}
}

func (m *memSubmissionStore) BuildUpdateAction(a *model.RequestApprovalAction) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		list := m.actions[a.SubmissionID]
		for i := range list {
			if list[i].ActionID == a.ActionID {
				list[i] = *a
			}
		}
		return nil
	}
}

func (m *memSubmissionStore) BuildUpdateSubmissionState(submissionID, status string, currentStepIndex *int, fulfilledTime *int64) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		s := m.submissions[submissionID]
		s.Status = status
		s.CurrentStepIndex = currentStepIndex
		if fulfilledTime != nil {
			s.FulfilledTime = fulfilledTime
		}
		return nil
	}
}

func (m *memSubmissionStore) BuildCreateFulfillment(f *model.Fulfillment) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		copied := *f
		m.fulfillments[f.SubmissionID] = &copied
		return nil
	}
}

// --- collaborator fakes ---

type fakeRequestTypeStore struct {
	definitions map[string]*rtmodel.RequestTypeDefinition
}

func (f *fakeRequestTypeStore) GetRequestTypeByID(ctx context.Context, id string) (*rtmodel.RequestType, error) {
	if def, ok := f.definitions[id]; ok {
		copied := def.RequestType
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRequestTypeStore) GetDefinition(ctx context.Context, id string) (*rtmodel.RequestTypeDefinition, error) {
	return f.definitions[id], nil
}

type fakeIdentityStore struct {
	rolesByUser map[string][]imodel.Role
	permsByUser map[string]map[string]bool
}

func (f *fakeIdentityStore) GetUserByID(ctx context.Context, userID string) (*imodel.User, error) {
	return &imodel.User{UserID: userID}, nil
}

func (f *fakeIdentityStore) GetRoleByID(ctx context.Context, roleID string) (*imodel.Role, error) {
	return &imodel.Role{RoleID: roleID}, nil
}

func (f *fakeIdentityStore) GetRolesByUser(ctx context.Context, userID string) ([]imodel.Role, error) {
	return f.rolesByUser[userID], nil
}

func (f *fakeIdentityStore) GetUserIDsByRole(ctx context.Context, roleID string) ([]string, error) {
	return nil, nil
}

func (f *fakeIdentityStore) UserHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	return false, nil
}

func (f *fakeIdentityStore) UserHasPermission(ctx context.Context, userID, permission string) (bool, error) {
	return f.permsByUser[userID][permission], nil
}

type fakeEmployeeStore struct {
	byUser map[string]*emodel.Employee
}

func (f *fakeEmployeeStore) GetEmployeeByID(ctx context.Context, id string) (*emodel.Employee, error) {
	for _, e := range f.byUser {
		if e.EmployeeID == id {
			return e, nil
		}
	}
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

// fakeResolver maps approver reference IDs straight to resolved approvers.
type fakeResolver struct {
	byRef map[string][]approver.ResolvedApprover
}

func (f *fakeResolver) Resolve(ctx context.Context, refs []rtmodel.ApproverRef, requester approver.RequesterContext, scope approver.ScopeFilter) ([]approver.ResolvedApprover, *serviceerror.ServiceError) {
	resolved := []approver.ResolvedApprover{}
	for _, ref := range refs {
		resolved = append(resolved, f.byRef[ref.RefID]...)
	}
	return resolved, nil
}

func (f *fakeResolver) BuildRequesterContext(ctx context.Context, userID string) (approver.RequesterContext, *serviceerror.ServiceError) {
	return approver.RequesterContext{UserID: userID, EmployeeID: "emp-" + userID}, nil
}

type fakeLeaveService struct {
	deduction  *leave.Deduction
	checkErr   *serviceerror.ServiceError
	deductions []leave.Deduction
}

func (f *fakeLeaveService) CreateLeaveType(ctx context.Context, req lmodel.LeaveTypeRequest) (*lmodel.LeaveType, *serviceerror.ServiceError) {
	return nil, nil
}
func (f *fakeLeaveService) GetLeaveType(ctx context.Context, id string) (*lmodel.LeaveType, *serviceerror.ServiceError) {
	return nil, nil
}
func (f *fakeLeaveService) ListLeaveTypes(ctx context.Context) ([]lmodel.LeaveType, *serviceerror.ServiceError) {
	return nil, nil
}
func (f *fakeLeaveService) UpdateLeaveType(ctx context.Context, id string, req lmodel.LeaveTypeRequest) (*lmodel.LeaveType, *serviceerror.ServiceError) {
	return nil, nil
}
func (f *fakeLeaveService) DeleteLeaveType(ctx context.Context, id string) *serviceerror.ServiceError {
	return nil
}
func (f *fakeLeaveService) GetBalances(ctx context.Context, employeeID string, year int) ([]lmodel.LeaveBalance, *serviceerror.ServiceError) {
	return nil, nil
}
func (f *fakeLeaveService) SetBalance(ctx context.Context, employeeID string, req lmodel.BalanceRequest) (*lmodel.LeaveBalance, *serviceerror.ServiceError) {
	return nil, nil
}
func (f *fakeLeaveService) GetMyBalances(ctx context.Context, userID string, year int) ([]lmodel.LeaveBalance, *serviceerror.ServiceError) {
	return nil, nil
}
func (f *fakeLeaveService) CheckBalanceForRange(ctx context.Context, employeeID, leaveTypeRef, startDate, endDate string) (*leave.Deduction, *serviceerror.ServiceError) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return f.deduction, nil
}
func (f *fakeLeaveService) BuildDeduction(d leave.Deduction) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error {
		f.deductions = append(f.deductions, d)
		return nil
	}
}

type fakeNotifier struct {
	decided   []string
	fulfilled []string
	trainings []string
}

func (f *fakeNotifier) SubmissionDecided(submissionID, requesterID, status string) {
	f.decided = append(f.decided, submissionID+":"+status)
}
func (f *fakeNotifier) SubmissionFulfilled(submissionID, requesterID, fulfillerID string) {
	f.fulfilled = append(f.fulfilled, submissionID)
}
func (f *fakeNotifier) TrainingDecided(applicationID, applicantID, status string) {
	f.trainings = append(f.trainings, applicationID+":"+status)
}

type fakeFileStore struct {
	files   map[string][]byte
	saveErr error
}

func (f *fakeFileStore) Save(path string, content []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[path] = content
	return nil
}

func (f *fakeFileStore) Read(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return content, nil
}

func (f *fakeFileStore) Delete(path string) error {
	delete(f.files, path)
	return nil
}

func (f *fakeFileStore) FullPath(path string) string { return path }

// --- fixture assembly ---

type fixture struct {
	svc      *submissionService
	store    *memSubmissionStore
	leave    *fakeLeaveService
	notifier *fakeNotifier
	files    *fakeFileStore
	identity *fakeIdentityStore
}

// twoStepDefinition builds a published request type whose two steps resolve
// to approver-a then approver-b.
func twoStepDefinition(hasFulfillment bool) *rtmodel.RequestTypeDefinition {
	return &rtmodel.RequestTypeDefinition{
		RequestType: rtmodel.RequestType{
			RequestTypeID:  "rt-1",
			Name:           "Service Letter",
			HasFulfillment: hasFulfillment,
			Published:      true,
		},
		Fields: []rtmodel.RequestField{
			{FieldID: "f-reason", FieldKey: "reason", FieldType: rtmodel.FieldTypeText, Required: true},
		},
		Steps: []rtmodel.ApprovalStep{
			{StepID: "s-0", StepIndex: 0, Approvers: []rtmodel.ApproverRef{{Type: rtmodel.ApproverTypeUser, RefID: "approver-a"}}},
			{StepID: "s-1", StepIndex: 1, Approvers: []rtmodel.ApproverRef{{Type: rtmodel.ApproverTypeUser, RefID: "approver-b"}}},
		},
	}
}

func newFixture(def *rtmodel.RequestTypeDefinition, cfg config.ApprovalConfig) *fixture {
	store := newMemSubmissionStore()
	identityStore := &fakeIdentityStore{
		rolesByUser: map[string][]imodel.Role{},
		permsByUser: map[string]map[string]bool{},
	}
	registry := stores.NewStoreRegistry(&fakeDBClient{})
	registry.Submission = store
	registry.RequestType = &fakeRequestTypeStore{definitions: map[string]*rtmodel.RequestTypeDefinition{def.RequestType.RequestTypeID: def}}
	registry.Identity = identityStore
	registry.Employee = &fakeEmployeeStore{byUser: map[string]*emodel.Employee{}}

	resolver := &fakeResolver{byRef: map[string][]approver.ResolvedApprover{
		"approver-a": {{Type: rtmodel.ApproverTypeUser, UserID: "approver-a"}},
		"approver-b": {{Type: rtmodel.ApproverTypeUser, UserID: "approver-b"}},
	}}

	leaveService := &fakeLeaveService{}
	notifier := &fakeNotifier{}
	files := &fakeFileStore{}
	svc := newSubmissionService(registry, resolver, leaveService, notifier, files, cfg)

	return &fixture{svc: svc, store: store, leave: leaveService, notifier: notifier, files: files, identity: identityStore}
}

func submitOne(t *testing.T, fx *fixture) *model.SubmissionDetail {
	t.Helper()
	detail, svcErr := fx.svc.Submit(context.Background(), "rt-1", "requester",
		model.SubmitRequest{Answers: map[string]string{"reason": "needed for visa"}})
	require.Nil(t, svcErr)
	return detail
}

// --- tests ---

func TestSubmitCreatesPendingChain(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})

	detail := submitOne(t, fx)
	assert.Equal(t, model.StatusPending, detail.Submission.Status)
	require.NotNil(t, detail.Submission.CurrentStepIndex)
	assert.Equal(t, 0, *detail.Submission.CurrentStepIndex)
	assert.Len(t, detail.Actions, 2)
	assert.Len(t, detail.Answers, 1)
	assert.Equal(t, "needed for visa", detail.Answers[0].Value)
	assert.Len(t, detail.ApprovalState.Steps, 2)
}

func TestSubmitRejectsUnpublishedType(t *testing.T) {
	def := twoStepDefinition(false)
	def.RequestType.Published = false
	fx := newFixture(def, config.ApprovalConfig{})

	_, svcErr := fx.svc.Submit(context.Background(), "rt-1", "requester",
		model.SubmitRequest{Answers: map[string]string{"reason": "x"}})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "not published")
}

func TestSubmitRejectsInvalidAnswers(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})

	_, svcErr := fx.svc.Submit(context.Background(), "rt-1", "requester",
		model.SubmitRequest{Answers: map[string]string{"reason": "ok", "bogus": "x"}})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "bogus")
}

func TestSubmitWithNoApproversApprovesImmediately(t *testing.T) {
	def := &rtmodel.RequestTypeDefinition{
		RequestType: rtmodel.RequestType{RequestTypeID: "rt-1", Name: "Auto", Published: true},
	}
	fx := newFixture(def, config.ApprovalConfig{})

	detail := submitOne(t, fx)
	assert.Equal(t, model.StatusApproved, detail.Submission.Status)
	assert.Nil(t, detail.Submission.CurrentStepIndex)
	assert.Contains(t, fx.notifier.decided, detail.Submission.SubmissionID+":approved")
}

func TestSubmitWithNoApproversMovesToFulfillment(t *testing.T) {
	def := &rtmodel.RequestTypeDefinition{
		RequestType: rtmodel.RequestType{RequestTypeID: "rt-1", Name: "Letter", HasFulfillment: true, Published: true},
	}
	fx := newFixture(def, config.ApprovalConfig{})

	detail := submitOne(t, fx)
	assert.Equal(t, model.StatusFulfillment, detail.Submission.Status)
}

func TestApproveAdvancesThenCompletes(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	detail, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "looks fine")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusPending, detail.Submission.Status)
	require.NotNil(t, detail.Submission.CurrentStepIndex)
	assert.Equal(t, 1, *detail.Submission.CurrentStepIndex)

	detail, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusApproved, detail.Submission.Status)
	assert.Nil(t, detail.Submission.CurrentStepIndex)
	assert.Contains(t, fx.notifier.decided, sub.SubmissionID+":approved")
}

func TestApproveRequiresEveryApproverOfStep(t *testing.T) {
	def := twoStepDefinition(false)
	def.Steps = []rtmodel.ApprovalStep{
		{StepID: "s-0", StepIndex: 0, Approvers: []rtmodel.ApproverRef{
			{Type: rtmodel.ApproverTypeUser, RefID: "approver-a"},
			{Type: rtmodel.ApproverTypeUser, RefID: "approver-b"},
		}},
	}
	fx := newFixture(def, config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	detail, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusPending, detail.Submission.Status)
	require.NotNil(t, detail.Submission.CurrentStepIndex)
	assert.Equal(t, 0, *detail.Submission.CurrentStepIndex)

	detail, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusApproved, detail.Submission.Status)
}

func TestRejectTerminatesSubmission(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	detail, svcErr := fx.svc.Reject(context.Background(), sub.SubmissionID, "approver-a", "missing documents")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusRejected, detail.Submission.Status)
	assert.Nil(t, detail.Submission.CurrentStepIndex)

	// The second approver has nothing left to act on.
	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.NotNil(t, svcErr)
}

func TestApproveByStrangerFails(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	_, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "random-user", "")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "No pending approval step found for you")

	// Approver of a later step cannot jump the queue either.
	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "No pending approval step found for you")
}

func TestApprovedChainWithFulfillmentAwaitsDeliverable(t *testing.T) {
	fx := newFixture(twoStepDefinition(true), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	_, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	detail, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusFulfillment, detail.Submission.Status)
}

func TestFulfillByFinalApprover(t *testing.T) {
	fx := newFixture(twoStepDefinition(true), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	_, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)

	detail, svcErr := fx.svc.Fulfill(context.Background(), sub.SubmissionID, "approver-b",
		"letter.pdf", []byte("pdf bytes"), "signed and sealed")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusCompleted, detail.Submission.Status)
	require.NotNil(t, detail.Fulfillment)
	assert.Equal(t, "letter.pdf", detail.Fulfillment.FileName)
	assert.NotEmpty(t, fx.files.files)
	assert.Contains(t, fx.notifier.fulfilled, sub.SubmissionID)
}

func TestFulfillByStrangerDenied(t *testing.T) {
	fx := newFixture(twoStepDefinition(true), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	_, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)

	_, svcErr = fx.svc.Fulfill(context.Background(), sub.SubmissionID, "random-user",
		"letter.pdf", []byte("pdf bytes"), "")
	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.AuthorizationError.Code, svcErr.Code)
}

func TestFulfillWithManagePermission(t *testing.T) {
	fx := newFixture(twoStepDefinition(true), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	_, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)

	fx.identity.permsByUser["hr-officer"] = map[string]bool{"requests.manage": true}
	detail, svcErr := fx.svc.Fulfill(context.Background(), sub.SubmissionID, "hr-officer",
		"letter.pdf", []byte("pdf bytes"), "")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusCompleted, detail.Submission.Status)
}

func TestFulfillRejectsEmptyAndOversizeFiles(t *testing.T) {
	fx := newFixture(twoStepDefinition(true), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	_, svcErr := fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)

	_, svcErr = fx.svc.Fulfill(context.Background(), sub.SubmissionID, "approver-b", "letter.pdf", nil, "")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "required")

	oversize := make([]byte, 15<<20+1)
	_, svcErr = fx.svc.Fulfill(context.Background(), sub.SubmissionID, "approver-b", "letter.pdf", oversize, "")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "15MB")
}

func TestLeaveDeductionAppliedOnFinalApproval(t *testing.T) {
	def := twoStepDefinition(false)
	def.RequestType.Name = "Leave Request"
	def.Fields = []rtmodel.RequestField{
		{FieldID: "f-lt", FieldKey: "leave_type", FieldType: rtmodel.FieldTypeText, Required: true},
		{FieldID: "f-sd", FieldKey: "start_date", FieldType: rtmodel.FieldTypeDate, Required: true},
		{FieldID: "f-ed", FieldKey: "end_date", FieldType: rtmodel.FieldTypeDate, Required: true},
	}
	fx := newFixture(def, config.ApprovalConfig{LeaveRequestType: "Leave Request"})
	fx.leave.deduction = &leave.Deduction{EmployeeID: "emp-requester", LeaveTypeID: "lt-annual", Year: 2025, Days: 3}

	registryEmployees := fx.svc.stores.Employee.(*fakeEmployeeStore)
	registryEmployees.byUser["requester"] = &emodel.Employee{EmployeeID: "emp-requester", UserID: "requester"}

	detail, svcErr := fx.svc.Submit(context.Background(), "rt-1", "requester", model.SubmitRequest{
		Answers: map[string]string{"leave_type": "lt-annual", "start_date": "2025-06-02", "end_date": "2025-06-04"},
	})
	require.Nil(t, svcErr)
	sub := detail.Submission
	assert.Empty(t, fx.leave.deductions)

	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	assert.Empty(t, fx.leave.deductions)

	_, svcErr = fx.svc.Approve(context.Background(), sub.SubmissionID, "approver-b", "")
	require.Nil(t, svcErr)
	require.Len(t, fx.leave.deductions, 1)
	assert.Equal(t, 3, fx.leave.deductions[0].Days)
}

func TestLeaveSubmitFailsOnInsufficientBalance(t *testing.T) {
	def := twoStepDefinition(false)
	def.RequestType.Name = "Leave Request"
	def.Fields = []rtmodel.RequestField{
		{FieldID: "f-lt", FieldKey: "leave_type", FieldType: rtmodel.FieldTypeText, Required: true},
		{FieldID: "f-sd", FieldKey: "start_date", FieldType: rtmodel.FieldTypeDate, Required: true},
		{FieldID: "f-ed", FieldKey: "end_date", FieldType: rtmodel.FieldTypeDate, Required: true},
	}
	fx := newFixture(def, config.ApprovalConfig{LeaveRequestType: "Leave Request"})
	fx.leave.checkErr = serviceerror.CustomServiceError(serviceerror.ValidationError, "leave_type: insufficient leave balance")

	_, svcErr := fx.svc.Submit(context.Background(), "rt-1", "requester", model.SubmitRequest{
		Answers: map[string]string{"leave_type": "lt-annual", "start_date": "2025-06-02", "end_date": "2025-06-04"},
	})
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "insufficient leave balance")
}

func TestDecisionHooksRunOnRejection(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	var hookStatus string
	hookRan := false
	fx.svc.RegisterDecisionHook(func(ctx context.Context, submissionID, newStatus string) ([]func(tx dbmodel.TxInterface) error, error) {
		hookStatus = newStatus
		return []func(tx dbmodel.TxInterface) error{
			func(tx dbmodel.TxInterface) error {
				hookRan = true
				return nil
			},
		}, nil
	})

	_, svcErr := fx.svc.Reject(context.Background(), sub.SubmissionID, "approver-a", "")
	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusRejected, hookStatus)
	assert.True(t, hookRan)
}

func TestListSubmissionsScopes(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	mine, svcErr := fx.svc.ListSubmissions(context.Background(), "requester", model.ListFilter{Scope: "mine"})
	require.Nil(t, svcErr)
	require.Len(t, mine, 1)
	assert.Equal(t, sub.SubmissionID, mine[0].SubmissionID)

	assigned, svcErr := fx.svc.ListSubmissions(context.Background(), "approver-a", model.ListFilter{Scope: "assigned"})
	require.Nil(t, svcErr)
	assert.Len(t, assigned, 1)

	// "all" needs the manage permission.
	_, svcErr = fx.svc.ListSubmissions(context.Background(), "requester", model.ListFilter{Scope: "all"})
	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.AuthorizationError.Code, svcErr.Code)

	fx.identity.permsByUser["hr-officer"] = map[string]bool{"requests.manage": true}
	all, svcErr := fx.svc.ListSubmissions(context.Background(), "hr-officer", model.ListFilter{Scope: "all"})
	require.Nil(t, svcErr)
	assert.Len(t, all, 1)
}

func TestGetSubmissionViewAuthorization(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	// Requester and assigned approver may view.
	_, svcErr := fx.svc.GetSubmission(context.Background(), sub.SubmissionID, "requester")
	require.Nil(t, svcErr)
	_, svcErr = fx.svc.GetSubmission(context.Background(), sub.SubmissionID, "approver-b")
	require.Nil(t, svcErr)

	// A stranger may not.
	_, svcErr = fx.svc.GetSubmission(context.Background(), sub.SubmissionID, "random-user")
	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.AuthorizationError.Code, svcErr.Code)
}

func TestExportCSVIncludesSubmissions(t *testing.T) {
	fx := newFixture(twoStepDefinition(false), config.ApprovalConfig{})
	sub := submitOne(t, fx).Submission

	data, svcErr := fx.svc.ExportCSV(context.Background(), model.ListFilter{})
	require.Nil(t, svcErr)
	csv := string(data)
	assert.Contains(t, csv, "Submission ID")
	assert.Contains(t, csv, sub.SubmissionID)
	assert.Contains(t, csv, "Service Letter")
}
