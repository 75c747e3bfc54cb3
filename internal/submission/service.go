package submission

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/campushr/hr-management-api/internal/approver"
	"github.com/campushr/hr-management-api/internal/employee"
	"github.com/campushr/hr-management-api/internal/identity"
	"github.com/campushr/hr-management-api/internal/leave"
	"github.com/campushr/hr-management-api/internal/requesttype"
	rtmodel "github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/submission/model"
	"github.com/campushr/hr-management-api/internal/system/config"
	"github.com/campushr/hr-management-api/internal/system/constants"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/log"
	"github.com/campushr/hr-management-api/internal/system/notification"
	"github.com/campushr/hr-management-api/internal/system/storage"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DecisionHook contributes extra transaction steps when a submission reaches
// a terminal-or-fulfillment status. Hooks run inside the same transaction as
// the status transition; returning no steps is fine.
type DecisionHook func(ctx context.Context, submissionID, newStatus string) ([]func(tx dbmodel.TxInterface) error, error)

// SubmitOption customizes a single submit call.
type SubmitOption func(*submitOptions)

type submitOptions struct {
	scope   approver.ScopeFilter
	extraTx func(submissionID string) []func(tx dbmodel.TxInterface) error
}

// WithScope restricts approver resolution to an allow-list of faculties and
// departments.
func WithScope(scope approver.ScopeFilter) SubmitOption {
	return func(o *submitOptions) { o.scope = scope }
}

// WithExtraTx appends caller-supplied steps to the submit transaction. The
// callback receives the new submission's ID before the transaction runs.
func WithExtraTx(build func(submissionID string) []func(tx dbmodel.TxInterface) error) SubmitOption {
	return func(o *submitOptions) { o.extraTx = build }
}

// SubmissionService defines the exported service interface
type SubmissionService interface {
	Submit(ctx context.Context, requestTypeID, userID string, req model.SubmitRequest, opts ...SubmitOption) (*model.SubmissionDetail, *serviceerror.ServiceError)
	GetSubmission(ctx context.Context, submissionID, userID string) (*model.SubmissionDetail, *serviceerror.ServiceError)
	ListSubmissions(ctx context.Context, userID string, filter model.ListFilter) ([]model.RequestSubmission, *serviceerror.ServiceError)
	Approve(ctx context.Context, submissionID, userID, notes string) (*model.SubmissionDetail, *serviceerror.ServiceError)
	Reject(ctx context.Context, submissionID, userID, notes string) (*model.SubmissionDetail, *serviceerror.ServiceError)
	Fulfill(ctx context.Context, submissionID, userID, fileName string, content []byte, notes string) (*model.SubmissionDetail, *serviceerror.ServiceError)
	DownloadFulfillment(ctx context.Context, submissionID, userID string) (string, []byte, *serviceerror.ServiceError)

	UserCanApprove(ctx context.Context, submissionID, userID string) (bool, *serviceerror.ServiceError)
	UserCanFulfill(ctx context.Context, submissionID, userID string) (bool, *serviceerror.ServiceError)

	ExportCSV(ctx context.Context, filter model.ListFilter) ([]byte, *serviceerror.ServiceError)
	ExportXLSX(ctx context.Context, filter model.ListFilter) ([]byte, *serviceerror.ServiceError)

	RegisterDecisionHook(hook DecisionHook)
}

// submissionService implements the SubmissionService interface
type submissionService struct {
	stores    *stores.StoreRegistry
	resolver  approver.ApproverResolver
	leave     leave.LeaveService
	notifier  notification.Notifier
	fileStore storage.FileStore
	cfg       config.ApprovalConfig
	hooks     []DecisionHook
}

// newSubmissionService creates a new submission service
func newSubmissionService(registry *stores.StoreRegistry, resolver approver.ApproverResolver,
	leaveService leave.LeaveService, notifier notification.Notifier,
	fileStore storage.FileStore, cfg config.ApprovalConfig) *submissionService {
	return &submissionService{
		stores:    registry,
		resolver:  resolver,
		leave:     leaveService,
		notifier:  notifier,
		fileStore: fileStore,
		cfg:       cfg,
	}
}

func (svc *submissionService) store() submissionStore {
	return svc.stores.Submission.(submissionStore)
}

func (svc *submissionService) requestTypeStore() requesttype.RequestTypeStore {
	return svc.stores.RequestType.(requesttype.RequestTypeStore)
}

func (svc *submissionService) identityStore() identity.IdentityStore {
	return svc.stores.Identity.(identity.IdentityStore)
}

func (svc *submissionService) employeeStore() employee.EmployeeStore {
	return svc.stores.Employee.(employee.EmployeeStore)
}

// RegisterDecisionHook adds a hook invoked on every decided transition.
func (svc *submissionService) RegisterDecisionHook(hook DecisionHook) {
	svc.hooks = append(svc.hooks, hook)
}

// Submit validates the answers against the type's form, runs the leave
// balance check when applicable, resolves approvers for every step, and
// persists the submission atomically. An empty chain is approved (or moved
// to fulfillment) on the spot.
func (svc *submissionService) Submit(ctx context.Context, requestTypeID, userID string, req model.SubmitRequest, opts ...SubmitOption) (*model.SubmissionDetail, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "SubmissionService"))
	options := submitOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	def, err := svc.requestTypeStore().GetDefinition(ctx, requestTypeID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load request type: %v", err))
	}
	if def == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "request type not found")
	}
	if !def.RequestType.Published {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "request type is not published")
	}

	if req.Answers == nil {
		req.Answers = map[string]string{}
	}
	if err := ValidateAnswers(def.Fields, req.Answers); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	requester, svcErr := svc.resolver.BuildRequesterContext(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	var deduction *leave.Deduction
	if svc.isLeaveType(def.RequestType) {
		if requester.EmployeeID == "" {
			return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "no employee record for requesting user")
		}
		deduction, svcErr = svc.leave.CheckBalanceForRange(ctx, requester.EmployeeID,
			req.Answers["leave_type"], req.Answers["start_date"], req.Answers["end_date"])
		if svcErr != nil {
			return nil, svcErr
		}
	}

	now := utils.GetCurrentTimeMillis()
	sub := &model.RequestSubmission{
		SubmissionID:  utils.GenerateUUID(),
		RequestTypeID: requestTypeID,
		UserID:        userID,
		Status:        model.StatusPending,
		SubmittedTime: now,
	}

	actions := make([]model.RequestApprovalAction, 0)
	for _, step := range def.Steps {
		resolved, svcErr := svc.resolver.Resolve(ctx, step.Approvers, requester, options.scope)
		if svcErr != nil {
			return nil, svcErr
		}
		if len(resolved) == 0 {
			logger.Warn("Approval step resolved to no approvers, skipping",
				log.String("request_type_id", requestTypeID),
				log.Int("step_index", step.StepIndex))
			continue
		}
		for _, r := range resolved {
			actions = append(actions, buildAction(sub.SubmissionID, step.StepIndex, r))
		}
	}

	finalStatus := ""
	if next := NextPendingStep(actions); next != nil {
		sub.CurrentStepIndex = next
	} else if def.RequestType.HasFulfillment {
		sub.Status = model.StatusFulfillment
		finalStatus = model.StatusFulfillment
	} else {
		sub.Status = model.StatusApproved
		finalStatus = model.StatusApproved
	}

	queries := []func(tx dbmodel.TxInterface) error{svc.store().BuildCreateSubmission(sub)}
	for key, value := range req.Answers {
		fieldID := ""
		for _, f := range def.Fields {
			if f.FieldKey == key {
				fieldID = f.FieldID
				break
			}
		}
		queries = append(queries, svc.store().BuildCreateAnswer(&model.RequestAnswer{
			AnswerID:     utils.GenerateUUID(),
			SubmissionID: sub.SubmissionID,
			FieldID:      fieldID,
			FieldKey:     key,
			Value:        value,
		}))
	}
	for i := range actions {
		queries = append(queries, svc.store().BuildCreateAction(&actions[i]))
	}
	if options.extraTx != nil {
		queries = append(queries, options.extraTx(sub.SubmissionID)...)
	}
	if finalStatus == model.StatusApproved && deduction != nil {
		queries = append(queries, svc.leave.BuildDeduction(*deduction))
	}
	if finalStatus != "" {
		hookQueries, svcErr := svc.collectHookQueries(ctx, sub.SubmissionID, finalStatus)
		if svcErr != nil {
			return nil, svcErr
		}
		queries = append(queries, hookQueries...)
	}

	if err := svc.stores.ExecuteTransaction(queries); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to persist submission: %v", err))
	}

	if finalStatus == model.StatusApproved {
		svc.notifier.SubmissionDecided(sub.SubmissionID, sub.UserID, finalStatus)
	}

	return svc.assembleDetail(ctx, sub)
}

// Approve records the caller's approval on their pending action at the
// current step, recomputes the step aggregate, and advances the chain or
// finishes it.
func (svc *submissionService) Approve(ctx context.Context, submissionID, userID, notes string) (*model.SubmissionDetail, *serviceerror.ServiceError) {
	sub, actions, action, svcErr := svc.loadForDecision(ctx, submissionID, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	action.Status = model.ActionApproved
	action.ActedBy = &userID
	action.ActedAt = &now
	if notes != "" {
		action.Notes = &notes
	}
	applyAction(actions, *action)

	queries := []func(tx dbmodel.TxInterface) error{svc.store().BuildUpdateAction(action)}

	stepActions := actionsAtStep(actions, action.StepIndex)
	finalStatus := ""
	if StepStatus(stepActions) == model.ActionApproved {
		if next := NextPendingStep(actions); next != nil {
			sub.CurrentStepIndex = next
			queries = append(queries, svc.store().BuildUpdateSubmissionState(submissionID, model.StatusPending, next, nil))
		} else {
			finalStatus, svcErr = svc.finishChain(ctx, sub, &queries)
			if svcErr != nil {
				return nil, svcErr
			}
		}
	}

	if err := svc.stores.ExecuteTransaction(queries); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to record approval: %v", err))
	}

	if finalStatus != "" {
		svc.notifier.SubmissionDecided(submissionID, sub.UserID, finalStatus)
	}
	return svc.assembleDetail(ctx, sub)
}

// Reject records the caller's rejection and terminates the whole submission
// immediately.
func (svc *submissionService) Reject(ctx context.Context, submissionID, userID, notes string) (*model.SubmissionDetail, *serviceerror.ServiceError) {
	sub, _, action, svcErr := svc.loadForDecision(ctx, submissionID, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	action.Status = model.ActionRejected
	action.ActedBy = &userID
	action.ActedAt = &now
	if notes != "" {
		action.Notes = &notes
	}

	queries := []func(tx dbmodel.TxInterface) error{
		svc.store().BuildUpdateAction(action),
		svc.store().BuildUpdateSubmissionState(submissionID, model.StatusRejected, nil, nil),
	}
	hookQueries, svcErr := svc.collectHookQueries(ctx, submissionID, model.StatusRejected)
	if svcErr != nil {
		return nil, svcErr
	}
	queries = append(queries, hookQueries...)

	if err := svc.stores.ExecuteTransaction(queries); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to record rejection: %v", err))
	}

	sub.Status = model.StatusRejected
	sub.CurrentStepIndex = nil
	svc.notifier.SubmissionDecided(submissionID, sub.UserID, model.StatusRejected)
	return svc.assembleDetail(ctx, sub)
}

// Fulfill attaches the deliverable and completes a fulfillment-stage
// submission.
func (svc *submissionService) Fulfill(ctx context.Context, submissionID, userID, fileName string, content []byte, notes string) (*model.SubmissionDetail, *serviceerror.ServiceError) {
	sub, svcErr := svc.getSubmission(ctx, submissionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if sub.Status != model.StatusFulfillment {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "submission is not awaiting fulfillment")
	}

	allowed, svcErr := svc.UserCanFulfill(ctx, submissionID, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if !allowed {
		return nil, serviceerror.CustomServiceError(serviceerror.AuthorizationError, "you are not allowed to fulfill this request")
	}

	if len(content) == 0 {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "fulfillment file is required")
	}
	if len(content) > constants.MaxFulfillmentFileSize {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "fulfillment file exceeds the 15MB limit")
	}

	safeName := filepath.Base(fileName)
	path := filepath.Join("fulfillments", submissionID, safeName)
	if err := svc.fileStore.Save(path, content); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to store fulfillment file: %v", err))
	}

	now := utils.GetCurrentTimeMillis()
	fulfillment := &model.Fulfillment{
		SubmissionID: submissionID,
		FulfillerID:  userID,
		FilePath:     path,
		FileName:     safeName,
		CompletedAt:  now,
	}
	if notes != "" {
		fulfillment.Notes = &notes
	}

	queries := []func(tx dbmodel.TxInterface) error{
		svc.store().BuildCreateFulfillment(fulfillment),
		svc.store().BuildUpdateSubmissionState(submissionID, model.StatusCompleted, nil, &now),
	}
	hookQueries, svcErr := svc.collectHookQueries(ctx, submissionID, model.StatusCompleted)
	if svcErr != nil {
		return nil, svcErr
	}
	queries = append(queries, hookQueries...)

	if err := svc.stores.ExecuteTransaction(queries); err != nil {
		// The transaction failed, so the stored file is orphaned.
		if cleanupErr := svc.fileStore.Delete(path); cleanupErr != nil {
			log.GetLogger().Warn("Failed to clean up orphaned fulfillment file",
				log.String("path", path), log.Error(cleanupErr))
		}
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to record fulfillment: %v", err))
	}

	sub.Status = model.StatusCompleted
	sub.FulfilledTime = &now
	svc.notifier.SubmissionFulfilled(submissionID, sub.UserID, userID)
	return svc.assembleDetail(ctx, sub)
}

// DownloadFulfillment streams the stored deliverable to an authorized viewer.
func (svc *submissionService) DownloadFulfillment(ctx context.Context, submissionID, userID string) (string, []byte, *serviceerror.ServiceError) {
	detail, svcErr := svc.GetSubmission(ctx, submissionID, userID)
	if svcErr != nil {
		return "", nil, svcErr
	}
	if detail.Fulfillment == nil {
		return "", nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "submission has no fulfillment file")
	}

	content, err := svc.fileStore.Read(detail.Fulfillment.FilePath)
	if err != nil {
		return "", nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to read fulfillment file: %v", err))
	}
	return detail.Fulfillment.FileName, content, nil
}

func (svc *submissionService) GetSubmission(ctx context.Context, submissionID, userID string) (*model.SubmissionDetail, *serviceerror.ServiceError) {
	sub, svcErr := svc.getSubmission(ctx, submissionID)
	if svcErr != nil {
		return nil, svcErr
	}

	actions, err := svc.store().GetActionsBySubmission(ctx, submissionID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load actions: %v", err))
	}

	authorized, svcErr := svc.authorizeView(ctx, sub, actions, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if !authorized {
		return nil, serviceerror.CustomServiceError(serviceerror.AuthorizationError, "you are not allowed to view this request")
	}
	return svc.assembleDetailWithActions(ctx, sub, actions)
}

func (svc *submissionService) ListSubmissions(ctx context.Context, userID string, filter model.ListFilter) ([]model.RequestSubmission, *serviceerror.ServiceError) {
	var (
		subs []model.RequestSubmission
		err  error
	)
	switch filter.Scope {
	case "assigned":
		subs, err = svc.store().ListSubmissionsAssigned(ctx, userID)
	case "all":
		hasManage, permErr := svc.identityStore().UserHasPermission(ctx, userID, constants.PermRequestsManage)
		if permErr != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check permission: %v", permErr))
		}
		if !hasManage {
			return nil, serviceerror.CustomServiceError(serviceerror.AuthorizationError, "listing all requests requires the requests.manage permission")
		}
		subs, err = svc.store().ListSubmissions(ctx)
	default:
		subs, err = svc.store().ListSubmissionsByUser(ctx, userID)
	}
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list submissions: %v", err))
	}
	return filterSubmissions(subs, filter), nil
}

// UserCanApprove reports whether the user holds a pending action at the
// submission's current step.
func (svc *submissionService) UserCanApprove(ctx context.Context, submissionID, userID string) (bool, *serviceerror.ServiceError) {
	sub, svcErr := svc.getSubmission(ctx, submissionID)
	if svcErr != nil {
		return false, svcErr
	}
	if sub.Status != model.StatusPending || sub.CurrentStepIndex == nil {
		return false, nil
	}
	actions, err := svc.store().GetActionsBySubmission(ctx, submissionID)
	if err != nil {
		return false, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load actions: %v", err))
	}
	mc, svcErr := svc.buildMatchContext(ctx, userID)
	if svcErr != nil {
		return false, svcErr
	}
	return FindPendingAction(actions, *sub.CurrentStepIndex, mc) != nil, nil
}

// UserCanFulfill reports whether the user may attach the deliverable: either
// the manage permission or being the approver who decided the highest step.
func (svc *submissionService) UserCanFulfill(ctx context.Context, submissionID, userID string) (bool, *serviceerror.ServiceError) {
	sub, svcErr := svc.getSubmission(ctx, submissionID)
	if svcErr != nil {
		return false, svcErr
	}
	if sub.Status != model.StatusFulfillment {
		return false, nil
	}

	hasManage, err := svc.identityStore().UserHasPermission(ctx, userID, constants.PermRequestsManage)
	if err != nil {
		return false, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check permission: %v", err))
	}
	if hasManage {
		return true, nil
	}

	actions, actErr := svc.store().GetActionsBySubmission(ctx, submissionID)
	if actErr != nil {
		return false, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load actions: %v", actErr))
	}
	max := MaxApprovedAction(actions)
	if max == nil {
		return false, nil
	}
	if max.ActedBy != nil && *max.ActedBy == userID {
		return true, nil
	}
	mc, svcErr := svc.buildMatchContext(ctx, userID)
	if svcErr != nil {
		return false, svcErr
	}
	return ActionMatches(*max, mc), nil
}

// ExportCSV renders the filtered submissions as CSV.
func (svc *submissionService) ExportCSV(ctx context.Context, filter model.ListFilter) ([]byte, *serviceerror.ServiceError) {
	rows, svcErr := svc.exportRows(ctx, filter)
	if svcErr != nil {
		return nil, svcErr
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to write export: %v", err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to write export: %v", err))
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders the filtered submissions as an XLSX workbook.
func (svc *submissionService) ExportXLSX(ctx context.Context, filter model.ListFilter) ([]byte, *serviceerror.ServiceError) {
	rows, svcErr := svc.exportRows(ctx, filter)
	if svcErr != nil {
		return nil, svcErr
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Requests"
	f.SetSheetName("Sheet1", sheet)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to build export: %v", err))
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to build export: %v", err))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to build export: %v", err))
	}
	return buf.Bytes(), nil
}

func (svc *submissionService) exportRows(ctx context.Context, filter model.ListFilter) ([][]string, *serviceerror.ServiceError) {
	subs, err := svc.store().ListSubmissions(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list submissions: %v", err))
	}
	subs = filterSubmissions(subs, filter)

	typeNames := make(map[string]string)
	rows := [][]string{{"Submission ID", "Request Type", "Requester", "Status", "Current Step", "Submitted", "Fulfilled"}}
	for _, s := range subs {
		name, ok := typeNames[s.RequestTypeID]
		if !ok {
			rt, err := svc.requestTypeStore().GetRequestTypeByID(ctx, s.RequestTypeID)
			if err == nil && rt != nil {
				name = rt.Name
			}
			typeNames[s.RequestTypeID] = name
		}
		step := ""
		if s.CurrentStepIndex != nil {
			step = strconv.Itoa(*s.CurrentStepIndex)
		}
		fulfilled := ""
		if s.FulfilledTime != nil {
			fulfilled = utils.MillisToTime(*s.FulfilledTime).Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			s.SubmissionID,
			name,
			s.UserID,
			s.Status,
			step,
			utils.MillisToTime(s.SubmittedTime).Format("2006-01-02 15:04:05"),
			fulfilled,
		})
	}
	return rows, nil
}

// loadForDecision resolves the submission, its actions, and the caller's
// pending action at the current step.
func (svc *submissionService) loadForDecision(ctx context.Context, submissionID, userID string) (*model.RequestSubmission, []model.RequestApprovalAction, *model.RequestApprovalAction, *serviceerror.ServiceError) {
	sub, svcErr := svc.getSubmission(ctx, submissionID)
	if svcErr != nil {
		return nil, nil, nil, svcErr
	}
	if sub.Status != model.StatusPending || sub.CurrentStepIndex == nil {
		return nil, nil, nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "submission is not awaiting approval")
	}

	actions, err := svc.store().GetActionsBySubmission(ctx, submissionID)
	if err != nil {
		return nil, nil, nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load actions: %v", err))
	}
	mc, svcErr := svc.buildMatchContext(ctx, userID)
	if svcErr != nil {
		return nil, nil, nil, svcErr
	}

	action := FindPendingAction(actions, *sub.CurrentStepIndex, mc)
	if action == nil {
		return nil, nil, nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "No pending approval step found for you")
	}
	return sub, actions, action, nil
}

// finishChain appends the terminal transition for a fully approved chain:
// fulfillment stage when configured, otherwise approved with the leave
// deduction and decision hooks applied.
func (svc *submissionService) finishChain(ctx context.Context, sub *model.RequestSubmission, queries *[]func(tx dbmodel.TxInterface) error) (string, *serviceerror.ServiceError) {
	requestType, err := svc.requestTypeStore().GetRequestTypeByID(ctx, sub.RequestTypeID)
	if err != nil {
		return "", serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load request type: %v", err))
	}
	if requestType == nil {
		return "", serviceerror.CustomServiceError(serviceerror.InternalServerError, "request type missing for submission")
	}

	finalStatus := model.StatusApproved
	if requestType.HasFulfillment {
		finalStatus = model.StatusFulfillment
	}
	*queries = append(*queries, svc.store().BuildUpdateSubmissionState(sub.SubmissionID, finalStatus, nil, nil))
	sub.Status = finalStatus
	sub.CurrentStepIndex = nil

	if svc.isLeaveType(*requestType) {
		deductionQueries, svcErr := svc.buildLeaveDeduction(ctx, sub)
		if svcErr != nil {
			return "", svcErr
		}
		*queries = append(*queries, deductionQueries...)
	}

	hookQueries, svcErr := svc.collectHookQueries(ctx, sub.SubmissionID, finalStatus)
	if svcErr != nil {
		return "", svcErr
	}
	*queries = append(*queries, hookQueries...)
	return finalStatus, nil
}

// buildLeaveDeduction re-validates the leave range against the current
// balance and returns the deduction step. Approving a leave request the
// requester no longer has balance for fails the approval.
func (svc *submissionService) buildLeaveDeduction(ctx context.Context, sub *model.RequestSubmission) ([]func(tx dbmodel.TxInterface) error, *serviceerror.ServiceError) {
	answers, err := svc.store().GetAnswersBySubmission(ctx, sub.SubmissionID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load answers: %v", err))
	}
	values := make(map[string]string, len(answers))
	for _, a := range answers {
		values[a.FieldKey] = a.Value
	}

	emp, err := svc.employeeStore().GetEmployeeByUserID(ctx, sub.UserID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load employee: %v", err))
	}
	if emp == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "no employee record for requesting user")
	}

	deduction, svcErr := svc.leave.CheckBalanceForRange(ctx, emp.EmployeeID,
		values["leave_type"], values["start_date"], values["end_date"])
	if svcErr != nil {
		return nil, svcErr
	}
	return []func(tx dbmodel.TxInterface) error{svc.leave.BuildDeduction(*deduction)}, nil
}

func (svc *submissionService) collectHookQueries(ctx context.Context, submissionID, newStatus string) ([]func(tx dbmodel.TxInterface) error, *serviceerror.ServiceError) {
	var queries []func(tx dbmodel.TxInterface) error
	for _, hook := range svc.hooks {
		hookQueries, err := hook(ctx, submissionID, newStatus)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("decision hook failed: %v", err))
		}
		queries = append(queries, hookQueries...)
	}
	return queries, nil
}

func (svc *submissionService) getSubmission(ctx context.Context, submissionID string) (*model.RequestSubmission, *serviceerror.ServiceError) {
	sub, err := svc.store().GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get submission: %v", err))
	}
	if sub == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "submission not found")
	}
	return sub, nil
}

// buildMatchContext gathers the user's roles and position for action
// matching.
func (svc *submissionService) buildMatchContext(ctx context.Context, userID string) (MatchContext, *serviceerror.ServiceError) {
	mc := MatchContext{UserID: userID, RoleIDs: map[string]struct{}{}}

	roles, err := svc.identityStore().GetRolesByUser(ctx, userID)
	if err != nil {
		return mc, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load roles: %v", err))
	}
	for _, r := range roles {
		mc.RoleIDs[r.RoleID] = struct{}{}
	}

	emp, err := svc.employeeStore().GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return mc, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load employee: %v", err))
	}
	if emp != nil && emp.PositionID != nil {
		mc.PositionID = *emp.PositionID
	}
	return mc, nil
}

// authorizeView allows the requester, anyone referenced by an action row,
// and holders of the manage permission.
func (svc *submissionService) authorizeView(ctx context.Context, sub *model.RequestSubmission, actions []model.RequestApprovalAction, userID string) (bool, *serviceerror.ServiceError) {
	if sub.UserID == userID {
		return true, nil
	}
	hasManage, err := svc.identityStore().UserHasPermission(ctx, userID, constants.PermRequestsManage)
	if err != nil {
		return false, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check permission: %v", err))
	}
	if hasManage {
		return true, nil
	}
	mc, svcErr := svc.buildMatchContext(ctx, userID)
	if svcErr != nil {
		return false, svcErr
	}
	for _, a := range actions {
		if ActionMatches(a, mc) {
			return true, nil
		}
	}
	return false, nil
}

func (svc *submissionService) assembleDetail(ctx context.Context, sub *model.RequestSubmission) (*model.SubmissionDetail, *serviceerror.ServiceError) {
	actions, err := svc.store().GetActionsBySubmission(ctx, sub.SubmissionID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load actions: %v", err))
	}
	return svc.assembleDetailWithActions(ctx, sub, actions)
}

func (svc *submissionService) assembleDetailWithActions(ctx context.Context, sub *model.RequestSubmission, actions []model.RequestApprovalAction) (*model.SubmissionDetail, *serviceerror.ServiceError) {
	answers, err := svc.store().GetAnswersBySubmission(ctx, sub.SubmissionID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load answers: %v", err))
	}
	fulfillment, err := svc.store().GetFulfillmentBySubmission(ctx, sub.SubmissionID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load fulfillment: %v", err))
	}

	return &model.SubmissionDetail{
		Submission:    *sub,
		Answers:       answers,
		Actions:       actions,
		ApprovalState: BuildApprovalState(actions),
		Fulfillment:   fulfillment,
	}, nil
}

// isLeaveType matches the configured leave request type by ID or name.
func (svc *submissionService) isLeaveType(rt rtmodel.RequestType) bool {
	if svc.cfg.LeaveRequestType == "" {
		return false
	}
	return rt.RequestTypeID == svc.cfg.LeaveRequestType || rt.Name == svc.cfg.LeaveRequestType
}

func buildAction(submissionID string, stepIndex int, r approver.ResolvedApprover) model.RequestApprovalAction {
	action := model.RequestApprovalAction{
		ActionID:     utils.GenerateUUID(),
		SubmissionID: submissionID,
		StepIndex:    stepIndex,
		Status:       model.ActionPending,
		Meta: model.ActionMeta{
			WasResolvedFromRole:     r.WasResolvedFromRole,
			WasResolvedFromPosition: r.WasResolvedFromPosition,
			WasEscalated:            r.WasEscalated,
		},
	}
	if r.UserID != "" {
		userID := r.UserID
		action.ApproverUserID = &userID
	}
	if r.RoleID != "" {
		roleID := r.RoleID
		action.ApproverRoleID = &roleID
	}
	if r.PositionID != "" {
		positionID := r.PositionID
		action.ApproverPositionID = &positionID
	}
	return action
}

func applyAction(actions []model.RequestApprovalAction, updated model.RequestApprovalAction) {
	for i := range actions {
		if actions[i].ActionID == updated.ActionID {
			actions[i] = updated
			return
		}
	}
}

func actionsAtStep(actions []model.RequestApprovalAction, stepIndex int) []model.RequestApprovalAction {
	stepActions := make([]model.RequestApprovalAction, 0, len(actions))
	for _, a := range actions {
		if a.StepIndex == stepIndex {
			stepActions = append(stepActions, a)
		}
	}
	return stepActions
}

func filterSubmissions(subs []model.RequestSubmission, filter model.ListFilter) []model.RequestSubmission {
	if filter.Status == "" && filter.RequestTypeID == "" {
		return subs
	}
	filtered := make([]model.RequestSubmission, 0, len(subs))
	for _, s := range subs {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.RequestTypeID != "" && s.RequestTypeID != filter.RequestTypeID {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}
