package training

import (
	"context"
	"fmt"

	"github.com/campushr/hr-management-api/internal/approver"
	"github.com/campushr/hr-management-api/internal/employee"
	"github.com/campushr/hr-management-api/internal/organization"
	"github.com/campushr/hr-management-api/internal/requesttype"
	"github.com/campushr/hr-management-api/internal/submission"
	submodel "github.com/campushr/hr-management-api/internal/submission/model"
	"github.com/campushr/hr-management-api/internal/system/config"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/notification"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
	"github.com/campushr/hr-management-api/internal/training/model"
)

// TrainingService defines the exported service interface
type TrainingService interface {
	CreateTraining(ctx context.Context, req model.TrainingRequest) (*model.Training, *serviceerror.ServiceError)
	GetTraining(ctx context.Context, trainingID string) (*model.Training, *serviceerror.ServiceError)
	ListTrainings(ctx context.Context) ([]model.Training, *serviceerror.ServiceError)
	UpdateTraining(ctx context.Context, trainingID string, req model.TrainingRequest) (*model.Training, *serviceerror.ServiceError)
	DeleteTraining(ctx context.Context, trainingID string) *serviceerror.ServiceError

	Apply(ctx context.Context, trainingID, userID string, req model.ApplyRequest) (*model.TrainingApplication, *serviceerror.ServiceError)
	ListApplications(ctx context.Context, trainingID string) ([]model.TrainingApplication, *serviceerror.ServiceError)
	MyApplications(ctx context.Context, userID string) ([]model.TrainingApplication, *serviceerror.ServiceError)

	// DecisionHook mirrors submission outcomes onto applications inside the
	// transaction that decides the submission.
	DecisionHook() submission.DecisionHook
}

// trainingService implements the TrainingService interface
type trainingService struct {
	stores      *stores.StoreRegistry
	submissions submission.SubmissionService
	notifier    notification.Notifier
	cfg         config.TrainingConfig
}

// newTrainingService creates a new training service
func newTrainingService(registry *stores.StoreRegistry, submissions submission.SubmissionService,
	notifier notification.Notifier, cfg config.TrainingConfig) TrainingService {
	return &trainingService{
		stores:      registry,
		submissions: submissions,
		notifier:    notifier,
		cfg:         cfg,
	}
}

func (svc *trainingService) store() trainingStore {
	return svc.stores.Training.(trainingStore)
}

func (svc *trainingService) employeeStore() employee.EmployeeStore {
	return svc.stores.Employee.(employee.EmployeeStore)
}

func (svc *trainingService) orgStore() organization.OrganizationStore {
	return svc.stores.Organization.(organization.OrganizationStore)
}

func (svc *trainingService) requestTypeStore() requesttype.RequestTypeStore {
	return svc.stores.RequestType.(requesttype.RequestTypeStore)
}

func (svc *trainingService) CreateTraining(ctx context.Context, req model.TrainingRequest) (*model.Training, *serviceerror.ServiceError) {
	if svcErr := svc.validateRequest(ctx, req); svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	training := svc.buildTraining(utils.GenerateUUID(), req, now, now)
	if err := svc.stores.ExecuteTransaction(svc.store().BuildCreateTraining(training)); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create training: %v", err))
	}
	return training, nil
}

func (svc *trainingService) GetTraining(ctx context.Context, trainingID string) (*model.Training, *serviceerror.ServiceError) {
	training, err := svc.store().GetTrainingByID(ctx, trainingID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get training: %v", err))
	}
	if training == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "training not found")
	}
	return training, nil
}

func (svc *trainingService) ListTrainings(ctx context.Context) ([]model.Training, *serviceerror.ServiceError) {
	trainings, err := svc.store().ListTrainings(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list trainings: %v", err))
	}
	return trainings, nil
}

func (svc *trainingService) UpdateTraining(ctx context.Context, trainingID string, req model.TrainingRequest) (*model.Training, *serviceerror.ServiceError) {
	existing, svcErr := svc.GetTraining(ctx, trainingID)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := svc.validateRequest(ctx, req); svcErr != nil {
		return nil, svcErr
	}

	training := svc.buildTraining(trainingID, req, existing.CreatedTime, utils.GetCurrentTimeMillis())
	if err := svc.stores.ExecuteTransaction(svc.store().BuildUpdateTraining(training)); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update training: %v", err))
	}
	return training, nil
}

func (svc *trainingService) DeleteTraining(ctx context.Context, trainingID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetTraining(ctx, trainingID); svcErr != nil {
		return svcErr
	}

	applications, err := svc.store().ListApplicationsByTraining(ctx, trainingID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check applications: %v", err))
	}
	if len(applications) > 0 {
		return serviceerror.CustomServiceError(serviceerror.ConflictError, "training has existing applications")
	}

	if err := svc.store().DeleteTraining(ctx, trainingID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete training: %v", err))
	}
	return nil
}

// Apply files an application. When the training requires approval the
// application rides in the same transaction as the created submission, and
// the submission's workflow decides its fate.
func (svc *trainingService) Apply(ctx context.Context, trainingID, userID string, req model.ApplyRequest) (*model.TrainingApplication, *serviceerror.ServiceError) {
	training, svcErr := svc.GetTraining(ctx, trainingID)
	if svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	if training.EndsAt != 0 && now >= training.EndsAt {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "training has already ended")
	}

	if svcErr := svc.checkApplicantScope(ctx, training, userID); svcErr != nil {
		return nil, svcErr
	}

	prior, err := svc.store().ListApplicationsByTrainingAndUser(ctx, trainingID, userID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check prior applications: %v", err))
	}
	for _, p := range prior {
		if p.Status == model.ApplicationPending || p.Status == model.ApplicationApproved {
			return nil, serviceerror.CustomServiceError(serviceerror.ConflictError, "you already have an active application for this training")
		}
	}
	maxReapplications := training.MaxReapplications
	if maxReapplications == 0 {
		maxReapplications = svc.cfg.DefaultMaxReapplications
	}
	if len(prior) >= maxReapplications {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("re-application limit reached (%d attempt(s) allowed)", maxReapplications))
	}

	if training.Capacity > 0 {
		active, err := svc.store().CountActiveApplications(ctx, trainingID)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check capacity: %v", err))
		}
		if active >= training.Capacity {
			return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "training is full")
		}
	}

	application := &model.TrainingApplication{
		ApplicationID: utils.GenerateUUID(),
		TrainingID:    trainingID,
		UserID:        userID,
		Status:        model.ApplicationPending,
		Attempt:       len(prior) + 1,
		CreatedTime:   now,
		UpdatedTime:   now,
	}

	if !training.RequiresApproval {
		application.Status = model.ApplicationApproved
		if err := svc.stores.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
			svc.store().BuildCreateApplication(application),
		}); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create application: %v", err))
		}
		svc.notifier.TrainingDecided(application.ApplicationID, userID, application.Status)
		return application, nil
	}

	// Approval is required; a missing workflow wiring is a configuration
	// error the applicant must see, not a silent skip.
	if training.RequestTypeID == nil || *training.RequestTypeID == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			"training requires approval but no request type is configured for it")
	}

	scope := approver.ScopeFilter{
		FacultyIDs:    training.AllowedFacultyIDs,
		DepartmentIDs: training.AllowedDepartmentIDs,
	}
	detail, svcErr := svc.submissions.Submit(ctx, *training.RequestTypeID, userID,
		submodel.SubmitRequest{Answers: req.Answers},
		submission.WithScope(scope),
		submission.WithExtraTx(func(submissionID string) []func(tx dbmodel.TxInterface) error {
			subID := submissionID
			application.SubmissionID = &subID
			return []func(tx dbmodel.TxInterface) error{svc.store().BuildCreateApplication(application)}
		}),
	)
	if svcErr != nil {
		return nil, svcErr
	}

	// An empty chain decides the submission at submit time, before the
	// application row is visible to the decision hook; mirror it here.
	if mirrored := mirrorStatus(detail.Submission.Status); mirrored != "" && mirrored != application.Status {
		if err := svc.stores.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
			svc.store().BuildUpdateApplicationStatus(application.ApplicationID, mirrored, utils.GetCurrentTimeMillis()),
		}); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update application: %v", err))
		}
		application.Status = mirrored
		svc.notifier.TrainingDecided(application.ApplicationID, userID, mirrored)
	}
	return application, nil
}

func (svc *trainingService) ListApplications(ctx context.Context, trainingID string) ([]model.TrainingApplication, *serviceerror.ServiceError) {
	if _, svcErr := svc.GetTraining(ctx, trainingID); svcErr != nil {
		return nil, svcErr
	}
	applications, err := svc.store().ListApplicationsByTraining(ctx, trainingID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list applications: %v", err))
	}
	return applications, nil
}

func (svc *trainingService) MyApplications(ctx context.Context, userID string) ([]model.TrainingApplication, *serviceerror.ServiceError) {
	applications, err := svc.store().ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list applications: %v", err))
	}
	return applications, nil
}

// DecisionHook returns the hook wired into the submission engine. It adds
// the application status update to the deciding transaction.
func (svc *trainingService) DecisionHook() submission.DecisionHook {
	return func(ctx context.Context, submissionID, newStatus string) ([]func(tx dbmodel.TxInterface) error, error) {
		application, err := svc.store().GetApplicationBySubmission(ctx, submissionID)
		if err != nil {
			return nil, err
		}
		if application == nil {
			return nil, nil
		}
		mirrored := mirrorStatus(newStatus)
		if mirrored == "" || mirrored == application.Status {
			return nil, nil
		}

		svc.notifier.TrainingDecided(application.ApplicationID, application.UserID, mirrored)
		return []func(tx dbmodel.TxInterface) error{
			svc.store().BuildUpdateApplicationStatus(application.ApplicationID, mirrored, utils.GetCurrentTimeMillis()),
		}, nil
	}
}

// mirrorStatus maps a submission status to the application status it
// implies, or empty when no mirroring applies.
func mirrorStatus(submissionStatus string) string {
	switch submissionStatus {
	case submodel.StatusApproved, submodel.StatusFulfillment, submodel.StatusCompleted:
		return model.ApplicationApproved
	case submodel.StatusRejected:
		return model.ApplicationRejected
	}
	return ""
}

// checkApplicantScope rejects applicants outside the training's allow-list.
func (svc *trainingService) checkApplicantScope(ctx context.Context, training *model.Training, userID string) *serviceerror.ServiceError {
	if len(training.AllowedFacultyIDs) == 0 && len(training.AllowedDepartmentIDs) == 0 {
		return nil
	}

	emp, err := svc.employeeStore().GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load employee: %v", err))
	}
	if emp != nil {
		if emp.DepartmentID != nil {
			for _, id := range training.AllowedDepartmentIDs {
				if *emp.DepartmentID == id {
					return nil
				}
			}
		}
		if emp.FacultyID != nil {
			for _, id := range training.AllowedFacultyIDs {
				if *emp.FacultyID == id {
					return nil
				}
			}
		}
	}
	return serviceerror.CustomServiceError(serviceerror.ValidationError, "this training is not open to your faculty or department")
}

func (svc *trainingService) buildTraining(trainingID string, req model.TrainingRequest, createdTime, updatedTime int64) *model.Training {
	maxReapplications := svc.cfg.DefaultMaxReapplications
	if req.MaxReapplications != nil {
		maxReapplications = *req.MaxReapplications
	}
	faculties := req.AllowedFacultyIDs
	if faculties == nil {
		faculties = []string{}
	}
	departments := req.AllowedDepartmentIDs
	if departments == nil {
		departments = []string{}
	}
	return &model.Training{
		TrainingID:           trainingID,
		Title:                req.Title,
		Description:          req.Description,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		Capacity:             req.Capacity,
		RequiresApproval:     req.RequiresApproval,
		RequestTypeID:        req.RequestTypeID,
		MaxReapplications:    maxReapplications,
		AllowedFacultyIDs:    faculties,
		AllowedDepartmentIDs: departments,
		CreatedTime:          createdTime,
		UpdatedTime:          updatedTime,
	}
}

func (svc *trainingService) validateRequest(ctx context.Context, req model.TrainingRequest) *serviceerror.ServiceError {
	if err := utils.ValidateRequired("title", req.Title); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if req.StartsAt != 0 && req.EndsAt != 0 && req.EndsAt < req.StartsAt {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, "ends_at precedes starts_at")
	}
	if req.Capacity < 0 {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, "capacity must not be negative")
	}
	if req.MaxReapplications != nil && *req.MaxReapplications < 1 {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, "max_reapplications must be at least 1")
	}

	if req.RequestTypeID != nil && *req.RequestTypeID != "" {
		requestType, err := svc.requestTypeStore().GetRequestTypeByID(ctx, *req.RequestTypeID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify request type: %v", err))
		}
		if requestType == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, "request_type_id does not reference an existing request type")
		}
	}

	for _, id := range req.AllowedFacultyIDs {
		faculty, err := svc.orgStore().GetFacultyByID(ctx, id)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify faculty: %v", err))
		}
		if faculty == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("allowed faculty %s does not exist", id))
		}
	}
	for _, id := range req.AllowedDepartmentIDs {
		department, err := svc.orgStore().GetDepartmentByID(ctx, id)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify department: %v", err))
		}
		if department == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("allowed department %s does not exist", id))
		}
	}
	return nil
}
