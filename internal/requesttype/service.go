package requesttype

import (
	"context"
	"fmt"

	"github.com/campushr/hr-management-api/internal/identity"
	"github.com/campushr/hr-management-api/internal/organization"
	"github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// RequestTypeService defines the exported service interface
type RequestTypeService interface {
	CreateRequestType(ctx context.Context, req model.RequestTypeRequest) (*model.RequestTypeDefinition, *serviceerror.ServiceError)
	GetRequestType(ctx context.Context, requestTypeID string) (*model.RequestTypeDefinition, *serviceerror.ServiceError)
	ListRequestTypes(ctx context.Context) ([]model.RequestType, *serviceerror.ServiceError)
	UpdateRequestType(ctx context.Context, requestTypeID string, req model.RequestTypeRequest) (*model.RequestTypeDefinition, *serviceerror.ServiceError)
	DeleteRequestType(ctx context.Context, requestTypeID string) *serviceerror.ServiceError
	SetPublished(ctx context.Context, requestTypeID string, published bool) (*model.RequestType, *serviceerror.ServiceError)
}

// requestTypeService implements the RequestTypeService interface
type requestTypeService struct {
	stores *stores.StoreRegistry
}

// newRequestTypeService creates a new request type service
func newRequestTypeService(registry *stores.StoreRegistry) RequestTypeService {
	return &requestTypeService{
		stores: registry,
	}
}

func (svc *requestTypeService) store() requestTypeStore {
	return svc.stores.RequestType.(requestTypeStore)
}

func (svc *requestTypeService) identityStore() identity.IdentityStore {
	return svc.stores.Identity.(identity.IdentityStore)
}

func (svc *requestTypeService) orgStore() organization.OrganizationStore {
	return svc.stores.Organization.(organization.OrganizationStore)
}

func (svc *requestTypeService) CreateRequestType(ctx context.Context, req model.RequestTypeRequest) (*model.RequestTypeDefinition, *serviceerror.ServiceError) {
	if svcErr := svc.validateRequest(ctx, req); svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	def := buildDefinition(utils.GenerateUUID(), req, now, now)

	if err := svc.stores.ExecuteTransaction(svc.store().BuildCreateDefinition(def)); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create request type: %v", err))
	}
	return def, nil
}

func (svc *requestTypeService) GetRequestType(ctx context.Context, requestTypeID string) (*model.RequestTypeDefinition, *serviceerror.ServiceError) {
	def, err := svc.store().GetDefinition(ctx, requestTypeID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get request type: %v", err))
	}
	if def == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "request type not found")
	}
	return def, nil
}

func (svc *requestTypeService) ListRequestTypes(ctx context.Context) ([]model.RequestType, *serviceerror.ServiceError) {
	types, err := svc.store().ListRequestTypes(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list request types: %v", err))
	}
	return types, nil
}

// UpdateRequestType replaces the entire definition. Published types with
// existing submissions may still be edited; the explicit update is the only
// path that mutates a definition.
func (svc *requestTypeService) UpdateRequestType(ctx context.Context, requestTypeID string, req model.RequestTypeRequest) (*model.RequestTypeDefinition, *serviceerror.ServiceError) {
	existing, svcErr := svc.GetRequestType(ctx, requestTypeID)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := svc.validateRequest(ctx, req); svcErr != nil {
		return nil, svcErr
	}

	def := buildDefinition(requestTypeID, req, existing.RequestType.CreatedTime, utils.GetCurrentTimeMillis())
	def.RequestType.Published = existing.RequestType.Published

	if err := svc.stores.ExecuteTransaction(svc.store().BuildReplaceDefinition(def)); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update request type: %v", err))
	}
	return def, nil
}

func (svc *requestTypeService) DeleteRequestType(ctx context.Context, requestTypeID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetRequestType(ctx, requestTypeID); svcErr != nil {
		return svcErr
	}

	count, err := svc.store().CountSubmissionsByType(ctx, requestTypeID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check submissions: %v", err))
	}
	if count > 0 {
		return serviceerror.CustomServiceError(serviceerror.ConflictError, "request type has existing submissions")
	}

	if err := svc.stores.ExecuteTransaction(svc.store().BuildDeleteDefinition(requestTypeID)); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete request type: %v", err))
	}
	return nil
}

func (svc *requestTypeService) SetPublished(ctx context.Context, requestTypeID string, published bool) (*model.RequestType, *serviceerror.ServiceError) {
	def, svcErr := svc.GetRequestType(ctx, requestTypeID)
	if svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	if err := svc.store().SetPublished(ctx, requestTypeID, published, now); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update request type: %v", err))
	}
	requestType := def.RequestType
	requestType.Published = published
	requestType.UpdatedTime = now
	return &requestType, nil
}

// buildDefinition materializes a definition from a request payload, minting
// IDs and normalizing step indices to the payload order.
func buildDefinition(requestTypeID string, req model.RequestTypeRequest, createdTime, updatedTime int64) *model.RequestTypeDefinition {
	def := &model.RequestTypeDefinition{
		RequestType: model.RequestType{
			RequestTypeID:  requestTypeID,
			Name:           req.Name,
			Description:    req.Description,
			HasFulfillment: req.HasFulfillment,
			CreatedTime:    createdTime,
			UpdatedTime:    updatedTime,
		},
		Fields: make([]model.RequestField, 0, len(req.Fields)),
		Steps:  make([]model.ApprovalStep, 0, len(req.Steps)),
	}

	for i, f := range req.Fields {
		sortOrder := f.SortOrder
		if sortOrder == 0 {
			sortOrder = i
		}
		options := f.Options
		if options == nil {
			options = []string{}
		}
		def.Fields = append(def.Fields, model.RequestField{
			FieldID:       utils.GenerateUUID(),
			RequestTypeID: requestTypeID,
			FieldKey:      f.FieldKey,
			Label:         f.Label,
			FieldType:     f.FieldType,
			Required:      f.Required,
			Options:       options,
			SortOrder:     sortOrder,
		})
	}

	for i, s := range req.Steps {
		approvers := s.Approvers
		if approvers == nil {
			approvers = []model.ApproverRef{}
		}
		def.Steps = append(def.Steps, model.ApprovalStep{
			StepID:        utils.GenerateUUID(),
			RequestTypeID: requestTypeID,
			StepIndex:     i,
			Name:          s.Name,
			Approvers:     approvers,
		})
	}
	return def
}

func (svc *requestTypeService) validateRequest(ctx context.Context, req model.RequestTypeRequest) *serviceerror.ServiceError {
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	seenKeys := make(map[string]struct{}, len(req.Fields))
	for _, f := range req.Fields {
		if err := utils.ValidateRequired("field_key", f.FieldKey); err != nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
		}
		if _, dup := seenKeys[f.FieldKey]; dup {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("duplicate field_key: %s", f.FieldKey))
		}
		seenKeys[f.FieldKey] = struct{}{}

		if !isValidFieldType(f.FieldType) {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("invalid field_type for %s: %s", f.FieldKey, f.FieldType))
		}
		if (f.FieldType == model.FieldTypeDropdown || f.FieldType == model.FieldTypeRadio) && len(f.Options) == 0 {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("field %s requires options", f.FieldKey))
		}
	}

	for i, s := range req.Steps {
		if err := utils.ValidateRequired("step name", s.Name); err != nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
		}
		for _, ref := range s.Approvers {
			if svcErr := svc.validateApproverRef(ctx, i, ref); svcErr != nil {
				return svcErr
			}
		}
	}
	return nil
}

// validateApproverRef enforces the exactly-one shape of a tagged reference
// and checks the target exists.
func (svc *requestTypeService) validateApproverRef(ctx context.Context, stepIndex int, ref model.ApproverRef) *serviceerror.ServiceError {
	if ref.RefID == "" {
		return serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("step %d: approver ref_id is required", stepIndex))
	}

	switch ref.Type {
	case model.ApproverTypeUser:
		user, err := svc.identityStore().GetUserByID(ctx, ref.RefID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify approver user: %v", err))
		}
		if user == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("step %d: approver user %s does not exist", stepIndex, ref.RefID))
		}
	case model.ApproverTypeRole:
		role, err := svc.identityStore().GetRoleByID(ctx, ref.RefID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify approver role: %v", err))
		}
		if role == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("step %d: approver role %s does not exist", stepIndex, ref.RefID))
		}
	case model.ApproverTypePosition:
		position, err := svc.orgStore().GetPositionByID(ctx, ref.RefID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify approver position: %v", err))
		}
		if position == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("step %d: approver position %s does not exist", stepIndex, ref.RefID))
		}
	default:
		return serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("step %d: invalid approver type: %s", stepIndex, ref.Type))
	}
	return nil
}

func isValidFieldType(fieldType string) bool {
	for _, t := range model.ValidFieldTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}
