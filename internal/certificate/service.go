package certificate

import (
	"context"
	"fmt"

	"github.com/campushr/hr-management-api/internal/certificate/model"
	"github.com/campushr/hr-management-api/internal/employee"
	"github.com/campushr/hr-management-api/internal/organization"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

const renderDateLayout = "2006-01-02"

// CertificateService defines the exported service interface
type CertificateService interface {
	CreateTemplate(ctx context.Context, req model.CertificateTemplateRequest) (*model.CertificateTemplate, *serviceerror.ServiceError)
	GetTemplate(ctx context.Context, templateID string) (*model.CertificateTemplate, *serviceerror.ServiceError)
	ListTemplates(ctx context.Context) ([]model.CertificateTemplate, *serviceerror.ServiceError)
	UpdateTemplate(ctx context.Context, templateID string, req model.CertificateTemplateRequest) (*model.CertificateTemplate, *serviceerror.ServiceError)
	DeleteTemplate(ctx context.Context, templateID string) *serviceerror.ServiceError
	SetPublished(ctx context.Context, templateID string, published bool) (*model.CertificateTemplate, *serviceerror.ServiceError)

	// RenderData resolves a template's placeholders against an employee.
	// The caller renders the result; the server never draws.
	RenderData(ctx context.Context, templateID, employeeID string) (*model.RenderData, *serviceerror.ServiceError)
}

// certificateService implements the CertificateService interface
type certificateService struct {
	stores *stores.StoreRegistry
}

// newCertificateService creates a new certificate service
func newCertificateService(registry *stores.StoreRegistry) CertificateService {
	return &certificateService{stores: registry}
}

func (svc *certificateService) store() certificateStore {
	return svc.stores.Certificate.(certificateStore)
}

func (svc *certificateService) employeeStore() employee.EmployeeStore {
	return svc.stores.Employee.(employee.EmployeeStore)
}

func (svc *certificateService) orgStore() organization.OrganizationStore {
	return svc.stores.Organization.(organization.OrganizationStore)
}

func (svc *certificateService) CreateTemplate(ctx context.Context, req model.CertificateTemplateRequest) (*model.CertificateTemplate, *serviceerror.ServiceError) {
	if svcErr := validateRequest(req); svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	template := &model.CertificateTemplate{
		TemplateID:     utils.GenerateUUID(),
		Name:           req.Name,
		BackgroundPath: req.BackgroundPath,
		Layout:         req.Layout,
		Published:      false,
		CreatedTime:    now,
		UpdatedTime:    now,
	}
	if template.Layout == nil {
		template.Layout = []model.LayoutElement{}
	}
	if err := svc.store().CreateTemplate(ctx, template); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create template: %v", err))
	}
	return template, nil
}

func (svc *certificateService) GetTemplate(ctx context.Context, templateID string) (*model.CertificateTemplate, *serviceerror.ServiceError) {
	template, err := svc.store().GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get template: %v", err))
	}
	if template == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "certificate template not found")
	}
	return template, nil
}

func (svc *certificateService) ListTemplates(ctx context.Context) ([]model.CertificateTemplate, *serviceerror.ServiceError) {
	templates, err := svc.store().ListTemplates(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list templates: %v", err))
	}
	return templates, nil
}

func (svc *certificateService) UpdateTemplate(ctx context.Context, templateID string, req model.CertificateTemplateRequest) (*model.CertificateTemplate, *serviceerror.ServiceError) {
	existing, svcErr := svc.GetTemplate(ctx, templateID)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := validateRequest(req); svcErr != nil {
		return nil, svcErr
	}

	existing.Name = req.Name
	existing.BackgroundPath = req.BackgroundPath
	existing.Layout = req.Layout
	if existing.Layout == nil {
		existing.Layout = []model.LayoutElement{}
	}
	existing.UpdatedTime = utils.GetCurrentTimeMillis()
	if err := svc.store().UpdateTemplate(ctx, existing); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update template: %v", err))
	}
	return existing, nil
}

func (svc *certificateService) DeleteTemplate(ctx context.Context, templateID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetTemplate(ctx, templateID); svcErr != nil {
		return svcErr
	}
	if err := svc.store().DeleteTemplate(ctx, templateID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete template: %v", err))
	}
	return nil
}

func (svc *certificateService) SetPublished(ctx context.Context, templateID string, published bool) (*model.CertificateTemplate, *serviceerror.ServiceError) {
	template, svcErr := svc.GetTemplate(ctx, templateID)
	if svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	if err := svc.store().SetTemplatePublished(ctx, templateID, published, now); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update template: %v", err))
	}
	template.Published = published
	template.UpdatedTime = now
	return template, nil
}

func (svc *certificateService) RenderData(ctx context.Context, templateID, employeeID string) (*model.RenderData, *serviceerror.ServiceError) {
	template, svcErr := svc.GetTemplate(ctx, templateID)
	if svcErr != nil {
		return nil, svcErr
	}
	if !template.Published {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "certificate template is not published")
	}

	emp, err := svc.employeeStore().GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load employee: %v", err))
	}
	if emp == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "employee not found")
	}

	values := map[string]string{
		"first_name":  emp.FirstName,
		"last_name":   emp.LastName,
		"full_name":   emp.FirstName + " " + emp.LastName,
		"email":       emp.Email,
		"faculty":     "",
		"department":  "",
		"position":    "",
		"hired_at":    "",
		"issued_date": utils.MillisToTime(utils.GetCurrentTimeMillis()).Format(renderDateLayout),
	}
	if emp.HiredAt != 0 {
		values["hired_at"] = utils.MillisToTime(emp.HiredAt).Format(renderDateLayout)
	}
	if emp.FacultyID != nil {
		if faculty, err := svc.orgStore().GetFacultyByID(ctx, *emp.FacultyID); err == nil && faculty != nil {
			values["faculty"] = faculty.Name
		}
	}
	if emp.DepartmentID != nil {
		if department, err := svc.orgStore().GetDepartmentByID(ctx, *emp.DepartmentID); err == nil && department != nil {
			values["department"] = department.Name
		}
	}
	if emp.PositionID != nil {
		if position, err := svc.orgStore().GetPositionByID(ctx, *emp.PositionID); err == nil && position != nil {
			values["position"] = position.Name
		}
	}

	// Templates may place keys the server does not know; they resolve to
	// empty strings so the renderer draws a blank box instead of failing.
	for _, element := range template.Layout {
		if _, ok := values[element.Key]; !ok {
			values[element.Key] = ""
		}
	}

	return &model.RenderData{Template: *template, Values: values}, nil
}

func validateRequest(req model.CertificateTemplateRequest) *serviceerror.ServiceError {
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateRequired("background_path", req.BackgroundPath); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	seen := map[string]bool{}
	for _, element := range req.Layout {
		if element.Key == "" {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, "layout element key is required")
		}
		if seen[element.Key] {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("duplicate layout element key: %s", element.Key))
		}
		seen[element.Key] = true
		switch element.Align {
		case "", model.AlignLeft, model.AlignCenter, model.AlignRight:
		default:
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("invalid align for element %s: %s", element.Key, element.Align))
		}
		if element.FontSize < 0 {
			return serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("font_size must not be negative for element %s", element.Key))
		}
	}
	return nil
}
