package employee

import (
	"context"
	"fmt"

	"github.com/campushr/hr-management-api/internal/employee/model"
	"github.com/campushr/hr-management-api/internal/identity"
	"github.com/campushr/hr-management-api/internal/organization"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// EmployeeService defines the exported service interface
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req model.EmployeeRequest) (*model.Employee, *serviceerror.ServiceError)
	GetEmployee(ctx context.Context, employeeID string) (*model.Employee, *serviceerror.ServiceError)
	GetEmployeeByUser(ctx context.Context, userID string) (*model.Employee, *serviceerror.ServiceError)
	ListEmployees(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, *serviceerror.ServiceError)
	UpdateEmployee(ctx context.Context, employeeID string, req model.EmployeeRequest) (*model.Employee, *serviceerror.ServiceError)
	DeleteEmployee(ctx context.Context, employeeID string) *serviceerror.ServiceError
}

// employeeService implements the EmployeeService interface
type employeeService struct {
	stores *stores.StoreRegistry
}

// newEmployeeService creates a new employee service
func newEmployeeService(registry *stores.StoreRegistry) EmployeeService {
	return &employeeService{
		stores: registry,
	}
}

func (svc *employeeService) store() employeeStore {
	return svc.stores.Employee.(employeeStore)
}

func (svc *employeeService) identityStore() identity.IdentityStore {
	return svc.stores.Identity.(identity.IdentityStore)
}

func (svc *employeeService) orgStore() organization.OrganizationStore {
	return svc.stores.Organization.(organization.OrganizationStore)
}

func (svc *employeeService) CreateEmployee(ctx context.Context, req model.EmployeeRequest) (*model.Employee, *serviceerror.ServiceError) {
	if svcErr := svc.validateRequest(ctx, req); svcErr != nil {
		return nil, svcErr
	}

	count, err := svc.store().CountEmployeesByUser(ctx, req.UserID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check user mapping: %v", err))
	}
	if count > 0 {
		return nil, serviceerror.CustomServiceError(serviceerror.ConflictError, "user already has an employee record")
	}

	now := utils.GetCurrentTimeMillis()
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	hiredAt := req.HiredAt
	if hiredAt == 0 {
		hiredAt = now
	}
	employee := &model.Employee{
		EmployeeID:   utils.GenerateUUID(),
		UserID:       req.UserID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		FacultyID:    req.FacultyID,
		DepartmentID: req.DepartmentID,
		PositionID:   req.PositionID,
		HiredAt:      hiredAt,
		Active:       active,
		CreatedTime:  now,
		UpdatedTime:  now,
	}

	if err := svc.store().CreateEmployee(ctx, employee); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create employee: %v", err))
	}
	return employee, nil
}

func (svc *employeeService) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, *serviceerror.ServiceError) {
	employee, err := svc.store().GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get employee: %v", err))
	}
	if employee == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "employee not found")
	}
	return employee, nil
}

func (svc *employeeService) GetEmployeeByUser(ctx context.Context, userID string) (*model.Employee, *serviceerror.ServiceError) {
	employee, err := svc.store().GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get employee: %v", err))
	}
	if employee == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "no employee record for user")
	}
	return employee, nil
}

func (svc *employeeService) ListEmployees(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, *serviceerror.ServiceError) {
	employees, err := svc.store().ListEmployees(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list employees: %v", err))
	}

	filtered := make([]model.Employee, 0, len(employees))
	for _, e := range employees {
		if filter.FacultyID != "" && (e.FacultyID == nil || *e.FacultyID != filter.FacultyID) {
			continue
		}
		if filter.DepartmentID != "" && (e.DepartmentID == nil || *e.DepartmentID != filter.DepartmentID) {
			continue
		}
		if filter.PositionID != "" && (e.PositionID == nil || *e.PositionID != filter.PositionID) {
			continue
		}
		if filter.ActiveOnly && !e.Active {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

func (svc *employeeService) UpdateEmployee(ctx context.Context, employeeID string, req model.EmployeeRequest) (*model.Employee, *serviceerror.ServiceError) {
	employee, svcErr := svc.GetEmployee(ctx, employeeID)
	if svcErr != nil {
		return nil, svcErr
	}
	// The user mapping is immutable; updates may only move the employee
	// around the organization or change personal details.
	req.UserID = employee.UserID
	if svcErr := svc.validateRequest(ctx, req); svcErr != nil {
		return nil, svcErr
	}

	employee.FirstName = req.FirstName
	employee.LastName = req.LastName
	employee.Email = req.Email
	employee.FacultyID = req.FacultyID
	employee.DepartmentID = req.DepartmentID
	employee.PositionID = req.PositionID
	if req.HiredAt != 0 {
		employee.HiredAt = req.HiredAt
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}
	employee.UpdatedTime = utils.GetCurrentTimeMillis()

	if err := svc.store().UpdateEmployee(ctx, employee); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update employee: %v", err))
	}
	return employee, nil
}

func (svc *employeeService) DeleteEmployee(ctx context.Context, employeeID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetEmployee(ctx, employeeID); svcErr != nil {
		return svcErr
	}
	if err := svc.store().DeleteEmployee(ctx, employeeID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete employee: %v", err))
	}
	return nil
}

// validateRequest checks required fields and that every organization
// reference points at an existing row.
func (svc *employeeService) validateRequest(ctx context.Context, req model.EmployeeRequest) *serviceerror.ServiceError {
	if err := utils.ValidateRequired("user_id", req.UserID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateRequired("first_name", req.FirstName); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateRequired("last_name", req.LastName); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	user, err := svc.identityStore().GetUserByID(ctx, req.UserID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify user: %v", err))
	}
	if user == nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, "user_id does not reference an existing user")
	}

	if req.FacultyID != nil && *req.FacultyID != "" {
		faculty, err := svc.orgStore().GetFacultyByID(ctx, *req.FacultyID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify faculty: %v", err))
		}
		if faculty == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, "faculty_id does not reference an existing faculty")
		}
	}
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		department, err := svc.orgStore().GetDepartmentByID(ctx, *req.DepartmentID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify department: %v", err))
		}
		if department == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, "department_id does not reference an existing department")
		}
	}
	if req.PositionID != nil && *req.PositionID != "" {
		position, err := svc.orgStore().GetPositionByID(ctx, *req.PositionID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to verify position: %v", err))
		}
		if position == nil {
			return serviceerror.CustomServiceError(serviceerror.ValidationError, "position_id does not reference an existing position")
		}
	}
	return nil
}
