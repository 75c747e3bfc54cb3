package organization

import (
	"context"
	"fmt"

	"github.com/campushr/hr-management-api/internal/organization/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// OrganizationService defines the exported service interface
type OrganizationService interface {
	CreateFaculty(ctx context.Context, req model.FacultyRequest) (*model.Faculty, *serviceerror.ServiceError)
	GetFaculty(ctx context.Context, facultyID string) (*model.Faculty, *serviceerror.ServiceError)
	ListFaculties(ctx context.Context) ([]model.Faculty, *serviceerror.ServiceError)
	UpdateFaculty(ctx context.Context, facultyID string, req model.FacultyRequest) (*model.Faculty, *serviceerror.ServiceError)
	DeleteFaculty(ctx context.Context, facultyID string) *serviceerror.ServiceError

	CreateDepartment(ctx context.Context, req model.DepartmentRequest) (*model.Department, *serviceerror.ServiceError)
	GetDepartment(ctx context.Context, departmentID string) (*model.Department, *serviceerror.ServiceError)
	ListDepartments(ctx context.Context, facultyID string) ([]model.Department, *serviceerror.ServiceError)
	UpdateDepartment(ctx context.Context, departmentID string, req model.DepartmentRequest) (*model.Department, *serviceerror.ServiceError)
	DeleteDepartment(ctx context.Context, departmentID string) *serviceerror.ServiceError

	CreatePosition(ctx context.Context, req model.PositionRequest) (*model.Position, *serviceerror.ServiceError)
	GetPosition(ctx context.Context, positionID string) (*model.Position, *serviceerror.ServiceError)
	ListPositions(ctx context.Context, departmentID, facultyID string) ([]model.Position, *serviceerror.ServiceError)
	UpdatePosition(ctx context.Context, positionID string, req model.PositionRequest) (*model.Position, *serviceerror.ServiceError)
	DeletePosition(ctx context.Context, positionID string) *serviceerror.ServiceError
}

// organizationService implements the OrganizationService interface
type organizationService struct {
	stores *stores.StoreRegistry
}

// newOrganizationService creates a new organization service
func newOrganizationService(registry *stores.StoreRegistry) OrganizationService {
	return &organizationService{
		stores: registry,
	}
}

func (svc *organizationService) store() organizationStore {
	return svc.stores.Organization.(organizationStore)
}

func (svc *organizationService) CreateFaculty(ctx context.Context, req model.FacultyRequest) (*model.Faculty, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	now := utils.GetCurrentTimeMillis()
	faculty := &model.Faculty{
		FacultyID:   utils.GenerateUUID(),
		Name:        req.Name,
		Code:        req.Code,
		CreatedTime: now,
		UpdatedTime: now,
	}

	if err := svc.store().CreateFaculty(ctx, faculty); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create faculty: %v", err))
	}
	return faculty, nil
}

func (svc *organizationService) GetFaculty(ctx context.Context, facultyID string) (*model.Faculty, *serviceerror.ServiceError) {
	faculty, err := svc.store().GetFacultyByID(ctx, facultyID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get faculty: %v", err))
	}
	if faculty == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "faculty not found")
	}
	return faculty, nil
}

func (svc *organizationService) ListFaculties(ctx context.Context) ([]model.Faculty, *serviceerror.ServiceError) {
	faculties, err := svc.store().ListFaculties(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list faculties: %v", err))
	}
	return faculties, nil
}

func (svc *organizationService) UpdateFaculty(ctx context.Context, facultyID string, req model.FacultyRequest) (*model.Faculty, *serviceerror.ServiceError) {
	faculty, svcErr := svc.GetFaculty(ctx, facultyID)
	if svcErr != nil {
		return nil, svcErr
	}
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	faculty.Name = req.Name
	faculty.Code = req.Code
	faculty.UpdatedTime = utils.GetCurrentTimeMillis()

	if err := svc.store().UpdateFaculty(ctx, faculty); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update faculty: %v", err))
	}
	return faculty, nil
}

func (svc *organizationService) DeleteFaculty(ctx context.Context, facultyID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetFaculty(ctx, facultyID); svcErr != nil {
		return svcErr
	}

	count, err := svc.store().CountDepartmentsByFaculty(ctx, facultyID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check faculty references: %v", err))
	}
	if count > 0 {
		return serviceerror.CustomServiceError(serviceerror.ConflictError, "faculty still has departments")
	}

	if err := svc.store().DeleteFaculty(ctx, facultyID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete faculty: %v", err))
	}
	return nil
}

func (svc *organizationService) CreateDepartment(ctx context.Context, req model.DepartmentRequest) (*model.Department, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	// Offices are faculty-less; regular departments must belong to a faculty.
	if !req.IsOffice {
		if req.FacultyID == nil || *req.FacultyID == "" {
			return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "faculty_id is required for departments")
		}
		if _, svcErr := svc.GetFaculty(ctx, *req.FacultyID); svcErr != nil {
			return nil, svcErr
		}
	}

	now := utils.GetCurrentTimeMillis()
	department := &model.Department{
		DepartmentID: utils.GenerateUUID(),
		FacultyID:    req.FacultyID,
		Name:         req.Name,
		IsOffice:     req.IsOffice,
		CreatedTime:  now,
		UpdatedTime:  now,
	}

	if err := svc.store().CreateDepartment(ctx, department); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create department: %v", err))
	}
	return department, nil
}

func (svc *organizationService) GetDepartment(ctx context.Context, departmentID string) (*model.Department, *serviceerror.ServiceError) {
	department, err := svc.store().GetDepartmentByID(ctx, departmentID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get department: %v", err))
	}
	if department == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "department not found")
	}
	return department, nil
}

func (svc *organizationService) ListDepartments(ctx context.Context, facultyID string) ([]model.Department, *serviceerror.ServiceError) {
	var departments []model.Department
	var err error
	if facultyID != "" {
		departments, err = svc.store().ListDepartmentsByFaculty(ctx, facultyID)
	} else {
		departments, err = svc.store().ListDepartments(ctx)
	}
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list departments: %v", err))
	}
	return departments, nil
}

func (svc *organizationService) UpdateDepartment(ctx context.Context, departmentID string, req model.DepartmentRequest) (*model.Department, *serviceerror.ServiceError) {
	department, svcErr := svc.GetDepartment(ctx, departmentID)
	if svcErr != nil {
		return nil, svcErr
	}
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	department.FacultyID = req.FacultyID
	department.Name = req.Name
	department.IsOffice = req.IsOffice
	department.UpdatedTime = utils.GetCurrentTimeMillis()

	if err := svc.store().UpdateDepartment(ctx, department); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update department: %v", err))
	}
	return department, nil
}

func (svc *organizationService) DeleteDepartment(ctx context.Context, departmentID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetDepartment(ctx, departmentID); svcErr != nil {
		return svcErr
	}

	count, err := svc.store().CountEmployeesByDepartment(ctx, departmentID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check department references: %v", err))
	}
	if count > 0 {
		return serviceerror.CustomServiceError(serviceerror.ConflictError, "department still has employees")
	}

	if err := svc.store().DeleteDepartment(ctx, departmentID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete department: %v", err))
	}
	return nil
}

func (svc *organizationService) CreatePosition(ctx context.Context, req model.PositionRequest) (*model.Position, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		if _, svcErr := svc.GetDepartment(ctx, *req.DepartmentID); svcErr != nil {
			return nil, svcErr
		}
	}
	if req.FacultyID != nil && *req.FacultyID != "" {
		if _, svcErr := svc.GetFaculty(ctx, *req.FacultyID); svcErr != nil {
			return nil, svcErr
		}
	}

	now := utils.GetCurrentTimeMillis()
	position := &model.Position{
		PositionID:   utils.GenerateUUID(),
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		FacultyID:    req.FacultyID,
		Rank:         req.Rank,
		CreatedTime:  now,
		UpdatedTime:  now,
	}

	if err := svc.store().CreatePosition(ctx, position); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create position: %v", err))
	}
	return position, nil
}

func (svc *organizationService) GetPosition(ctx context.Context, positionID string) (*model.Position, *serviceerror.ServiceError) {
	position, err := svc.store().GetPositionByID(ctx, positionID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get position: %v", err))
	}
	if position == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "position not found")
	}
	return position, nil
}

func (svc *organizationService) ListPositions(ctx context.Context, departmentID, facultyID string) ([]model.Position, *serviceerror.ServiceError) {
	var positions []model.Position
	var err error
	switch {
	case departmentID != "":
		positions, err = svc.store().ListPositionsByDepartment(ctx, departmentID)
	case facultyID != "":
		positions, err = svc.store().ListPositionsByFaculty(ctx, facultyID)
	default:
		positions, err = svc.store().ListPositions(ctx)
	}
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list positions: %v", err))
	}
	return positions, nil
}

func (svc *organizationService) UpdatePosition(ctx context.Context, positionID string, req model.PositionRequest) (*model.Position, *serviceerror.ServiceError) {
	position, svcErr := svc.GetPosition(ctx, positionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	position.Name = req.Name
	position.DepartmentID = req.DepartmentID
	position.FacultyID = req.FacultyID
	position.Rank = req.Rank
	position.UpdatedTime = utils.GetCurrentTimeMillis()

	if err := svc.store().UpdatePosition(ctx, position); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update position: %v", err))
	}
	return position, nil
}

func (svc *organizationService) DeletePosition(ctx context.Context, positionID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetPosition(ctx, positionID); svcErr != nil {
		return svcErr
	}

	count, err := svc.store().CountEmployeesByPosition(ctx, positionID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check position references: %v", err))
	}
	if count > 0 {
		return serviceerror.CustomServiceError(serviceerror.ConflictError, "position still has employees")
	}

	if err := svc.store().DeletePosition(ctx, positionID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete position: %v", err))
	}
	return nil
}
