package identity

import (
	"context"
	"fmt"

	emodel "github.com/campushr/hr-management-api/internal/employee/model"
	"github.com/campushr/hr-management-api/internal/identity/model"
	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// IdentityService defines the exported service interface
type IdentityService interface {
	CreateUser(ctx context.Context, req model.UserRequest) (*model.User, *serviceerror.ServiceError)
	GetUser(ctx context.Context, userID string) (*model.User, *serviceerror.ServiceError)
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, int, *serviceerror.ServiceError)
	UpdateUser(ctx context.Context, userID string, req model.UserRequest) (*model.User, *serviceerror.ServiceError)
	DeleteUser(ctx context.Context, userID string) *serviceerror.ServiceError

	CreateRole(ctx context.Context, req model.RoleRequest) (*model.Role, *serviceerror.ServiceError)
	GetRole(ctx context.Context, roleID string) (*model.Role, *serviceerror.ServiceError)
	ListRoles(ctx context.Context) ([]model.Role, *serviceerror.ServiceError)
	UpdateRole(ctx context.Context, roleID string, req model.RoleRequest) (*model.Role, *serviceerror.ServiceError)
	DeleteRole(ctx context.Context, roleID string) *serviceerror.ServiceError

	AssignRole(ctx context.Context, userID, roleID string) *serviceerror.ServiceError
	RevokeRole(ctx context.Context, userID, roleID string) *serviceerror.ServiceError
	GetUserRoles(ctx context.Context, userID string) ([]model.Role, *serviceerror.ServiceError)

	// UserCan is the permission-check facility the rest of the server consumes.
	UserCan(ctx context.Context, userID, permission string) (bool, *serviceerror.ServiceError)
}

// identityService implements the IdentityService interface
type identityService struct {
	stores *stores.StoreRegistry
}

// newIdentityService creates a new identity service
func newIdentityService(registry *stores.StoreRegistry) IdentityService {
	return &identityService{
		stores: registry,
	}
}

func (svc *identityService) store() identityStore {
	return svc.stores.Identity.(identityStore)
}

func (svc *identityService) CreateUser(ctx context.Context, req model.UserRequest) (*model.User, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("username", req.Username); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateRequired("email", req.Email); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	now := utils.GetCurrentTimeMillis()
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	user := &model.User{
		UserID:      utils.GenerateUUID(),
		Username:    req.Username,
		Email:       req.Email,
		Active:      active,
		CreatedTime: now,
		UpdatedTime: now,
	}

	if err := svc.store().CreateUser(ctx, user); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create user: %v", err))
	}
	return user, nil
}

func (svc *identityService) GetUser(ctx context.Context, userID string) (*model.User, *serviceerror.ServiceError) {
	user, err := svc.store().GetUserByID(ctx, userID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get user: %v", err))
	}
	if user == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "user not found")
	}
	return user, nil
}

func (svc *identityService) ListUsers(ctx context.Context, limit, offset int) ([]model.User, int, *serviceerror.ServiceError) {
	if limit < 1 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := svc.store().ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list users: %v", err))
	}
	return users, total, nil
}

func (svc *identityService) UpdateUser(ctx context.Context, userID string, req model.UserRequest) (*model.User, *serviceerror.ServiceError) {
	user, svcErr := svc.GetUser(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if err := utils.ValidateRequired("username", req.Username); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	user.Username = req.Username
	user.Email = req.Email
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedTime = utils.GetCurrentTimeMillis()

	if err := svc.store().UpdateUser(ctx, user); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update user: %v", err))
	}
	return user, nil
}

// employeeLookup is the slice of the employee store DeleteUser needs.
type employeeLookup interface {
	GetEmployeeByUserID(ctx context.Context, userID string) (*emodel.Employee, error)
}

func (svc *identityService) DeleteUser(ctx context.Context, userID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetUser(ctx, userID); svcErr != nil {
		return svcErr
	}

	if lookup, ok := svc.stores.Employee.(employeeLookup); ok {
		emp, err := lookup.GetEmployeeByUserID(ctx, userID)
		if err != nil {
			return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check employee references: %v", err))
		}
		if emp != nil {
			return serviceerror.CustomServiceError(serviceerror.ConflictError, "user is still linked to an employee record")
		}
	}

	if err := svc.store().DeleteUser(ctx, userID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete user: %v", err))
	}
	return nil
}

func (svc *identityService) CreateRole(ctx context.Context, req model.RoleRequest) (*model.Role, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	now := utils.GetCurrentTimeMillis()
	role := &model.Role{
		RoleID:      utils.GenerateUUID(),
		Name:        req.Name,
		Permissions: req.Permissions,
		CreatedTime: now,
		UpdatedTime: now,
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}

	if err := svc.store().CreateRole(ctx, role); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create role: %v", err))
	}
	return role, nil
}

func (svc *identityService) GetRole(ctx context.Context, roleID string) (*model.Role, *serviceerror.ServiceError) {
	role, err := svc.store().GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get role: %v", err))
	}
	if role == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "role not found")
	}
	return role, nil
}

func (svc *identityService) ListRoles(ctx context.Context) ([]model.Role, *serviceerror.ServiceError) {
	roles, err := svc.store().ListRoles(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list roles: %v", err))
	}
	return roles, nil
}

func (svc *identityService) UpdateRole(ctx context.Context, roleID string, req model.RoleRequest) (*model.Role, *serviceerror.ServiceError) {
	role, svcErr := svc.GetRole(ctx, roleID)
	if svcErr != nil {
		return nil, svcErr
	}
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	role.Name = req.Name
	role.Permissions = req.Permissions
	if role.Permissions == nil {
		role.Permissions = []string{}
	}
	role.UpdatedTime = utils.GetCurrentTimeMillis()

	if err := svc.store().UpdateRole(ctx, role); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update role: %v", err))
	}
	return role, nil
}

func (svc *identityService) DeleteRole(ctx context.Context, roleID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetRole(ctx, roleID); svcErr != nil {
		return svcErr
	}

	count, err := svc.store().CountUsersByRole(ctx, roleID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check role references: %v", err))
	}
	if count > 0 {
		return serviceerror.CustomServiceError(serviceerror.ConflictError, "role is still assigned to users")
	}

	if err := svc.store().DeleteRole(ctx, roleID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete role: %v", err))
	}
	return nil
}

func (svc *identityService) AssignRole(ctx context.Context, userID, roleID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetUser(ctx, userID); svcErr != nil {
		return svcErr
	}
	if _, svcErr := svc.GetRole(ctx, roleID); svcErr != nil {
		return svcErr
	}

	hasRole, err := svc.store().UserHasRole(ctx, userID, roleID)
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check role assignment: %v", err))
	}
	if hasRole {
		return serviceerror.CustomServiceError(serviceerror.ConflictError, "user already has this role")
	}

	if err := svc.store().AssignRole(ctx, userID, roleID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to assign role: %v", err))
	}
	return nil
}

func (svc *identityService) RevokeRole(ctx context.Context, userID, roleID string) *serviceerror.ServiceError {
	if err := svc.store().RevokeRole(ctx, userID, roleID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to revoke role: %v", err))
	}
	return nil
}

func (svc *identityService) GetUserRoles(ctx context.Context, userID string) ([]model.Role, *serviceerror.ServiceError) {
	if _, svcErr := svc.GetUser(ctx, userID); svcErr != nil {
		return nil, svcErr
	}
	roles, err := svc.store().GetRolesByUser(ctx, userID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get user roles: %v", err))
	}
	return roles, nil
}

func (svc *identityService) UserCan(ctx context.Context, userID, permission string) (bool, *serviceerror.ServiceError) {
	allowed, err := svc.store().UserHasPermission(ctx, userID, permission)
	if err != nil {
		return false, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to check permission: %v", err))
	}
	return allowed, nil
}

func validatePermissions(permissions []string) error {
	known := make(map[string]struct{}, len(constants.DefaultPermissions))
	for _, p := range constants.DefaultPermissions {
		known[p] = struct{}{}
	}
	for _, p := range permissions {
		if _, ok := known[p]; !ok {
			return fmt.Errorf("unknown permission: %s", p)
		}
	}
	return nil
}
