package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campushr/hr-management-api/internal/identity/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for identity operations
var (
	QueryCreateUser = dbmodel.DBQuery{
		ID:    "CREATE_USER",
		Query: "INSERT INTO APP_USER (USER_ID, USERNAME, EMAIL, ACTIVE, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?)",
	}

	QueryGetUserByID = dbmodel.DBQuery{
		ID:    "GET_USER_BY_ID",
		Query: "SELECT USER_ID, USERNAME, EMAIL, ACTIVE, CREATED_TIME, UPDATED_TIME FROM APP_USER WHERE USER_ID = ?",
	}

	QueryListUsers = dbmodel.DBQuery{
		ID:    "LIST_USERS",
		Query: "SELECT USER_ID, USERNAME, EMAIL, ACTIVE, CREATED_TIME, UPDATED_TIME FROM APP_USER ORDER BY USERNAME LIMIT ? OFFSET ?",
	}

	QueryCountUsers = dbmodel.DBQuery{
		ID:    "COUNT_USERS",
		Query: "SELECT COUNT(*) as count FROM APP_USER",
	}

	QueryUpdateUser = dbmodel.DBQuery{
		ID:    "UPDATE_USER",
		Query: "UPDATE APP_USER SET USERNAME = ?, EMAIL = ?, ACTIVE = ?, UPDATED_TIME = ? WHERE USER_ID = ?",
	}

	QueryDeleteUser = dbmodel.DBQuery{
		ID:    "DELETE_USER",
		Query: "DELETE FROM APP_USER WHERE USER_ID = ?",
	}

	QueryDeleteUserRoles = dbmodel.DBQuery{
		ID:    "DELETE_USER_ROLES",
		Query: "DELETE FROM USER_ROLE WHERE USER_ID = ?",
	}

	QueryCreateRole = dbmodel.DBQuery{
		ID:    "CREATE_ROLE",
		Query: "INSERT INTO ROLE (ROLE_ID, NAME, PERMISSIONS, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?)",
	}

	QueryGetRoleByID = dbmodel.DBQuery{
		ID:    "GET_ROLE_BY_ID",
		Query: "SELECT ROLE_ID, NAME, PERMISSIONS, CREATED_TIME, UPDATED_TIME FROM ROLE WHERE ROLE_ID = ?",
	}

	QueryListRoles = dbmodel.DBQuery{
		ID:    "LIST_ROLES",
		Query: "SELECT ROLE_ID, NAME, PERMISSIONS, CREATED_TIME, UPDATED_TIME FROM ROLE ORDER BY NAME",
	}

	QueryUpdateRole = dbmodel.DBQuery{
		ID:    "UPDATE_ROLE",
		Query: "UPDATE ROLE SET NAME = ?, PERMISSIONS = ?, UPDATED_TIME = ? WHERE ROLE_ID = ?",
	}

	QueryDeleteRole = dbmodel.DBQuery{
		ID:    "DELETE_ROLE",
		Query: "DELETE FROM ROLE WHERE ROLE_ID = ?",
	}

	QueryAssignRole = dbmodel.DBQuery{
		ID:    "ASSIGN_ROLE",
		Query: "INSERT INTO USER_ROLE (USER_ID, ROLE_ID) VALUES (?, ?)",
	}

	QueryRevokeRole = dbmodel.DBQuery{
		ID:    "REVOKE_ROLE",
		Query: "DELETE FROM USER_ROLE WHERE USER_ID = ? AND ROLE_ID = ?",
	}

	QueryGetRolesByUser = dbmodel.DBQuery{
		ID:    "GET_ROLES_BY_USER",
		Query: "SELECT R.ROLE_ID, R.NAME, R.PERMISSIONS, R.CREATED_TIME, R.UPDATED_TIME FROM ROLE R INNER JOIN USER_ROLE UR ON R.ROLE_ID = UR.ROLE_ID WHERE UR.USER_ID = ?",
	}

	QueryGetUserIDsByRole = dbmodel.DBQuery{
		ID:    "GET_USER_IDS_BY_ROLE",
		Query: "SELECT USER_ID FROM USER_ROLE WHERE ROLE_ID = ?",
	}

	QueryUserHasRole = dbmodel.DBQuery{
		ID:    "USER_HAS_ROLE",
		Query: "SELECT COUNT(*) as count FROM USER_ROLE WHERE USER_ID = ? AND ROLE_ID = ?",
	}

	QueryCountUsersByRole = dbmodel.DBQuery{
		ID:    "COUNT_USERS_BY_ROLE",
		Query: "SELECT COUNT(*) as count FROM USER_ROLE WHERE ROLE_ID = ?",
	}
)

// IdentityStore defines the identity operations other modules may consume.
type IdentityStore interface {
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	GetRoleByID(ctx context.Context, roleID string) (*model.Role, error)
	GetRolesByUser(ctx context.Context, userID string) ([]model.Role, error)
	GetUserIDsByRole(ctx context.Context, roleID string) ([]string, error)
	UserHasRole(ctx context.Context, userID, roleID string) (bool, error)
	UserHasPermission(ctx context.Context, userID, permission string) (bool, error)
}

// identityStore defines the full interface used by the identity service.
type identityStore interface {
	IdentityStore

	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, int, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, userID string) error

	CreateRole(ctx context.Context, role *model.Role) error
	ListRoles(ctx context.Context) ([]model.Role, error)
	UpdateRole(ctx context.Context, role *model.Role) error
	DeleteRole(ctx context.Context, roleID string) error
	CountUsersByRole(ctx context.Context, roleID string) (int, error)

	AssignRole(ctx context.Context, userID, roleID string) error
	RevokeRole(ctx context.Context, userID, roleID string) error
}

// store implements the identityStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newIdentityStore creates a new identity store
func newIdentityStore(dbClient provider.DBClientInterface) identityStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.dbClient.Execute(QueryCreateUser,
		user.UserID, user.Username, user.Email, user.Active, user.CreatedTime, user.UpdatedTime)
	return err
}

func (s *store) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	rows, err := s.dbClient.Query(QueryGetUserByID, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToUser(rows[0]), nil
}

func (s *store) ListUsers(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	countRows, err := s.dbClient.Query(QueryCountUsers)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	if len(countRows) > 0 {
		total = utils.RowInt(countRows[0], "count")
	}

	rows, err := s.dbClient.Query(QueryListUsers, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *mapToUser(row))
	}
	return users, total, nil
}

func (s *store) UpdateUser(ctx context.Context, user *model.User) error {
	_, err := s.dbClient.Execute(QueryUpdateUser,
		user.Username, user.Email, user.Active, user.UpdatedTime, user.UserID)
	return err
}

func (s *store) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.dbClient.Execute(QueryDeleteUserRoles, userID); err != nil {
		return err
	}
	_, err := s.dbClient.Execute(QueryDeleteUser, userID)
	return err
}

func (s *store) CreateRole(ctx context.Context, role *model.Role) error {
	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}
	_, err = s.dbClient.Execute(QueryCreateRole,
		role.RoleID, role.Name, string(permissions), role.CreatedTime, role.UpdatedTime)
	return err
}

func (s *store) GetRoleByID(ctx context.Context, roleID string) (*model.Role, error) {
	rows, err := s.dbClient.Query(QueryGetRoleByID, roleID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToRole(rows[0]), nil
}

func (s *store) ListRoles(ctx context.Context) ([]model.Role, error) {
	rows, err := s.dbClient.Query(QueryListRoles)
	if err != nil {
		return nil, err
	}
	roles := make([]model.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, *mapToRole(row))
	}
	return roles, nil
}

func (s *store) UpdateRole(ctx context.Context, role *model.Role) error {
	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}
	_, err = s.dbClient.Execute(QueryUpdateRole,
		role.Name, string(permissions), role.UpdatedTime, role.RoleID)
	return err
}

func (s *store) DeleteRole(ctx context.Context, roleID string) error {
	_, err := s.dbClient.Execute(QueryDeleteRole, roleID)
	return err
}

func (s *store) CountUsersByRole(ctx context.Context, roleID string) (int, error) {
	rows, err := s.dbClient.Query(QueryCountUsersByRole, roleID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utils.RowInt(rows[0], "count"), nil
}

func (s *store) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := s.dbClient.Execute(QueryAssignRole, userID, roleID)
	return err
}

func (s *store) RevokeRole(ctx context.Context, userID, roleID string) error {
	_, err := s.dbClient.Execute(QueryRevokeRole, userID, roleID)
	return err
}

func (s *store) GetRolesByUser(ctx context.Context, userID string) ([]model.Role, error) {
	rows, err := s.dbClient.Query(QueryGetRolesByUser, userID)
	if err != nil {
		return nil, err
	}
	roles := make([]model.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, *mapToRole(row))
	}
	return roles, nil
}

func (s *store) GetUserIDsByRole(ctx context.Context, roleID string) ([]string, error) {
	rows, err := s.dbClient.Query(QueryGetUserIDsByRole, roleID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, utils.RowString(row, "USER_ID"))
	}
	return userIDs, nil
}

func (s *store) UserHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	rows, err := s.dbClient.Query(QueryUserHasRole, userID, roleID)
	if err != nil {
		return false, err
	}
	return len(rows) > 0 && utils.RowInt(rows[0], "count") > 0, nil
}

// UserHasPermission reports whether any of the user's roles grants the permission.
func (s *store) UserHasPermission(ctx context.Context, userID, permission string) (bool, error) {
	roles, err := s.GetRolesByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		for _, p := range role.Permissions {
			if p == permission {
				return true, nil
			}
		}
	}
	return false, nil
}

func mapToUser(row map[string]interface{}) *model.User {
	return &model.User{
		UserID:      utils.RowString(row, "USER_ID"),
		Username:    utils.RowString(row, "USERNAME"),
		Email:       utils.RowString(row, "EMAIL"),
		Active:      utils.RowBool(row, "ACTIVE"),
		CreatedTime: utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime: utils.RowInt64(row, "UPDATED_TIME"),
	}
}

func mapToRole(row map[string]interface{}) *model.Role {
	role := &model.Role{
		RoleID:      utils.RowString(row, "ROLE_ID"),
		Name:        utils.RowString(row, "NAME"),
		Permissions: []string{},
		CreatedTime: utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime: utils.RowInt64(row, "UPDATED_TIME"),
	}
	raw := utils.RowString(row, "PERMISSIONS")
	if raw != "" {
		// Corrupt permission payloads leave the role with no permissions
		// rather than failing every lookup.
		_ = json.Unmarshal([]byte(raw), &role.Permissions)
	}
	return role
}
