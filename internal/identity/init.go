package identity

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// NewStore creates and returns a new identity store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newIdentityStore(dbClient)
}

// NewService creates the identity service over the registry. The service
// manager needs it before routes are registered so it can build the
// permission middleware handed to every other module.
func NewService(registry *stores.StoreRegistry) IdentityService {
	return newIdentityService(registry)
}

// RequirePermission builds a gin middleware that rejects the request unless
// the calling user holds the given permission.
func RequirePermission(service IdentityService, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := utils.GetUserID(c)
		if userID == "" {
			utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Missing user identity header"))
			c.Abort()
			return
		}

		allowed, svcErr := service.UserCan(c.Request.Context(), userID, permission)
		if svcErr != nil {
			utils.SendError(c, svcErr)
			c.Abort()
			return
		}
		if !allowed {
			utils.SendError(c, serviceerror.CustomServiceError(serviceerror.AuthorizationError,
				"Missing required permission: "+permission))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Initialize sets up the identity module and registers routes.
func Initialize(rg *gin.RouterGroup, service IdentityService, authz func(permission string) gin.HandlerFunc) {
	handler := newIdentityHandler(service)

	write := authz(constants.PermEmployeesWrite)
	read := authz(constants.PermEmployeesRead)
	roles := authz(constants.PermRolesManage)

	rg.GET("/me", handler.me)

	rg.POST("/users", write, handler.createUser)
	rg.GET("/users", read, handler.listUsers)
	rg.GET("/users/:userId", read, handler.getUser)
	rg.PUT("/users/:userId", write, handler.updateUser)
	rg.DELETE("/users/:userId", write, handler.deleteUser)

	rg.POST("/roles", roles, handler.createRole)
	rg.GET("/roles", roles, handler.listRoles)
	rg.GET("/roles/:roleId", roles, handler.getRole)
	rg.PUT("/roles/:roleId", roles, handler.updateRole)
	rg.DELETE("/roles/:roleId", roles, handler.deleteRole)

	rg.POST("/users/:userId/roles", roles, handler.assignRole)
	rg.GET("/users/:userId/roles", roles, handler.getUserRoles)
	rg.DELETE("/users/:userId/roles/:roleId", roles, handler.revokeRole)
}
