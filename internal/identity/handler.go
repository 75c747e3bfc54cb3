package identity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/identity/model"
	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

type identityHandler struct {
	service IdentityService
}

func newIdentityHandler(service IdentityService) *identityHandler {
	return &identityHandler{
		service: service,
	}
}

// createUser handles POST /users
func (h *identityHandler) createUser(c *gin.Context) {
	var req model.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	user, svcErr := h.service.CreateUser(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// getUser handles GET /users/:userId
func (h *identityHandler) getUser(c *gin.Context) {
	userID := c.Param("userId")
	if err := utils.ValidateEntityID("userId", userID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	user, svcErr := h.service.GetUser(c.Request.Context(), userID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user)
}

// listUsers handles GET /users with pagination
func (h *identityHandler) listUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, svcErr := h.service.ListUsers(c.Request.Context(), limit, offset)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// updateUser handles PUT /users/:userId
func (h *identityHandler) updateUser(c *gin.Context) {
	userID := c.Param("userId")
	var req model.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	user, svcErr := h.service.UpdateUser(c.Request.Context(), userID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteUser handles DELETE /users/:userId
func (h *identityHandler) deleteUser(c *gin.Context) {
	userID := c.Param("userId")
	if svcErr := h.service.DeleteUser(c.Request.Context(), userID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// createRole handles POST /roles
func (h *identityHandler) createRole(c *gin.Context) {
	var req model.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	role, svcErr := h.service.CreateRole(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// getRole handles GET /roles/:roleId
func (h *identityHandler) getRole(c *gin.Context) {
	roleID := c.Param("roleId")
	if err := utils.ValidateEntityID("roleId", roleID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	role, svcErr := h.service.GetRole(c.Request.Context(), roleID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, role)
}

// listRoles handles GET /roles
func (h *identityHandler) listRoles(c *gin.Context) {
	roles, svcErr := h.service.ListRoles(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// updateRole handles PUT /roles/:roleId
func (h *identityHandler) updateRole(c *gin.Context) {
	roleID := c.Param("roleId")
	var req model.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	role, svcErr := h.service.UpdateRole(c.Request.Context(), roleID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, role)
}

// deleteRole handles DELETE /roles/:roleId
func (h *identityHandler) deleteRole(c *gin.Context) {
	roleID := c.Param("roleId")
	if svcErr := h.service.DeleteRole(c.Request.Context(), roleID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// assignRole handles POST /users/:userId/roles
func (h *identityHandler) assignRole(c *gin.Context) {
	userID := c.Param("userId")
	var req model.RoleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	if svcErr := h.service.AssignRole(c.Request.Context(), userID, req.RoleID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// revokeRole handles DELETE /users/:userId/roles/:roleId
func (h *identityHandler) revokeRole(c *gin.Context) {
	userID := c.Param("userId")
	roleID := c.Param("roleId")
	if svcErr := h.service.RevokeRole(c.Request.Context(), userID, roleID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// getUserRoles handles GET /users/:userId/roles
func (h *identityHandler) getUserRoles(c *gin.Context) {
	userID := c.Param("userId")
	roles, svcErr := h.service.GetUserRoles(c.Request.Context(), userID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// me handles GET /me and returns the calling user's profile and roles.
func (h *identityHandler) me(c *gin.Context) {
	userID := utils.GetUserID(c)
	if userID == "" {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Missing user identity header"))
		return
	}

	user, svcErr := h.service.GetUser(c.Request.Context(), userID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	roles, svcErr := h.service.GetUserRoles(c.Request.Context(), userID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "roles": roles})
}
