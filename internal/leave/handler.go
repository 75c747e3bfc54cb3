package leave

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/leave/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

type leaveHandler struct {
	service LeaveService
}

func newLeaveHandler(service LeaveService) *leaveHandler {
	return &leaveHandler{
		service: service,
	}
}

// createLeaveType handles POST /leave-types
func (h *leaveHandler) createLeaveType(c *gin.Context) {
	var req model.LeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	leaveType, svcErr := h.service.CreateLeaveType(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, leaveType)
}

// getLeaveType handles GET /leave-types/:leaveTypeId
func (h *leaveHandler) getLeaveType(c *gin.Context) {
	leaveTypeID := c.Param("leaveTypeId")
	leaveType, svcErr := h.service.GetLeaveType(c.Request.Context(), leaveTypeID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, leaveType)
}

// listLeaveTypes handles GET /leave-types
func (h *leaveHandler) listLeaveTypes(c *gin.Context) {
	types, svcErr := h.service.ListLeaveTypes(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leave_types": types})
}

// updateLeaveType handles PUT /leave-types/:leaveTypeId
func (h *leaveHandler) updateLeaveType(c *gin.Context) {
	leaveTypeID := c.Param("leaveTypeId")
	var req model.LeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	leaveType, svcErr := h.service.UpdateLeaveType(c.Request.Context(), leaveTypeID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, leaveType)
}

// deleteLeaveType handles DELETE /leave-types/:leaveTypeId
func (h *leaveHandler) deleteLeaveType(c *gin.Context) {
	leaveTypeID := c.Param("leaveTypeId")
	if svcErr := h.service.DeleteLeaveType(c.Request.Context(), leaveTypeID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// getBalances handles GET /employees/:employeeId/leave-balances
func (h *leaveHandler) getBalances(c *gin.Context) {
	employeeID := c.Param("employeeId")
	year, _ := strconv.Atoi(c.Query("year"))

	balances, svcErr := h.service.GetBalances(c.Request.Context(), employeeID, year)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// setBalance handles PUT /employees/:employeeId/leave-balances
func (h *leaveHandler) setBalance(c *gin.Context) {
	employeeID := c.Param("employeeId")
	var req model.BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	balance, svcErr := h.service.SetBalance(c.Request.Context(), employeeID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getMyBalances handles GET /leave-balances/my
func (h *leaveHandler) getMyBalances(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	balances, svcErr := h.service.GetMyBalances(c.Request.Context(), utils.GetUserID(c), year)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}
