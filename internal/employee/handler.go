package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/employee/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

type employeeHandler struct {
	service EmployeeService
}

func newEmployeeHandler(service EmployeeService) *employeeHandler {
	return &employeeHandler{
		service: service,
	}
}

// createEmployee handles POST /employees
func (h *employeeHandler) createEmployee(c *gin.Context) {
	var req model.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	employee, svcErr := h.service.CreateEmployee(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// getEmployee handles GET /employees/:employeeId
func (h *employeeHandler) getEmployee(c *gin.Context) {
	employeeID := c.Param("employeeId")
	if err := utils.ValidateEntityID("employeeId", employeeID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	employee, svcErr := h.service.GetEmployee(c.Request.Context(), employeeID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// listEmployees handles GET /employees with optional org filters
func (h *employeeHandler) listEmployees(c *gin.Context) {
	filter := model.EmployeeFilter{
		FacultyID:    c.Query("faculty_id"),
		DepartmentID: c.Query("department_id"),
		PositionID:   c.Query("position_id"),
		ActiveOnly:   c.Query("active") == "true",
	}

	employees, svcErr := h.service.ListEmployees(c.Request.Context(), filter)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// updateEmployee handles PUT /employees/:employeeId
func (h *employeeHandler) updateEmployee(c *gin.Context) {
	employeeID := c.Param("employeeId")
	var req model.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	employee, svcErr := h.service.UpdateEmployee(c.Request.Context(), employeeID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// deleteEmployee handles DELETE /employees/:employeeId
func (h *employeeHandler) deleteEmployee(c *gin.Context) {
	employeeID := c.Param("employeeId")
	if svcErr := h.service.DeleteEmployee(c.Request.Context(), employeeID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}
