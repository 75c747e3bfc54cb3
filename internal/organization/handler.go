package organization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/organization/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

type organizationHandler struct {
	service OrganizationService
}

func newOrganizationHandler(service OrganizationService) *organizationHandler {
	return &organizationHandler{
		service: service,
	}
}

// createFaculty handles POST /faculties
func (h *organizationHandler) createFaculty(c *gin.Context) {
	var req model.FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	faculty, svcErr := h.service.CreateFaculty(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, faculty)
}

// getFaculty handles GET /faculties/:facultyId
func (h *organizationHandler) getFaculty(c *gin.Context) {
	facultyID := c.Param("facultyId")
	if err := utils.ValidateEntityID("facultyId", facultyID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	faculty, svcErr := h.service.GetFaculty(c.Request.Context(), facultyID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, faculty)
}

// listFaculties handles GET /faculties
func (h *organizationHandler) listFaculties(c *gin.Context) {
	faculties, svcErr := h.service.ListFaculties(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"faculties": faculties})
}

// updateFaculty handles PUT /faculties/:facultyId
func (h *organizationHandler) updateFaculty(c *gin.Context) {
	facultyID := c.Param("facultyId")
	var req model.FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	faculty, svcErr := h.service.UpdateFaculty(c.Request.Context(), facultyID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, faculty)
}

// deleteFaculty handles DELETE /faculties/:facultyId
func (h *organizationHandler) deleteFaculty(c *gin.Context) {
	facultyID := c.Param("facultyId")
	if svcErr := h.service.DeleteFaculty(c.Request.Context(), facultyID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// createDepartment handles POST /departments
func (h *organizationHandler) createDepartment(c *gin.Context) {
	var req model.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	department, svcErr := h.service.CreateDepartment(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, department)
}

// getDepartment handles GET /departments/:departmentId
func (h *organizationHandler) getDepartment(c *gin.Context) {
	departmentID := c.Param("departmentId")
	if err := utils.ValidateEntityID("departmentId", departmentID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	department, svcErr := h.service.GetDepartment(c.Request.Context(), departmentID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, department)
}

// listDepartments handles GET /departments with optional faculty filter
func (h *organizationHandler) listDepartments(c *gin.Context) {
	departments, svcErr := h.service.ListDepartments(c.Request.Context(), c.Query("faculty_id"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

// updateDepartment handles PUT /departments/:departmentId
func (h *organizationHandler) updateDepartment(c *gin.Context) {
	departmentID := c.Param("departmentId")
	var req model.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	department, svcErr := h.service.UpdateDepartment(c.Request.Context(), departmentID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, department)
}

// deleteDepartment handles DELETE /departments/:departmentId
func (h *organizationHandler) deleteDepartment(c *gin.Context) {
	departmentID := c.Param("departmentId")
	if svcErr := h.service.DeleteDepartment(c.Request.Context(), departmentID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// createPosition handles POST /positions
func (h *organizationHandler) createPosition(c *gin.Context) {
	var req model.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	position, svcErr := h.service.CreatePosition(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, position)
}

// getPosition handles GET /positions/:positionId
func (h *organizationHandler) getPosition(c *gin.Context) {
	positionID := c.Param("positionId")
	if err := utils.ValidateEntityID("positionId", positionID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	position, svcErr := h.service.GetPosition(c.Request.Context(), positionID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, position)
}

// listPositions handles GET /positions with optional department or faculty filter
func (h *organizationHandler) listPositions(c *gin.Context) {
	positions, svcErr := h.service.ListPositions(c.Request.Context(), c.Query("department_id"), c.Query("faculty_id"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

// updatePosition handles PUT /positions/:positionId
func (h *organizationHandler) updatePosition(c *gin.Context) {
	positionID := c.Param("positionId")
	var req model.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	position, svcErr := h.service.UpdatePosition(c.Request.Context(), positionID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, position)
}

// deletePosition handles DELETE /positions/:positionId
func (h *organizationHandler) deletePosition(c *gin.Context) {
	positionID := c.Param("positionId")
	if svcErr := h.service.DeletePosition(c.Request.Context(), positionID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}
