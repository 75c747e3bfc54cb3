package organization

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// NewStore creates and returns a new organization store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newOrganizationStore(dbClient)
}

// Initialize sets up the organization module and registers routes.
// authz builds a permission-enforcing middleware for a permission string.
func Initialize(rg *gin.RouterGroup, registry *stores.StoreRegistry, authz func(permission string) gin.HandlerFunc) OrganizationService {
	service := newOrganizationService(registry)
	handler := newOrganizationHandler(service)

	read := authz(constants.PermOrgRead)
	write := authz(constants.PermOrgWrite)

	rg.POST("/faculties", write, handler.createFaculty)
	rg.GET("/faculties", read, handler.listFaculties)
	rg.GET("/faculties/:facultyId", read, handler.getFaculty)
	rg.PUT("/faculties/:facultyId", write, handler.updateFaculty)
	rg.DELETE("/faculties/:facultyId", write, handler.deleteFaculty)

	rg.POST("/departments", write, handler.createDepartment)
	rg.GET("/departments", read, handler.listDepartments)
	rg.GET("/departments/:departmentId", read, handler.getDepartment)
	rg.PUT("/departments/:departmentId", write, handler.updateDepartment)
	rg.DELETE("/departments/:departmentId", write, handler.deleteDepartment)

	rg.POST("/positions", write, handler.createPosition)
	rg.GET("/positions", read, handler.listPositions)
	rg.GET("/positions/:positionId", read, handler.getPosition)
	rg.PUT("/positions/:positionId", write, handler.updatePosition)
	rg.DELETE("/positions/:positionId", write, handler.deletePosition)

	return service
}
