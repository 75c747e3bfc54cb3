package employee

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// NewStore creates and returns a new employee store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newEmployeeStore(dbClient)
}

// Initialize sets up the employee module and registers routes.
func Initialize(rg *gin.RouterGroup, registry *stores.StoreRegistry, authz func(permission string) gin.HandlerFunc) EmployeeService {
	service := newEmployeeService(registry)
	handler := newEmployeeHandler(service)

	read := authz(constants.PermEmployeesRead)
	write := authz(constants.PermEmployeesWrite)

	rg.POST("/employees", write, handler.createEmployee)
	rg.GET("/employees", read, handler.listEmployees)
	rg.GET("/employees/:employeeId", read, handler.getEmployee)
	rg.PUT("/employees/:employeeId", write, handler.updateEmployee)
	rg.DELETE("/employees/:employeeId", write, handler.deleteEmployee)

	return service
}
