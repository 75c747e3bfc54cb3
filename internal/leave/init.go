package leave

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// NewStore creates and returns a new leave store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newLeaveStore(dbClient)
}

// Initialize sets up the leave module and registers routes.
func Initialize(rg *gin.RouterGroup, registry *stores.StoreRegistry, authz func(permission string) gin.HandlerFunc) LeaveService {
	service := newLeaveService(registry)
	handler := newLeaveHandler(service)

	manage := authz(constants.PermLeaveManage)

	rg.POST("/leave-types", manage, handler.createLeaveType)
	rg.GET("/leave-types", handler.listLeaveTypes)
	rg.GET("/leave-types/:leaveTypeId", handler.getLeaveType)
	rg.PUT("/leave-types/:leaveTypeId", manage, handler.updateLeaveType)
	rg.DELETE("/leave-types/:leaveTypeId", manage, handler.deleteLeaveType)

	rg.GET("/employees/:employeeId/leave-balances", manage, handler.getBalances)
	rg.PUT("/employees/:employeeId/leave-balances", manage, handler.setBalance)
	rg.GET("/leave-balances/my", handler.getMyBalances)

	return service
}
