package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/cache"
	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
)

// Initialize wires the dashboard module routes. The cache may be nil when
// caching is disabled.
func Initialize(rg *gin.RouterGroup, dbClient provider.DBClientInterface, c *cache.Cache,
	authz func(permission string) gin.HandlerFunc) DashboardService {
	service := newDashboardService(newDashboardStore(dbClient), c)
	handler := newDashboardHandler(service)

	rg.GET("/dashboard", authz(constants.PermReportsRead), handler.getSummary)
	rg.GET("/dashboard/export", authz(constants.PermReportsRead), handler.export)

	return service
}
