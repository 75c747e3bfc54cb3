package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// dashboardHandler handles HTTP requests for dashboard aggregates
type dashboardHandler struct {
	service DashboardService
}

func newDashboardHandler(service DashboardService) *dashboardHandler {
	return &dashboardHandler{service: service}
}

func (h *dashboardHandler) getSummary(c *gin.Context) {
	summary, svcErr := h.service.GetSummary(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *dashboardHandler) export(c *gin.Context) {
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, svcErr := h.service.ExportCSV(c.Request.Context())
		if svcErr != nil {
			utils.SendError(c, svcErr)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=dashboard.csv")
		c.Data(http.StatusOK, constants.ContentTypeCSV, data)
	case "xlsx":
		data, svcErr := h.service.ExportXLSX(c.Request.Context())
		if svcErr != nil {
			utils.SendError(c, svcErr)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=dashboard.xlsx")
		c.Data(http.StatusOK, constants.ContentTypeXLSX, data)
	default:
		utils.SendError(c, &serviceerror.InvalidRequestError)
	}
}
