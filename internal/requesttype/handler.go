package requesttype

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

type requestTypeHandler struct {
	service RequestTypeService
}

func newRequestTypeHandler(service RequestTypeService) *requestTypeHandler {
	return &requestTypeHandler{
		service: service,
	}
}

// createRequestType handles POST /request-types
func (h *requestTypeHandler) createRequestType(c *gin.Context) {
	var req model.RequestTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	def, svcErr := h.service.CreateRequestType(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, def)
}

// getRequestType handles GET /request-types/:requestTypeId
func (h *requestTypeHandler) getRequestType(c *gin.Context) {
	requestTypeID := c.Param("requestTypeId")
	if err := utils.ValidateEntityID("requestTypeId", requestTypeID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	def, svcErr := h.service.GetRequestType(c.Request.Context(), requestTypeID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, def)
}

// listRequestTypes handles GET /request-types
func (h *requestTypeHandler) listRequestTypes(c *gin.Context) {
	types, svcErr := h.service.ListRequestTypes(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_types": types})
}

// updateRequestType handles PUT /request-types/:requestTypeId
func (h *requestTypeHandler) updateRequestType(c *gin.Context) {
	requestTypeID := c.Param("requestTypeId")
	var req model.RequestTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	def, svcErr := h.service.UpdateRequestType(c.Request.Context(), requestTypeID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, def)
}

// deleteRequestType handles DELETE /request-types/:requestTypeId
func (h *requestTypeHandler) deleteRequestType(c *gin.Context) {
	requestTypeID := c.Param("requestTypeId")
	if svcErr := h.service.DeleteRequestType(c.Request.Context(), requestTypeID); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// publishRequestType handles POST /request-types/:requestTypeId/publish
func (h *requestTypeHandler) publishRequestType(c *gin.Context) {
	h.setPublished(c, true)
}

// unpublishRequestType handles POST /request-types/:requestTypeId/unpublish
func (h *requestTypeHandler) unpublishRequestType(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *requestTypeHandler) setPublished(c *gin.Context, published bool) {
	requestTypeID := c.Param("requestTypeId")
	requestType, svcErr := h.service.SetPublished(c.Request.Context(), requestTypeID, published)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, requestType)
}
