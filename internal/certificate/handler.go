package certificate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/certificate/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// certificateHandler handles HTTP requests for certificate templates
type certificateHandler struct {
	service CertificateService
}

func newCertificateHandler(service CertificateService) *certificateHandler {
	return &certificateHandler{service: service}
}

func (h *certificateHandler) createTemplate(c *gin.Context) {
	var req model.CertificateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, &serviceerror.InvalidRequestError)
		return
	}

	template, svcErr := h.service.CreateTemplate(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *certificateHandler) getTemplate(c *gin.Context) {
	template, svcErr := h.service.GetTemplate(c.Request.Context(), c.Param("templateId"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *certificateHandler) listTemplates(c *gin.Context) {
	templates, svcErr := h.service.ListTemplates(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *certificateHandler) updateTemplate(c *gin.Context) {
	var req model.CertificateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, &serviceerror.InvalidRequestError)
		return
	}

	template, svcErr := h.service.UpdateTemplate(c.Request.Context(), c.Param("templateId"), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *certificateHandler) deleteTemplate(c *gin.Context) {
	if svcErr := h.service.DeleteTemplate(c.Request.Context(), c.Param("templateId")); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *certificateHandler) publish(c *gin.Context) {
	h.setPublished(c, true)
}

func (h *certificateHandler) unpublish(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *certificateHandler) setPublished(c *gin.Context, published bool) {
	template, svcErr := h.service.SetPublished(c.Request.Context(), c.Param("templateId"), published)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *certificateHandler) renderData(c *gin.Context) {
	employeeID := c.Query("employeeId")
	if employeeID == "" {
		utils.SendError(c, &serviceerror.InvalidRequestError)
		return
	}

	data, svcErr := h.service.RenderData(c.Request.Context(), c.Param("templateId"), employeeID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, data)
}
