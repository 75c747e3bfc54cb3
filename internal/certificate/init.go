package certificate

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// NewStore creates the certificate store for registry registration.
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newCertificateStore(dbClient)
}

// Initialize wires the certificate module routes.
func Initialize(rg *gin.RouterGroup, registry *stores.StoreRegistry, authz func(permission string) gin.HandlerFunc) CertificateService {
	service := newCertificateService(registry)
	handler := newCertificateHandler(service)

	rg.GET("/certificate-templates", authz(constants.PermCertificatesManage), handler.listTemplates)
	rg.GET("/certificate-templates/:templateId", authz(constants.PermCertificatesManage), handler.getTemplate)
	rg.POST("/certificate-templates", authz(constants.PermCertificatesManage), handler.createTemplate)
	rg.PUT("/certificate-templates/:templateId", authz(constants.PermCertificatesManage), handler.updateTemplate)
	rg.DELETE("/certificate-templates/:templateId", authz(constants.PermCertificatesManage), handler.deleteTemplate)
	rg.POST("/certificate-templates/:templateId/publish", authz(constants.PermCertificatesManage), handler.publish)
	rg.POST("/certificate-templates/:templateId/unpublish", authz(constants.PermCertificatesManage), handler.unpublish)
	rg.GET("/certificate-templates/:templateId/render-data", authz(constants.PermCertificatesManage), handler.renderData)

	return service
}
