package requesttype

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// NewStore creates and returns a new request type store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newRequestTypeStore(dbClient)
}

// Initialize sets up the request type module and registers routes.
// Reads are open to any authenticated user so the submission form can be
// rendered; mutations need the manage permission.
func Initialize(rg *gin.RouterGroup, registry *stores.StoreRegistry, authz func(permission string) gin.HandlerFunc) RequestTypeService {
	service := newRequestTypeService(registry)
	handler := newRequestTypeHandler(service)

	manage := authz(constants.PermRequestTypesManage)

	rg.POST("/request-types", manage, handler.createRequestType)
	rg.GET("/request-types", handler.listRequestTypes)
	rg.GET("/request-types/:requestTypeId", handler.getRequestType)
	rg.PUT("/request-types/:requestTypeId", manage, handler.updateRequestType)
	rg.DELETE("/request-types/:requestTypeId", manage, handler.deleteRequestType)
	rg.POST("/request-types/:requestTypeId/publish", manage, handler.publishRequestType)
	rg.POST("/request-types/:requestTypeId/unpublish", manage, handler.unpublishRequestType)

	return service
}
