package submission

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/approver"
	"github.com/campushr/hr-management-api/internal/leave"
	"github.com/campushr/hr-management-api/internal/system/config"
	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/notification"
	"github.com/campushr/hr-management-api/internal/system/storage"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// NewStore creates and returns a new submission store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newSubmissionStore(dbClient)
}

// Initialize sets up the submission module and registers routes. Approval
// and viewing are authorized per-row inside the service, so only the export
// endpoint carries a permission middleware.
func Initialize(rg *gin.RouterGroup, registry *stores.StoreRegistry,
	authz func(permission string) gin.HandlerFunc,
	resolver approver.ApproverResolver, leaveService leave.LeaveService,
	notifier notification.Notifier, fileStore storage.FileStore,
	cfg config.ApprovalConfig) SubmissionService {

	service := newSubmissionService(registry, resolver, leaveService, notifier, fileStore, cfg)
	handler := newSubmissionHandler(service)

	manage := authz(constants.PermRequestsManage)

	rg.POST("/request-types/:requestTypeId/submit", handler.submit)
	rg.GET("/requests", handler.listRequests)
	rg.GET("/requests/export", manage, handler.export)
	rg.GET("/requests/:requestId", handler.getRequest)
	rg.POST("/requests/:requestId/approve", handler.approve)
	rg.POST("/requests/:requestId/reject", handler.reject)
	rg.POST("/requests/:requestId/fulfill", handler.fulfill)
	rg.GET("/requests/:requestId/download", handler.download)

	return service
}
