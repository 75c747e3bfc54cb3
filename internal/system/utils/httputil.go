package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/error/apierror"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
)

// GetUserID returns the authenticated user ID forwarded by the gateway.
// Authentication itself happens upstream; an empty value means the request
// is unauthenticated.
func GetUserID(c *gin.Context) string {
	return c.GetHeader(constants.HeaderUserID)
}

// SendError writes a ServiceError as an HTTP response with appropriate status code
func SendError(c *gin.Context, err *serviceerror.ServiceError) {
	statusCode := http.StatusInternalServerError
	if err.Type == serviceerror.ClientErrorType {
		switch err.Code {
		case serviceerror.ResourceNotFoundError.Code:
			statusCode = http.StatusNotFound
		case serviceerror.ConflictError.Code:
			statusCode = http.StatusConflict
		case serviceerror.AuthorizationError.Code:
			statusCode = http.StatusForbidden
		default:
			statusCode = http.StatusBadRequest
		}
	}

	c.AbortWithStatusJSON(statusCode, apierror.ErrorResponse{
		Code:        err.Error,
		Description: err.ErrorDescription,
	})
}
