package submission

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/submission/model"
	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

type submissionHandler struct {
	service SubmissionService
}

func newSubmissionHandler(service SubmissionService) *submissionHandler {
	return &submissionHandler{
		service: service,
	}
}

// submit handles POST /request-types/:requestTypeId/submit
func (h *submissionHandler) submit(c *gin.Context) {
	requestTypeID := c.Param("requestTypeId")
	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
		return
	}

	detail, svcErr := h.service.Submit(c.Request.Context(), requestTypeID, utils.GetUserID(c), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// listRequests handles GET /requests with scope/status/type filters
func (h *submissionHandler) listRequests(c *gin.Context) {
	filter := model.ListFilter{
		Scope:         c.DefaultQuery("scope", "mine"),
		Status:        c.Query("status"),
		RequestTypeID: c.Query("request_type_id"),
	}

	submissions, svcErr := h.service.ListSubmissions(c.Request.Context(), utils.GetUserID(c), filter)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": submissions})
}

// getRequest handles GET /requests/:requestId
func (h *submissionHandler) getRequest(c *gin.Context) {
	requestID := c.Param("requestId")
	if err := utils.ValidateEntityID("requestId", requestID); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	detail, svcErr := h.service.GetSubmission(c.Request.Context(), requestID, utils.GetUserID(c))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// approve handles POST /requests/:requestId/approve
func (h *submissionHandler) approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// reject handles POST /requests/:requestId/reject
func (h *submissionHandler) reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *submissionHandler) decide(c *gin.Context, decide func(ctx context.Context, submissionID, userID, notes string) (*model.SubmissionDetail, *serviceerror.ServiceError)) {
	requestID := c.Param("requestId")
	var req model.DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "Invalid request body"))
			return
		}
	}

	detail, svcErr := decide(c.Request.Context(), requestID, utils.GetUserID(c), req.Notes)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// fulfill handles POST /requests/:requestId/fulfill (multipart: file, notes)
func (h *submissionHandler) fulfill(c *gin.Context) {
	requestID := c.Param("requestId")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "A fulfillment file is required"))
		return
	}
	if fileHeader.Size > int64(constants.MaxFulfillmentFileSize) {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.ValidationError, "fulfillment file exceeds the 15MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InternalServerError, "Failed to read uploaded file"))
		return
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, int64(constants.MaxFulfillmentFileSize)+1))
	if err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InternalServerError, "Failed to read uploaded file"))
		return
	}

	detail, svcErr := h.service.Fulfill(c.Request.Context(), requestID, utils.GetUserID(c),
		fileHeader.Filename, content, c.PostForm("notes"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// download handles GET /requests/:requestId/download
func (h *submissionHandler) download(c *gin.Context) {
	requestID := c.Param("requestId")
	fileName, content, svcErr := h.service.DownloadFulfillment(c.Request.Context(), requestID, utils.GetUserID(c))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// export handles GET /requests/export?format=csv|xlsx
func (h *submissionHandler) export(c *gin.Context) {
	filter := model.ListFilter{
		Status:        c.Query("status"),
		RequestTypeID: c.Query("request_type_id"),
	}

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		content, svcErr := h.service.ExportXLSX(c.Request.Context(), filter)
		if svcErr != nil {
			utils.SendError(c, svcErr)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="requests.xlsx"`)
		c.Data(http.StatusOK, constants.ContentTypeXLSX, content)
	case "csv":
		content, svcErr := h.service.ExportCSV(c.Request.Context(), filter)
		if svcErr != nil {
			utils.SendError(c, svcErr)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="requests.csv"`)
		c.Data(http.StatusOK, constants.ContentTypeCSV, content)
	default:
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "format must be csv or xlsx"))
	}
}
