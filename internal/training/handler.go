package training

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/utils"
	"github.com/campushr/hr-management-api/internal/training/model"
)

// trainingHandler handles HTTP requests for trainings
type trainingHandler struct {
	service TrainingService
}

func newTrainingHandler(service TrainingService) *trainingHandler {
	return &trainingHandler{service: service}
}

func (h *trainingHandler) createTraining(c *gin.Context) {
	var req model.TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, &serviceerror.InvalidRequestError)
		return
	}

	training, svcErr := h.service.CreateTraining(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, training)
}

func (h *trainingHandler) getTraining(c *gin.Context) {
	training, svcErr := h.service.GetTraining(c.Request.Context(), c.Param("trainingId"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, training)
}

func (h *trainingHandler) listTrainings(c *gin.Context) {
	trainings, svcErr := h.service.ListTrainings(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, trainings)
}

func (h *trainingHandler) updateTraining(c *gin.Context) {
	var req model.TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, &serviceerror.InvalidRequestError)
		return
	}

	training, svcErr := h.service.UpdateTraining(c.Request.Context(), c.Param("trainingId"), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, training)
}

func (h *trainingHandler) deleteTraining(c *gin.Context) {
	if svcErr := h.service.DeleteTraining(c.Request.Context(), c.Param("trainingId")); svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *trainingHandler) apply(c *gin.Context) {
	userID := utils.GetUserID(c)
	if userID == "" {
		utils.SendError(c, &serviceerror.InvalidRequestError)
		return
	}

	req := model.ApplyRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendError(c, &serviceerror.InvalidRequestError)
			return
		}
	}

	application, svcErr := h.service.Apply(c.Request.Context(), c.Param("trainingId"), userID, req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (h *trainingHandler) listApplications(c *gin.Context) {
	applications, svcErr := h.service.ListApplications(c.Request.Context(), c.Param("trainingId"))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, applications)
}

func (h *trainingHandler) myApplications(c *gin.Context) {
	userID := utils.GetUserID(c)
	if userID == "" {
		utils.SendError(c, &serviceerror.InvalidRequestError)
		return
	}

	applications, svcErr := h.service.MyApplications(c.Request.Context(), userID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, applications)
}
