package training

import (
	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/submission"
	"github.com/campushr/hr-management-api/internal/system/config"
	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/notification"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// NewStore creates the training store for registry registration.
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newTrainingStore(dbClient)
}

// Initialize wires the training module routes and registers its decision
// hook on the submission engine.
func Initialize(rg *gin.RouterGroup, registry *stores.StoreRegistry, authz func(permission string) gin.HandlerFunc,
	submissions submission.SubmissionService, notifier notification.Notifier, cfg config.TrainingConfig) TrainingService {
	service := newTrainingService(registry, submissions, notifier, cfg)
	submissions.RegisterDecisionHook(service.DecisionHook())
	handler := newTrainingHandler(service)

	rg.GET("/trainings", handler.listTrainings)
	rg.GET("/trainings/:trainingId", handler.getTraining)
	rg.POST("/trainings", authz(constants.PermTrainingsManage), handler.createTraining)
	rg.PUT("/trainings/:trainingId", authz(constants.PermTrainingsManage), handler.updateTraining)
	rg.DELETE("/trainings/:trainingId", authz(constants.PermTrainingsManage), handler.deleteTraining)

	rg.POST("/trainings/:trainingId/apply", handler.apply)
	rg.GET("/trainings/:trainingId/applications", authz(constants.PermTrainingsManage), handler.listApplications)
	rg.GET("/training-applications/my", handler.myApplications)

	return service
}
