package dashboard

import (
	"context"

	"github.com/campushr/hr-management-api/internal/dashboard/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for dashboard aggregates
var (
	QueryCountSubmissionsByStatus = dbmodel.DBQuery{
		ID:    "COUNT_SUBMISSIONS_BY_STATUS",
		Query: "SELECT STATUS, COUNT(*) as count FROM REQUEST_SUBMISSION GROUP BY STATUS",
	}

	QueryCountSubmissionsByType = dbmodel.DBQuery{
		ID:    "COUNT_SUBMISSIONS_BY_TYPE",
		Query: "SELECT s.REQUEST_TYPE_ID, t.NAME, COUNT(*) as count FROM REQUEST_SUBMISSION s JOIN REQUEST_TYPE t ON t.REQUEST_TYPE_ID = s.REQUEST_TYPE_ID GROUP BY s.REQUEST_TYPE_ID, t.NAME",
	}

	QueryCountPendingByStep = dbmodel.DBQuery{
		ID:    "COUNT_PENDING_BY_STEP",
		Query: "SELECT CURRENT_STEP_INDEX, COUNT(*) as count FROM REQUEST_SUBMISSION WHERE STATUS = 'pending' AND CURRENT_STEP_INDEX IS NOT NULL GROUP BY CURRENT_STEP_INDEX ORDER BY CURRENT_STEP_INDEX",
	}

	QueryDecisionDurations = dbmodel.DBQuery{
		ID:    "GET_DECISION_DURATIONS",
		Query: "SELECT s.SUBMITTED_TIME, MAX(a.ACTED_AT) as DECIDED_TIME FROM REQUEST_SUBMISSION s JOIN REQUEST_APPROVAL_ACTION a ON a.SUBMISSION_ID = s.SUBMISSION_ID AND a.ACTED_AT IS NOT NULL WHERE s.STATUS IN ('approved', 'completed', 'rejected') GROUP BY s.SUBMISSION_ID, s.SUBMITTED_TIME",
	}

	QueryTrainingFillRates = dbmodel.DBQuery{
		ID:    "GET_TRAINING_FILL_RATES",
		Query: "SELECT t.TRAINING_ID, t.TITLE, t.CAPACITY, COUNT(a.APPLICATION_ID) as active FROM TRAINING t LEFT JOIN TRAINING_APPLICATION a ON a.TRAINING_ID = t.TRAINING_ID AND a.STATUS IN ('pending', 'approved') GROUP BY t.TRAINING_ID, t.TITLE, t.CAPACITY",
	}

	QueryHeadcountByFaculty = dbmodel.DBQuery{
		ID:    "COUNT_EMPLOYEES_BY_FACULTY",
		Query: "SELECT e.FACULTY_ID, f.NAME, COUNT(*) as count FROM EMPLOYEE e JOIN FACULTY f ON f.FACULTY_ID = e.FACULTY_ID WHERE e.ACTIVE = ? GROUP BY e.FACULTY_ID, f.NAME",
	}

	QueryHeadcountByDepartment = dbmodel.DBQuery{
		ID:    "COUNT_EMPLOYEES_BY_DEPARTMENT",
		Query: "SELECT e.DEPARTMENT_ID, d.NAME, COUNT(*) as count FROM EMPLOYEE e JOIN DEPARTMENT d ON d.DEPARTMENT_ID = e.DEPARTMENT_ID WHERE e.ACTIVE = ? GROUP BY e.DEPARTMENT_ID, d.NAME",
	}
)

// dashboardStore defines the aggregate reads used by the dashboard service.
type dashboardStore interface {
	CountSubmissionsByStatus(ctx context.Context) ([]model.StatusCount, error)
	CountSubmissionsByType(ctx context.Context) ([]model.TypeCount, error)
	CountPendingByStep(ctx context.Context) ([]model.StepCount, error)
	AvgDecisionMillis(ctx context.Context) (int64, error)
	TrainingFillRates(ctx context.Context) ([]model.TrainingFillRate, error)
	HeadcountByFaculty(ctx context.Context) ([]model.Headcount, error)
	HeadcountByDepartment(ctx context.Context) ([]model.Headcount, error)
}

// store implements the dashboardStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newDashboardStore creates a new dashboard store
func newDashboardStore(dbClient provider.DBClientInterface) dashboardStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) CountSubmissionsByStatus(ctx context.Context) ([]model.StatusCount, error) {
	rows, err := s.dbClient.Query(QueryCountSubmissionsByStatus)
	if err != nil {
		return nil, err
	}
	counts := make([]model.StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, model.StatusCount{
			Status: utils.RowString(row, "STATUS"),
			Count:  utils.RowInt(row, "count"),
		})
	}
	return counts, nil
}

func (s *store) CountSubmissionsByType(ctx context.Context) ([]model.TypeCount, error) {
	rows, err := s.dbClient.Query(QueryCountSubmissionsByType)
	if err != nil {
		return nil, err
	}
	counts := make([]model.TypeCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, model.TypeCount{
			RequestTypeID:   utils.RowString(row, "REQUEST_TYPE_ID"),
			RequestTypeName: utils.RowString(row, "NAME"),
			Count:           utils.RowInt(row, "count"),
		})
	}
	return counts, nil
}

func (s *store) CountPendingByStep(ctx context.Context) ([]model.StepCount, error) {
	rows, err := s.dbClient.Query(QueryCountPendingByStep)
	if err != nil {
		return nil, err
	}
	counts := make([]model.StepCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, model.StepCount{
			StepIndex: utils.RowInt(row, "CURRENT_STEP_INDEX"),
			Count:     utils.RowInt(row, "count"),
		})
	}
	return counts, nil
}

func (s *store) AvgDecisionMillis(ctx context.Context) (int64, error) {
	rows, err := s.dbClient.Query(QueryDecisionDurations)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	var total int64
	var counted int64
	for _, row := range rows {
		submitted := utils.RowInt64(row, "SUBMITTED_TIME")
		decided := utils.RowInt64(row, "DECIDED_TIME")
		if decided < submitted {
			continue
		}
		total += decided - submitted
		counted++
	}
	if counted == 0 {
		return 0, nil
	}
	return total / counted, nil
}

func (s *store) TrainingFillRates(ctx context.Context) ([]model.TrainingFillRate, error) {
	rows, err := s.dbClient.Query(QueryTrainingFillRates)
	if err != nil {
		return nil, err
	}
	rates := make([]model.TrainingFillRate, 0, len(rows))
	for _, row := range rows {
		rate := model.TrainingFillRate{
			TrainingID: utils.RowString(row, "TRAINING_ID"),
			Title:      utils.RowString(row, "TITLE"),
			Capacity:   utils.RowInt(row, "CAPACITY"),
			Active:     utils.RowInt(row, "active"),
		}
		if rate.Capacity > 0 {
			rate.FillRate = float64(rate.Active) / float64(rate.Capacity)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func (s *store) HeadcountByFaculty(ctx context.Context) ([]model.Headcount, error) {
	return s.headcount(QueryHeadcountByFaculty, "FACULTY_ID")
}

func (s *store) HeadcountByDepartment(ctx context.Context) ([]model.Headcount, error) {
	return s.headcount(QueryHeadcountByDepartment, "DEPARTMENT_ID")
}

func (s *store) headcount(query dbmodel.DBQuery, refColumn string) ([]model.Headcount, error) {
	rows, err := s.dbClient.Query(query, true)
	if err != nil {
		return nil, err
	}
	counts := make([]model.Headcount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, model.Headcount{
			RefID: utils.RowString(row, refColumn),
			Name:  utils.RowString(row, "NAME"),
			Count: utils.RowInt(row, "count"),
		})
	}
	return counts, nil
}
