package dashboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/campushr/hr-management-api/internal/dashboard/model"
	"github.com/campushr/hr-management-api/internal/system/cache"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/log"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

const summaryCacheKey = "dashboard:summary"

// DashboardService defines the exported service interface
type DashboardService interface {
	GetSummary(ctx context.Context) (*model.Summary, *serviceerror.ServiceError)
	ExportCSV(ctx context.Context) ([]byte, *serviceerror.ServiceError)
	ExportXLSX(ctx context.Context) ([]byte, *serviceerror.ServiceError)
}

// dashboardService implements the DashboardService interface
type dashboardService struct {
	store dashboardStore
	cache *cache.Cache
}

// newDashboardService creates a new dashboard service
func newDashboardService(store dashboardStore, c *cache.Cache) DashboardService {
	return &dashboardService{store: store, cache: c}
}

// GetSummary returns the dashboard aggregates, serving from the cache when
// a fresh payload is available and rebuilding from source rows otherwise.
func (svc *dashboardService) GetSummary(ctx context.Context) (*model.Summary, *serviceerror.ServiceError) {
	if cached := svc.cache.Get(ctx, summaryCacheKey); cached != "" {
		var summary model.Summary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
		log.GetLogger().Warn("Discarding unreadable cached dashboard summary")
	}

	summary, svcErr := svc.buildSummary(ctx)
	if svcErr != nil {
		return nil, svcErr
	}

	if payload, err := json.Marshal(summary); err == nil {
		svc.cache.Set(ctx, summaryCacheKey, string(payload))
	}
	return summary, nil
}

func (svc *dashboardService) buildSummary(ctx context.Context) (*model.Summary, *serviceerror.ServiceError) {
	byStatus, err := svc.store.CountSubmissionsByStatus(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to aggregate submissions by status: %v", err))
	}
	byType, err := svc.store.CountSubmissionsByType(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to aggregate submissions by type: %v", err))
	}
	pendingBySteps, err := svc.store.CountPendingByStep(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to aggregate pending steps: %v", err))
	}
	avgDecision, err := svc.store.AvgDecisionMillis(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to compute decision times: %v", err))
	}
	fillRates, err := svc.store.TrainingFillRates(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to aggregate training fill rates: %v", err))
	}
	byFaculty, err := svc.store.HeadcountByFaculty(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to aggregate faculty headcount: %v", err))
	}
	byDepartment, err := svc.store.HeadcountByDepartment(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to aggregate department headcount: %v", err))
	}

	return &model.Summary{
		SubmissionsByStatus: byStatus,
		SubmissionsByType:   byType,
		PendingByStep:       pendingBySteps,
		AvgDecisionMillis:   avgDecision,
		TrainingFillRates:   fillRates,
		HeadcountByFaculty:  byFaculty,
		HeadcountByDept:     byDepartment,
		GeneratedAt:         utils.GetCurrentTimeMillis(),
	}, nil
}

// summarySections flattens the summary into labeled name/value rows shared
// by both export formats.
func summarySections(summary *model.Summary) [][]string {
	rows := [][]string{{"section", "name", "value"}}
	for _, s := range summary.SubmissionsByStatus {
		rows = append(rows, []string{"submissions_by_status", s.Status, strconv.Itoa(s.Count)})
	}
	for _, t := range summary.SubmissionsByType {
		rows = append(rows, []string{"submissions_by_type", t.RequestTypeName, strconv.Itoa(t.Count)})
	}
	for _, s := range summary.PendingByStep {
		rows = append(rows, []string{"pending_by_step", strconv.Itoa(s.StepIndex), strconv.Itoa(s.Count)})
	}
	rows = append(rows, []string{"avg_decision_millis", "", strconv.FormatInt(summary.AvgDecisionMillis, 10)})
	for _, r := range summary.TrainingFillRates {
		rows = append(rows, []string{"training_fill_rate", r.Title, strconv.FormatFloat(r.FillRate, 'f', 2, 64)})
	}
	for _, h := range summary.HeadcountByFaculty {
		rows = append(rows, []string{"headcount_by_faculty", h.Name, strconv.Itoa(h.Count)})
	}
	for _, h := range summary.HeadcountByDept {
		rows = append(rows, []string{"headcount_by_department", h.Name, strconv.Itoa(h.Count)})
	}
	return rows
}

func (svc *dashboardService) ExportCSV(ctx context.Context) ([]byte, *serviceerror.ServiceError) {
	summary, svcErr := svc.GetSummary(ctx)
	if svcErr != nil {
		return nil, svcErr
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, row := range summarySections(summary) {
		if err := writer.Write(row); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to write csv: %v", err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to write csv: %v", err))
	}
	return buf.Bytes(), nil
}

func (svc *dashboardService) ExportXLSX(ctx context.Context) ([]byte, *serviceerror.ServiceError) {
	summary, svcErr := svc.GetSummary(ctx)
	if svcErr != nil {
		return nil, svcErr
	}

	file := excelize.NewFile()
	const sheet = "Dashboard"
	file.SetSheetName(file.GetSheetName(0), sheet)
	for i, row := range summarySections(summary) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to build xlsx: %v", err))
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to build xlsx: %v", err))
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to write xlsx: %v", err))
	}
	return buf.Bytes(), nil
}
