package dashboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/campushr/hr-management-api/internal/dashboard/model"
)

type fakeDashboardStore struct {
	byStatus    []model.StatusCount
	byType      []model.TypeCount
	pendingStep []model.StepCount
	avgDecision int64
	fillRates   []model.TrainingFillRate
	byFaculty   []model.Headcount
	byDept      []model.Headcount

	statusErr error
	calls     int
}

func (f *fakeDashboardStore) CountSubmissionsByStatus(ctx context.Context) ([]model.StatusCount, error) {
	f.calls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.byStatus, nil
}

func (f *fakeDashboardStore) CountSubmissionsByType(ctx context.Context) ([]model.TypeCount, error) {
	return f.byType, nil
}

func (f *fakeDashboardStore) CountPendingByStep(ctx context.Context) ([]model.StepCount, error) {
	return f.pendingStep, nil
}

func (f *fakeDashboardStore) AvgDecisionMillis(ctx context.Context) (int64, error) {
	return f.avgDecision, nil
}

func (f *fakeDashboardStore) TrainingFillRates(ctx context.Context) ([]model.TrainingFillRate, error) {
	return f.fillRates, nil
}

func (f *fakeDashboardStore) HeadcountByFaculty(ctx context.Context) ([]model.Headcount, error) {
	return f.byFaculty, nil
}

func (f *fakeDashboardStore) HeadcountByDepartment(ctx context.Context) ([]model.Headcount, error) {
	return f.byDept, nil
}

func seededStore() *fakeDashboardStore {
	return &fakeDashboardStore{
		byStatus: []model.StatusCount{
			{Status: "pending", Count: 4},
			{Status: "approved", Count: 9},
		},
		byType: []model.TypeCount{
			{RequestTypeID: "rt-1", RequestTypeName: "Leave Request", Count: 7},
		},
		pendingStep: []model.StepCount{{StepIndex: 0, Count: 3}, {StepIndex: 1, Count: 1}},
		avgDecision: 86400000,
		fillRates: []model.TrainingFillRate{
			{TrainingID: "tr-1", Title: "First Aid", Capacity: 20, Active: 15, FillRate: 0.75},
		},
		byFaculty: []model.Headcount{{RefID: "fac-sci", Name: "Science", Count: 42}},
		byDept:    []model.Headcount{{RefID: "dept-cs", Name: "Computer Science", Count: 12}},
	}
}

func TestGetSummaryAggregates(t *testing.T) {
	store := seededStore()
	svc := newDashboardService(store, nil)

	summary, svcErr := svc.GetSummary(context.Background())
	require.Nil(t, svcErr)
	assert.Len(t, summary.SubmissionsByStatus, 2)
	assert.Equal(t, int64(86400000), summary.AvgDecisionMillis)
	assert.Equal(t, 0.75, summary.TrainingFillRates[0].FillRate)
	assert.Equal(t, 42, summary.HeadcountByFaculty[0].Count)
	assert.NotZero(t, summary.GeneratedAt)

	// The nil cache never serves, so every call hits the store.
	_, svcErr = svc.GetSummary(context.Background())
	require.Nil(t, svcErr)
	assert.Equal(t, 2, store.calls)
}

func TestGetSummaryPropagatesStoreErrors(t *testing.T) {
	store := seededStore()
	store.statusErr = errors.New("connection reset")
	svc := newDashboardService(store, nil)

	_, svcErr := svc.GetSummary(context.Background())
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "failed to aggregate submissions by status")
}

func TestSummarySectionsFlattenEverySlice(t *testing.T) {
	store := seededStore()
	svc := newDashboardService(store, nil)
	summary, svcErr := svc.GetSummary(context.Background())
	require.Nil(t, svcErr)

	rows := summarySections(summary)
	assert.Equal(t, []string{"section", "name", "value"}, rows[0])
	assert.Contains(t, rows, []string{"submissions_by_status", "pending", "4"})
	assert.Contains(t, rows, []string{"submissions_by_type", "Leave Request", "7"})
	assert.Contains(t, rows, []string{"pending_by_step", "1", "1"})
	assert.Contains(t, rows, []string{"avg_decision_millis", "", "86400000"})
	assert.Contains(t, rows, []string{"training_fill_rate", "First Aid", "0.75"})
	assert.Contains(t, rows, []string{"headcount_by_faculty", "Science", "42"})
	assert.Contains(t, rows, []string{"headcount_by_department", "Computer Science", "12"})
}

func TestExportCSV(t *testing.T) {
	svc := newDashboardService(seededStore(), nil)

	data, svcErr := svc.ExportCSV(context.Background())
	require.Nil(t, svcErr)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"section", "name", "value"}, records[0])
	assert.Contains(t, records, []string{"training_fill_rate", "First Aid", "0.75"})
}

func TestExportXLSX(t *testing.T) {
	svc := newDashboardService(seededStore(), nil)

	data, svcErr := svc.ExportXLSX(context.Background())
	require.Nil(t, svcErr)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Dashboard")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"section", "name", "value"}, rows[0])
}
