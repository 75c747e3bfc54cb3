package leave

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushr/hr-management-api/internal/leave/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// fakeLeaveStore satisfies leaveStore with in-memory state.
type fakeLeaveStore struct {
	types    []model.LeaveType
	balances map[string]*model.LeaveBalance
}

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, leaveTypeID, year)
}

func (f *fakeLeaveStore) GetLeaveTypeByID(ctx context.Context, leaveTypeID string) (*model.LeaveType, error) {
	for i := range f.types {
		if f.types[i].LeaveTypeID == leaveTypeID {
			return &f.types[i], nil
		}
	}
	return nil, nil
}

func (f *fakeLeaveStore) GetLeaveTypeByName(ctx context.Context, name string) (*model.LeaveType, error) {
	for i := range f.types {
		if f.types[i].Name == name {
			return &f.types[i], nil
		}
	}
	return nil, nil
}

func (f *fakeLeaveStore) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (*model.LeaveBalance, error) {
	return f.balances[balanceKey(employeeID, leaveTypeID, year)], nil
}

func (f *fakeLeaveStore) BuildDeductBalance(employeeID, leaveTypeID string, year, days int) func(tx dbmodel.TxInterface) error {
	return func(tx dbmodel.TxInterface) error { return nil }
}

func (f *fakeLeaveStore) CreateLeaveType(ctx context.Context, leaveType *model.LeaveType) error {
	f.types = append(f.types, *leaveType)
	return nil
}

func (f *fakeLeaveStore) ListLeaveTypes(ctx context.Context) ([]model.LeaveType, error) {
	return f.types, nil
}

func (f *fakeLeaveStore) UpdateLeaveType(ctx context.Context, leaveType *model.LeaveType) error {
	return nil
}

func (f *fakeLeaveStore) DeleteLeaveType(ctx context.Context, leaveTypeID string) error {
	return nil
}

func (f *fakeLeaveStore) ListBalancesByEmployee(ctx context.Context, employeeID string, year int) ([]model.LeaveBalance, error) {
	return nil, nil
}

func (f *fakeLeaveStore) UpsertBalance(ctx context.Context, balance *model.LeaveBalance) error {
	if f.balances == nil {
		f.balances = map[string]*model.LeaveBalance{}
	}
	copied := *balance
	f.balances[balanceKey(balance.EmployeeID, balance.LeaveTypeID, balance.Year)] = &copied
	return nil
}

func newTestService(store *fakeLeaveStore) LeaveService {
	registry := stores.NewStoreRegistry(nil)
	registry.Leave = store
	return newLeaveService(registry)
}

func TestDaysInRange(t *testing.T) {
	days, svcErr := DaysInRange("2025-06-02", "2025-06-06")
	require.Nil(t, svcErr)
	assert.Equal(t, 5, days)

	// Single day counts as one.
	days, svcErr = DaysInRange("2025-06-02", "2025-06-02")
	require.Nil(t, svcErr)
	assert.Equal(t, 1, days)

	_, svcErr = DaysInRange("02/06/2025", "2025-06-06")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "start_date")

	_, svcErr = DaysInRange("2025-06-06", "2025-06-02")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "end date precedes start date")
}

func TestCheckBalanceForRangeProvisionsDefault(t *testing.T) {
	store := &fakeLeaveStore{
		types: []model.LeaveType{{LeaveTypeID: "lt-annual", Name: "Annual", DefaultDays: 21}},
	}
	svc := newTestService(store)

	deduction, svcErr := svc.CheckBalanceForRange(context.Background(), "emp-1", "lt-annual", "2025-06-02", "2025-06-06")
	require.Nil(t, svcErr)
	assert.Equal(t, "emp-1", deduction.EmployeeID)
	assert.Equal(t, "lt-annual", deduction.LeaveTypeID)
	assert.Equal(t, 2025, deduction.Year)
	assert.Equal(t, 5, deduction.Days)

	// The balance row was provisioned from the type default.
	balance, err := store.GetBalance(context.Background(), "emp-1", "lt-annual", 2025)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, 21, balance.TotalDays)
	assert.Equal(t, 0, balance.UsedDays)
}

func TestCheckBalanceForRangeResolvesByName(t *testing.T) {
	store := &fakeLeaveStore{
		types: []model.LeaveType{{LeaveTypeID: "lt-sick", Name: "Sick", DefaultDays: 7}},
	}
	svc := newTestService(store)

	deduction, svcErr := svc.CheckBalanceForRange(context.Background(), "emp-1", "Sick", "2025-03-10", "2025-03-11")
	require.Nil(t, svcErr)
	assert.Equal(t, "lt-sick", deduction.LeaveTypeID)
	assert.Equal(t, 2, deduction.Days)
}

func TestCheckBalanceForRangeInsufficient(t *testing.T) {
	store := &fakeLeaveStore{
		types: []model.LeaveType{{LeaveTypeID: "lt-annual", Name: "Annual", DefaultDays: 3}},
	}
	svc := newTestService(store)

	_, svcErr := svc.CheckBalanceForRange(context.Background(), "emp-1", "lt-annual", "2025-06-02", "2025-06-06")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "insufficient leave balance")
}

func TestCheckBalanceForRangeUnknownType(t *testing.T) {
	svc := newTestService(&fakeLeaveStore{})

	_, svcErr := svc.CheckBalanceForRange(context.Background(), "emp-1", "Imaginary", "2025-06-02", "2025-06-06")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "unknown leave type")
}

func TestCheckBalanceForRangeUsesExistingBalance(t *testing.T) {
	store := &fakeLeaveStore{
		types: []model.LeaveType{{LeaveTypeID: "lt-annual", Name: "Annual", DefaultDays: 21}},
		balances: map[string]*model.LeaveBalance{
			balanceKey("emp-1", "lt-annual", 2025): {
				EmployeeID: "emp-1", LeaveTypeID: "lt-annual", Year: 2025, TotalDays: 10, UsedDays: 8,
			},
		},
	}
	svc := newTestService(store)

	// Two days remain; three requested.
	_, svcErr := svc.CheckBalanceForRange(context.Background(), "emp-1", "lt-annual", "2025-06-02", "2025-06-04")
	require.NotNil(t, svcErr)

	// Two requested passes.
	deduction, svcErr := svc.CheckBalanceForRange(context.Background(), "emp-1", "lt-annual", "2025-06-02", "2025-06-03")
	require.Nil(t, svcErr)
	assert.Equal(t, 2, deduction.Days)
}
