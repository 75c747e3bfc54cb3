package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/campushr/hr-management-api/internal/employee"
	"github.com/campushr/hr-management-api/internal/leave/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// dateLayout is the wire format for leave date fields.
const dateLayout = "2006-01-02"

// Deduction captures a balance debit computed at submit time and applied in
// the transaction that finishes the workflow.
type Deduction struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Days        int    `json:"days"`
}

// LeaveService defines the exported service interface
type LeaveService interface {
	CreateLeaveType(ctx context.Context, req model.LeaveTypeRequest) (*model.LeaveType, *serviceerror.ServiceError)
	GetLeaveType(ctx context.Context, leaveTypeID string) (*model.LeaveType, *serviceerror.ServiceError)
	ListLeaveTypes(ctx context.Context) ([]model.LeaveType, *serviceerror.ServiceError)
	UpdateLeaveType(ctx context.Context, leaveTypeID string, req model.LeaveTypeRequest) (*model.LeaveType, *serviceerror.ServiceError)
	DeleteLeaveType(ctx context.Context, leaveTypeID string) *serviceerror.ServiceError

	GetBalances(ctx context.Context, employeeID string, year int) ([]model.LeaveBalance, *serviceerror.ServiceError)
	SetBalance(ctx context.Context, employeeID string, req model.BalanceRequest) (*model.LeaveBalance, *serviceerror.ServiceError)
	GetMyBalances(ctx context.Context, userID string, year int) ([]model.LeaveBalance, *serviceerror.ServiceError)

	// CheckBalanceForRange validates a leave date range against the
	// employee's remaining balance and returns the deduction to apply when
	// the request is granted.
	CheckBalanceForRange(ctx context.Context, employeeID, leaveTypeRef, startDate, endDate string) (*Deduction, *serviceerror.ServiceError)
	// BuildDeduction returns the transaction step applying a deduction.
	BuildDeduction(d Deduction) func(tx dbmodel.TxInterface) error
}

// leaveService implements the LeaveService interface
type leaveService struct {
	stores *stores.StoreRegistry
}

// newLeaveService creates a new leave service
func newLeaveService(registry *stores.StoreRegistry) LeaveService {
	return &leaveService{
		stores: registry,
	}
}

func (svc *leaveService) store() leaveStore {
	return svc.stores.Leave.(leaveStore)
}

func (svc *leaveService) employeeStore() employee.EmployeeStore {
	return svc.stores.Employee.(employee.EmployeeStore)
}

func (svc *leaveService) CreateLeaveType(ctx context.Context, req model.LeaveTypeRequest) (*model.LeaveType, *serviceerror.ServiceError) {
	if svcErr := validateLeaveTypeRequest(req); svcErr != nil {
		return nil, svcErr
	}

	now := utils.GetCurrentTimeMillis()
	leaveType := &model.LeaveType{
		LeaveTypeID: utils.GenerateUUID(),
		Name:        req.Name,
		DefaultDays: req.DefaultDays,
		CreatedTime: now,
		UpdatedTime: now,
	}
	if err := svc.store().CreateLeaveType(ctx, leaveType); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to create leave type: %v", err))
	}
	return leaveType, nil
}

func (svc *leaveService) GetLeaveType(ctx context.Context, leaveTypeID string) (*model.LeaveType, *serviceerror.ServiceError) {
	leaveType, err := svc.store().GetLeaveTypeByID(ctx, leaveTypeID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to get leave type: %v", err))
	}
	if leaveType == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "leave type not found")
	}
	return leaveType, nil
}

func (svc *leaveService) ListLeaveTypes(ctx context.Context) ([]model.LeaveType, *serviceerror.ServiceError) {
	types, err := svc.store().ListLeaveTypes(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list leave types: %v", err))
	}
	return types, nil
}

func (svc *leaveService) UpdateLeaveType(ctx context.Context, leaveTypeID string, req model.LeaveTypeRequest) (*model.LeaveType, *serviceerror.ServiceError) {
	leaveType, svcErr := svc.GetLeaveType(ctx, leaveTypeID)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := validateLeaveTypeRequest(req); svcErr != nil {
		return nil, svcErr
	}

	leaveType.Name = req.Name
	leaveType.DefaultDays = req.DefaultDays
	leaveType.UpdatedTime = utils.GetCurrentTimeMillis()
	if err := svc.store().UpdateLeaveType(ctx, leaveType); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to update leave type: %v", err))
	}
	return leaveType, nil
}

func (svc *leaveService) DeleteLeaveType(ctx context.Context, leaveTypeID string) *serviceerror.ServiceError {
	if _, svcErr := svc.GetLeaveType(ctx, leaveTypeID); svcErr != nil {
		return svcErr
	}
	if err := svc.store().DeleteLeaveType(ctx, leaveTypeID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to delete leave type: %v", err))
	}
	return nil
}

func (svc *leaveService) GetBalances(ctx context.Context, employeeID string, year int) ([]model.LeaveBalance, *serviceerror.ServiceError) {
	if year == 0 {
		year = time.Now().Year()
	}
	balances, err := svc.store().ListBalancesByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to list balances: %v", err))
	}
	return balances, nil
}

func (svc *leaveService) SetBalance(ctx context.Context, employeeID string, req model.BalanceRequest) (*model.LeaveBalance, *serviceerror.ServiceError) {
	if _, svcErr := svc.GetLeaveType(ctx, req.LeaveTypeID); svcErr != nil {
		return nil, svcErr
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}
	if req.TotalDays < 0 {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "total_days must not be negative")
	}

	usedDays := 0
	if req.UsedDays != nil {
		usedDays = *req.UsedDays
	} else if existing, err := svc.store().GetBalance(ctx, employeeID, req.LeaveTypeID, req.Year); err == nil && existing != nil {
		usedDays = existing.UsedDays
	}

	balance := &model.LeaveBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: req.LeaveTypeID,
		Year:        req.Year,
		TotalDays:   req.TotalDays,
		UsedDays:    usedDays,
	}
	if err := svc.store().UpsertBalance(ctx, balance); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to set balance: %v", err))
	}
	return balance, nil
}

func (svc *leaveService) GetMyBalances(ctx context.Context, userID string, year int) ([]model.LeaveBalance, *serviceerror.ServiceError) {
	emp, err := svc.employeeStore().GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load employee: %v", err))
	}
	if emp == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "no employee record for user")
	}
	return svc.GetBalances(ctx, emp.EmployeeID, year)
}

// CheckBalanceForRange resolves the leave type (by ID, falling back to name
// so dropdown options can carry either), computes the inclusive day span,
// and verifies the employee's remaining balance covers it. The balance row
// is provisioned with the type's default allowance on first use.
func (svc *leaveService) CheckBalanceForRange(ctx context.Context, employeeID, leaveTypeRef, startDate, endDate string) (*Deduction, *serviceerror.ServiceError) {
	leaveType, err := svc.store().GetLeaveTypeByID(ctx, leaveTypeRef)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to resolve leave type: %v", err))
	}
	if leaveType == nil {
		leaveType, err = svc.store().GetLeaveTypeByName(ctx, leaveTypeRef)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to resolve leave type: %v", err))
		}
	}
	if leaveType == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("leave_type: unknown leave type %q", leaveTypeRef))
	}

	days, svcErr := DaysInRange(startDate, endDate)
	if svcErr != nil {
		return nil, svcErr
	}
	start, _ := time.Parse(dateLayout, startDate)
	year := start.Year()

	balance, err := svc.store().GetBalance(ctx, employeeID, leaveType.LeaveTypeID, year)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load balance: %v", err))
	}
	if balance == nil {
		balance = &model.LeaveBalance{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveType.LeaveTypeID,
			Year:        year,
			TotalDays:   leaveType.DefaultDays,
			UsedDays:    0,
		}
		if err := svc.store().UpsertBalance(ctx, balance); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to provision balance: %v", err))
		}
	}

	if balance.Remaining() < days {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("leave_type: insufficient leave balance (%d day(s) remaining, %d requested)", balance.Remaining(), days))
	}

	return &Deduction{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.LeaveTypeID,
		Year:        year,
		Days:        days,
	}, nil
}

func (svc *leaveService) BuildDeduction(d Deduction) func(tx dbmodel.TxInterface) error {
	return svc.store().BuildDeductBalance(d.EmployeeID, d.LeaveTypeID, d.Year, d.Days)
}

// DaysInRange parses the date pair and returns the inclusive day count.
func DaysInRange(startDate, endDate string) (int, *serviceerror.ServiceError) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("start_date: invalid date %q", startDate))
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, serviceerror.CustomServiceError(serviceerror.ValidationError,
			fmt.Sprintf("end_date: invalid date %q", endDate))
	}
	if end.Before(start) {
		return 0, serviceerror.CustomServiceError(serviceerror.ValidationError,
			"end_date: leave date range is invalid, end date precedes start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

func validateLeaveTypeRequest(req model.LeaveTypeRequest) *serviceerror.ServiceError {
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if req.DefaultDays < 0 {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, "default_days must not be negative")
	}
	return nil
}
