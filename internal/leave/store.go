package leave

import (
	"context"

	"github.com/campushr/hr-management-api/internal/leave/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for leave operations
var (
	QueryCreateLeaveType = dbmodel.DBQuery{
		ID:    "CREATE_LEAVE_TYPE",
		Query: "INSERT INTO LEAVE_TYPE (LEAVE_TYPE_ID, NAME, DEFAULT_DAYS, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?)",
	}

	QueryGetLeaveTypeByID = dbmodel.DBQuery{
		ID:    "GET_LEAVE_TYPE_BY_ID",
		Query: "SELECT LEAVE_TYPE_ID, NAME, DEFAULT_DAYS, CREATED_TIME, UPDATED_TIME FROM LEAVE_TYPE WHERE LEAVE_TYPE_ID = ?",
	}

	QueryGetLeaveTypeByName = dbmodel.DBQuery{
		ID:    "GET_LEAVE_TYPE_BY_NAME",
		Query: "SELECT LEAVE_TYPE_ID, NAME, DEFAULT_DAYS, CREATED_TIME, UPDATED_TIME FROM LEAVE_TYPE WHERE NAME = ?",
	}

	QueryListLeaveTypes = dbmodel.DBQuery{
		ID:    "LIST_LEAVE_TYPES",
		Query: "SELECT LEAVE_TYPE_ID, NAME, DEFAULT_DAYS, CREATED_TIME, UPDATED_TIME FROM LEAVE_TYPE ORDER BY NAME",
	}

	QueryUpdateLeaveType = dbmodel.DBQuery{
		ID:    "UPDATE_LEAVE_TYPE",
		Query: "UPDATE LEAVE_TYPE SET NAME = ?, DEFAULT_DAYS = ?, UPDATED_TIME = ? WHERE LEAVE_TYPE_ID = ?",
	}

	QueryDeleteLeaveType = dbmodel.DBQuery{
		ID:    "DELETE_LEAVE_TYPE",
		Query: "DELETE FROM LEAVE_TYPE WHERE LEAVE_TYPE_ID = ?",
	}

	QueryGetBalance = dbmodel.DBQuery{
		ID:    "GET_LEAVE_BALANCE",
		Query: "SELECT EMPLOYEE_ID, LEAVE_TYPE_ID, YEAR, TOTAL_DAYS, USED_DAYS FROM LEAVE_BALANCE WHERE EMPLOYEE_ID = ? AND LEAVE_TYPE_ID = ? AND YEAR = ?",
	}

	QueryListBalancesByEmployee = dbmodel.DBQuery{
		ID:    "LIST_LEAVE_BALANCES_BY_EMPLOYEE",
		Query: "SELECT EMPLOYEE_ID, LEAVE_TYPE_ID, YEAR, TOTAL_DAYS, USED_DAYS FROM LEAVE_BALANCE WHERE EMPLOYEE_ID = ? AND YEAR = ?",
	}

	QueryUpsertBalance = dbmodel.DBQuery{
		ID: "UPSERT_LEAVE_BALANCE",
		Query: "INSERT INTO LEAVE_BALANCE (EMPLOYEE_ID, LEAVE_TYPE_ID, YEAR, TOTAL_DAYS, USED_DAYS) VALUES (?, ?, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE TOTAL_DAYS = VALUES(TOTAL_DAYS), USED_DAYS = VALUES(USED_DAYS)",
		SQLiteQuery: "INSERT INTO LEAVE_BALANCE (EMPLOYEE_ID, LEAVE_TYPE_ID, YEAR, TOTAL_DAYS, USED_DAYS) VALUES (?, ?, ?, ?, ?) " +
			"ON CONFLICT(EMPLOYEE_ID, LEAVE_TYPE_ID, YEAR) DO UPDATE SET TOTAL_DAYS = excluded.TOTAL_DAYS, USED_DAYS = excluded.USED_DAYS",
	}

	QueryDeductBalance = dbmodel.DBQuery{
		ID:    "DEDUCT_LEAVE_BALANCE",
		Query: "UPDATE LEAVE_BALANCE SET USED_DAYS = USED_DAYS + ? WHERE EMPLOYEE_ID = ? AND LEAVE_TYPE_ID = ? AND YEAR = ?",
	}
)

// LeaveStore defines the leave lookups and transaction builders other
// modules consume. The submission engine checks balances at submit and
// deducts in the transaction that finishes the workflow.
type LeaveStore interface {
	GetLeaveTypeByID(ctx context.Context, leaveTypeID string) (*model.LeaveType, error)
	GetLeaveTypeByName(ctx context.Context, name string) (*model.LeaveType, error)
	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (*model.LeaveBalance, error)
	BuildDeductBalance(employeeID, leaveTypeID string, year, days int) func(tx dbmodel.TxInterface) error
}

// leaveStore defines the full interface used by the leave service.
type leaveStore interface {
	LeaveStore

	CreateLeaveType(ctx context.Context, leaveType *model.LeaveType) error
	ListLeaveTypes(ctx context.Context) ([]model.LeaveType, error)
	UpdateLeaveType(ctx context.Context, leaveType *model.LeaveType) error
	DeleteLeaveType(ctx context.Context, leaveTypeID string) error

	ListBalancesByEmployee(ctx context.Context, employeeID string, year int) ([]model.LeaveBalance, error)
	UpsertBalance(ctx context.Context, balance *model.LeaveBalance) error
}

// store implements the leaveStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newLeaveStore creates a new leave store
func newLeaveStore(dbClient provider.DBClientInterface) leaveStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) CreateLeaveType(ctx context.Context, leaveType *model.LeaveType) error {
	_, err := s.dbClient.Execute(QueryCreateLeaveType,
		leaveType.LeaveTypeID, leaveType.Name, leaveType.DefaultDays,
		leaveType.CreatedTime, leaveType.UpdatedTime)
	return err
}

func (s *store) GetLeaveTypeByID(ctx context.Context, leaveTypeID string) (*model.LeaveType, error) {
	rows, err := s.dbClient.Query(QueryGetLeaveTypeByID, leaveTypeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToLeaveType(rows[0]), nil
}

func (s *store) GetLeaveTypeByName(ctx context.Context, name string) (*model.LeaveType, error) {
	rows, err := s.dbClient.Query(QueryGetLeaveTypeByName, name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToLeaveType(rows[0]), nil
}

func (s *store) ListLeaveTypes(ctx context.Context) ([]model.LeaveType, error) {
	rows, err := s.dbClient.Query(QueryListLeaveTypes)
	if err != nil {
		return nil, err
	}
	types := make([]model.LeaveType, 0, len(rows))
	for _, row := range rows {
		types = append(types, *mapToLeaveType(row))
	}
	return types, nil
}

func (s *store) UpdateLeaveType(ctx context.Context, leaveType *model.LeaveType) error {
	_, err := s.dbClient.Execute(QueryUpdateLeaveType,
		leaveType.Name, leaveType.DefaultDays, leaveType.UpdatedTime, leaveType.LeaveTypeID)
	return err
}

func (s *store) DeleteLeaveType(ctx context.Context, leaveTypeID string) error {
	_, err := s.dbClient.Execute(QueryDeleteLeaveType, leaveTypeID)
	return err
}

func (s *store) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (*model.LeaveBalance, error) {
	rows, err := s.dbClient.Query(QueryGetBalance, employeeID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToBalance(rows[0]), nil
}

func (s *store) ListBalancesByEmployee(ctx context.Context, employeeID string, year int) ([]model.LeaveBalance, error) {
	rows, err := s.dbClient.Query(QueryListBalancesByEmployee, employeeID, year)
	if err != nil {
		return nil, err
	}
	balances := make([]model.LeaveBalance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, *mapToBalance(row))
	}
	return balances, nil
}

func (s *store) UpsertBalance(ctx context.Context, balance *model.LeaveBalance) error {
	_, err := s.dbClient.Execute(QueryUpsertBalance,
		balance.EmployeeID, balance.LeaveTypeID, balance.Year, balance.TotalDays, balance.UsedDays)
	return err
}

// BuildDeductBalance returns a transaction step recording used days against
// a balance row.
func (s *store) BuildDeductBalance(employeeID, leaveTypeID string, year, days int) func(tx dbmodel.TxInterface) error {
	dbType := s.dbClient.DBType()
	return func(tx dbmodel.TxInterface) error {
		_, err := tx.Exec(QueryDeductBalance.GetQuery(dbType), days, employeeID, leaveTypeID, year)
		return err
	}
}

func mapToLeaveType(row map[string]interface{}) *model.LeaveType {
	return &model.LeaveType{
		LeaveTypeID: utils.RowString(row, "LEAVE_TYPE_ID"),
		Name:        utils.RowString(row, "NAME"),
		DefaultDays: utils.RowInt(row, "DEFAULT_DAYS"),
		CreatedTime: utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime: utils.RowInt64(row, "UPDATED_TIME"),
	}
}

func mapToBalance(row map[string]interface{}) *model.LeaveBalance {
	return &model.LeaveBalance{
		EmployeeID:  utils.RowString(row, "EMPLOYEE_ID"),
		LeaveTypeID: utils.RowString(row, "LEAVE_TYPE_ID"),
		Year:        utils.RowInt(row, "YEAR"),
		TotalDays:   utils.RowInt(row, "TOTAL_DAYS"),
		UsedDays:    utils.RowInt(row, "USED_DAYS"),
	}
}
