package employee

import (
	"context"

	"github.com/campushr/hr-management-api/internal/employee/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for employee operations
var (
	QueryCreateEmployee = dbmodel.DBQuery{
		ID:    "CREATE_EMPLOYEE",
		Query: "INSERT INTO EMPLOYEE (EMPLOYEE_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, FACULTY_ID, DEPARTMENT_ID, POSITION_ID, HIRED_AT, ACTIVE, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetEmployeeByID = dbmodel.DBQuery{
		ID:    "GET_EMPLOYEE_BY_ID",
		Query: "SELECT EMPLOYEE_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, FACULTY_ID, DEPARTMENT_ID, POSITION_ID, HIRED_AT, ACTIVE, CREATED_TIME, UPDATED_TIME FROM EMPLOYEE WHERE EMPLOYEE_ID = ?",
	}

	QueryGetEmployeeByUserID = dbmodel.DBQuery{
		ID:    "GET_EMPLOYEE_BY_USER_ID",
		Query: "SELECT EMPLOYEE_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, FACULTY_ID, DEPARTMENT_ID, POSITION_ID, HIRED_AT, ACTIVE, CREATED_TIME, UPDATED_TIME FROM EMPLOYEE WHERE USER_ID = ?",
	}

	QueryListEmployees = dbmodel.DBQuery{
		ID:    "LIST_EMPLOYEES",
		Query: "SELECT EMPLOYEE_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, FACULTY_ID, DEPARTMENT_ID, POSITION_ID, HIRED_AT, ACTIVE, CREATED_TIME, UPDATED_TIME FROM EMPLOYEE ORDER BY LAST_NAME, FIRST_NAME",
	}

	QueryListEmployeesByPosition = dbmodel.DBQuery{
		ID:    "LIST_EMPLOYEES_BY_POSITION",
		Query: "SELECT EMPLOYEE_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, FACULTY_ID, DEPARTMENT_ID, POSITION_ID, HIRED_AT, ACTIVE, CREATED_TIME, UPDATED_TIME FROM EMPLOYEE WHERE POSITION_ID = ? AND ACTIVE = ?",
	}

	QueryListEmployeesByPositionAndDepartment = dbmodel.DBQuery{
		ID:    "LIST_EMPLOYEES_BY_POSITION_AND_DEPARTMENT",
		Query: "SELECT EMPLOYEE_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, FACULTY_ID, DEPARTMENT_ID, POSITION_ID, HIRED_AT, ACTIVE, CREATED_TIME, UPDATED_TIME FROM EMPLOYEE WHERE POSITION_ID = ? AND DEPARTMENT_ID = ? AND ACTIVE = ?",
	}

	QueryListEmployeesByPositionAndFaculty = dbmodel.DBQuery{
		ID:    "LIST_EMPLOYEES_BY_POSITION_AND_FACULTY",
		Query: "SELECT EMPLOYEE_ID, USER_ID, FIRST_NAME, LAST_NAME, EMAIL, FACULTY_ID, DEPARTMENT_ID, POSITION_ID, HIRED_AT, ACTIVE, CREATED_TIME, UPDATED_TIME FROM EMPLOYEE WHERE POSITION_ID = ? AND FACULTY_ID = ? AND ACTIVE = ?",
	}

	QueryUpdateEmployee = dbmodel.DBQuery{
		ID:    "UPDATE_EMPLOYEE",
		Query: "UPDATE EMPLOYEE SET FIRST_NAME = ?, LAST_NAME = ?, EMAIL = ?, FACULTY_ID = ?, DEPARTMENT_ID = ?, POSITION_ID = ?, HIRED_AT = ?, ACTIVE = ?, UPDATED_TIME = ? WHERE EMPLOYEE_ID = ?",
	}

	QueryDeleteEmployee = dbmodel.DBQuery{
		ID:    "DELETE_EMPLOYEE",
		Query: "DELETE FROM EMPLOYEE WHERE EMPLOYEE_ID = ?",
	}

	QueryCountEmployeesByUser = dbmodel.DBQuery{
		ID:    "COUNT_EMPLOYEES_BY_USER",
		Query: "SELECT COUNT(*) as count FROM EMPLOYEE WHERE USER_ID = ?",
	}
)

// EmployeeStore defines the employee lookups other modules consume. The
// approver resolver walks position holders department-first, so the
// position listings come in three widening shapes.
type EmployeeStore interface {
	GetEmployeeByID(ctx context.Context, employeeID string) (*model.Employee, error)
	GetEmployeeByUserID(ctx context.Context, userID string) (*model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListEmployeesByPosition(ctx context.Context, positionID string) ([]model.Employee, error)
	ListEmployeesByPositionInDepartment(ctx context.Context, positionID, departmentID string) ([]model.Employee, error)
	ListEmployeesByPositionInFaculty(ctx context.Context, positionID, facultyID string) ([]model.Employee, error)
}

// employeeStore defines the full interface used by the employee service.
type employeeStore interface {
	EmployeeStore

	CreateEmployee(ctx context.Context, employee *model.Employee) error
	UpdateEmployee(ctx context.Context, employee *model.Employee) error
	DeleteEmployee(ctx context.Context, employeeID string) error
	CountEmployeesByUser(ctx context.Context, userID string) (int, error)
}

// store implements the employeeStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newEmployeeStore creates a new employee store
func newEmployeeStore(dbClient provider.DBClientInterface) employeeStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) CreateEmployee(ctx context.Context, employee *model.Employee) error {
	_, err := s.dbClient.Execute(QueryCreateEmployee,
		employee.EmployeeID, employee.UserID, employee.FirstName, employee.LastName,
		employee.Email, employee.FacultyID, employee.DepartmentID, employee.PositionID,
		employee.HiredAt, employee.Active, employee.CreatedTime, employee.UpdatedTime)
	return err
}

func (s *store) GetEmployeeByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	rows, err := s.dbClient.Query(QueryGetEmployeeByID, employeeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToEmployee(rows[0]), nil
}

func (s *store) GetEmployeeByUserID(ctx context.Context, userID string) (*model.Employee, error) {
	rows, err := s.dbClient.Query(QueryGetEmployeeByUserID, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToEmployee(rows[0]), nil
}

func (s *store) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := s.dbClient.Query(QueryListEmployees)
	if err != nil {
		return nil, err
	}
	return mapToEmployees(rows), nil
}

func (s *store) ListEmployeesByPosition(ctx context.Context, positionID string) ([]model.Employee, error) {
	rows, err := s.dbClient.Query(QueryListEmployeesByPosition, positionID, true)
	if err != nil {
		return nil, err
	}
	return mapToEmployees(rows), nil
}

func (s *store) ListEmployeesByPositionInDepartment(ctx context.Context, positionID, departmentID string) ([]model.Employee, error) {
	rows, err := s.dbClient.Query(QueryListEmployeesByPositionAndDepartment, positionID, departmentID, true)
	if err != nil {
		return nil, err
	}
	return mapToEmployees(rows), nil
}

func (s *store) ListEmployeesByPositionInFaculty(ctx context.Context, positionID, facultyID string) ([]model.Employee, error) {
	rows, err := s.dbClient.Query(QueryListEmployeesByPositionAndFaculty, positionID, facultyID, true)
	if err != nil {
		return nil, err
	}
	return mapToEmployees(rows), nil
}

func (s *store) UpdateEmployee(ctx context.Context, employee *model.Employee) error {
	_, err := s.dbClient.Execute(QueryUpdateEmployee,
		employee.FirstName, employee.LastName, employee.Email,
		employee.FacultyID, employee.DepartmentID, employee.PositionID,
		employee.HiredAt, employee.Active, employee.UpdatedTime, employee.EmployeeID)
	return err
}

func (s *store) DeleteEmployee(ctx context.Context, employeeID string) error {
	_, err := s.dbClient.Execute(QueryDeleteEmployee, employeeID)
	return err
}

func (s *store) CountEmployeesByUser(ctx context.Context, userID string) (int, error) {
	rows, err := s.dbClient.Query(QueryCountEmployeesByUser, userID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utils.RowInt(rows[0], "count"), nil
}

func mapToEmployees(rows []map[string]interface{}) []model.Employee {
	employees := make([]model.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, *mapToEmployee(row))
	}
	return employees
}

func mapToEmployee(row map[string]interface{}) *model.Employee {
	return &model.Employee{
		EmployeeID:   utils.RowString(row, "EMPLOYEE_ID"),
		UserID:       utils.RowString(row, "USER_ID"),
		FirstName:    utils.RowString(row, "FIRST_NAME"),
		LastName:     utils.RowString(row, "LAST_NAME"),
		Email:        utils.RowString(row, "EMAIL"),
		FacultyID:    utils.RowNullableString(row, "FACULTY_ID"),
		DepartmentID: utils.RowNullableString(row, "DEPARTMENT_ID"),
		PositionID:   utils.RowNullableString(row, "POSITION_ID"),
		HiredAt:      utils.RowInt64(row, "HIRED_AT"),
		Active:       utils.RowBool(row, "ACTIVE"),
		CreatedTime:  utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime:  utils.RowInt64(row, "UPDATED_TIME"),
	}
}
