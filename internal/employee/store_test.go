package employee

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushr/hr-management-api/internal/system/database"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
)

var employeeColumns = []string{
	"EMPLOYEE_ID", "USER_ID", "FIRST_NAME", "LAST_NAME", "EMAIL",
	"FACULTY_ID", "DEPARTMENT_ID", "POSITION_ID", "HIRED_AT", "ACTIVE",
	"CREATED_TIME", "UPDATED_TIME",
}

func newMockStore(t *testing.T) (employeeStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &database.DB{DB: sqlx.NewDb(mockDB, "sqlmock"), Type: "sqlite"}
	return newEmployeeStore(provider.NewDBClient(db, "sqlite")), mock
}

func TestGetEmployeeByIDMapsRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(QueryGetEmployeeByID.Query).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow("emp-1", "alice", "Alice", "Perera", "alice@example.edu",
				"fac-sci", "dept-cs", nil, int64(1552608000000), int64(1),
				int64(1700000000000), int64(1700000000000)))

	emp, err := store.GetEmployeeByID(context.Background(), "emp-1")
	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.Equal(t, "emp-1", emp.EmployeeID)
	assert.Equal(t, "alice", emp.UserID)
	assert.Equal(t, "Alice", emp.FirstName)
	require.NotNil(t, emp.FacultyID)
	assert.Equal(t, "fac-sci", *emp.FacultyID)
	assert.Nil(t, emp.PositionID)
	assert.True(t, emp.Active)
	assert.Equal(t, int64(1552608000000), emp.HiredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeByIDMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(QueryGetEmployeeByID.Query).
		WithArgs("emp-missing").
		WillReturnRows(sqlmock.NewRows(employeeColumns))

	emp, err := store.GetEmployeeByID(context.Background(), "emp-missing")
	require.NoError(t, err)
	assert.Nil(t, emp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmployeesByPositionInDepartmentFiltersActive(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(QueryListEmployeesByPositionAndDepartment.Query).
		WithArgs("pos-hod", "dept-cs", true).
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow("emp-2", "bob", "Bob", "Silva", "bob@example.edu",
				"fac-sci", "dept-cs", "pos-hod", int64(0), int64(1),
				int64(1700000000000), int64(1700000000000)))

	list, err := store.ListEmployeesByPositionInDepartment(context.Background(), "pos-hod", "dept-cs")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].PositionID)
	assert.Equal(t, "pos-hod", *list[0].PositionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountEmployeesByUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(QueryCountEmployeesByUser.Query).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	count, err := store.CountEmployeesByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployeeExecutesStatement(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(QueryDeleteEmployee.Query).
		WithArgs("emp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteEmployee(context.Background(), "emp-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
