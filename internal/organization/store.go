package organization

import (
	"context"

	"github.com/campushr/hr-management-api/internal/organization/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for organization operations
var (
	QueryCreateFaculty = dbmodel.DBQuery{
		ID:    "CREATE_FACULTY",
		Query: "INSERT INTO FACULTY (FACULTY_ID, NAME, CODE, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?)",
	}

	QueryGetFacultyByID = dbmodel.DBQuery{
		ID:    "GET_FACULTY_BY_ID",
		Query: "SELECT FACULTY_ID, NAME, CODE, CREATED_TIME, UPDATED_TIME FROM FACULTY WHERE FACULTY_ID = ?",
	}

	QueryListFaculties = dbmodel.DBQuery{
		ID:    "LIST_FACULTIES",
		Query: "SELECT FACULTY_ID, NAME, CODE, CREATED_TIME, UPDATED_TIME FROM FACULTY ORDER BY NAME",
	}

	QueryUpdateFaculty = dbmodel.DBQuery{
		ID:    "UPDATE_FACULTY",
		Query: "UPDATE FACULTY SET NAME = ?, CODE = ?, UPDATED_TIME = ? WHERE FACULTY_ID = ?",
	}

	QueryDeleteFaculty = dbmodel.DBQuery{
		ID:    "DELETE_FACULTY",
		Query: "DELETE FROM FACULTY WHERE FACULTY_ID = ?",
	}

	QueryCountDepartmentsByFaculty = dbmodel.DBQuery{
		ID:    "COUNT_DEPARTMENTS_BY_FACULTY",
		Query: "SELECT COUNT(*) as count FROM DEPARTMENT WHERE FACULTY_ID = ?",
	}

	QueryCreateDepartment = dbmodel.DBQuery{
		ID:    "CREATE_DEPARTMENT",
		Query: "INSERT INTO DEPARTMENT (DEPARTMENT_ID, FACULTY_ID, NAME, IS_OFFICE, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?)",
	}

	QueryGetDepartmentByID = dbmodel.DBQuery{
		ID:    "GET_DEPARTMENT_BY_ID",
		Query: "SELECT DEPARTMENT_ID, FACULTY_ID, NAME, IS_OFFICE, CREATED_TIME, UPDATED_TIME FROM DEPARTMENT WHERE DEPARTMENT_ID = ?",
	}

	QueryListDepartments = dbmodel.DBQuery{
		ID:    "LIST_DEPARTMENTS",
		Query: "SELECT DEPARTMENT_ID, FACULTY_ID, NAME, IS_OFFICE, CREATED_TIME, UPDATED_TIME FROM DEPARTMENT ORDER BY NAME",
	}

	QueryListDepartmentsByFaculty = dbmodel.DBQuery{
		ID:    "LIST_DEPARTMENTS_BY_FACULTY",
		Query: "SELECT DEPARTMENT_ID, FACULTY_ID, NAME, IS_OFFICE, CREATED_TIME, UPDATED_TIME FROM DEPARTMENT WHERE FACULTY_ID = ? ORDER BY NAME",
	}

	QueryUpdateDepartment = dbmodel.DBQuery{
		ID:    "UPDATE_DEPARTMENT",
		Query: "UPDATE DEPARTMENT SET FACULTY_ID = ?, NAME = ?, IS_OFFICE = ?, UPDATED_TIME = ? WHERE DEPARTMENT_ID = ?",
	}

	QueryDeleteDepartment = dbmodel.DBQuery{
		ID:    "DELETE_DEPARTMENT",
		Query: "DELETE FROM DEPARTMENT WHERE DEPARTMENT_ID = ?",
	}

	QueryCountEmployeesByDepartment = dbmodel.DBQuery{
		ID:    "COUNT_EMPLOYEES_BY_DEPARTMENT",
		Query: "SELECT COUNT(*) as count FROM EMPLOYEE WHERE DEPARTMENT_ID = ?",
	}

	QueryCreatePosition = dbmodel.DBQuery{
		ID:    "CREATE_POSITION",
		Query: "INSERT INTO POSITION (POSITION_ID, NAME, DEPARTMENT_ID, FACULTY_ID, POSITION_RANK, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetPositionByID = dbmodel.DBQuery{
		ID:    "GET_POSITION_BY_ID",
		Query: "SELECT POSITION_ID, NAME, DEPARTMENT_ID, FACULTY_ID, POSITION_RANK, CREATED_TIME, UPDATED_TIME FROM POSITION WHERE POSITION_ID = ?",
	}

	QueryListPositions = dbmodel.DBQuery{
		ID:    "LIST_POSITIONS",
		Query: "SELECT POSITION_ID, NAME, DEPARTMENT_ID, FACULTY_ID, POSITION_RANK, CREATED_TIME, UPDATED_TIME FROM POSITION ORDER BY POSITION_RANK, NAME",
	}

	QueryListPositionsByDepartment = dbmodel.DBQuery{
		ID:    "LIST_POSITIONS_BY_DEPARTMENT",
		Query: "SELECT POSITION_ID, NAME, DEPARTMENT_ID, FACULTY_ID, POSITION_RANK, CREATED_TIME, UPDATED_TIME FROM POSITION WHERE DEPARTMENT_ID = ? ORDER BY POSITION_RANK, NAME",
	}

	QueryListPositionsByFaculty = dbmodel.DBQuery{
		ID:    "LIST_POSITIONS_BY_FACULTY",
		Query: "SELECT POSITION_ID, NAME, DEPARTMENT_ID, FACULTY_ID, POSITION_RANK, CREATED_TIME, UPDATED_TIME FROM POSITION WHERE FACULTY_ID = ? ORDER BY POSITION_RANK, NAME",
	}

	QueryUpdatePosition = dbmodel.DBQuery{
		ID:    "UPDATE_POSITION",
		Query: "UPDATE POSITION SET NAME = ?, DEPARTMENT_ID = ?, FACULTY_ID = ?, POSITION_RANK = ?, UPDATED_TIME = ? WHERE POSITION_ID = ?",
	}

	QueryDeletePosition = dbmodel.DBQuery{
		ID:    "DELETE_POSITION",
		Query: "DELETE FROM POSITION WHERE POSITION_ID = ?",
	}

	QueryCountEmployeesByPosition = dbmodel.DBQuery{
		ID:    "COUNT_EMPLOYEES_BY_POSITION",
		Query: "SELECT COUNT(*) as count FROM EMPLOYEE WHERE POSITION_ID = ?",
	}
)

// OrganizationStore defines the data operations other modules may consume.
type OrganizationStore interface {
	GetFacultyByID(ctx context.Context, facultyID string) (*model.Faculty, error)
	GetDepartmentByID(ctx context.Context, departmentID string) (*model.Department, error)
	GetPositionByID(ctx context.Context, positionID string) (*model.Position, error)
	ListDepartmentsByFaculty(ctx context.Context, facultyID string) ([]model.Department, error)
}

// organizationStore defines the full interface used by the organization service.
type organizationStore interface {
	OrganizationStore

	CreateFaculty(ctx context.Context, faculty *model.Faculty) error
	ListFaculties(ctx context.Context) ([]model.Faculty, error)
	UpdateFaculty(ctx context.Context, faculty *model.Faculty) error
	DeleteFaculty(ctx context.Context, facultyID string) error
	CountDepartmentsByFaculty(ctx context.Context, facultyID string) (int, error)

	CreateDepartment(ctx context.Context, department *model.Department) error
	ListDepartments(ctx context.Context) ([]model.Department, error)
	UpdateDepartment(ctx context.Context, department *model.Department) error
	DeleteDepartment(ctx context.Context, departmentID string) error
	CountEmployeesByDepartment(ctx context.Context, departmentID string) (int, error)

	CreatePosition(ctx context.Context, position *model.Position) error
	ListPositions(ctx context.Context) ([]model.Position, error)
	ListPositionsByDepartment(ctx context.Context, departmentID string) ([]model.Position, error)
	ListPositionsByFaculty(ctx context.Context, facultyID string) ([]model.Position, error)
	UpdatePosition(ctx context.Context, position *model.Position) error
	DeletePosition(ctx context.Context, positionID string) error
	CountEmployeesByPosition(ctx context.Context, positionID string) (int, error)
}

// store implements the organizationStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newOrganizationStore creates a new organization store
func newOrganizationStore(dbClient provider.DBClientInterface) organizationStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) CreateFaculty(ctx context.Context, faculty *model.Faculty) error {
	_, err := s.dbClient.Execute(QueryCreateFaculty,
		faculty.FacultyID, faculty.Name, faculty.Code, faculty.CreatedTime, faculty.UpdatedTime)
	return err
}

func (s *store) GetFacultyByID(ctx context.Context, facultyID string) (*model.Faculty, error) {
	rows, err := s.dbClient.Query(QueryGetFacultyByID, facultyID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToFaculty(rows[0]), nil
}

func (s *store) ListFaculties(ctx context.Context) ([]model.Faculty, error) {
	rows, err := s.dbClient.Query(QueryListFaculties)
	if err != nil {
		return nil, err
	}
	faculties := make([]model.Faculty, 0, len(rows))
	for _, row := range rows {
		faculties = append(faculties, *mapToFaculty(row))
	}
	return faculties, nil
}

func (s *store) UpdateFaculty(ctx context.Context, faculty *model.Faculty) error {
	_, err := s.dbClient.Execute(QueryUpdateFaculty,
		faculty.Name, faculty.Code, faculty.UpdatedTime, faculty.FacultyID)
	return err
}

func (s *store) DeleteFaculty(ctx context.Context, facultyID string) error {
	_, err := s.dbClient.Execute(QueryDeleteFaculty, facultyID)
	return err
}

func (s *store) CountDepartmentsByFaculty(ctx context.Context, facultyID string) (int, error) {
	return s.count(QueryCountDepartmentsByFaculty, facultyID)
}

func (s *store) CreateDepartment(ctx context.Context, department *model.Department) error {
	_, err := s.dbClient.Execute(QueryCreateDepartment,
		department.DepartmentID, department.FacultyID, department.Name,
		department.IsOffice, department.CreatedTime, department.UpdatedTime)
	return err
}

func (s *store) GetDepartmentByID(ctx context.Context, departmentID string) (*model.Department, error) {
	rows, err := s.dbClient.Query(QueryGetDepartmentByID, departmentID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToDepartment(rows[0]), nil
}

func (s *store) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := s.dbClient.Query(QueryListDepartments)
	if err != nil {
		return nil, err
	}
	departments := make([]model.Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, *mapToDepartment(row))
	}
	return departments, nil
}

func (s *store) ListDepartmentsByFaculty(ctx context.Context, facultyID string) ([]model.Department, error) {
	rows, err := s.dbClient.Query(QueryListDepartmentsByFaculty, facultyID)
	if err != nil {
		return nil, err
	}
	departments := make([]model.Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, *mapToDepartment(row))
	}
	return departments, nil
}

func (s *store) UpdateDepartment(ctx context.Context, department *model.Department) error {
	_, err := s.dbClient.Execute(QueryUpdateDepartment,
		department.FacultyID, department.Name, department.IsOffice,
		department.UpdatedTime, department.DepartmentID)
	return err
}

func (s *store) DeleteDepartment(ctx context.Context, departmentID string) error {
	_, err := s.dbClient.Execute(QueryDeleteDepartment, departmentID)
	return err
}

func (s *store) CountEmployeesByDepartment(ctx context.Context, departmentID string) (int, error) {
	return s.count(QueryCountEmployeesByDepartment, departmentID)
}

func (s *store) CreatePosition(ctx context.Context, position *model.Position) error {
	_, err := s.dbClient.Execute(QueryCreatePosition,
		position.PositionID, position.Name, position.DepartmentID, position.FacultyID,
		position.Rank, position.CreatedTime, position.UpdatedTime)
	return err
}

func (s *store) GetPositionByID(ctx context.Context, positionID string) (*model.Position, error) {
	rows, err := s.dbClient.Query(QueryGetPositionByID, positionID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToPosition(rows[0]), nil
}

func (s *store) ListPositions(ctx context.Context) ([]model.Position, error) {
	rows, err := s.dbClient.Query(QueryListPositions)
	if err != nil {
		return nil, err
	}
	positions := make([]model.Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, *mapToPosition(row))
	}
	return positions, nil
}

func (s *store) ListPositionsByDepartment(ctx context.Context, departmentID string) ([]model.Position, error) {
	rows, err := s.dbClient.Query(QueryListPositionsByDepartment, departmentID)
	if err != nil {
		return nil, err
	}
	positions := make([]model.Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, *mapToPosition(row))
	}
	return positions, nil
}

func (s *store) ListPositionsByFaculty(ctx context.Context, facultyID string) ([]model.Position, error) {
	rows, err := s.dbClient.Query(QueryListPositionsByFaculty, facultyID)
	if err != nil {
		return nil, err
	}
	positions := make([]model.Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, *mapToPosition(row))
	}
	return positions, nil
}

func (s *store) UpdatePosition(ctx context.Context, position *model.Position) error {
	_, err := s.dbClient.Execute(QueryUpdatePosition,
		position.Name, position.DepartmentID, position.FacultyID, position.Rank,
		position.UpdatedTime, position.PositionID)
	return err
}

func (s *store) DeletePosition(ctx context.Context, positionID string) error {
	_, err := s.dbClient.Execute(QueryDeletePosition, positionID)
	return err
}

func (s *store) CountEmployeesByPosition(ctx context.Context, positionID string) (int, error) {
	return s.count(QueryCountEmployeesByPosition, positionID)
}

func (s *store) count(query dbmodel.DBQuery, args ...interface{}) (int, error) {
	rows, err := s.dbClient.Query(query, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utils.RowInt(rows[0], "count"), nil
}

func mapToFaculty(row map[string]interface{}) *model.Faculty {
	return &model.Faculty{
		FacultyID:   utils.RowString(row, "FACULTY_ID"),
		Name:        utils.RowString(row, "NAME"),
		Code:        utils.RowString(row, "CODE"),
		CreatedTime: utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime: utils.RowInt64(row, "UPDATED_TIME"),
	}
}

func mapToDepartment(row map[string]interface{}) *model.Department {
	return &model.Department{
		DepartmentID: utils.RowString(row, "DEPARTMENT_ID"),
		FacultyID:    utils.RowNullableString(row, "FACULTY_ID"),
		Name:         utils.RowString(row, "NAME"),
		IsOffice:     utils.RowBool(row, "IS_OFFICE"),
		CreatedTime:  utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime:  utils.RowInt64(row, "UPDATED_TIME"),
	}
}

func mapToPosition(row map[string]interface{}) *model.Position {
	return &model.Position{
		PositionID:   utils.RowString(row, "POSITION_ID"),
		Name:         utils.RowString(row, "NAME"),
		DepartmentID: utils.RowNullableString(row, "DEPARTMENT_ID"),
		FacultyID:    utils.RowNullableString(row, "FACULTY_ID"),
		Rank:         utils.RowInt(row, "POSITION_RANK"),
		CreatedTime:  utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime:  utils.RowInt64(row, "UPDATED_TIME"),
	}
}
