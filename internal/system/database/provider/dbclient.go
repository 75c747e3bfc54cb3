package provider

import (
	"database/sql"
	"fmt"

	"github.com/campushr/hr-management-api/internal/system/database"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/log"
)

// DBClientInterface defines the interface for executing identified queries
// against the configured database.
type DBClientInterface interface {
	Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	Execute(query dbmodel.DBQuery, args ...interface{}) (sql.Result, error)
	BeginTx() (dbmodel.TxInterface, error)
	DBType() string
}

// dbClient is the DBClientInterface implementation over the shared connection pool.
type dbClient struct {
	db     *database.DB
	dbType string
}

// NewDBClient creates a new database client for the given connection.
func NewDBClient(db *database.DB, dbType string) DBClientInterface {
	return &dbClient{
		db:     db,
		dbType: dbType,
	}
}

// DBType returns the configured database type.
func (c *dbClient) DBType() string {
	return c.dbType
}

// Query runs an identified query and returns the result set as generic row maps.
func (c *dbClient) Query(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	rows, err := c.db.Queryx(query.GetQuery(c.dbType), args...)
	if err != nil {
		logger.Error("Query failed", log.String("query_id", query.GetID()), log.Error(err))
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	defer rows.Close()

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("query %s scan failed: %w", query.GetID(), err)
		}
		normalizeRow(row)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s iteration failed: %w", query.GetID(), err)
	}

	return results, nil
}

// Execute runs an identified mutation query.
func (c *dbClient) Execute(query dbmodel.DBQuery, args ...interface{}) (sql.Result, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	result, err := c.db.Exec(query.GetQuery(c.dbType), args...)
	if err != nil {
		logger.Error("Execute failed", log.String("query_id", query.GetID()), log.Error(err))
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	return result, nil
}

// BeginTx starts a new transaction on the underlying connection.
func (c *dbClient) BeginTx() (dbmodel.TxInterface, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return dbmodel.NewTx(tx), nil
}

// normalizeRow converts driver-specific column values into the generic forms
// store mappers expect: []byte becomes string.
func normalizeRow(row map[string]interface{}) {
	for key, value := range row {
		if b, ok := value.([]byte); ok {
			row[key] = string(b)
		}
	}
}
