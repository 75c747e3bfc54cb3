// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"fmt"
	"sync"

	"github.com/campushr/hr-management-api/internal/system/database"
	"github.com/campushr/hr-management-api/internal/system/log"
)

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetHRMSDBClient() (DBClientInterface, error)
}

// DBProviderCloser is a separate interface for closing the provider.
// Only the lifecycle manager should use this interface.
type DBProviderCloser interface {
	Close() error
}

// dbProvider is the implementation of DBProviderInterface.
type dbProvider struct {
	hrmsClient DBClientInterface
	hrmsMutex  sync.RWMutex
	db         *database.DB
}

var (
	instance *dbProvider
	once     sync.Once
)

// InitDBProvider initializes the singleton instance of DBProvider with the database connection.
func InitDBProvider(db *database.DB) {
	once.Do(func() {
		instance = &dbProvider{
			db: db,
		}
		instance.initializeClient()
	})
}

// GetDBProvider returns the instance of DBProvider.
func GetDBProvider() DBProviderInterface {
	if instance == nil {
		panic("DBProvider not initialized. Call InitDBProvider first.")
	}
	return instance
}

// GetDBProviderCloser returns the DBProvider with closing capability.
// This should only be called from the main lifecycle manager.
func GetDBProviderCloser() DBProviderCloser {
	if instance == nil {
		panic("DBProvider not initialized. Call InitDBProvider first.")
	}
	return instance
}

// GetHRMSDBClient returns a database client for the HRMS datasource.
// Not required to close the returned client manually since it manages its own connection pool.
func (d *dbProvider) GetHRMSDBClient() (DBClientInterface, error) {
	d.hrmsMutex.RLock()
	defer d.hrmsMutex.RUnlock()

	if d.hrmsClient == nil {
		return nil, fmt.Errorf("HRMS DB client is not initialized")
	}
	return d.hrmsClient, nil
}

// initializeClient initializes the database client.
func (d *dbProvider) initializeClient() {
	d.hrmsMutex.Lock()
	defer d.hrmsMutex.Unlock()

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider"))

	if d.db == nil {
		logger.Fatal("Database connection is nil")
		return
	}

	d.hrmsClient = NewDBClient(d.db, d.db.Type)
	logger.Debug("HRMS DB client initialized")
}

// Close closes the database connections. This should only be called by the lifecycle manager during shutdown.
func (d *dbProvider) Close() error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider"))
	logger.Debug("Closing database connections")

	d.hrmsMutex.Lock()
	defer d.hrmsMutex.Unlock()

	d.hrmsClient = nil
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
