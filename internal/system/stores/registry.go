package stores

import (
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/log"
)

// StoreRegistry holds references to all stores in the application.
// Each store is held as interface{} to avoid circular dependencies;
// services type-assert to the store interfaces they consume.
type StoreRegistry struct {
	dbClient provider.DBClientInterface

	Organization interface{} // organization.OrganizationStore
	Identity     interface{} // identity.IdentityStore
	Employee     interface{} // employee.EmployeeStore
	RequestType  interface{} // requesttype.RequestTypeStore
	Submission   interface{} // submission.SubmissionStore
	Leave        interface{} // leave.LeaveStore
	Training     interface{} // training.TrainingStore
	Certificate  interface{} // certificate.CertificateStore
}

// NewStoreRegistry creates a new empty store registry bound to a DB client.
// Stores register themselves during module initialization.
func NewStoreRegistry(dbClient provider.DBClientInterface) *StoreRegistry {
	return &StoreRegistry{dbClient: dbClient}
}

// DBClient returns the underlying database client.
func (r *StoreRegistry) DBClient() provider.DBClientInterface {
	return r.dbClient
}

// ExecuteTransaction executes multiple store operations in a single transaction.
func (r *StoreRegistry) ExecuteTransaction(queries []func(tx dbmodel.TxInterface) error) error {
	logger := log.GetLogger()
	logger.Debug("Starting transaction", log.Int("query_count", len(queries)))

	tx, err := r.dbClient.BeginTx()
	if err != nil {
		logger.Error("Failed to begin transaction", log.Error(err))
		return err
	}

	for i, query := range queries {
		if err := query(tx); err != nil {
			logger.Warn("Transaction query failed, rolling back",
				log.Error(err),
				log.Int("failed_query_index", i),
			)
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", log.Error(err))
		return err
	}

	logger.Debug("Transaction committed successfully", log.Int("query_count", len(queries)))
	return nil
}
