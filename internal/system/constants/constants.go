package constants

const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	CorrelationIDHeaderName = "X-Correlation-ID"
	UserIDHeaderName        = "X-User-ID"
	ContentTypeJSON         = "application/json"
	ContentTypeCSV          = "text/csv"
	ContentTypeXLSX         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	DefaultPageSize         = 30
	MaxPageSize             = 100

	// APIBasePath is the version prefix all routes are registered under.
	APIBasePath = "/api/v1"

	// MaxFulfillmentFileSize is the upload cap for fulfillment files.
	MaxFulfillmentFileSize = 15 << 20

	// Aliases for convenience
	HeaderContentType = ContentTypeHeaderName
	HeaderUserID      = UserIDHeaderName
)

// Permission strings checked by handlers and services. Role definitions map
// role names to subsets of these.
const (
	PermRequestsManage     = "requests.manage"
	PermRequestTypesManage = "request-types.manage"
	PermTrainingsManage    = "trainings.manage"
	PermEmployeesRead      = "employees.read"
	PermEmployeesWrite     = "employees.write"
	PermOrgRead            = "org.read"
	PermOrgWrite           = "org.write"
	PermRolesManage        = "roles.manage"
	PermLeaveManage        = "leave.manage"
	PermCertificatesManage = "certificates.manage"
	PermReportsRead        = "reports.read"
)

// DefaultPermissions enumerates every permission known to the server.
var DefaultPermissions = []string{
	PermRequestsManage,
	PermRequestTypesManage,
	PermTrainingsManage,
	PermEmployeesRead,
	PermEmployeesWrite,
	PermOrgRead,
	PermOrgWrite,
	PermRolesManage,
	PermLeaveManage,
	PermCertificatesManage,
	PermReportsRead,
}
