package constants

// Session and context keys
const (
	SessionCookieName   = "field_report_session"
	ContextKeyUserID    = "user_id"
	ContextKeyTenant    = "tenant"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Reporting
const (
	// DateLayout is the wire and storage format of a calendar day.
	DateLayout = "2006-01-02"

	MaxWorkHours         = 24
	MaxAbsenceTypeLength = 10
)
