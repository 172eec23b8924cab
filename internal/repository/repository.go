package repository

import (
	"time"

	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"github.com/yukikurage/field-report-api/internal/utils"
)

// Every tenant-owned read and write takes the resolved tenant as its first
// argument. The only unscoped lookups are the principal lookups used by
// authentication and the ownership probe used to classify a miss.

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a user inside the tenant
	Create(t tenant.ID, user *models.User) error

	// CreateWithOrganization creates an organization and its first user
	// within a single transaction.
	CreateWithOrganization(user *models.User, org *models.Organization) error

	// FindByID finds a user of the tenant by ID
	FindByID(t tenant.ID, id uint64) (*models.User, error)

	// FindByIDs finds the users of the tenant among ids
	FindByIDs(t tenant.ID, ids []uint64) ([]models.User, error)

	// List lists all users of the tenant
	List(t tenant.ID) ([]models.User, error)

	// FindPrincipal finds a user by ID across tenants, for session resolution
	FindPrincipal(id uint64) (*models.User, error)

	// FindByUsername finds a user by username across tenants, for login
	FindByUsername(username string) (*models.User, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// FindByID finds the tenant's organization
	FindByID(t tenant.ID) (*models.Organization, error)

	// Delete deletes an organization and every row it owns
	Delete(t tenant.ID) error
}

// Resource names a tenant-owned table for ownership probes.
type Resource string

const (
	ResourceUser        Resource = "user"
	ResourceTeam        Resource = "team"
	ResourceClient      Resource = "client"
	ResourceWorkOrder   Resource = "work_order"
	ResourceDailyReport Resource = "daily_report"
)

// OwnershipRepository answers which organization owns a row, so a scoped miss
// can be classified as missing or foreign.
type OwnershipRepository interface {
	OrganizationOf(resource Resource, id uint64) (uint64, error)
}

// TeamRepository defines the interface for roster data access
type TeamRepository interface {
	// Create creates a team and enrolls its leader as a member
	Create(t tenant.ID, team *models.Team) error

	// FindByID finds a team of the tenant
	FindByID(t tenant.ID, id uint64) (*models.Team, error)

	// FindActiveByLeader finds the active team led by leaderID
	FindActiveByLeader(t tenant.ID, leaderID uint64) (*models.Team, error)

	// List lists the tenant's teams
	List(t tenant.ID) ([]models.Team, error)

	// UpdateLeader sets a new leader and makes sure they are an active member
	UpdateLeader(t tenant.ID, teamID, leaderID uint64) error

	// ReplaceMembers makes memberIDs the exact active membership of the team
	ReplaceMembers(t tenant.ID, teamID uint64, memberIDs []uint64) error

	// ListActiveMembers lists active membership rows with their users
	ListActiveMembers(t tenant.ID, teamID uint64) ([]models.TeamMember, error)
}

// AttendanceRepository defines the interface for the attendance ledger
type AttendanceRepository interface {
	// FindAbsences returns the entries of userIDs on date
	FindAbsences(t tenant.ID, userIDs []uint64, date string) ([]models.AttendanceEntry, error)

	// Upsert records or replaces the entry for (user, date)
	Upsert(t tenant.ID, entry *models.AttendanceEntry) error

	// Delete removes the entry for (user, date), reporting whether one existed
	Delete(t tenant.ID, userID uint64, date string) (bool, error)

	// ListByDate lists all entries of the tenant on date
	ListByDate(t tenant.ID, date string) ([]models.AttendanceEntry, error)
}

// CatalogRepository defines the interface for clients and work orders
type CatalogRepository interface {
	CreateClient(t tenant.ID, client *models.Client) error
	FindClient(t tenant.ID, id uint64) (*models.Client, error)
	ListClients(t tenant.ID) ([]models.Client, error)

	CreateWorkOrder(t tenant.ID, order *models.WorkOrder) error
	FindWorkOrder(t tenant.ID, id uint64) (*models.WorkOrder, error)
	ListWorkOrders(t tenant.ID, clientID uint64) ([]models.WorkOrder, error)
}

// SubmissionRepository defines the interface for team submissions
type SubmissionRepository interface {
	// FindByTeamAndDate finds the submission of a team for a day
	FindByTeamAndDate(t tenant.ID, teamID uint64, date string) (*models.TeamSubmission, error)

	// CreateWithFanOut stores the submission and its derived reports (with
	// their operations) atomically.
	CreateWithFanOut(t tenant.ID, submission *models.TeamSubmission, reports []models.DailyReport) error
}

// ReportRepository defines the interface for daily reports
type ReportRepository interface {
	// FindByID finds a daily report with optional preloading
	FindByID(t tenant.ID, id uint64, preload ...string) (*models.DailyReport, error)

	// List retrieves daily reports with filtering and pagination
	List(t tenant.ID, filter ReportFilter) ([]models.DailyReport, int64, error)

	// ListBySubmission lists the reports generated by a submission
	ListBySubmission(t tenant.ID, submissionID uint64) ([]models.DailyReport, error)

	// TransitionStatus moves a report from one status to another, reporting
	// false when the report was no longer in the expected status.
	TransitionStatus(t tenant.ID, id uint64, from, to models.ReportStatus, reviewerID uint64, at time.Time) (bool, error)
}

// ReportFilter holds filtering options for listing daily reports
type ReportFilter struct {
	Date       string
	Status     *models.ReportStatus
	EmployeeID *uint64
	Pagination *utils.PaginationParams
}
