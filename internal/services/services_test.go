package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/metrics"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"github.com/yukikurage/field-report-api/internal/testutil"
	"gorm.io/gorm"
)

// testDay is the reporting day the test clock is pinned to.
const testDay = "2026-05-04"

type serviceEnv struct {
	db       *gorm.DB
	fx       *testutil.Fixtures
	registry *prometheus.Registry

	auth         *AuthService
	catalog      *CatalogService
	attendance   *AttendanceService
	roster       *RosterService
	availability *AvailabilityService
	submissions  *SubmissionService
	approvals    *ApprovalService
	orgs         *OrganizationService
}

func setupServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	db := testutil.OpenDB(t)
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)
	authorizer := authz.NewDefaultAuthorizer()
	clock := func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }

	userRepo := repository.NewUserRepository(db)
	owners := repository.NewOwnershipRepository(db)

	catalog := NewCatalogService(repository.NewCatalogRepository(db), owners, authorizer, recorder)
	attendance := NewAttendanceService(repository.NewAttendanceRepository(db), userRepo, owners, authorizer, recorder)
	roster := NewRosterService(repository.NewTeamRepository(db), userRepo, owners, authorizer, recorder)
	availability := NewAvailabilityService(roster, attendance)

	return &serviceEnv{
		db:           db,
		fx:           testutil.NewFixtures(t, db),
		registry:     registry,
		auth:         NewAuthService(userRepo, owners, authorizer),
		catalog:      catalog,
		attendance:   attendance,
		roster:       roster,
		availability: availability,
		submissions:  NewSubmissionService(repository.NewSubmissionRepository(db), owners, roster, catalog, availability, recorder, clock, time.UTC),
		approvals:    NewApprovalService(repository.NewReportRepository(db), owners, authorizer, recorder, clock),
		orgs:         NewOrganizationService(repository.NewOrganizationRepository(db), authorizer),
	}
}

// teamScenario is a tenant with team T: leader L, member M1 available and
// member M2 absent with type "M" on testDay, and client C with work order O
// offering work types X and Y and material P.
type teamScenario struct {
	org    *models.Organization
	tenant tenant.ID
	admin  *models.User
	leader *models.User
	m1     *models.User
	m2     *models.User
	team   *models.Team
	client *models.Client
	order  *models.WorkOrder
}

func (env *serviceEnv) scenario(orgName string) *teamScenario {
	org, tid := env.fx.Organization(orgName)
	s := &teamScenario{org: org, tenant: tid}

	s.admin = env.fx.User(org.ID, orgName+"-admin", models.RoleAdmin)
	s.leader = env.fx.User(org.ID, orgName+"-leader", models.RoleTeamLeader)
	s.m1 = env.fx.User(org.ID, orgName+"-m1", models.RoleEmployee)
	s.m2 = env.fx.User(org.ID, orgName+"-m2", models.RoleEmployee)
	s.team = env.fx.Team(org.ID, "Alpha", s.leader.ID, s.m1.ID, s.m2.ID)
	s.client = env.fx.Client(org.ID, "Client C")
	s.order = env.fx.WorkOrder(org.ID, s.client.ID, "O", []string{"X", "Y"}, []string{"P"})
	env.fx.Absence(org.ID, s.m2.ID, testDay, "M")

	return s
}

func (s *teamScenario) submitInput() SubmitInput {
	return SubmitInput{
		TeamID:            s.team.ID,
		ClientID:          s.client.ID,
		WorkOrderID:       s.order.ID,
		Hours:             8,
		SelectedMemberIDs: []uint64{s.leader.ID, s.m1.ID},
		WorkTypes:         []string{"Y"},
		Materials:         []string{},
	}
}

func actorOf(user *models.User) Actor {
	return ActorFromUser(user)
}
