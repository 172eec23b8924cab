// Package testutil provides an in-memory database and row builders shared by
// the package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens a migrated in-memory SQLite database closed at test cleanup.
// A single connection keeps every statement on the same in-memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	return db
}

// Fixtures creates rows directly, bypassing services.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// Organization creates an organization and returns it with its tenant.
func (f *Fixtures) Organization(name string) (*models.Organization, tenant.ID) {
	f.t.Helper()

	org := &models.Organization{Name: name}
	require.NoError(f.t, f.db.Create(org).Error)

	return org, Tenant(f.t, org.ID)
}

// User creates an active user. The password hash is not a valid bcrypt hash.
func (f *Fixtures) User(orgID uint64, username string, role models.UserRole) *models.User {
	f.t.Helper()

	user := &models.User{
		Username:       username,
		PasswordHash:   "hashedpassword",
		DisplayName:    username,
		Role:           role,
		IsActive:       true,
		OrganizationID: orgID,
	}
	require.NoError(f.t, f.db.Create(user).Error)
	return user
}

// Team creates an active team with the leader and members enrolled.
func (f *Fixtures) Team(orgID uint64, name string, leaderID uint64, memberIDs ...uint64) *models.Team {
	f.t.Helper()

	team := &models.Team{
		Name:           name,
		TeamLeaderID:   leaderID,
		IsActive:       true,
		OrganizationID: orgID,
	}
	require.NoError(f.t, f.db.Omit("TeamLeader", "Members").Create(team).Error)

	for _, userID := range append([]uint64{leaderID}, memberIDs...) {
		member := &models.TeamMember{
			TeamID:         team.ID,
			UserID:         userID,
			OrganizationID: orgID,
			IsActive:       true,
		}
		require.NoError(f.t, f.db.Omit("User").Create(member).Error)
	}
	return team
}

// Client creates an active client.
func (f *Fixtures) Client(orgID uint64, name string) *models.Client {
	f.t.Helper()

	client := &models.Client{OrganizationID: orgID, Name: name, IsActive: true}
	require.NoError(f.t, f.db.Create(client).Error)
	return client
}

// WorkOrder creates an active work order with the given catalogs.
func (f *Fixtures) WorkOrder(orgID, clientID uint64, code string, workTypes, materials []string) *models.WorkOrder {
	f.t.Helper()

	order := &models.WorkOrder{
		OrganizationID:     orgID,
		ClientID:           clientID,
		Code:               code,
		AvailableWorkTypes: workTypes,
		AvailableMaterials: materials,
		IsActive:           true,
	}
	require.NoError(f.t, f.db.Create(order).Error)
	return order
}

// Absence records an absence of userID on date.
func (f *Fixtures) Absence(orgID, userID uint64, date, absenceType string) *models.AttendanceEntry {
	f.t.Helper()

	entry := &models.AttendanceEntry{
		OrganizationID: orgID,
		UserID:         userID,
		Date:           date,
		AbsenceType:    absenceType,
		RecordedByID:   userID,
	}
	require.NoError(f.t, f.db.Create(entry).Error)
	return entry
}

// Tenant resolves the tenant of an organization for a synthetic active principal.
func Tenant(t *testing.T, orgID uint64) tenant.ID {
	t.Helper()

	id, err := tenant.Resolve(tenant.Principal{UserID: 1, OrganizationID: orgID, Active: true})
	require.NoError(t, err)
	return id
}
