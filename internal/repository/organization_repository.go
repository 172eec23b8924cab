package repository

import (
	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds the tenant's organization
func (r *GormOrganizationRepository) FindByID(t tenant.ID) (*models.Organization, error) {
	if !t.Valid() {
		return nil, tenant.ErrUnresolved
	}

	var org models.Organization
	if err := r.db.First(&org, t.OrganizationID()).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Delete deletes an organization and all related data in a transaction
func (r *GormOrganizationRepository) Delete(t tenant.ID) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}

	// Children before parents.
	owned := []struct {
		model any
		table string
	}{
		{&models.Operation{}, "operations"},
		{&models.DailyReport{}, "daily_reports"},
		{&models.TeamSubmission{}, "team_submissions"},
		{&models.AttendanceEntry{}, "attendance_entries"},
		{&models.TeamMember{}, "team_members"},
		{&models.Team{}, "teams"},
		{&models.WorkOrder{}, "work_orders"},
		{&models.Client{}, "clients"},
		{&models.User{}, "users"},
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, o := range owned {
			if err := tx.Scopes(database.ForTenant(t, o.table)).Delete(o.model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Organization{}, t.OrganizationID()).Error
	})
}
