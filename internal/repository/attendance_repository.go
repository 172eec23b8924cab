package repository

import (
	"time"

	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindAbsences returns the ledger entries of userIDs on date
func (r *GormAttendanceRepository) FindAbsences(t tenant.ID, userIDs []uint64, date string) ([]models.AttendanceEntry, error) {
	if len(userIDs) == 0 {
		return []models.AttendanceEntry{}, nil
	}

	var entries []models.AttendanceEntry
	if err := r.db.Scopes(database.ForTenant(t, "attendance_entries")).
		Where("attendance_entries.date = ? AND attendance_entries.user_id IN ?", date, userIDs).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Upsert records an absence, replacing any existing entry for the same user and day
func (r *GormAttendanceRepository) Upsert(t tenant.ID, entry *models.AttendanceEntry) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}
	entry.OrganizationID = t.OrganizationID()

	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"absence_type":   entry.AbsenceType,
				"notes":          entry.Notes,
				"recorded_by_id": entry.RecordedByID,
				"updated_at":     time.Now(),
			}),
		}).
		Create(entry).Error
}

// Delete removes the entry for (user, date)
func (r *GormAttendanceRepository) Delete(t tenant.ID, userID uint64, date string) (bool, error) {
	result := r.db.Scopes(database.ForTenant(t, "attendance_entries")).
		Where("attendance_entries.user_id = ? AND attendance_entries.date = ?", userID, date).
		Delete(&models.AttendanceEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByDate lists all entries of the tenant on date
func (r *GormAttendanceRepository) ListByDate(t tenant.ID, date string) ([]models.AttendanceEntry, error) {
	var entries []models.AttendanceEntry
	if err := r.db.Scopes(database.ForTenant(t, "attendance_entries")).
		Where("attendance_entries.date = ?", date).
		Order("attendance_entries.user_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
