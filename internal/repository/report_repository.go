package repository

import (
	"time"

	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// FindByID finds a daily report by ID with optional preloading
func (r *GormReportRepository) FindByID(t tenant.ID, id uint64, preload ...string) (*models.DailyReport, error) {
	var report models.DailyReport
	query := r.db.Scopes(database.ForTenant(t, "daily_reports"))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&report, id).Error; err != nil {
		return nil, err
	}

	return &report, nil
}

// List retrieves daily reports with filtering and pagination
func (r *GormReportRepository) List(t tenant.ID, filter ReportFilter) ([]models.DailyReport, int64, error) {
	var reports []models.DailyReport

	query := r.db.Model(&models.DailyReport{}).Scopes(database.ForTenant(t, "daily_reports"))

	// Apply filters
	if filter.Date != "" {
		query = query.Where("daily_reports.date = ?", filter.Date)
	}
	if filter.Status != nil {
		query = query.Where("daily_reports.status = ?", *filter.Status)
	}
	if filter.EmployeeID != nil {
		query = query.Where("daily_reports.employee_id = ?", *filter.EmployeeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("daily_reports.date DESC, daily_reports.id ASC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	if err := listQuery.Preload("Employee").Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// ListBySubmission lists the reports generated by a submission
func (r *GormReportRepository) ListBySubmission(t tenant.ID, submissionID uint64) ([]models.DailyReport, error) {
	var reports []models.DailyReport
	if err := r.db.Scopes(database.ForTenant(t, "daily_reports")).
		Preload("Operations").
		Where("daily_reports.team_submission_id = ?", submissionID).
		Order("daily_reports.employee_id ASC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// TransitionStatus updates the status only while the report is still in from,
// so two concurrent reviews cannot both succeed.
func (r *GormReportRepository) TransitionStatus(t tenant.ID, id uint64, from, to models.ReportStatus, reviewerID uint64, at time.Time) (bool, error) {
	result := r.db.Model(&models.DailyReport{}).
		Scopes(database.ForTenant(t, "daily_reports")).
		Where("daily_reports.id = ? AND daily_reports.status = ?", id, from).
		Updates(map[string]interface{}{
			"status":         to,
			"reviewed_by_id": reviewerID,
			"reviewed_at":    at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
