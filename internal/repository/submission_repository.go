package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateSubmission is returned when the team already has a submission for the date.
	ErrDuplicateSubmission = errors.New("submission repository: team already submitted for this date")
	// ErrCreateSubmission is returned when storing the submission row fails.
	ErrCreateSubmission = errors.New("submission repository: create submission failed")
	// ErrCreateDailyReport is returned when storing a derived daily report fails.
	ErrCreateDailyReport = errors.New("submission repository: create daily report failed")
	// ErrCreateOperation is returned when storing a derived operation fails.
	ErrCreateOperation = errors.New("submission repository: create operation failed")
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// FindByTeamAndDate finds the submission of a team for a day
func (r *GormSubmissionRepository) FindByTeamAndDate(t tenant.ID, teamID uint64, date string) (*models.TeamSubmission, error) {
	var submission models.TeamSubmission
	if err := r.db.Scopes(database.ForTenant(t, "team_submissions")).
		Where("team_submissions.team_id = ? AND team_submissions.date = ?", teamID, date).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// CreateWithFanOut inserts the submission, then every report with its
// operations, in one transaction. Reports are linked to the submission and
// stamped with the tenant here. Nothing is left behind on failure.
func (r *GormSubmissionRepository) CreateWithFanOut(t tenant.ID, submission *models.TeamSubmission, reports []models.DailyReport) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}
	orgID := t.OrganizationID()
	submission.OrganizationID = orgID

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %v", ErrDuplicateSubmission, err)
			}
			return fmt.Errorf("%w: %v", ErrCreateSubmission, err)
		}

		for i := range reports {
			report := &reports[i]
			report.OrganizationID = orgID
			report.TeamSubmissionID = &submission.ID

			if err := tx.Omit(clause.Associations).Create(report).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateDailyReport, err)
			}

			for j := range report.Operations {
				op := &report.Operations[j]
				op.OrganizationID = orgID
				op.DailyReportID = report.ID

				if err := tx.Create(op).Error; err != nil {
					return fmt.Errorf("%w: %v", ErrCreateOperation, err)
				}
			}
		}

		return nil
	})
}
