package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/field-report-api/internal/authz"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/metrics"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"github.com/yukikurage/field-report-api/internal/utils"
)

// ApprovalService moves daily reports through review. Pending is the only
// non-terminal status. The originating team submission is never modified.
type ApprovalService struct {
	reportRepo repository.ReportRepository
	guard      ownershipGuard
	authorizer *authz.Authorizer
	recorder   *metrics.Recorder
	clock      utils.Clock
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	reportRepo repository.ReportRepository,
	owners repository.OwnershipRepository,
	authorizer *authz.Authorizer,
	recorder *metrics.Recorder,
	clock utils.Clock,
) *ApprovalService {
	return &ApprovalService{
		reportRepo: reportRepo,
		guard:      ownershipGuard{owners: owners},
		authorizer: authorizer,
		recorder:   recorder,
		clock:      clock,
	}
}

// SetStatus reviews a pending report
func (s *ApprovalService) SetStatus(t tenant.ID, actor Actor, reportID uint64, status models.ReportStatus) (*models.DailyReport, error) {
	if err := requirePermission(s.authorizer, actor, authz.ReportsReview); err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, apierrors.NewValidation("status", fmt.Sprintf("unknown status %q", status))
	}

	report, err := s.reportRepo.FindByID(t, reportID)
	if err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceDailyReport, reportID, err)
	}

	if !report.Status.CanTransitionTo(status) {
		return nil, apierrors.NewValidation("status", fmt.Sprintf("cannot change a %s report to %s", report.Status, status))
	}

	now := time.Now
	if s.clock != nil {
		now = s.clock
	}

	changed, err := s.reportRepo.TransitionStatus(t, report.ID, report.Status, status, actor.UserID, now())
	if err != nil {
		return nil, apierrors.NewPersistence("failed to update report status", err)
	}
	if !changed {
		return nil, apierrors.NewConflict("report was reviewed concurrently")
	}

	s.recorder.StatusTransition(string(status))
	return s.GetReport(t, actor, report.ID)
}

// ListReportsInput represents filters for listing daily reports
type ListReportsInput struct {
	Date       string
	Status     *models.ReportStatus
	EmployeeID *uint64
	Page       int
	PageSize   int
}

// ListReports lists daily reports. Roles without the read permission only
// see their own reports.
func (s *ApprovalService) ListReports(t tenant.ID, actor Actor, input ListReportsInput) ([]models.DailyReport, int64, error) {
	filter := repository.ReportFilter{
		Status:     input.Status,
		EmployeeID: input.EmployeeID,
	}
	if input.Page > 0 && input.PageSize > 0 {
		params := utils.NewPaginationParams(input.Page, input.PageSize)
		filter.Pagination = &params
	}

	if input.Date != "" {
		day, err := utils.ParseDate(input.Date)
		if err != nil {
			return nil, 0, apierrors.NewValidation("date", err.Error())
		}
		filter.Date = day
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, apierrors.NewValidation("status", fmt.Sprintf("unknown status %q", *input.Status))
	}

	if !allowed(s.authorizer, actor, authz.ReportsRead) {
		if err := requirePermission(s.authorizer, actor, authz.ReportsReadOwn); err != nil {
			return nil, 0, err
		}
		own := actor.UserID
		filter.EmployeeID = &own
	}

	reports, total, err := s.reportRepo.List(t, filter)
	if err != nil {
		return nil, 0, apierrors.NewPersistence("failed to list daily reports", err)
	}
	return reports, total, nil
}

// GetReport returns a daily report with its operations. Another employee's
// report is reported as not found to roles that only read their own.
func (s *ApprovalService) GetReport(t tenant.ID, actor Actor, reportID uint64) (*models.DailyReport, error) {
	report, err := s.reportRepo.FindByID(t, reportID, "Employee", "Operations")
	if err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceDailyReport, reportID, err)
	}

	if !allowed(s.authorizer, actor, authz.ReportsRead) && report.EmployeeID != actor.UserID {
		return nil, apierrors.NewNotFound(string(repository.ResourceDailyReport), reportID)
	}

	return report, nil
}
