package dto

import (
	"time"

	"github.com/yukikurage/field-report-api/internal/models"
)

// TeamSubmissionDTO represents a team submission in API responses
type TeamSubmissionDTO struct {
	ID                uint64              `json:"id"`
	TeamID            uint64              `json:"teamId"`
	Date              string              `json:"date"`
	ClientID          uint64              `json:"clientId"`
	WorkOrderID       uint64              `json:"workOrderId"`
	Hours             float64             `json:"hours"`
	Notes             string              `json:"notes"`
	SelectedMemberIDs []uint64            `json:"selectedMemberIds"`
	WorkTypes         []string            `json:"workTypes"`
	Materials         []string            `json:"materials"`
	Status            models.ReportStatus `json:"status"`
	CreatedByID       uint64              `json:"createdById"`
	CreatedAt         time.Time           `json:"createdAt"`
}

// OperationDTO is the work recorded on a daily report
type OperationDTO struct {
	ID          uint64   `json:"id"`
	ClientID    uint64   `json:"clientId"`
	WorkOrderID uint64   `json:"workOrderId"`
	WorkTypes   []string `json:"workTypes"`
	Materials   []string `json:"materials"`
	Hours       float64  `json:"hours"`
	Notes       string   `json:"notes"`
	Photos      []string `json:"photos"`
}

// DailyReportDTO represents a daily report in API responses
type DailyReportDTO struct {
	ID               uint64              `json:"id"`
	EmployeeID       uint64              `json:"employeeId"`
	Date             string              `json:"date"`
	Status           models.ReportStatus `json:"status"`
	TeamSubmissionID *uint64             `json:"teamSubmissionId"`
	ReviewedByID     *uint64             `json:"reviewedById"`
	ReviewedAt       *time.Time          `json:"reviewedAt"`
	CreatedAt        time.Time           `json:"createdAt"`
	Employee         *UserDTO            `json:"employee,omitempty"`
	Operations       []OperationDTO      `json:"operations,omitempty"`
}

// DailyReportListResponse represents a paginated list of daily reports
type DailyReportListResponse struct {
	Reports    []DailyReportDTO `json:"reports"`
	Pagination Pagination       `json:"pagination"`
}

// ToTeamSubmissionDTO converts a TeamSubmission model to TeamSubmissionDTO
func ToTeamSubmissionDTO(s models.TeamSubmission) TeamSubmissionDTO {
	return TeamSubmissionDTO{
		ID:                s.ID,
		TeamID:            s.TeamID,
		Date:              s.Date,
		ClientID:          s.ClientID,
		WorkOrderID:       s.WorkOrderID,
		Hours:             s.Hours,
		Notes:             s.Notes,
		SelectedMemberIDs: nonNil(s.SelectedMemberIDs),
		WorkTypes:         nonNil(s.WorkTypes),
		Materials:         nonNil(s.Materials),
		Status:            s.Status,
		CreatedByID:       s.CreatedByID,
		CreatedAt:         s.CreatedAt,
	}
}

// ToDailyReportDTO converts a DailyReport model to DailyReportDTO
func ToDailyReportDTO(r models.DailyReport) DailyReportDTO {
	dto := DailyReportDTO{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		Date:             r.Date,
		Status:           r.Status,
		TeamSubmissionID: r.TeamSubmissionID,
		ReviewedByID:     r.ReviewedByID,
		ReviewedAt:       r.ReviewedAt,
		CreatedAt:        r.CreatedAt,
	}

	// Include employee if preloaded
	if r.Employee.ID != 0 {
		employee := ToUserDTO(r.Employee)
		dto.Employee = &employee
	}

	if len(r.Operations) > 0 {
		dto.Operations = make([]OperationDTO, len(r.Operations))
		for i, op := range r.Operations {
			dto.Operations[i] = OperationDTO{
				ID:          op.ID,
				ClientID:    op.ClientID,
				WorkOrderID: op.WorkOrderID,
				WorkTypes:   nonNil(op.WorkTypes),
				Materials:   nonNil(op.Materials),
				Hours:       op.Hours,
				Notes:       op.Notes,
				Photos:      nonNil(op.Photos),
			}
		}
	}

	return dto
}

// ToDailyReportListResponse converts a page of reports
func ToDailyReportListResponse(reports []models.DailyReport, page, pageSize int, totalCount int64) DailyReportListResponse {
	items := make([]DailyReportDTO, len(reports))
	for i, r := range reports {
		items[i] = ToDailyReportDTO(r)
	}

	return DailyReportListResponse{
		Reports:    items,
		Pagination: NewPagination(page, pageSize, totalCount),
	}
}

// nonNil keeps empty sets encoded as [] rather than null.
func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
