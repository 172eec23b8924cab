package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/services"
	"github.com/yukikurage/field-report-api/internal/utils"
)

// ReportHandler serves daily reports and their review.
type ReportHandler struct {
	approvals *services.ApprovalService
}

func NewReportHandler(approvals *services.ApprovalService) *ReportHandler {
	return &ReportHandler{approvals: approvals}
}

// ListReports returns a page of daily reports, filtered by ?date=, ?status=
// and ?employee_id=
func (h *ReportHandler) ListReports(c *gin.Context) {
	employeeID, ok := optionalIDQuery(c, "employee_id")
	if !ok {
		return
	}

	var status *models.ReportStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ReportStatus(raw)
		status = &s
	}

	params := utils.GetPaginationParams(c)

	reports, total, err := h.approvals.ListReports(middleware.GetTenant(c), middleware.GetActor(c), services.ListReportsInput{
		Date:       c.Query("date"),
		Status:     status,
		EmployeeID: employeeID,
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDailyReportListResponse(reports, params.Page, params.Limit, total))
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := idParam(c, "reportId")
	if !ok {
		return
	}

	report, err := h.approvals.GetReport(middleware.GetTenant(c), middleware.GetActor(c), id)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDailyReportDTO(*report))
}

// UpdateStatus approves or rejects a pending report
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "reportId")
	if !ok {
		return
	}

	var req struct {
		Status models.ReportStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.approvals.SetStatus(middleware.GetTenant(c), middleware.GetActor(c), id, req.Status)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDailyReportDTO(*report))
}
