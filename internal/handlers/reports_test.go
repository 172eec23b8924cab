package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/field-report-api/internal/dto"
	"github.com/yukikurage/field-report-api/internal/models"
)

// submitted files the fixture's submission and returns the generated reports
// keyed by employee.
func (suite *HandlerTestSuite) submitted(f *tenantFixture) map[uint64]models.DailyReport {
	w := suite.request(f.leader, http.MethodPost, "/api/team-submissions", f.submission())
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var reports []models.DailyReport
	suite.Require().NoError(suite.db.Where("organization_id = ?", f.org.ID).Find(&reports).Error)

	byEmployee := make(map[uint64]models.DailyReport, len(reports))
	for _, r := range reports {
		byEmployee[r.EmployeeID] = r
	}
	return byEmployee
}

func (suite *HandlerTestSuite) TestUpdateReportStatus() {
	f := suite.tenant("north")
	reports := suite.submitted(f)
	reportPath := fmt.Sprintf("/api/daily-reports/%d/status", reports[f.m1.ID].ID)

	w := suite.request(f.leader, http.MethodPatch, reportPath, map[string]string{"status": "approved"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(f.admin, http.MethodPatch, reportPath, map[string]string{"status": "approved"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var report dto.DailyReportDTO
	suite.decode(w, &report)
	suite.Equal(models.ReportStatusApproved, report.Status)
	suite.Require().NotNil(report.ReviewedByID)
	suite.Equal(f.admin.ID, *report.ReviewedByID)
	suite.Require().Len(report.Operations, 1)
	suite.Equal([]string{"Y"}, report.Operations[0].WorkTypes)
	suite.Equal(8.0, report.Operations[0].Hours)

	w = suite.request(f.admin, http.MethodPatch, reportPath, map[string]string{"status": "rejected"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(f.admin, http.MethodPatch, reportPath, map[string]string{"status": "archived"})
	suite.Equal(http.StatusBadRequest, w.Code)

	// The submission keeps its own status
	var submission models.TeamSubmission
	suite.Require().NoError(suite.db.First(&submission).Error)
	suite.Equal(models.ReportStatusPending, submission.Status)
}

func (suite *HandlerTestSuite) TestListReports() {
	f := suite.tenant("north")
	other := suite.tenant("south")
	reports := suite.submitted(f)
	suite.submitted(other)

	w := suite.request(f.admin, http.MethodGet, "/api/daily-reports?date="+testDay, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var page dto.DailyReportListResponse
	suite.decode(w, &page)
	suite.Equal(int64(2), page.Pagination.TotalCount)
	suite.Len(page.Reports, 2)

	w = suite.request(f.admin, http.MethodGet, "/api/daily-reports?limit=1&page=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &page)
	suite.Len(page.Reports, 1)
	suite.Equal(2, page.Pagination.TotalPages)

	// An employee sees only their own report
	w = suite.request(f.m1, http.MethodGet, "/api/daily-reports", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &page)
	suite.Require().Len(page.Reports, 1)
	suite.Equal(reports[f.m1.ID].ID, page.Reports[0].ID)

	w = suite.request(f.m1, http.MethodGet, fmt.Sprintf("/api/daily-reports/%d", reports[f.leader.ID].ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(f.admin, http.MethodGet, "/api/daily-reports?status=archived", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
