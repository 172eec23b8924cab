package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/models"
)

func (suite *HandlerTestSuite) TestCreateSubmission_Scenario() {
	f := suite.tenant("north")

	w := suite.request(f.leader, http.MethodPost, "/api/team-submissions", f.submission())
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created dto.TeamSubmissionDTO
	suite.decode(w, &created)
	suite.Equal(f.team.ID, created.TeamID)
	suite.Equal(testDay, created.Date)
	suite.Equal(models.ReportStatusPending, created.Status)
	suite.Equal([]uint64{f.leader.ID, f.m1.ID}, created.SelectedMemberIDs)
	suite.Equal([]string{}, created.Materials)

	var reports []models.DailyReport
	suite.Require().NoError(suite.db.Order("employee_id").Find(&reports).Error)
	suite.Require().Len(reports, 2)
	for _, r := range reports {
		suite.Equal(models.ReportStatusPending, r.Status)
		suite.Equal(testDay, r.Date)
		suite.Require().NotNil(r.TeamSubmissionID)
		suite.Equal(created.ID, *r.TeamSubmissionID)
	}
	suite.ElementsMatch([]uint64{f.leader.ID, f.m1.ID}, []uint64{reports[0].EmployeeID, reports[1].EmployeeID})

	w = suite.request(f.leader, http.MethodPost, "/api/team-submissions", f.submission())
	suite.Equal(http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	suite.decode(w, &apiErr)
	suite.Equal(apierrors.ErrCodeConflict, apiErr.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.DailyReport{}).Count(&count).Error)
	suite.Equal(int64(2), count)
}

func (suite *HandlerTestSuite) TestCreateSubmission_DocumentedBody() {
	f := suite.tenant("north")

	body := json.RawMessage(fmt.Sprintf(`{
		"clientId": %d,
		"workOrderId": %d,
		"hours": 8,
		"selectedMemberIds": [%d, %d],
		"notes": "",
		"workTypes": ["Y"],
		"materials": []
	}`, f.client.ID, f.order.ID, f.leader.ID, f.m1.ID))

	w := suite.request(f.leader, http.MethodPost, "/api/team-submissions", body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created map[string]any
	suite.decode(w, &created)
	for _, key := range []string{"id", "teamId", "date", "clientId", "workOrderId", "hours", "notes", "selectedMemberIds", "workTypes", "materials", "status"} {
		suite.Contains(created, key)
	}
	suite.Equal(float64(f.client.ID), created["clientId"])

	w = suite.request(f.leader, http.MethodPost, "/api/team-submissions", body)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCreateSubmission_Rejects() {
	f := suite.tenant("north")

	unavailable := f.submission()
	unavailable["selectedMemberIds"] = []uint64{f.leader.ID, f.m2.ID}

	offCatalog := f.submission()
	offCatalog["workTypes"] = []string{"Z"}

	tooLong := f.submission()
	tooLong["hours"] = 24.5

	otherDay := f.submission()
	otherDay["date"] = "2026-05-03"

	noClient := f.submission()
	delete(noClient, "clientId")

	snakeCase := f.submission()
	delete(snakeCase, "clientId")
	snakeCase["client_id"] = f.client.ID

	wrongType := f.submission()
	wrongType["workTypes"] = "Y"

	tests := []struct {
		name   string
		user   *models.User
		body   any
		status int
		field  string
	}{
		{"unavailable member", f.leader, unavailable, http.StatusBadRequest, "selectedMemberIds"},
		{"work type outside catalog", f.leader, offCatalog, http.StatusBadRequest, "workTypes"},
		{"hours above a day", f.leader, tooLong, http.StatusBadRequest, "hours"},
		{"not today", f.leader, otherDay, http.StatusBadRequest, "date"},
		{"missing client", f.leader, noClient, http.StatusBadRequest, "clientId"},
		{"snake case keys", f.leader, snakeCase, http.StatusBadRequest, "clientId"},
		{"work types not a list", f.leader, wrongType, http.StatusBadRequest, "workTypes"},
		{"malformed body", f.leader, "not an object", http.StatusBadRequest, ""},
		{"member is not a leader", f.m1, f.submission(), http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.request(tt.user, http.MethodPost, "/api/team-submissions", tt.body)
			suite.Equal(tt.status, w.Code, w.Body.String())

			if tt.field != "" {
				var apiErr struct {
					Details map[string]string `json:"details"`
				}
				suite.decode(w, &apiErr)
				suite.Equal(tt.field, apiErr.Details["field"])
			}
		})
	}

	// An explicit team the caller does not lead is forbidden
	explicit := f.submission()
	explicit["teamId"] = f.team.ID
	w := suite.request(f.m1, http.MethodPost, "/api/team-submissions", explicit)
	suite.Equal(http.StatusForbidden, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.TeamSubmission{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *HandlerTestSuite) TestGetTodaySubmission() {
	f := suite.tenant("north")

	w := suite.request(f.leader, http.MethodGet, "/api/team-submissions/today", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.Require().Equal(http.StatusCreated, suite.request(f.leader, http.MethodPost, "/api/team-submissions", f.submission()).Code)

	w = suite.request(f.leader, http.MethodGet, "/api/team-submissions/today", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("no-store", w.Header().Get("Cache-Control"))

	var today dto.TeamSubmissionDTO
	suite.decode(w, &today)
	suite.Equal(f.team.ID, today.TeamID)

	w = suite.request(f.admin, http.MethodGet, fmt.Sprintf("/api/team-submissions/today?team_id=%d", f.team.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(f.admin, http.MethodGet, "/api/team-submissions/today?team_id=abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
