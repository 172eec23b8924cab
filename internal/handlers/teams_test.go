package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/models"
)

func (suite *HandlerTestSuite) TestGetMembersStatus() {
	f := suite.tenant("north")

	w := suite.request(f.leader, http.MethodGet, fmt.Sprintf("/api/teams/%d/members-status?date=%s", f.team.ID, testDay), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	suite.JSONEq(fmt.Sprintf(`[
		{"userId": %d, "displayName": "north-leader", "isAvailable": true, "absenceType": null, "isTeamLeader": true},
		{"userId": %d, "displayName": "north-m1", "isAvailable": true, "absenceType": null, "isTeamLeader": false},
		{"userId": %d, "displayName": "north-m2", "isAvailable": false, "absenceType": "M", "isTeamLeader": false}
	]`, f.leader.ID, f.m1.ID, f.m2.ID), w.Body.String())

	// Without a date the current reporting day is used
	w = suite.request(f.leader, http.MethodGet, fmt.Sprintf("/api/teams/%d/members-status", f.team.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var statuses []dto.MemberStatusDTO
	suite.decode(w, &statuses)
	suite.Require().Len(statuses, 3)
	suite.False(statuses[2].IsAvailable)

	w = suite.request(f.leader, http.MethodGet, fmt.Sprintf("/api/teams/%d/members-status?date=tomorrow", f.team.ID), nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(f.leader, http.MethodGet, "/api/teams/abc/members-status", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetByLeader() {
	f := suite.tenant("north")

	w := suite.request(f.m1, http.MethodGet, fmt.Sprintf("/api/teams/by-leader/%d", f.leader.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var team dto.TeamDTO
	suite.decode(w, &team)
	suite.Equal(f.team.ID, team.ID)
	suite.Equal("Alpha", team.Name)
	suite.Equal(f.leader.ID, team.TeamLeaderID)

	w = suite.request(f.m1, http.MethodGet, fmt.Sprintf("/api/teams/by-leader/%d", f.m1.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// Two organizations each with a team named "Alpha": nothing of one is
// reachable from the other, and the answer is indistinguishable from a
// missing resource.
func (suite *HandlerTestSuite) TestTenantIsolation() {
	a := suite.tenant("a")
	b := suite.tenant("b")

	missing := suite.request(a.leader, http.MethodGet, "/api/teams/by-leader/999999", nil)
	suite.Require().Equal(http.StatusNotFound, missing.Code)

	foreignSubmission := a.submission()
	foreignSubmission["teamId"] = b.team.ID

	foreignClient := a.submission()
	foreignClient["clientId"] = b.client.ID
	foreignClient["workOrderId"] = b.order.ID

	foreignMember := a.submission()
	foreignMember["selectedMemberIds"] = []uint64{a.leader.ID, b.m1.ID}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"team by foreign leader", http.MethodGet, fmt.Sprintf("/api/teams/by-leader/%d", b.leader.ID), nil},
		{"foreign members status", http.MethodGet, fmt.Sprintf("/api/teams/%d/members-status?date=%s", b.team.ID, testDay), nil},
		{"foreign team", http.MethodGet, fmt.Sprintf("/api/teams/%d", b.team.ID), nil},
		{"foreign team members", http.MethodPut, fmt.Sprintf("/api/teams/%d/members", b.team.ID), map[string]any{"memberIds": []uint64{}}},
		{"submission for foreign team", http.MethodPost, "/api/team-submissions", foreignSubmission},
		{"submission against foreign client", http.MethodPost, "/api/team-submissions", foreignClient},
		{"submission with foreign member", http.MethodPost, "/api/team-submissions", foreignMember},
		{"foreign today", http.MethodGet, fmt.Sprintf("/api/team-submissions/today?team_id=%d", b.team.ID), nil},
		{"foreign user", http.MethodGet, fmt.Sprintf("/api/users/%d", b.m1.ID), nil},
		{"foreign work orders", http.MethodGet, fmt.Sprintf("/api/clients/%d/work-orders", b.client.ID), nil},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			user := a.leader
			if tt.method == http.MethodPut {
				user = a.admin
			}
			w := suite.request(user, tt.method, tt.path, tt.body)
			suite.Equal(http.StatusNotFound, w.Code, w.Body.String())
			suite.JSONEq(missing.Body.String(), w.Body.String())
		})
	}

	// The other tenant's data is intact
	var members int64
	suite.Require().NoError(suite.db.Model(&models.TeamMember{}).Where("team_id = ? AND is_active = ?", b.team.ID, true).Count(&members).Error)
	suite.Equal(int64(3), members)

	var submissions int64
	suite.Require().NoError(suite.db.Model(&models.TeamSubmission{}).Count(&submissions).Error)
	suite.Zero(submissions)
}

func (suite *HandlerTestSuite) TestSetMembers() {
	f := suite.tenant("north")
	m3 := suite.fx.User(f.org.ID, "north-m3", models.RoleEmployee)

	w := suite.request(f.admin, http.MethodPut, fmt.Sprintf("/api/teams/%d/members", f.team.ID), map[string]any{
		"memberIds": []uint64{m3.ID, f.m1.ID},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var membership dto.MembershipDTO
	suite.decode(w, &membership)
	suite.Equal(f.team.ID, membership.TeamID)
	ids := make([]uint64, len(membership.Members))
	for i, m := range membership.Members {
		ids[i] = m.ID
	}
	suite.Equal([]uint64{f.leader.ID, f.m1.ID, m3.ID}, ids)

	w = suite.request(f.m1, http.MethodPut, fmt.Sprintf("/api/teams/%d/members", f.team.ID), map[string]any{
		"memberIds": []uint64{f.m1.ID},
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(f.admin, http.MethodPut, fmt.Sprintf("/api/teams/%d/members", f.team.ID), map[string]any{
		"memberIds": []uint64{f.admin.ID},
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(f.admin, http.MethodGet, fmt.Sprintf("/api/teams/%d/members", f.team.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &membership)
	suite.Len(membership.Members, 3)
}

func (suite *HandlerTestSuite) TestCreateTeamAndSetLeader() {
	f := suite.tenant("north")
	leader := suite.fx.User(f.org.ID, "north-second-leader", models.RoleTeamLeader)
	next := suite.fx.User(f.org.ID, "north-next-leader", models.RoleTeamLeader)

	w := suite.request(f.admin, http.MethodPost, "/api/teams", map[string]any{"name": "Bravo", "teamLeaderId": leader.ID})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var team dto.TeamDTO
	suite.decode(w, &team)
	suite.Equal("Bravo", team.Name)

	w = suite.request(f.admin, http.MethodPost, "/api/teams", map[string]any{"name": "Charlie", "teamLeaderId": leader.ID})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.request(f.leader, http.MethodPost, "/api/teams", map[string]any{"name": "Delta", "teamLeaderId": next.ID})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(f.admin, http.MethodPut, fmt.Sprintf("/api/teams/%d/leader", team.ID), map[string]any{"teamLeaderId": next.ID})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &team)
	suite.Equal(next.ID, team.TeamLeaderID)

	w = suite.request(f.m1, http.MethodGet, "/api/teams", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Teams []dto.TeamDTO `json:"teams"`
	}
	suite.decode(w, &list)
	suite.Len(list.Teams, 2)
}

func (suite *HandlerTestSuite) TestUnauthenticated() {
	for _, p := range []string{"/api/teams", "/api/team-submissions/today", "/api/auth/me", "/api/daily-reports"} {
		w := suite.request(nil, http.MethodGet, p, nil)
		suite.Equal(http.StatusUnauthorized, w.Code, p)

		var apiErr apierrors.APIError
		suite.decode(w, &apiErr)
		suite.Equal(apierrors.ErrCodeUnauthorized, apiErr.Code)
	}
}
