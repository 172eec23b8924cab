package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/yukikurage/field-report-api/internal/dto"
	"github.com/yukikurage/field-report-api/internal/models"
)

func (suite *HandlerTestSuite) post(path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) TestRegisterLoginAndMe() {
	w := suite.post("/api/auth/register", map[string]string{
		"organizationName": "North Field Works",
		"username":         "founder",
		"password":         "supersecret",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var registered dto.UserDTO
	suite.decode(w, &registered)
	suite.Equal("founder", registered.Username)
	suite.Equal(models.RoleAdmin, registered.Role)

	// Registration starts a session
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	suite.router.ServeHTTP(me, req)
	suite.Require().Equal(http.StatusOK, me.Code)
	var current dto.UserDTO
	suite.decode(me, &current)
	suite.Equal(registered.ID, current.ID)

	w = suite.post("/api/auth/login", map[string]string{"username": "founder", "password": "supersecret"}, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Result().Cookies())

	w = suite.post("/api/auth/login", map[string]string{"username": "founder", "password": "wrong-password"}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.post("/api/auth/register", map[string]string{
		"organizationName": "South",
		"username":         "founder",
		"password":         "supersecret",
	}, nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.post("/api/auth/register", map[string]string{
		"organizationName": "South",
		"username":         "second",
		"password":         "short",
	}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUsers() {
	f := suite.tenant("north")

	w := suite.request(f.admin, http.MethodPost, "/api/users", map[string]string{
		"username": "north-new", "password": "supersecret", "displayName": "New Hire", "role": "employee",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.UserDTO
	suite.decode(w, &created)
	suite.Equal(f.org.ID, created.OrganizationID)

	w = suite.request(f.leader, http.MethodPost, "/api/users", map[string]string{
		"username": "north-other", "password": "supersecret", "role": "employee",
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(f.admin, http.MethodGet, "/api/users", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Users []dto.UserDTO `json:"users"`
	}
	suite.decode(w, &list)
	suite.Len(list.Users, 5)

	w = suite.request(f.m1, http.MethodGet, "/api/users", nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteOrganization() {
	f := suite.tenant("north")
	other := suite.tenant("south")
	root := suite.fx.User(f.org.ID, "north-root", models.RoleSuperAdmin)

	w := suite.request(f.admin, http.MethodDelete, "/api/organization", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(root, http.MethodDelete, "/api/organization", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// The deleted tenant's sessions no longer resolve
	w = suite.request(f.admin, http.MethodGet, "/api/organization", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(other.admin, http.MethodGet, "/api/organization", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var org dto.OrganizationDTO
	suite.decode(w, &org)
	suite.Equal("south", org.Name)
}
