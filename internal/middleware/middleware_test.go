package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/constants"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/services"
	"github.com/yukikurage/field-report-api/internal/testutil"
	"gorm.io/gorm"
)

type middlewareEnv struct {
	router *gin.Engine
	db     *gorm.DB
	fx     *testutil.Fixtures
	org    *models.Organization
}

func setupMiddlewareEnv(t *testing.T) *middlewareEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	authorizer := authz.NewDefaultAuthorizer()
	authService := services.NewAuthService(repository.NewUserRepository(db), repository.NewOwnershipRepository(db), authorizer)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	r.GET("/login/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, id)
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	scoped := r.Group("/scoped", RequireAuth(), RequireTenant(authService), NoStore())
	scoped.GET("/whoami", func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":         actor.UserID,
			"role":            actor.Role,
			"organization_id": GetTenant(c).OrganizationID(),
		})
	})
	scoped.GET("/admin", RequirePermission(authorizer, authz.TeamsManage), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	fx := testutil.NewFixtures(t, db)
	org, _ := fx.Organization("north")
	return &middlewareEnv{router: r, db: db, fx: fx, org: org}
}

// as logs in as userID and replays the session cookie on a request to path.
func (env *middlewareEnv) as(t *testing.T, userID uint64, path string) *httptest.ResponseRecorder {
	t.Helper()

	login := httptest.NewRecorder()
	env.router.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login/"+strconv.FormatUint(userID, 10), nil))
	require.Equal(t, http.StatusNoContent, login.Code)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_NoSession(t *testing.T) {
	env := setupMiddlewareEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scoped/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireTenant(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.fx.User(env.org.ID, "worker", models.RoleEmployee)

	w := env.as(t, user.ID, "/scoped/whoami")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t,
		`{"user_id":`+strconv.FormatUint(user.ID, 10)+`,"role":"employee","organization_id":`+strconv.FormatUint(env.org.ID, 10)+`}`,
		w.Body.String())
}

func TestRequireTenant_Rejects(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.fx.User(env.org.ID, "gone", models.RoleEmployee)
	require.NoError(t, env.db.Model(user).Update("is_active", false).Error)

	assert.Equal(t, http.StatusForbidden, env.as(t, user.ID, "/scoped/whoami").Code)
	assert.Equal(t, http.StatusUnauthorized, env.as(t, 9999, "/scoped/whoami").Code)
}

func TestRequirePermission(t *testing.T) {
	env := setupMiddlewareEnv(t)
	employee := env.fx.User(env.org.ID, "worker", models.RoleEmployee)
	admin := env.fx.User(env.org.ID, "admin", models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, env.as(t, employee.ID, "/scoped/admin").Code)
	assert.Equal(t, http.StatusOK, env.as(t, admin.ID, "/scoped/admin").Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	generated := w.Header().Get(constants.HeaderRequestID)
	assert.NotEmpty(t, generated)
	body, _ := io.ReadAll(w.Body)
	assert.Equal(t, generated, string(body))
	assert.Contains(t, buf.String(), `"request_id":"`+generated+`"`)
	assert.Contains(t, buf.String(), `"path":"/ping"`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderRequestID, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(constants.HeaderRequestID))
}

// unsavableSession is a session whose store rejects every write.
type unsavableSession struct {
	sessions.Session
}

func (unsavableSession) Save() error {
	return errors.New("session store unavailable")
}

func TestClearSession_LogsSaveFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.Use(func(c *gin.Context) {
		c.Set(sessions.DefaultKey, unsavableSession{Session: sessions.Default(c)})
		c.Next()
	})
	r.POST("/logout", func(c *gin.Context) {
		ClearSession(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, buf.String(), `"msg":"failed to clear session"`)
	assert.Contains(t, buf.String(), `"error":"session store unavailable"`)
	assert.Contains(t, buf.String(), `"path":"/logout"`)
}
