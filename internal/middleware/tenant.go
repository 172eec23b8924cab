package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/constants"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/services"
	"github.com/yukikurage/field-report-api/internal/tenant"
)

// PrincipalResolver loads the session user and the organization they act in.
type PrincipalResolver interface {
	ResolvePrincipal(userID uint64) (*models.User, tenant.ID, error)
}

// RequireTenant resolves the tenant of the authenticated user. It must run
// after RequireAuth. A session whose user no longer exists is cleared.
func RequireTenant(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, t, err := resolver.ResolvePrincipal(userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				ClearSession(c)
				apierrors.Unauthorized(c, "")
			case apierrors.KindOf(err) == apierrors.KindAuthorization:
				apierrors.Forbidden(c, "Account is deactivated")
			default:
				slog.Error("failed to resolve principal", "user_id", userID, "error", err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTenant, t)
		c.Set(constants.ContextKeyPrincipal, user)
		c.Next()
	}
}

// ClearSession drops the caller's session. A store failure is logged and the
// request carries on.
func ClearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		slog.Error("failed to clear session", "path", c.Request.URL.Path, "error", err)
	}
}

// GetTenant retrieves the tenant resolved by RequireTenant. The zero ID is
// returned when none was resolved, and every scoped query rejects it.
func GetTenant(c *gin.Context) tenant.ID {
	value, exists := c.Get(constants.ContextKeyTenant)
	if !exists {
		return tenant.ID{}
	}
	t, _ := value.(tenant.ID)
	return t
}

// GetPrincipal retrieves the user loaded by RequireTenant.
func GetPrincipal(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetActor returns the caller as the services see it.
func GetActor(c *gin.Context) services.Actor {
	user, ok := GetPrincipal(c)
	if !ok {
		return services.Actor{}
	}
	return services.ActorFromUser(user)
}

// RequirePermission aborts with 403 unless the principal's role grants perm.
func RequirePermission(authorizer *authz.Authorizer, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		allowed, err := authorizer.Allowed(user.Role, perm)
		if err != nil {
			slog.Error("authorization check failed", "permission", perm, "error", err)
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !allowed {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// NoStore marks tenant-scoped responses as uncacheable by shared caches.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
