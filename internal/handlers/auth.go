package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/constants"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register opens a new organization with its first administrator and logs
// them in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		OrganizationName string `json:"organizationName" binding:"required,max=255"`
		Username         string `json:"username" binding:"required,min=3,max=100"`
		Password         string `json:"password" binding:"required"`
		DisplayName      string `json:"displayName" binding:"max=255"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		OrganizationName: req.OrganizationName,
		Username:         req.Username,
		Password:         req.Password,
		DisplayName:      req.DisplayName,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !startSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !startSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func startSession(c *gin.Context, userID uint64) bool {
	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequestWithDetails(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength), gin.H{"field": "password"})
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "")
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, "")
	default:
		apierrors.RespondWithDomainError(c, err)
	}
}
