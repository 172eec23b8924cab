package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/services"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// CreateUser adds a user to the caller's organization
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username    string          `json:"username" binding:"required,min=3,max=100"`
		Password    string          `json:"password" binding:"required"`
		DisplayName string          `json:"displayName" binding:"max=255"`
		Role        models.UserRole `json:"role" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.CreateUser(middleware.GetTenant(c), middleware.GetActor(c), services.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ListUsers lists the users of the caller's organization
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(middleware.GetTenant(c))
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.authService.GetUser(middleware.GetTenant(c), id)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
