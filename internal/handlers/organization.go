package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// GetOrganization returns the caller's organization
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, err := h.orgService.GetOrganization(middleware.GetTenant(c))
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// DeleteOrganization deletes the caller's organization with all of its data
// and ends the session
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	if err := h.orgService.DeleteOrganization(middleware.GetTenant(c), middleware.GetActor(c)); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	middleware.ClearSession(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Organization deleted successfully",
	})
}
