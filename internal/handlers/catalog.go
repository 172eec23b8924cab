package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/services"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListClients(c *gin.Context) {
	clients, err := h.catalog.ListClients(middleware.GetTenant(c))
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": dto.ToClientDTOs(clients)})
}

func (h *CatalogHandler) CreateClient(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=255"`
	}
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.catalog.CreateClient(middleware.GetTenant(c), middleware.GetActor(c), req.Name)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToClientDTO(*client))
}

// ListWorkOrders lists the work orders of a client
func (h *CatalogHandler) ListWorkOrders(c *gin.Context) {
	clientID, ok := idParam(c, "clientId")
	if !ok {
		return
	}

	orders, err := h.catalog.ListWorkOrders(middleware.GetTenant(c), clientID)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"work_orders": dto.ToWorkOrderDTOs(orders)})
}

func (h *CatalogHandler) CreateWorkOrder(c *gin.Context) {
	var req struct {
		ClientID           uint64   `json:"clientId" binding:"required"`
		Code               string   `json:"code" binding:"required,max=50"`
		Description        string   `json:"description"`
		AvailableWorkTypes []string `json:"availableWorkTypes"`
		AvailableMaterials []string `json:"availableMaterials"`
	}
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.catalog.CreateWorkOrder(middleware.GetTenant(c), middleware.GetActor(c), services.CreateWorkOrderInput{
		ClientID:           req.ClientID,
		Code:               req.Code,
		Description:        req.Description,
		AvailableWorkTypes: req.AvailableWorkTypes,
		AvailableMaterials: req.AvailableMaterials,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkOrderDTO(*order))
}
