package services

import (
	"strings"

	"github.com/yukikurage/field-report-api/internal/authz"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/metrics"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
)

// CatalogService manages clients and the work orders they commission.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	guard       ownershipGuard
	authorizer  *authz.Authorizer
	recorder    *metrics.Recorder
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogRepo repository.CatalogRepository, owners repository.OwnershipRepository, authorizer *authz.Authorizer, recorder *metrics.Recorder) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		guard:       ownershipGuard{owners: owners},
		authorizer:  authorizer,
		recorder:    recorder,
	}
}

// CreateClient adds a client to the tenant
func (s *CatalogService) CreateClient(t tenant.ID, actor Actor, name string) (*models.Client, error) {
	if err := requirePermission(s.authorizer, actor, authz.CatalogManage); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierrors.NewValidation("name", "client name is required")
	}

	client := &models.Client{Name: name, IsActive: true}
	if err := s.catalogRepo.CreateClient(t, client); err != nil {
		return nil, apierrors.NewPersistence("failed to create client", err)
	}

	s.recorder.Mutation("catalog", "create_client")
	return client, nil
}

// ListClients lists the tenant's clients
func (s *CatalogService) ListClients(t tenant.ID) ([]models.Client, error) {
	clients, err := s.catalogRepo.ListClients(t)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to list clients", err)
	}
	return clients, nil
}

// GetClient returns a client of the tenant
func (s *CatalogService) GetClient(t tenant.ID, id uint64) (*models.Client, error) {
	client, err := s.catalogRepo.FindClient(t, id)
	if err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceClient, id, err)
	}
	return client, nil
}

// CreateWorkOrderInput represents input for creating a work order
type CreateWorkOrderInput struct {
	ClientID           uint64
	Code               string
	Description        string
	AvailableWorkTypes []string
	AvailableMaterials []string
}

// CreateWorkOrder adds a work order under one of the tenant's clients
func (s *CatalogService) CreateWorkOrder(t tenant.ID, actor Actor, input CreateWorkOrderInput) (*models.WorkOrder, error) {
	if err := requirePermission(s.authorizer, actor, authz.CatalogManage); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, apierrors.NewValidation("code", "work order code is required")
	}

	if _, err := s.GetClient(t, input.ClientID); err != nil {
		return nil, err
	}

	order := &models.WorkOrder{
		ClientID:           input.ClientID,
		Code:               code,
		Description:        strings.TrimSpace(input.Description),
		AvailableWorkTypes: cleanCatalog(input.AvailableWorkTypes),
		AvailableMaterials: cleanCatalog(input.AvailableMaterials),
		IsActive:           true,
	}
	if err := s.catalogRepo.CreateWorkOrder(t, order); err != nil {
		return nil, apierrors.NewPersistence("failed to create work order", err)
	}

	s.recorder.Mutation("catalog", "create_work_order")
	return order, nil
}

// ListWorkOrders lists the work orders of one of the tenant's clients
func (s *CatalogService) ListWorkOrders(t tenant.ID, clientID uint64) ([]models.WorkOrder, error) {
	if _, err := s.GetClient(t, clientID); err != nil {
		return nil, err
	}

	orders, err := s.catalogRepo.ListWorkOrders(t, clientID)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to list work orders", err)
	}
	return orders, nil
}

// GetWorkOrder returns a work order of the tenant
func (s *CatalogService) GetWorkOrder(t tenant.ID, id uint64) (*models.WorkOrder, error) {
	order, err := s.catalogRepo.FindWorkOrder(t, id)
	if err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceWorkOrder, id, err)
	}
	return order, nil
}

// cleanCatalog trims codes and drops blanks and duplicates, keeping order.
func cleanCatalog(codes []string) []string {
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			cleaned = append(cleaned, code)
		}
	}
	return uniqueStrings(cleaned)
}
