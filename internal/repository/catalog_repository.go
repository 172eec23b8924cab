package repository

import (
	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogRepository is a GORM implementation of CatalogRepository
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

// CreateClient creates a client owned by the tenant
func (r *GormCatalogRepository) CreateClient(t tenant.ID, client *models.Client) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}
	client.OrganizationID = t.OrganizationID()
	return r.db.Omit(clause.Associations).Create(client).Error
}

// FindClient finds a client of the tenant
func (r *GormCatalogRepository) FindClient(t tenant.ID, id uint64) (*models.Client, error) {
	var client models.Client
	if err := r.db.Scopes(database.ForTenant(t, "clients")).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients lists the tenant's clients
func (r *GormCatalogRepository) ListClients(t tenant.ID) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.Scopes(database.ForTenant(t, "clients")).
		Order("clients.name ASC, clients.id ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateWorkOrder creates a work order owned by the tenant
func (r *GormCatalogRepository) CreateWorkOrder(t tenant.ID, order *models.WorkOrder) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}
	order.OrganizationID = t.OrganizationID()
	return r.db.Create(order).Error
}

// FindWorkOrder finds a work order of the tenant
func (r *GormCatalogRepository) FindWorkOrder(t tenant.ID, id uint64) (*models.WorkOrder, error) {
	var order models.WorkOrder
	if err := r.db.Scopes(database.ForTenant(t, "work_orders")).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListWorkOrders lists the work orders of one of the tenant's clients
func (r *GormCatalogRepository) ListWorkOrders(t tenant.ID, clientID uint64) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	if err := r.db.Scopes(database.ForTenant(t, "work_orders")).
		Where("work_orders.client_id = ?", clientID).
		Order("work_orders.code ASC, work_orders.id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
