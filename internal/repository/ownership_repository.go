package repository

import (
	"fmt"

	"github.com/yukikurage/field-report-api/internal/models"
	"gorm.io/gorm"
)

// GormOwnershipRepository is a GORM implementation of OwnershipRepository
type GormOwnershipRepository struct {
	db *gorm.DB
}

// NewOwnershipRepository creates a new OwnershipRepository
func NewOwnershipRepository(db *gorm.DB) OwnershipRepository {
	return &GormOwnershipRepository{db: db}
}

// OrganizationOf returns the organization owning the row, or
// gorm.ErrRecordNotFound when no such row exists anywhere.
func (r *GormOwnershipRepository) OrganizationOf(resource Resource, id uint64) (uint64, error) {
	var model any
	switch resource {
	case ResourceUser:
		model = &models.User{}
	case ResourceTeam:
		model = &models.Team{}
	case ResourceClient:
		model = &models.Client{}
	case ResourceWorkOrder:
		model = &models.WorkOrder{}
	case ResourceDailyReport:
		model = &models.DailyReport{}
	default:
		return 0, fmt.Errorf("ownership repository: unknown resource %q", resource)
	}

	var owners []uint64
	if err := r.db.Model(model).
		Where("id = ?", id).
		Limit(1).
		Pluck("organization_id", &owners).Error; err != nil {
		return 0, err
	}
	if len(owners) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return owners[0], nil
}
