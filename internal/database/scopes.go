package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/field-report-api/internal/tenant"
	"github.com/yukikurage/field-report-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ForTenant restricts a query on table to the rows of one organization. An
// unresolved tenant poisons the statement so it never reaches the database.
func ForTenant(t tenant.ID, table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !t.Valid() {
			_ = db.AddError(tenant.ErrUnresolved)
			return db
		}
		return db.Where(table+".organization_id = ?", t.OrganizationID())
	}
}
