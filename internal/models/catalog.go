package models

import "time"

type Client struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	WorkOrders []WorkOrder `gorm:"foreignKey:ClientID" json:"work_orders,omitempty"`
}

// WorkOrder carries the closed catalogs of activity and material codes that
// reports against it may use.
type WorkOrder struct {
	ID                 uint64    `gorm:"primarykey" json:"id"`
	OrganizationID     uint64    `gorm:"not null;index" json:"organization_id"`
	ClientID           uint64    `gorm:"not null;index" json:"client_id"`
	Code               string    `gorm:"type:varchar(50);not null" json:"code"`
	Description        string    `gorm:"type:text" json:"description"`
	AvailableWorkTypes []string  `gorm:"type:text;serializer:json" json:"available_work_types"`
	AvailableMaterials []string  `gorm:"type:text;serializer:json" json:"available_materials"`
	IsActive           bool      `gorm:"not null" json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
