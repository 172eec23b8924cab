package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleEmployee   UserRole = "employee"
	RoleTeamLeader UserRole = "teamleader"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleEmployee, RoleTeamLeader, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// FieldRole reports whether users with this role work in teams.
func (r UserRole) FieldRole() bool {
	switch r {
	case RoleEmployee, RoleTeamLeader:
		return true
	case RoleAdmin, RoleSuperAdmin:
		return false
	default:
		return false
	}
}

type User struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Username       string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName    string         `gorm:"type:varchar(255)" json:"display_name"`
	Role           UserRole       `gorm:"type:varchar(20);not null" json:"role"`
	IsActive       bool           `gorm:"not null" json:"is_active"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
