package models

import "time"

type Team struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	TeamLeaderID   uint64    `gorm:"not null;index" json:"team_leader_id"`
	IsActive       bool      `gorm:"not null;index" json:"is_active"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	TeamLeader User         `gorm:"foreignKey:TeamLeaderID" json:"team_leader,omitempty"`
	Members    []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember is a (team, user) pair. Rows are deactivated rather than deleted
// so a removal never rewrites history.
type TeamMember struct {
	TeamID         uint64    `gorm:"primarykey" json:"team_id"`
	UserID         uint64    `gorm:"primarykey" json:"user_id"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	JoinedAt       time.Time `json:"joined_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
