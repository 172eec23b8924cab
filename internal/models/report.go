package models

import "time"

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusApproved, ReportStatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the approval workflow allows s -> next.
// Approved and rejected are terminal.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case ReportStatusPending:
		return next == ReportStatusApproved || next == ReportStatusRejected
	case ReportStatusApproved, ReportStatusRejected:
		return false
	default:
		return false
	}
}

// TeamSubmission is the single per-day report a team leader files for the
// team. At most one exists per (team, date).
type TeamSubmission struct {
	ID                uint64       `gorm:"primarykey" json:"id"`
	OrganizationID    uint64       `gorm:"not null;index" json:"organization_id"`
	TeamID            uint64       `gorm:"not null;uniqueIndex:idx_team_submissions_team_date" json:"team_id"`
	Date              string       `gorm:"type:varchar(10);not null;uniqueIndex:idx_team_submissions_team_date" json:"date"`
	ClientID          uint64       `gorm:"not null" json:"client_id"`
	WorkOrderID       uint64       `gorm:"not null" json:"work_order_id"`
	Hours             float64      `gorm:"not null" json:"hours"`
	Notes             string       `gorm:"type:text" json:"notes"`
	SelectedMemberIDs []uint64     `gorm:"type:text;serializer:json" json:"selected_member_ids"`
	WorkTypes         []string     `gorm:"type:text;serializer:json" json:"work_types"`
	Materials         []string     `gorm:"type:text;serializer:json" json:"materials"`
	Status            ReportStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedByID       uint64       `gorm:"not null" json:"created_by_id"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// DailyReport is one employee's record of a working day. TeamSubmissionID is
// set when the report was generated by a team submission fan-out.
type DailyReport struct {
	ID               uint64       `gorm:"primarykey" json:"id"`
	OrganizationID   uint64       `gorm:"not null;index" json:"organization_id"`
	EmployeeID       uint64       `gorm:"not null;index" json:"employee_id"`
	Date             string       `gorm:"type:varchar(10);not null;index" json:"date"`
	Status           ReportStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TeamSubmissionID *uint64      `gorm:"index" json:"team_submission_id"`
	ReviewedByID     *uint64      `json:"reviewed_by_id"`
	ReviewedAt       *time.Time   `json:"reviewed_at"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// Relations
	Employee   User        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Operations []Operation `gorm:"foreignKey:DailyReportID" json:"operations,omitempty"`
}

type Operation struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	DailyReportID  uint64    `gorm:"not null;index" json:"daily_report_id"`
	ClientID       uint64    `gorm:"not null" json:"client_id"`
	WorkOrderID    uint64    `gorm:"not null" json:"work_order_id"`
	WorkTypes      []string  `gorm:"type:text;serializer:json" json:"work_types"`
	Materials      []string  `gorm:"type:text;serializer:json" json:"materials"`
	Hours          float64   `gorm:"not null" json:"hours"`
	Notes          string    `gorm:"type:text" json:"notes"`
	Photos         []string  `gorm:"type:text;serializer:json" json:"photos"`
	CreatedAt      time.Time `json:"created_at"`
}
