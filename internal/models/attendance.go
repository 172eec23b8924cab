package models

import "time"

// AttendanceEntry records an absence of a user on a day. No row means the
// user is available.
type AttendanceEntry struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	UserID         uint64    `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	Date           string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_user_date;index" json:"date"`
	AbsenceType    string    `gorm:"type:varchar(10);not null" json:"absence_type"`
	Notes          string    `gorm:"type:text" json:"notes"`
	RecordedByID   uint64    `gorm:"not null" json:"recorded_by_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
