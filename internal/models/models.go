package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Organization{},
		&User{},
		&Team{},
		&TeamMember{},
		&AttendanceEntry{},
		&Client{},
		&WorkOrder{},
		&TeamSubmission{},
		&DailyReport{},
		&Operation{},
	}
}
