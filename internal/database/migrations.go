package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/field-report-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the tenant-scoped queries rely on.
// Unique indexes are declared on the models themselves.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		table   string
		name    string
		columns string
	}{
		// Team lookups
		{&models.Team{}, "teams", "idx_teams_org_leader", "organization_id, team_leader_id"},
		{&models.TeamMember{}, "team_members", "idx_team_members_org_team", "organization_id, team_id"},

		// Ledger reads for a whole roster on one day
		{&models.AttendanceEntry{}, "attendance_entries", "idx_attendance_org_date", "organization_id, date"},

		// Catalog
		{&models.WorkOrder{}, "work_orders", "idx_work_orders_org_client", "organization_id, client_id"},

		// Report review
		{&models.DailyReport{}, "daily_reports", "idx_daily_reports_org_date", "organization_id, date"},
		{&models.DailyReport{}, "daily_reports", "idx_daily_reports_org_status", "organization_id, status"},
		{&models.Operation{}, "operations", "idx_operations_org_report", "organization_id, daily_report_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
