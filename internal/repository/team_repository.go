package repository

import (
	"time"

	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team and its leader's membership in one transaction
func (r *GormTeamRepository) Create(t tenant.ID, team *models.Team) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}
	team.OrganizationID = t.OrganizationID()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}

		return activateMembers(tx, t, team.ID, []uint64{team.TeamLeaderID})
	})
}

// FindByID finds a team of the tenant with its leader
func (r *GormTeamRepository) FindByID(t tenant.ID, id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.Scopes(database.ForTenant(t, "teams")).
		Preload("TeamLeader").
		First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindActiveByLeader finds the active team led by leaderID
func (r *GormTeamRepository) FindActiveByLeader(t tenant.ID, leaderID uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.Scopes(database.ForTenant(t, "teams")).
		Preload("TeamLeader").
		Where("teams.team_leader_id = ? AND teams.is_active = ?", leaderID, true).
		Order("teams.id ASC").
		First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List lists the tenant's teams
func (r *GormTeamRepository) List(t tenant.ID) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Scopes(database.ForTenant(t, "teams")).
		Preload("TeamLeader").
		Order("teams.name ASC, teams.id ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// UpdateLeader points the team at a new leader and makes them an active member.
// The previous leader keeps their membership.
func (r *GormTeamRepository) UpdateLeader(t tenant.ID, teamID, leaderID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Team{}).
			Scopes(database.ForTenant(t, "teams")).
			Where("teams.id = ?", teamID).
			Update("team_leader_id", leaderID).Error; err != nil {
			return err
		}

		return activateMembers(tx, t, teamID, []uint64{leaderID})
	})
}

// ReplaceMembers deactivates every membership not in memberIDs and activates
// (inserting where needed) the listed ones, atomically.
func (r *GormTeamRepository) ReplaceMembers(t tenant.ID, teamID uint64, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		deactivate := tx.Model(&models.TeamMember{}).
			Scopes(database.ForTenant(t, "team_members")).
			Where("team_members.team_id = ?", teamID)
		if len(memberIDs) > 0 {
			deactivate = deactivate.Where("team_members.user_id NOT IN ?", memberIDs)
		}
		if err := deactivate.Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}

		if len(memberIDs) == 0 {
			return nil
		}
		return activateMembers(tx, t, teamID, memberIDs)
	})
}

// ListActiveMembers lists the active memberships of a team with their users
func (r *GormTeamRepository) ListActiveMembers(t tenant.ID, teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Scopes(database.ForTenant(t, "team_members")).
		Preload("User").
		Where("team_members.team_id = ? AND team_members.is_active = ?", teamID, true).
		Order("team_members.user_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// activateMembers upserts active membership rows for userIDs
func activateMembers(tx *gorm.DB, t tenant.ID, teamID uint64, userIDs []uint64) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}

	now := time.Now()
	members := make([]models.TeamMember, len(userIDs))
	for i, userID := range userIDs {
		members[i] = models.TeamMember{
			TeamID:         teamID,
			UserID:         userID,
			OrganizationID: t.OrganizationID(),
			IsActive:       true,
			JoinedAt:       now,
		}
	}

	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true, "updated_at": now}),
		}).
		Omit(clause.Associations).
		Create(&members).Error
}
