package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/database"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/metrics"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
)

const maxTeamNameLength = 100

// RosterService manages teams, their leader and their active membership.
// The leader is always an active member of their team.
type RosterService struct {
	teamRepo   repository.TeamRepository
	userRepo   repository.UserRepository
	guard      ownershipGuard
	authorizer *authz.Authorizer
	recorder   *metrics.Recorder
}

// NewRosterService creates a new RosterService
func NewRosterService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	owners repository.OwnershipRepository,
	authorizer *authz.Authorizer,
	recorder *metrics.Recorder,
) *RosterService {
	return &RosterService{
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		guard:      ownershipGuard{owners: owners},
		authorizer: authorizer,
		recorder:   recorder,
	}
}

// CreateTeam creates a team led by leaderID, who becomes its first member
func (s *RosterService) CreateTeam(t tenant.ID, actor Actor, name string, leaderID uint64) (*models.Team, error) {
	if err := requirePermission(s.authorizer, actor, authz.TeamsManage); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierrors.NewValidation("name", "team name is required")
	}
	if len(name) > maxTeamNameLength {
		return nil, apierrors.NewValidation("name", fmt.Sprintf("team name must be at most %d characters", maxTeamNameLength))
	}

	leader, err := s.eligibleLeader(t, leaderID, 0)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:         name,
		TeamLeaderID: leader.ID,
		IsActive:     true,
	}
	if err := s.teamRepo.Create(t, team); err != nil {
		return nil, apierrors.NewPersistence("failed to create team", err)
	}
	team.TeamLeader = *leader

	s.recorder.Mutation("roster", "create_team")
	return team, nil
}

// SetLeader hands leadership of a team to newLeaderID. The previous leader
// stays a member.
func (s *RosterService) SetLeader(t tenant.ID, actor Actor, teamID, newLeaderID uint64) (*models.Team, error) {
	if err := requirePermission(s.authorizer, actor, authz.TeamsManage); err != nil {
		return nil, err
	}

	team, err := s.GetTeam(t, teamID)
	if err != nil {
		return nil, err
	}

	if team.TeamLeaderID != newLeaderID {
		if _, err := s.eligibleLeader(t, newLeaderID, team.ID); err != nil {
			return nil, err
		}
	}

	if err := s.teamRepo.UpdateLeader(t, team.ID, newLeaderID); err != nil {
		return nil, apierrors.NewPersistence("failed to update team leader", err)
	}

	s.recorder.Mutation("roster", "set_leader")
	return s.GetTeam(t, team.ID)
}

// SetMembers replaces the active members of a team. Duplicates collapse and
// the leader is reinstated when omitted. Administrators and the team's own
// leader may change membership.
func (s *RosterService) SetMembers(t tenant.ID, actor Actor, teamID uint64, memberIDs []uint64) ([]models.User, error) {
	team, err := s.GetTeam(t, teamID)
	if err != nil {
		return nil, err
	}

	if team.TeamLeaderID != actor.UserID && !allowed(s.authorizer, actor, authz.TeamsManage) {
		return nil, apierrors.NewAuthorization("only an administrator or the team leader can change team members")
	}

	ids := uniqueUint64(append([]uint64{team.TeamLeaderID}, memberIDs...))

	users, err := s.userRepo.FindByIDs(t, ids)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to load members", err)
	}

	byID := make(map[uint64]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, s.guard.lookupFailed(t, repository.ResourceUser, id, gorm.ErrRecordNotFound)
		}
		if !u.IsActive || !u.Role.FieldRole() {
			return nil, apierrors.NewValidation("memberIds", fmt.Sprintf("user %d is not an active employee or team leader", id))
		}
	}

	if err := s.teamRepo.ReplaceMembers(t, team.ID, ids); err != nil {
		return nil, apierrors.NewPersistence("failed to update team members", err)
	}

	s.recorder.Mutation("roster", "set_members")
	return s.GetMembers(t, team.ID)
}

// GetMembers returns the effective members of a team: active memberships of
// active users, leader first.
func (s *RosterService) GetMembers(t tenant.ID, teamID uint64) ([]models.User, error) {
	team, err := s.GetTeam(t, teamID)
	if err != nil {
		return nil, err
	}

	rows, err := s.teamRepo.ListActiveMembers(t, team.ID)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to list team members", err)
	}

	members := make([]models.User, 0, len(rows)+1)
	if team.TeamLeader.ID == team.TeamLeaderID && team.TeamLeader.IsActive {
		members = append(members, team.TeamLeader)
	}
	for _, row := range rows {
		if row.UserID == team.TeamLeaderID || !row.User.IsActive {
			continue
		}
		members = append(members, row.User)
	}

	return members, nil
}

// GetByLeader returns the active team led by leaderID
func (s *RosterService) GetByLeader(t tenant.ID, leaderID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindActiveByLeader(t, leaderID)
	if err == nil {
		return team, nil
	}
	if !database.IsNotFound(err) {
		return nil, apierrors.NewPersistence("failed to find team", err)
	}

	// Tell a foreign leader apart from one who simply leads no team.
	if _, err := s.userRepo.FindByID(t, leaderID); err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceUser, leaderID, err)
	}
	return nil, apierrors.NewNotFound("team led by user", leaderID)
}

// GetTeam returns a team of the tenant with its leader
func (s *RosterService) GetTeam(t tenant.ID, teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(t, teamID)
	if err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceTeam, teamID, err)
	}
	return team, nil
}

// ListTeams lists the tenant's teams
func (s *RosterService) ListTeams(t tenant.ID) ([]models.Team, error) {
	teams, err := s.teamRepo.List(t)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to list teams", err)
	}
	return teams, nil
}

// eligibleLeader checks that userID can lead a team: an active field user of
// the tenant not already leading another active team than exceptTeamID.
func (s *RosterService) eligibleLeader(t tenant.ID, userID, exceptTeamID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(t, userID)
	if err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceUser, userID, err)
	}
	if !user.IsActive || !user.Role.FieldRole() {
		return nil, apierrors.NewValidation("teamLeaderId", "team leader must be an active employee or team leader")
	}

	existing, err := s.teamRepo.FindActiveByLeader(t, userID)
	switch {
	case err == nil && existing.ID != exceptTeamID:
		return nil, apierrors.NewConflict(fmt.Sprintf("user %d already leads team %d", userID, existing.ID))
	case err != nil && !database.IsNotFound(err):
		return nil, apierrors.NewPersistence("failed to check existing leadership", err)
	}

	return user, nil
}
