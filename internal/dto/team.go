package dto

import (
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/services"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	TeamLeaderID uint64   `json:"teamLeaderId"`
	IsActive     bool     `json:"isActive"`
	TeamLeader   *UserDTO `json:"teamLeader,omitempty"`
}

// MemberStatusDTO is one row of a team's availability on a day
type MemberStatusDTO struct {
	UserID       uint64  `json:"userId"`
	DisplayName  string  `json:"displayName"`
	IsAvailable  bool    `json:"isAvailable"`
	AbsenceType  *string `json:"absenceType"`
	IsTeamLeader bool    `json:"isTeamLeader"`
}

// MembershipDTO is a team's effective member set
type MembershipDTO struct {
	TeamID  uint64    `json:"teamId"`
	Members []UserDTO `json:"members"`
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	dto := TeamDTO{
		ID:           team.ID,
		Name:         team.Name,
		TeamLeaderID: team.TeamLeaderID,
		IsActive:     team.IsActive,
	}

	// Include leader if preloaded
	if team.TeamLeader.ID != 0 {
		leader := ToUserDTO(team.TeamLeader)
		dto.TeamLeader = &leader
	}

	return dto
}

func ToTeamDTOs(teams []models.Team) []TeamDTO {
	dtos := make([]TeamDTO, len(teams))
	for i, team := range teams {
		dtos[i] = ToTeamDTO(team)
	}
	return dtos
}

// ToMemberStatusDTOs converts an availability snapshot, leader first
func ToMemberStatusDTOs(availability *services.Availability) []MemberStatusDTO {
	dtos := make([]MemberStatusDTO, len(availability.Members))
	for i, m := range availability.Members {
		dtos[i] = MemberStatusDTO{
			UserID:       m.User.ID,
			DisplayName:  m.User.DisplayName,
			IsAvailable:  m.IsAvailable,
			AbsenceType:  m.AbsenceType,
			IsTeamLeader: m.IsTeamLeader,
		}
	}
	return dtos
}

func ToMembershipDTO(teamID uint64, members []models.User) MembershipDTO {
	return MembershipDTO{
		TeamID:  teamID,
		Members: ToUserDTOs(members),
	}
}
