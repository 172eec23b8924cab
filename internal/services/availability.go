package services

import (
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"github.com/yukikurage/field-report-api/internal/utils"
)

// MemberStatus is one team member's availability on a day.
type MemberStatus struct {
	User         models.User
	IsAvailable  bool
	AbsenceType  *string
	IsTeamLeader bool
}

// Absence is an unavailable member and the reason recorded in the ledger.
type Absence struct {
	UserID      uint64
	AbsenceType string
}

// Availability partitions a team's effective members on one day. It is a
// snapshot taken at read time.
type Availability struct {
	Team    *models.Team
	Date    string
	Members []MemberStatus
}

// Available returns the IDs of members with no absence entry, in roster order.
func (a *Availability) Available() []uint64 {
	ids := make([]uint64, 0, len(a.Members))
	for _, m := range a.Members {
		if m.IsAvailable {
			ids = append(ids, m.User.ID)
		}
	}
	return ids
}

// Unavailable returns the absent members with their absence type.
func (a *Availability) Unavailable() []Absence {
	absences := make([]Absence, 0)
	for _, m := range a.Members {
		if !m.IsAvailable {
			absences = append(absences, Absence{UserID: m.User.ID, AbsenceType: *m.AbsenceType})
		}
	}
	return absences
}

// IsMember reports whether userID is an effective member of the team.
func (a *Availability) IsMember(userID uint64) bool {
	for _, m := range a.Members {
		if m.User.ID == userID {
			return true
		}
	}
	return false
}

// IsAvailable reports whether userID is an available member.
func (a *Availability) IsAvailable(userID uint64) bool {
	for _, m := range a.Members {
		if m.User.ID == userID {
			return m.IsAvailable
		}
	}
	return false
}

// AvailabilityService crosses the roster with the attendance ledger.
type AvailabilityService struct {
	roster     *RosterService
	attendance *AttendanceService
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(roster *RosterService, attendance *AttendanceService) *AvailabilityService {
	return &AvailabilityService{
		roster:     roster,
		attendance: attendance,
	}
}

// ComputeAvailability returns, for every effective member of the team, whether
// they are available on date.
func (s *AvailabilityService) ComputeAvailability(t tenant.ID, teamID uint64, date string) (*Availability, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, apierrors.NewValidation("date", err.Error())
	}

	team, err := s.roster.GetTeam(t, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.roster.GetMembers(t, team.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	absences, err := s.attendance.GetAbsences(t, ids, day)
	if err != nil {
		return nil, err
	}

	statuses := make([]MemberStatus, len(members))
	for i, m := range members {
		status := MemberStatus{
			User:         m,
			IsAvailable:  true,
			IsTeamLeader: m.ID == team.TeamLeaderID,
		}
		if absenceType, absent := absences[m.ID]; absent {
			absenceType := absenceType
			status.IsAvailable = false
			status.AbsenceType = &absenceType
		}
		statuses[i] = status
	}

	return &Availability{Team: team, Date: day, Members: statuses}, nil
}
