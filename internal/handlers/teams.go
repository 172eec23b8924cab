package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/services"
)

// TeamHandler serves the roster and the availability of its members.
type TeamHandler struct {
	roster       *services.RosterService
	availability *services.AvailabilityService
	today        func() string
}

// NewTeamHandler creates a new TeamHandler. today supplies the default day
// of the members-status endpoint.
func NewTeamHandler(roster *services.RosterService, availability *services.AvailabilityService, today func() string) *TeamHandler {
	return &TeamHandler{
		roster:       roster,
		availability: availability,
		today:        today,
	}
}

// GetByLeader returns the active team led by a user
func (h *TeamHandler) GetByLeader(c *gin.Context) {
	leaderID, ok := idParam(c, "leaderId")
	if !ok {
		return
	}

	team, err := h.roster.GetByLeader(middleware.GetTenant(c), leaderID)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// GetMembersStatus returns every member of the team with their availability
// on ?date=, today when omitted
func (h *TeamHandler) GetMembersStatus(c *gin.Context) {
	teamID, ok := idParam(c, "teamId")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		date = h.today()
	}

	availability, err := h.availability.ComputeAvailability(middleware.GetTenant(c), teamID, date)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberStatusDTOs(availability))
}

// GetMembers returns the team's effective member set
func (h *TeamHandler) GetMembers(c *gin.Context) {
	teamID, ok := idParam(c, "teamId")
	if !ok {
		return
	}

	members, err := h.roster.GetMembers(middleware.GetTenant(c), teamID)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipDTO(teamID, members))
}

// SetMembers replaces the team's member set. The leader is kept even when
// omitted from member_ids.
func (h *TeamHandler) SetMembers(c *gin.Context) {
	teamID, ok := idParam(c, "teamId")
	if !ok {
		return
	}

	var req struct {
		MemberIDs []uint64 `json:"memberIds" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	members, err := h.roster.SetMembers(middleware.GetTenant(c), middleware.GetActor(c), teamID, req.MemberIDs)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipDTO(teamID, members))
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		TeamLeaderID uint64 `json:"teamLeaderId" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.roster.CreateTeam(middleware.GetTenant(c), middleware.GetActor(c), req.Name, req.TeamLeaderID)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.roster.ListTeams(middleware.GetTenant(c))
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": dto.ToTeamDTOs(teams)})
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := idParam(c, "teamId")
	if !ok {
		return
	}

	team, err := h.roster.GetTeam(middleware.GetTenant(c), teamID)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// SetLeader hands the team to another leader
func (h *TeamHandler) SetLeader(c *gin.Context) {
	teamID, ok := idParam(c, "teamId")
	if !ok {
		return
	}

	var req struct {
		TeamLeaderID uint64 `json:"teamLeaderId" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.roster.SetLeader(middleware.GetTenant(c), middleware.GetActor(c), teamID, req.TeamLeaderID)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}
