package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/services"
)

type SubmissionHandler struct {
	submissions *services.SubmissionService
	roster      *services.RosterService
}

func NewSubmissionHandler(submissions *services.SubmissionService, roster *services.RosterService) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		roster:      roster,
	}
}

// GetToday returns today's submission of ?team_id=, or of the team the
// caller leads when omitted. 404 when nothing was submitted yet.
func (h *SubmissionHandler) GetToday(c *gin.Context) {
	teamID, ok := optionalIDQuery(c, "team_id")
	if !ok {
		return
	}

	t := middleware.GetTenant(c)

	var (
		submission *models.TeamSubmission
		err        error
	)
	if teamID != nil {
		submission, err = h.submissions.GetToday(t, *teamID)
	} else {
		submission, err = h.submissions.GetTodayForLeader(t, middleware.GetActor(c).UserID)
	}
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}
	if submission == nil {
		apierrors.NotFound(c, "No submission for today")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamSubmissionDTO(*submission))
}

// CreateSubmission files the caller's team report for today and fans it out
// into one daily report per selected member. team_id defaults to the team
// the caller leads.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req struct {
		TeamID            uint64   `json:"teamId"`
		Date              string   `json:"date"`
		ClientID          uint64   `json:"clientId" binding:"required"`
		WorkOrderID       uint64   `json:"workOrderId" binding:"required"`
		Hours             float64  `json:"hours"`
		Notes             string   `json:"notes" binding:"max=2000"`
		SelectedMemberIDs []uint64 `json:"selectedMemberIds"`
		WorkTypes         []string `json:"workTypes"`
		Materials         []string `json:"materials"`
	}
	if !bindJSON(c, &req) {
		return
	}

	t := middleware.GetTenant(c)
	actor := middleware.GetActor(c)

	if req.TeamID == 0 {
		team, err := h.roster.GetByLeader(t, actor.UserID)
		if err != nil {
			apierrors.RespondWithDomainError(c, err)
			return
		}
		req.TeamID = team.ID
	}

	submission, err := h.submissions.Submit(t, actor, services.SubmitInput{
		TeamID:            req.TeamID,
		Date:              req.Date,
		ClientID:          req.ClientID,
		WorkOrderID:       req.WorkOrderID,
		Hours:             req.Hours,
		Notes:             req.Notes,
		SelectedMemberIDs: req.SelectedMemberIDs,
		WorkTypes:         req.WorkTypes,
		Materials:         req.Materials,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamSubmissionDTO(*submission))
}
