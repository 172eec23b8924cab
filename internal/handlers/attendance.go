package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/dto"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/services"
)

// AttendanceHandler maintains the absence ledger.
type AttendanceHandler struct {
	attendance *services.AttendanceService
	today      func() string
}

func NewAttendanceHandler(attendance *services.AttendanceService, today func() string) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, today: today}
}

// ListAttendance lists the absences of ?date=, today when omitted
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = h.today()
	}

	entries, err := h.attendance.ListForDate(middleware.GetTenant(c), date)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "absences": dto.ToAttendanceEntryDTOs(entries)})
}

// RecordAbsence records or replaces a user's absence on a day
func (h *AttendanceHandler) RecordAbsence(c *gin.Context) {
	var req struct {
		UserID      uint64 `json:"userId" binding:"required"`
		Date        string `json:"date" binding:"required"`
		AbsenceType string `json:"absenceType" binding:"required"`
		Notes       string `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.attendance.RecordAbsence(middleware.GetTenant(c), middleware.GetActor(c), services.RecordAbsenceInput{
		UserID:      req.UserID,
		Date:        req.Date,
		AbsenceType: req.AbsenceType,
		Notes:       req.Notes,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendanceEntryDTO(*entry))
}

// ClearAbsence makes a user available again on a day
func (h *AttendanceHandler) ClearAbsence(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	if err := h.attendance.ClearAbsence(middleware.GetTenant(c), middleware.GetActor(c), userID, c.Param("date")); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
