package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/constants"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/metrics"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"github.com/yukikurage/field-report-api/internal/utils"
)

// AttendanceService is the ledger of absences. A user with no entry on a
// day is available that day.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	guard          ownershipGuard
	authorizer     *authz.Authorizer
	recorder       *metrics.Recorder
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	owners repository.OwnershipRepository,
	authorizer *authz.Authorizer,
	recorder *metrics.Recorder,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		guard:          ownershipGuard{owners: owners},
		authorizer:     authorizer,
		recorder:       recorder,
	}
}

// GetAbsences returns the absence type of every user in userIDs absent on
// date. Users missing from the map are available.
func (s *AttendanceService) GetAbsences(t tenant.ID, userIDs []uint64, date string) (map[uint64]string, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, apierrors.NewValidation("date", err.Error())
	}

	entries, err := s.attendanceRepo.FindAbsences(t, uniqueUint64(userIDs), day)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to read attendance", err)
	}

	absences := make(map[uint64]string, len(entries))
	for _, e := range entries {
		absences[e.UserID] = e.AbsenceType
	}
	return absences, nil
}

// RecordAbsenceInput represents an absence being entered into the ledger
type RecordAbsenceInput struct {
	UserID      uint64
	Date        string
	AbsenceType string
	Notes       string
}

// RecordAbsence records or replaces the absence of a user on a day
func (s *AttendanceService) RecordAbsence(t tenant.ID, actor Actor, input RecordAbsenceInput) (*models.AttendanceEntry, error) {
	if err := requirePermission(s.authorizer, actor, authz.AttendanceManage); err != nil {
		return nil, err
	}

	day, err := utils.ParseDate(input.Date)
	if err != nil {
		return nil, apierrors.NewValidation("date", err.Error())
	}

	absenceType := strings.TrimSpace(input.AbsenceType)
	if absenceType == "" {
		return nil, apierrors.NewValidation("absenceType", "absence type is required")
	}
	if len(absenceType) > constants.MaxAbsenceTypeLength {
		return nil, apierrors.NewValidation("absenceType", fmt.Sprintf("absence type must be at most %d characters", constants.MaxAbsenceTypeLength))
	}

	if _, err := s.userRepo.FindByID(t, input.UserID); err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceUser, input.UserID, err)
	}

	entry := &models.AttendanceEntry{
		UserID:       input.UserID,
		Date:         day,
		AbsenceType:  absenceType,
		Notes:        strings.TrimSpace(input.Notes),
		RecordedByID: actor.UserID,
	}
	if err := s.attendanceRepo.Upsert(t, entry); err != nil {
		return nil, apierrors.NewPersistence("failed to record absence", err)
	}

	s.recorder.Mutation("attendance", "record_absence")
	return entry, nil
}

// ClearAbsence removes the absence of a user on a day, making them available again
func (s *AttendanceService) ClearAbsence(t tenant.ID, actor Actor, userID uint64, date string) error {
	if err := requirePermission(s.authorizer, actor, authz.AttendanceManage); err != nil {
		return err
	}

	day, err := utils.ParseDate(date)
	if err != nil {
		return apierrors.NewValidation("date", err.Error())
	}

	if _, err := s.userRepo.FindByID(t, userID); err != nil {
		return s.guard.lookupFailed(t, repository.ResourceUser, userID, err)
	}

	deleted, err := s.attendanceRepo.Delete(t, userID, day)
	if err != nil {
		return apierrors.NewPersistence("failed to clear absence", err)
	}
	if !deleted {
		return apierrors.NewNotFound("attendance entry", userID)
	}

	s.recorder.Mutation("attendance", "clear_absence")
	return nil
}

// ListForDate lists every absence of the tenant on a day
func (s *AttendanceService) ListForDate(t tenant.ID, date string) ([]models.AttendanceEntry, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, apierrors.NewValidation("date", err.Error())
	}

	entries, err := s.attendanceRepo.ListByDate(t, day)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to list attendance", err)
	}
	return entries, nil
}
