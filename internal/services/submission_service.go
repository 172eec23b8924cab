package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/field-report-api/internal/constants"
	"github.com/yukikurage/field-report-api/internal/database"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/metrics"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"github.com/yukikurage/field-report-api/internal/utils"
)

// ErrUnavailableMember is returned when a selected member is absent or not on the team.
var ErrUnavailableMember = apierrors.NewValidation("selectedMemberIds", "unavailable member selected")

// SubmissionService accepts a team leader's daily submission and fans it out
// into one pending daily report per selected member.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	guard          ownershipGuard
	roster         *RosterService
	catalog        *CatalogService
	availability   *AvailabilityService
	recorder       *metrics.Recorder
	clock          utils.Clock
	location       *time.Location
}

// NewSubmissionService creates a new SubmissionService. "Today" is the
// calendar day of clock in location.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	owners repository.OwnershipRepository,
	roster *RosterService,
	catalog *CatalogService,
	availability *AvailabilityService,
	recorder *metrics.Recorder,
	clock utils.Clock,
	location *time.Location,
) *SubmissionService {
	if location == nil {
		location = time.UTC
	}
	return &SubmissionService{
		submissionRepo: submissionRepo,
		guard:          ownershipGuard{owners: owners},
		roster:         roster,
		catalog:        catalog,
		availability:   availability,
		recorder:       recorder,
		clock:          clock,
		location:       location,
	}
}

// SubmitInput represents a team leader's report of the day's work. An empty
// Date means today.
type SubmitInput struct {
	TeamID            uint64
	Date              string
	ClientID          uint64
	WorkOrderID       uint64
	Hours             float64
	Notes             string
	SelectedMemberIDs []uint64
	WorkTypes         []string
	Materials         []string
}

// Today returns the current reporting day.
func (s *SubmissionService) Today() string {
	return s.clock.Today(s.location)
}

// Submit validates the submission and stores it with its fan-out. Checks run
// in a fixed order and the first failure is returned.
func (s *SubmissionService) Submit(t tenant.ID, actor Actor, input SubmitInput) (*models.TeamSubmission, error) {
	submission, err := s.submit(t, actor, input)
	s.recorder.Submission(outcomeOf(err))
	return submission, err
}

func (s *SubmissionService) submit(t tenant.ID, actor Actor, input SubmitInput) (*models.TeamSubmission, error) {
	today := s.Today()
	if input.Date != "" {
		day, err := utils.ParseDate(input.Date)
		if err != nil {
			return nil, apierrors.NewValidation("date", err.Error())
		}
		if day != today {
			return nil, apierrors.NewValidation("date", fmt.Sprintf("submissions are only accepted for today (%s)", today))
		}
	}

	team, err := s.roster.GetTeam(t, input.TeamID)
	if err != nil {
		return nil, err
	}
	if team.TeamLeaderID != actor.UserID {
		return nil, apierrors.NewAuthorization("only the team leader can submit for the team")
	}
	if !team.IsActive {
		return nil, apierrors.NewValidation("teamId", "team is not active")
	}

	client, err := s.catalog.GetClient(t, input.ClientID)
	if err != nil {
		return nil, err
	}
	order, err := s.catalog.GetWorkOrder(t, input.WorkOrderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != client.ID {
		return nil, apierrors.NewValidation("workOrderId", "work order does not belong to the client")
	}
	if !client.IsActive || !order.IsActive {
		return nil, apierrors.NewValidation("workOrderId", "work order is not active")
	}

	// Fast path only: the unique index decides concurrent submissions.
	existing, err := s.findForDay(t, team.ID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateSubmission(team.ID, today)
	}

	memberIDs := uniqueUint64(input.SelectedMemberIDs)
	if len(memberIDs) == 0 {
		return nil, apierrors.NewValidation("selectedMemberIds", "at least one member must be selected")
	}
	availability, err := s.availability.ComputeAvailability(t, team.ID, today)
	if err != nil {
		return nil, err
	}
	for _, id := range memberIDs {
		if availability.IsAvailable(id) {
			continue
		}
		if !availability.IsMember(id) && s.foreignUser(t, id) {
			return nil, apierrors.NewTenantMismatch(string(repository.ResourceUser), id)
		}
		return nil, ErrUnavailableMember
	}

	workTypes := uniqueStrings(input.WorkTypes)
	if len(workTypes) == 0 && len(order.AvailableWorkTypes) > 0 {
		return nil, apierrors.NewValidation("workTypes", "at least one work type is required")
	}
	if unknown := notIn(workTypes, order.AvailableWorkTypes); unknown != "" {
		return nil, apierrors.NewValidation("workTypes", fmt.Sprintf("work type %q is not offered by the work order", unknown))
	}

	materials := uniqueStrings(input.Materials)
	if unknown := notIn(materials, order.AvailableMaterials); unknown != "" {
		return nil, apierrors.NewValidation("materials", fmt.Sprintf("material %q is not offered by the work order", unknown))
	}

	if input.Hours <= 0 || input.Hours > constants.MaxWorkHours {
		return nil, apierrors.NewValidation("hours", fmt.Sprintf("hours must be greater than 0 and at most %d", constants.MaxWorkHours))
	}

	notes := strings.TrimSpace(input.Notes)
	submission := &models.TeamSubmission{
		TeamID:            team.ID,
		Date:              today,
		ClientID:          client.ID,
		WorkOrderID:       order.ID,
		Hours:             input.Hours,
		Notes:             notes,
		SelectedMemberIDs: memberIDs,
		WorkTypes:         workTypes,
		Materials:         materials,
		Status:            models.ReportStatusPending,
		CreatedByID:       actor.UserID,
	}

	reports := make([]models.DailyReport, len(memberIDs))
	for i, id := range memberIDs {
		reports[i] = models.DailyReport{
			EmployeeID: id,
			Date:       today,
			Status:     models.ReportStatusPending,
			Operations: []models.Operation{{
				ClientID:    client.ID,
				WorkOrderID: order.ID,
				WorkTypes:   workTypes,
				Materials:   materials,
				Hours:       input.Hours,
				Notes:       notes,
				Photos:      []string{},
			}},
		}
	}

	if err := s.submissionRepo.CreateWithFanOut(t, submission, reports); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			return nil, duplicateSubmission(team.ID, today)
		}
		return nil, apierrors.NewPersistence("failed to store team submission", err)
	}

	s.recorder.ReportsCreated(len(reports))
	slog.Info("team submission accepted",
		"tenant", t.String(),
		"team_id", team.ID,
		"submission_id", submission.ID,
		"date", today,
		"reports", len(reports),
	)

	return submission, nil
}

// GetToday returns the team's submission for today, or nil when there is none.
func (s *SubmissionService) GetToday(t tenant.ID, teamID uint64) (*models.TeamSubmission, error) {
	team, err := s.roster.GetTeam(t, teamID)
	if err != nil {
		return nil, err
	}
	return s.findForDay(t, team.ID, s.Today())
}

// GetTodayForLeader returns today's submission of the team led by leaderID,
// or nil when there is none.
func (s *SubmissionService) GetTodayForLeader(t tenant.ID, leaderID uint64) (*models.TeamSubmission, error) {
	team, err := s.roster.GetByLeader(t, leaderID)
	if err != nil {
		return nil, err
	}
	return s.findForDay(t, team.ID, s.Today())
}

func (s *SubmissionService) findForDay(t tenant.ID, teamID uint64, day string) (*models.TeamSubmission, error) {
	submission, err := s.submissionRepo.FindByTeamAndDate(t, teamID, day)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, apierrors.NewPersistence("failed to load team submission", err)
	}
	return submission, nil
}

// foreignUser reports whether userID exists under another organization.
func (s *SubmissionService) foreignUser(t tenant.ID, userID uint64) bool {
	owner, err := s.guard.owners.OrganizationOf(repository.ResourceUser, userID)
	return err == nil && !t.Owns(owner)
}

func duplicateSubmission(teamID uint64, day string) error {
	return apierrors.NewConflict(fmt.Sprintf("team %d has already submitted for %s", teamID, day))
}

// notIn returns the first value missing from allowed, or "".
func notIn(values, allowed []string) string {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	for _, v := range values {
		if _, ok := set[v]; !ok {
			return v
		}
	}
	return ""
}

func outcomeOf(err error) string {
	switch apierrors.KindOf(err) {
	case "":
		if err == nil {
			return metrics.OutcomeAccepted
		}
		return metrics.OutcomeFailed
	case apierrors.KindConflict:
		return metrics.OutcomeConflict
	case apierrors.KindAuthorization:
		return metrics.OutcomeForbidden
	case apierrors.KindPersistence:
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeRejected
	}
}
