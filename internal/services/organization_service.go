package services

import (
	"log/slog"

	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/database"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
)

// OrganizationService provides business logic for the tenant root.
type OrganizationService struct {
	orgRepo    repository.OrganizationRepository
	authorizer *authz.Authorizer
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, authorizer *authz.Authorizer) *OrganizationService {
	return &OrganizationService{
		orgRepo:    orgRepo,
		authorizer: authorizer,
	}
}

// GetOrganization returns the tenant's organization.
func (s *OrganizationService) GetOrganization(t tenant.ID) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(t)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apierrors.NewNotFound("organization", t.OrganizationID())
		}
		return nil, apierrors.NewPersistence("failed to find organization", err)
	}
	return org, nil
}

// DeleteOrganization removes the organization with every row it owns,
// including generated daily reports and their submissions.
func (s *OrganizationService) DeleteOrganization(t tenant.ID, actor Actor) error {
	if err := requirePermission(s.authorizer, actor, authz.OrganizationDelete); err != nil {
		return err
	}

	// Ensure organization exists
	if _, err := s.GetOrganization(t); err != nil {
		return err
	}

	if err := s.orgRepo.Delete(t); err != nil {
		return apierrors.NewPersistence("failed to delete organization", err)
	}

	slog.Warn("organization deleted", "tenant", t.String(), "actor_id", actor.UserID)
	return nil
}
