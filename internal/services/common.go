package services

import (
	"fmt"

	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/database"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID uint64
	Role   models.UserRole
}

// ActorFromUser builds an Actor from a loaded user.
func ActorFromUser(user *models.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}

// ownershipGuard classifies a failed tenant-scoped lookup.
type ownershipGuard struct {
	owners repository.OwnershipRepository
}

// lookupFailed turns the error of a scoped lookup into a domain error. A row
// that exists under another organization is a tenant mismatch.
func (g ownershipGuard) lookupFailed(t tenant.ID, resource repository.Resource, id uint64, err error) error {
	if !database.IsNotFound(err) {
		return apierrors.NewPersistence(fmt.Sprintf("failed to load %s", resource), err)
	}

	owner, probeErr := g.owners.OrganizationOf(resource, id)
	switch {
	case database.IsNotFound(probeErr):
		return apierrors.NewNotFound(string(resource), id)
	case probeErr != nil:
		return apierrors.NewPersistence(fmt.Sprintf("failed to check %s ownership", resource), probeErr)
	case !t.Owns(owner):
		return apierrors.NewTenantMismatch(string(resource), id)
	default:
		return apierrors.NewNotFound(string(resource), id)
	}
}

// requirePermission fails with an AuthorizationError unless the actor's role holds permission.
func requirePermission(authorizer *authz.Authorizer, actor Actor, permission string) error {
	allowed, err := authorizer.Allowed(actor.Role, permission)
	if err != nil {
		return fmt.Errorf("failed to evaluate permission %s: %w", permission, err)
	}
	if !allowed {
		return apierrors.NewAuthorization(fmt.Sprintf("role %q may not perform %s", actor.Role, permission))
	}
	return nil
}

// allowed reports whether the actor's role holds permission, treating
// evaluation failures as a denial.
func allowed(authorizer *authz.Authorizer, actor Actor, permission string) bool {
	ok, err := authorizer.Allowed(actor.Role, permission)
	return err == nil && ok
}

func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
