// Package tenant carries the resolved organization that scopes every
// repository call.
//
// An ID can only be obtained from Resolve, never from request input, and the
// zero ID is rejected by the database scope, so a query cannot be issued
// without an organization filter.
package tenant

import (
	"errors"
	"strconv"
)

var (
	// ErrUnresolved is returned when a scoped query is attempted without a tenant.
	ErrUnresolved = errors.New("tenant: no organization resolved for this call")
	// ErrInactivePrincipal is returned when the principal has been deactivated.
	ErrInactivePrincipal = errors.New("tenant: principal is not active")
)

// ID is the organization that scopes a request.
type ID struct {
	org uint64
}

// Principal is the authenticated caller as loaded by the auth layer.
type Principal struct {
	UserID         uint64
	OrganizationID uint64
	Active         bool
}

// Resolve yields the tenant of an authenticated principal.
func Resolve(p Principal) (ID, error) {
	if p.UserID == 0 || p.OrganizationID == 0 {
		return ID{}, ErrUnresolved
	}
	if !p.Active {
		return ID{}, ErrInactivePrincipal
	}
	return ID{org: p.OrganizationID}, nil
}

// OrganizationID returns the organization identifier to compile into queries.
func (t ID) OrganizationID() uint64 {
	return t.org
}

// Valid reports whether the ID was produced by Resolve.
func (t ID) Valid() bool {
	return t.org != 0
}

// Owns reports whether a row carrying organizationID belongs to this tenant.
func (t ID) Owns(organizationID uint64) bool {
	return t.Valid() && t.org == organizationID
}

func (t ID) String() string {
	if !t.Valid() {
		return "tenant(unresolved)"
	}
	return "tenant(" + strconv.FormatUint(t.org, 10) + ")"
}
