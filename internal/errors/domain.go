package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// Kind classifies a domain failure so callers can discriminate on it.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindTenantMismatch Kind = "tenant_mismatch"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindPersistence    Kind = "persistence"
)

// DomainError is the typed error every service returns on a rejection path.
type DomainError struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches a bare kind sentinel, so errors.Is(err, ErrConflict) holds for
// every conflict.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Field == ""
}

// Kind sentinels, for errors.Is only.
var (
	ErrValidation     = &DomainError{Kind: KindValidation}
	ErrConflict       = &DomainError{Kind: KindConflict}
	ErrTenantMismatch = &DomainError{Kind: KindTenantMismatch}
	ErrAuthorization  = &DomainError{Kind: KindAuthorization}
	ErrNotFound       = &DomainError{Kind: KindNotFound}
	ErrPersistence    = &DomainError{Kind: KindPersistence}
)

func NewValidation(field, message string) error {
	return &DomainError{Kind: KindValidation, Field: field, Message: message}
}

func NewConflict(message string) error {
	return &DomainError{Kind: KindConflict, Message: message}
}

func NewTenantMismatch(resource string, id uint64) error {
	return &DomainError{Kind: KindTenantMismatch, Message: fmt.Sprintf("%s %d does not belong to this organization", resource, id)}
}

func NewAuthorization(message string) error {
	return &DomainError{Kind: KindAuthorization, Message: message}
}

func NewNotFound(resource string, id uint64) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
}

func NewPersistence(message string, err error) error {
	return &DomainError{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of a domain error, or "" for anything else.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// RespondWithDomainError maps a service error onto the API error envelope.
// A tenant mismatch is answered exactly like a missing resource.
func RespondWithDomainError(c *gin.Context, err error) {
	var de *DomainError
	if !stderrors.As(err, &de) {
		InternalError(c, "")
		return
	}

	switch de.Kind {
	case KindValidation:
		if de.Field != "" {
			BadRequestWithDetails(c, de.Message, gin.H{"field": de.Field})
			return
		}
		BadRequest(c, de.Message)
	case KindConflict:
		Conflict(c, de.Message)
	case KindTenantMismatch, KindNotFound:
		NotFound(c, "")
	case KindAuthorization:
		Forbidden(c, de.Message)
	case KindPersistence:
		InternalError(c, "")
	default:
		InternalError(c, "")
	}
}
