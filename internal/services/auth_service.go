package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/constants"
	"github.com/yukikurage/field-report-api/internal/database"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken        = apierrors.NewConflict("username already exists")
	ErrPasswordTooShort     = apierrors.NewValidation("password", fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	ErrUsernameRequired     = apierrors.NewValidation("username", "username is required")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication and user administration.
type AuthService struct {
	userRepo   repository.UserRepository
	guard      ownershipGuard
	authorizer *authz.Authorizer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, owners repository.OwnershipRepository, authorizer *authz.Authorizer) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		guard:      ownershipGuard{owners: owners},
		authorizer: authorizer,
	}
}

// RegisterInput represents the information needed to open a new organization.
type RegisterInput struct {
	OrganizationName string
	Username         string
	Password         string
	DisplayName      string
}

// Register creates an organization together with its first administrator.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	orgName := strings.TrimSpace(input.OrganizationName)
	if orgName == "" {
		return nil, apierrors.NewValidation("organizationName", "organization name is required")
	}

	user, err := s.newUser(input.Username, input.Password, input.DisplayName, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	org := &models.Organization{Name: orgName}

	if err := s.userRepo.CreateWithOrganization(user, org); err != nil {
		if errors.Is(err, repository.ErrCreateUser) && database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, apierrors.NewPersistence("failed to complete registration", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ResolvePrincipal loads the session user and resolves their tenant.
func (s *AuthService) ResolvePrincipal(userID uint64) (*models.User, tenant.ID, error) {
	user, err := s.userRepo.FindPrincipal(userID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, tenant.ID{}, ErrUserNotFound
		}
		return nil, tenant.ID{}, fmt.Errorf("failed to find user: %w", err)
	}

	t, err := tenant.Resolve(tenant.Principal{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Active:         user.IsActive,
	})
	if err != nil {
		return nil, tenant.ID{}, apierrors.NewAuthorization(err.Error())
	}

	return user, t, nil
}

// CreateUserInput represents an administrator adding a user to the tenant.
type CreateUserInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        models.UserRole
}

// CreateUser adds a user to the tenant. Only a superadmin may create another superadmin.
func (s *AuthService) CreateUser(t tenant.ID, actor Actor, input CreateUserInput) (*models.User, error) {
	if err := requirePermission(s.authorizer, actor, authz.UsersManage); err != nil {
		return nil, err
	}

	if !input.Role.Valid() {
		return nil, apierrors.NewValidation("role", fmt.Sprintf("unknown role %q", input.Role))
	}
	if input.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return nil, apierrors.NewAuthorization("only a superadmin can create a superadmin")
	}

	user, err := s.newUser(input.Username, input.Password, input.DisplayName, input.Role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(t, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, apierrors.NewPersistence("failed to create user", err)
	}

	return user, nil
}

// ListUsers lists the users of the tenant.
func (s *AuthService) ListUsers(t tenant.ID) ([]models.User, error) {
	users, err := s.userRepo.List(t)
	if err != nil {
		return nil, apierrors.NewPersistence("failed to list users", err)
	}
	return users, nil
}

// GetUser retrieves a user of the tenant by ID.
func (s *AuthService) GetUser(t tenant.ID, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(t, id)
	if err != nil {
		return nil, s.guard.lookupFailed(t, repository.ResourceUser, id, err)
	}
	return user, nil
}

func (s *AuthService) newUser(username, password, displayName string, role models.UserRole) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	return &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		DisplayName:  displayName,
		Role:         role,
		IsActive:     true,
	}, nil
}
