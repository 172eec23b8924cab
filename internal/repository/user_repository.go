package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/field-report-api/internal/database"
	"github.com/yukikurage/field-report-api/internal/models"
	"github.com/yukikurage/field-report-api/internal/tenant"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateOrganization is returned when creating an organization fails inside the registration transaction.
	ErrCreateOrganization = errors.New("user repository: create organization failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user owned by the tenant
func (r *GormUserRepository) Create(t tenant.ID, user *models.User) error {
	if !t.Valid() {
		return tenant.ErrUnresolved
	}
	user.OrganizationID = t.OrganizationID()
	return r.db.Create(user).Error
}

// CreateWithOrganization creates an organization and its first user atomically.
func (r *GormUserRepository) CreateWithOrganization(user *models.User, org *models.Organization) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
		}

		user.OrganizationID = org.ID

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		return nil
	})
}

// FindByID finds a user of the tenant by ID
func (r *GormUserRepository) FindByID(t tenant.ID, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(database.ForTenant(t, "users")).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs finds the users of the tenant among ids. Foreign and unknown IDs
// are silently absent from the result.
func (r *GormUserRepository) FindByIDs(t tenant.ID, ids []uint64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.Scopes(database.ForTenant(t, "users")).
		Where("users.id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List lists all users of the tenant
func (r *GormUserRepository) List(t tenant.ID) ([]models.User, error) {
	var users []models.User
	if err := r.db.Scopes(database.ForTenant(t, "users")).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindPrincipal finds a user by ID regardless of organization
func (r *GormUserRepository) FindPrincipal(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
