package dto

import (
	"time"

	"github.com/yukikurage/field-report-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64          `json:"id"`
	Username       string          `json:"username"`
	DisplayName    string          `json:"displayName"`
	Role           models.UserRole `json:"role"`
	IsActive       bool            `json:"isActive"`
	OrganizationID uint64          `json:"organizationId"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pagination is the metadata of a paginated list
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Role:           user.Role,
		IsActive:       user.IsActive,
		OrganizationID: user.OrganizationID,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
	}
}

// NewPagination computes the page count for totalCount rows.
func NewPagination(page, pageSize int, totalCount int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
