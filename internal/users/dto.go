package users

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// CreateUserDTO carries the fields required to persist a new account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.UserRole
}

// ToModel maps the DTO onto a users row. An empty role falls back to user.
func (dto CreateUserDTO) ToModel() *models.User {
	role := dto.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	return &models.User{
		Email:    dto.Email,
		Password: dto.PasswordHash,
		Name:     dto.Name,
		Role:     role,
	}
}

// UpdateProfileDTO holds the profile columns to overwrite. Nil leaves a column untouched.
type UpdateProfileDTO struct {
	Name  *string
	Email *string
}

func (dto UpdateProfileDTO) columns() map[string]any {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	return updates
}

// UserDTO is the public view of a user; the password hash never leaves the service.
type UserDTO struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
}

// FromModel converts a users row into its public representation.
func FromModel(m *models.User) UserDTO {
	if m == nil {
		return UserDTO{}
	}
	dto := UserDTO{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
		Role:  m.Role,
	}
	if !m.CreatedAt.IsZero() {
		created := m.CreatedAt.UTC()
		dto.CreatedAt = &created
	}
	return dto
}
