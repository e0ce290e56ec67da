package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	msgNoFieldsToUpdate  = "No fields to update"
	msgEmailInUse        = "Email already in use"
	msgIncorrectPassword = "Current password is incorrect"
	msgUserNotFound      = "User not found"
)

// UpdateProfileRequest is the PUT /api/users/profile payload.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

// ChangePasswordRequest is the PUT /api/users/change-password payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

// Service manages the authenticated user's own account.
type Service interface {
	Profile(ctx context.Context, userID int64) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*UserDTO, error)
	ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error
}

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo           userRepository
	PasswordConfig config.PasswordConfig
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: params.Repo, passwordCfg: params.PasswordConfig}, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(user)
	return &dto, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*UserDTO, error) {
	var update UpdateProfileDTO
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if utf8.RuneCountInString(name) < 2 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithField("name", "must be at least 2 characters")
		}
		update.Name = &name
	}
	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, pkgerrors.New(pkgerrors.CodeConflict, msgEmailInUse)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		update.Email = &email
	}
	if update.Name == nil && update.Email == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgNoFieldsToUpdate)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
		case db.IsUniqueViolation(err, ""):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, msgEmailInUse)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	dto := FromModel(user)
	return &dto, nil
}

func (s *service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if utf8.RuneCountInString(req.NewPassword) < 6 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithField("newPassword", "must be at least 6 characters")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := security.VerifyPassword(req.CurrentPassword, user.Password)
	if err != nil && !errors.Is(err, security.ErrInvalidHash) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, msgIncorrectPassword)
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

// NormalizeEmail lower-cases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
