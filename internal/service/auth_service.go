// Package service contains the domain logic layered between HTTP handlers
// and repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meetback/internal/models"
	"meetback/internal/repository"
	"meetback/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, credentials and account lifecycle. It
// holds the raw DB handle for the multi-row transactions (registration and
// account deletion).
type AuthService struct {
	userRepo repository.UserRepository
	db       *gorm.DB
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email       string
	Password    string
	Handle      string
	DisplayName string
}

// UpdateProfileInput carries optional profile mutations; nil fields are left
// untouched.
type UpdateProfileInput struct {
	DisplayName *string
	Description *string
	Gender      *string
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, db *gorm.DB) *AuthService {
	return &AuthService{userRepo: userRepo, db: db}
}

// Register creates an account. The existence check and the insert run inside
// one transaction so two concurrent registrations of the same email cannot
// both succeed.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" || in.Handle == "" || in.DisplayName == "" {
		return nil, models.NewMissingDataError()
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	handle := validation.NormalizeHandle(in.Handle)
	if err := validation.ValidateHandle(handle); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:                  in.Email,
		PasswordHash:           string(hash),
		Handle:                 handle,
		DisplayName:            in.DisplayName,
		AuthProvider:           models.AuthProviderEmail,
		Role:                   models.RoleUser,
		TrustScore:             1,
		EmailVerificationToken: uuid.NewString()[:8],
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		findErr := tx.Where("email = ?", in.Email).First(&existing).Error
		if findErr == nil {
			return models.NewConflictError(models.CodeAlreadyUser, "User already exists")
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return models.NewInternalError(findErr)
		}

		if createErr := tx.Create(user).Error; createErr != nil {
			var appErr *models.AppError
			if errors.As(createErr, &appErr) {
				return appErr
			}
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return models.NewConflictError(models.CodeAlreadyUser, "User already exists")
			}
			return models.NewInternalError(createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials, marks the account active and returns the user.
// Token issuance stays at the HTTP boundary.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(models.CodeInvalidCredentials, "Invalid credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError(models.CodeInvalidCredentials, "Invalid credentials")
	}

	now := time.Now()
	user.LastLogin = &now
	user.AccountStatus = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout marks the account inactive.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.AccountStatus = false
	return s.userRepo.Update(ctx, user)
}

// GetProfile returns the authenticated user's own record.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetPublicProfile resolves a profile by handle; hidden users are reported
// as absent.
func (s *AuthService) GetPublicProfile(ctx context.Context, handle string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByHandle(ctx, validation.NormalizeHandle(handle))
	if err != nil {
		return nil, err
	}
	if user.IsHidden {
		return nil, models.NewNotFoundError("User", handle)
	}
	return user.Public(), nil
}

// UpdateProfile applies the provided profile mutations.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		if err := validation.ValidateDisplayName(*in.DisplayName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.DisplayName = *in.DisplayName
	}
	if in.Description != nil {
		if err := validation.ValidateDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Description = *in.Description
	}
	if in.Gender != nil {
		valid := false
		for _, g := range models.ValidGenders {
			if g == *in.Gender {
				valid = true
				break
			}
		}
		if !valid {
			return nil, models.NewValidationError("Invalid gender")
		}
		user.Gender = *in.Gender
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); cmpErr != nil {
		return models.NewForbiddenError(models.CodeInvalidCurrentPass, "Current password is incorrect")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewError(422, models.CodeWeakPassword, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Update(ctx, user)
}

// UploadAvatar simulates an avatar upload by writing a generated storage URL
// to the profile. Real object storage is a later concern.
func (s *AuthService) UploadAvatar(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://fake-storage.meetback.app/avatars/%s.webp", uuid.NewString())
	user.Avatar = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAccount removes the user while leaving the rest of the graph in a
// consistent state. In one all-or-nothing transaction it deletes every
// follow edge touching the user, flips visibility off on every rating the
// user gave or received, and hard-deletes the user record. Posts and likes
// authored by the user are deliberately left untouched. Returns the deleted
// account's email as confirmation.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("follower_id = ? OR following_id = ?", userID, userID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Rating{}).
			Where("from_user_id = ? OR to_user_id = ?", userID, userID).
			Update("visibility", false).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return "", models.NewInternalError(err)
	}

	return user.Email, nil
}

// ListUsers returns a page of accounts. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}
