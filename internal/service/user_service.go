package service

import (
	"context"
	"errors"
	"log"

	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService covers the authenticated user's own account.
type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*model.User, error)
	RequestVerification(ctx context.Context, userID uuid.UUID) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	ListUnlocks(ctx context.Context, userID uuid.UUID) ([]model.ContactUnlock, error)
	SearchToken(ctx context.Context, userID uuid.UUID) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
	meili    MeiliSearchService
}

func NewUserService(userRepo repository.UserRepository, meili MeiliSearchService) UserService {
	return &userService{userRepo: userRepo, meili: meili}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// RequestVerification flags the account for manual alumni review. Accounts on
// an institutional email do not need it.
func (s *userService) RequestVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if user.AlumniVerified {
		return apperror.New(0, "account is already verified", apperror.ErrConflict)
	}
	if user.VerificationRequest {
		return apperror.New(0, "a verification request is already pending", apperror.ErrConflict)
	}

	user.VerificationRequest = true
	return s.userRepo.Update(ctx, user)
}

func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if user.ProfileID != nil && s.meili != nil {
		// Index cleanup must not block account deletion.
		if err := s.meili.DeleteProfile(*user.ProfileID); err != nil {
			log.Printf("failed to remove profile %s from search index during account deletion: %v", *user.ProfileID, err)
		}
	}

	return s.userRepo.Delete(ctx, userID)
}

func (s *userService) ListUnlocks(ctx context.Context, userID uuid.UUID) ([]model.ContactUnlock, error) {
	return s.userRepo.ListUnlocks(ctx, userID)
}

// SearchToken issues a tenant token scoped to the viewer's role so the
// frontend can query the search index directly.
func (s *userService) SearchToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.meili == nil {
		return "", apperror.New(0, "search is not configured", apperror.ErrInternal)
	}

	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.ErrNotFound
		}
		return "", err
	}

	return s.meili.GenerateSearchToken(user.Role.Name)
}
