package service

import (
	"context"
	"errors"
	"log"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminService groups the user-management operations of the moderation
// console. Restricting or banning a user hides their profile; lifting the
// restriction puts it back to whatever status it held before.
type AdminService interface {
	ListUsers(ctx context.Context, filter dto.UserFilter) ([]*model.User, *dto.PaginationMeta, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	VerifyAlumni(ctx context.Context, userID uuid.UUID) (*model.User, error)
	BanUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UnbanUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	RestrictUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UnrestrictUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type adminService struct {
	userRepo   repository.UserRepository
	moderation ModerationService
	meili      MeiliSearchService
}

func NewAdminService(userRepo repository.UserRepository, moderation ModerationService, meili MeiliSearchService) AdminService {
	return &adminService{userRepo: userRepo, moderation: moderation, meili: meili}
}

func (s *adminService) ListUsers(ctx context.Context, filter dto.UserFilter) ([]*model.User, *dto.PaginationMeta, error) {
	page, limit := normalizePaging(filter.Page, filter.Limit)

	users, total, err := s.userRepo.FindAll(ctx, filter.Search, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	return users, paginationMeta(page, limit, total), nil
}

func (s *adminService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.findUser(ctx, userID)
}

func (s *adminService) VerifyAlumni(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.AlumniVerified = true
	user.VerificationRequest = false

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) BanUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, apperror.New(0, "admin accounts cannot be banned", apperror.ErrForbidden)
	}

	user.IsBanned = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.moderation.HideProfilesForUser(ctx, userID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) UnbanUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsBanned = false

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	// Restore only when no other sanction remains in force.
	if !user.IsRestricted {
		if err := s.moderation.RestoreProfilesForUser(ctx, userID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *adminService) RestrictUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, apperror.New(0, "admin accounts cannot be restricted", apperror.ErrForbidden)
	}

	user.IsRestricted = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.moderation.HideProfilesForUser(ctx, userID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) UnrestrictUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsRestricted = false

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if !user.IsBanned {
		if err := s.moderation.RestoreProfilesForUser(ctx, userID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return apperror.New(0, "admin accounts cannot be deleted", apperror.ErrForbidden)
	}

	if user.ProfileID != nil && s.meili != nil {
		if err := s.meili.DeleteProfile(*user.ProfileID); err != nil {
			log.Printf("failed to remove profile %s from search index during user deletion: %v", *user.ProfileID, err)
		}
	}

	return s.userRepo.Delete(ctx, userID)
}

func (s *adminService) findUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
