package service

import (
	"context"
	"errors"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookmarkService interface {
	Add(ctx context.Context, userID uuid.UUID, profileID string) error
	Remove(ctx context.Context, userID uuid.UUID, profileID string) error
	List(ctx context.Context, userID uuid.UUID) ([]dto.BookmarkResponse, error)
}

type bookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	profileRepo  repository.ProfileRepository
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, profileRepo repository.ProfileRepository) BookmarkService {
	return &bookmarkService{bookmarkRepo: bookmarkRepo, profileRepo: profileRepo}
}

func (s *bookmarkService) Add(ctx context.Context, userID uuid.UUID, profileID string) error {
	profile, err := s.profileRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if !profileVisible(profile) && profile.UserID != userID {
		return apperror.ErrNotFound
	}
	if profile.UserID == userID {
		return apperror.New(0, "you cannot bookmark your own profile", apperror.ErrBadRequest)
	}

	// Re-adding an existing bookmark is a no-op, not an error.
	_, err = s.bookmarkRepo.Add(ctx, &model.Bookmark{UserID: userID, ProfileID: profileID})
	return err
}

func (s *bookmarkService) Remove(ctx context.Context, userID uuid.UUID, profileID string) error {
	return s.bookmarkRepo.Remove(ctx, userID, profileID)
}

// List returns the user's bookmarks. Bookmarked profiles that have since
// become invisible stay in the list but carry no summary.
func (s *bookmarkService) List(ctx context.Context, userID uuid.UUID) ([]dto.BookmarkResponse, error) {
	bookmarks, err := s.bookmarkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		item := dto.BookmarkResponse{
			ProfileID: b.ProfileID,
			CreatedAt: b.CreatedAt,
		}

		profile, err := s.profileRepo.FindByProfileID(ctx, b.ProfileID)
		if err == nil && profileVisible(profile) {
			summary := ToProfileSummary(profile)
			item.Profile = &summary
			item.StillValid = true
		}

		out = append(out, item)
	}

	return out, nil
}
