package service

import (
	"context"
	"errors"
	"log"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"amarbiye.com/campusmatrimony/pkg/email"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// ModerationService is the profile status state machine. Email and in-app
// notifications are dispatched after the state change commits and are never
// allowed to fail the operation.
type ModerationService interface {
	Approve(ctx context.Context, profileID string) (*model.Profile, error)
	Reject(ctx context.Context, profileID, reason string) (*model.Profile, error)
	HideProfilesForUser(ctx context.Context, userID uuid.UUID) error
	RestoreProfilesForUser(ctx context.Context, userID uuid.UUID) error
	ListPending(ctx context.Context, page, limit int) ([]*model.Profile, *dto.PaginationMeta, error)
}

type moderationService struct {
	profileRepo   repository.ProfileRepository
	userRepo      repository.UserRepository
	meili         MeiliSearchService
	emailSender   email.Sender
	notifications NotificationService
}

func NewModerationService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	meili MeiliSearchService,
	emailSender email.Sender,
	notifications NotificationService,
) ModerationService {
	return &moderationService{
		profileRepo:   profileRepo,
		userRepo:      userRepo,
		meili:         meili,
		emailSender:   emailSender,
		notifications: notifications,
	}
}

func (s *moderationService) Approve(ctx context.Context, profileID string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if profile.Status != model.ProfileStatusPendingApproval {
		return nil, apperror.New(0, "profile is not pending review", apperror.ErrBadRequest)
	}

	profile.Status = model.ProfileStatusApproved
	profile.RejectionReason = nil
	profile.IsUnderReview = false
	profile.HasEditPending = false
	profile.EditedFields = nil

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	if s.meili != nil {
		if err := s.meili.IndexProfile(profile); err != nil {
			log.Printf("failed to index approved profile %s: %v", profileID, err)
		}
	}

	s.notifyOwner(profile, NotificationProfileApproved, "Your biodata has been approved and is now visible in search.", "")

	return profile, nil
}

func (s *moderationService) Reject(ctx context.Context, profileID, reason string) (*model.Profile, error) {
	if reason == "" {
		return nil, apperror.New(0, "a rejection reason is required", apperror.ErrInvalidInput)
	}

	profile, err := s.profileRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if profile.Status != model.ProfileStatusPendingApproval {
		return nil, apperror.New(0, "profile is not pending review", apperror.ErrBadRequest)
	}

	profile.Status = model.ProfileStatusRejected
	profile.RejectionReason = &reason
	profile.IsUnderReview = false
	profile.HasEditPending = false

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.notifyOwner(profile, NotificationProfileRejected, "Your biodata could not be approved: "+reason, reason)

	return profile, nil
}

// HideProfilesForUser is the administrative override applied when the owning
// user is restricted. The prior status is retained so unrestricting can put
// the profile back exactly where it was.
func (s *moderationService) HideProfilesForUser(ctx context.Context, userID uuid.UUID) error {
	profiles, err := s.profileRepo.FindAllByUserID(ctx, userID)
	if err != nil {
		return err
	}

	for _, profile := range profiles {
		if profile.Status == model.ProfileStatusHidden {
			continue
		}

		prior := profile.Status
		profile.StatusBeforeHide = &prior
		profile.Status = model.ProfileStatusHidden

		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return err
		}

		if s.meili != nil {
			if err := s.meili.DeleteProfile(profile.ProfileID); err != nil {
				log.Printf("failed to remove hidden profile %s from search index: %v", profile.ProfileID, err)
			}
		}
	}

	return nil
}

func (s *moderationService) RestoreProfilesForUser(ctx context.Context, userID uuid.UUID) error {
	profiles, err := s.profileRepo.FindAllByUserID(ctx, userID)
	if err != nil {
		return err
	}

	for _, profile := range profiles {
		if profile.Status != model.ProfileStatusHidden {
			continue
		}

		restored := model.ProfileStatusApproved
		if profile.StatusBeforeHide != nil {
			restored = *profile.StatusBeforeHide
		}
		profile.Status = restored
		profile.StatusBeforeHide = nil

		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return err
		}

		if restored == model.ProfileStatusApproved && s.meili != nil {
			if err := s.meili.IndexProfile(profile); err != nil {
				log.Printf("failed to re-index restored profile %s: %v", profile.ProfileID, err)
			}
		}
	}

	return nil
}

func (s *moderationService) ListPending(ctx context.Context, page, limit int) ([]*model.Profile, *dto.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	profiles, total, err := s.profileRepo.ListByStatus(ctx, model.ProfileStatusPendingApproval, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	meta := &dto.PaginationMeta{
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalItems:  total,
		Limit:       limit,
	}
	return profiles, meta, nil
}

// notifyOwner sends the post-commit email and in-app notification. Failures
// are logged and swallowed: the moderation state change is the source of truth.
func (s *moderationService) notifyOwner(profile *model.Profile, notifType, message, reason string) {
	owner := profile.User
	profileCopy := *profile

	go func() {
		ctx := context.Background()

		var user *model.User
		if owner != nil {
			user = owner
		} else {
			found, err := s.userRepo.FindByID(ctx, profileCopy.UserID.String())
			if err != nil {
				log.Printf("failed to load owner of profile %s for notification: %v", profileCopy.ProfileID, err)
				return
			}
			user = found
		}

		if s.notifications != nil {
			notification := &model.Notification{
				UserID:  user.ID,
				Type:    notifType,
				Message: message,
			}
			if err := s.notifications.CreateNotification(ctx, notification); err != nil {
				log.Printf("failed to create %s notification for user %s: %v", notifType, user.ID, err)
			}
		}

		if s.emailSender != nil {
			var err error
			switch notifType {
			case NotificationProfileApproved:
				err = s.emailSender.SendProfileApproved(user.Email, user.FullName)
			case NotificationProfileRejected:
				err = s.emailSender.SendProfileRejected(user.Email, user.FullName, reason)
			}
			if err != nil {
				log.Printf("failed to send %s email to %s: %v", notifType, user.Email, err)
			}
		}
	}()
}
