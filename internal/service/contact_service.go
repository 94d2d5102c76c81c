package service

import (
	"context"
	"errors"

	"amarbiye.com/campusmatrimony/internal/config"
	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactService decides, per (viewer, profile) pair, whether contact
// information may be revealed, and charges credits when revealing requires
// payment.
type ContactService interface {
	ResolveDisclosure(ctx context.Context, viewerID *uuid.UUID, profileID string) (*dto.DisclosureResult, error)
	GetProfileDetail(ctx context.Context, viewerID *uuid.UUID, profileID string) (*dto.ProfileDetail, error)
}

type contactService struct {
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	bookmarkRepo repository.BookmarkRepository
	settings     SettingsService
	cfg          *config.Config
}

func NewContactService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	bookmarkRepo repository.BookmarkRepository,
	settings SettingsService,
	cfg *config.Config,
) ContactService {
	return &contactService{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		bookmarkRepo: bookmarkRepo,
		settings:     settings,
		cfg:          cfg,
	}
}

func (s *contactService) canAccessContactInfo(user *model.User) bool {
	return s.cfg.InstitutionByEmail(user.Email) != nil || user.AlumniVerified
}

// profileVisible applies the public visibility rule: approved status and an
// owner in good standing.
func profileVisible(profile *model.Profile) bool {
	if profile.Status != model.ProfileStatusApproved {
		return false
	}
	if profile.User != nil && (profile.User.IsRestricted || profile.User.IsBanned || !profile.User.IsActive) {
		return false
	}
	return true
}

// ResolveDisclosure evaluates the disclosure ladder in precedence order:
// unauthenticated, owner, admin, eligibility, free mode, already unlocked,
// paid unlock.
func (s *contactService) ResolveDisclosure(ctx context.Context, viewerID *uuid.UUID, profileID string) (*dto.DisclosureResult, error) {
	if viewerID == nil {
		return nil, apperror.ErrUnauthorized
	}

	profile, err := s.profileRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	viewer, err := s.userRepo.FindByID(ctx, viewerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	// Owner and admin see their own/any contact info with no credit effect.
	if profile.UserID == viewer.ID || viewer.IsAdmin() {
		credits := viewer.Credits
		return &dto.DisclosureResult{
			Disclosed:          true,
			ContactInformation: profile.ContactInformation,
			RemainingCredits:   &credits,
			ProfileID:          profile.ProfileID,
		}, nil
	}

	if !profileVisible(profile) {
		return nil, apperror.ErrNotFound
	}

	// Eligibility comes before any credit consideration.
	if !s.canAccessContactInfo(viewer) {
		return nil, apperror.New(0, "contact information is restricted to institutional or verified alumni accounts", apperror.ErrForbidden)
	}

	if !s.settings.MonetizationEnabled(ctx) {
		// Free mode: record the unlock so it survives a later toggle flip, but
		// charge nothing and write no ledger row.
		if err := s.userRepo.RecordFreeUnlock(ctx, viewer.ID, profile.ProfileID); err != nil {
			return nil, err
		}
		credits := viewer.Credits
		return &dto.DisclosureResult{
			Disclosed:          true,
			ContactInformation: profile.ContactInformation,
			RemainingCredits:   &credits,
			ProfileID:          profile.ProfileID,
		}, nil
	}

	unlocked, err := s.userRepo.HasUnlocked(ctx, viewer.ID, profile.ProfileID)
	if err != nil {
		return nil, err
	}
	if unlocked {
		credits := viewer.Credits
		return &dto.DisclosureResult{
			Disclosed:          true,
			ContactInformation: profile.ContactInformation,
			RemainingCredits:   &credits,
			AlreadyUnlocked:    true,
			ProfileID:          profile.ProfileID,
		}, nil
	}

	cost := s.settings.UnlockCost()
	err = s.userRepo.UnlockContact(ctx, viewer.ID, profile.ProfileID, cost)
	alreadyUnlocked := false
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrAlreadyUnlocked):
		// Lost a race against a concurrent unlock of the same pair; the other
		// request paid, this one rides along.
		alreadyUnlocked = true
		cost = 0
	case errors.Is(err, apperror.ErrInsufficientCredits):
		return nil, apperror.ErrInsufficientCredits
	default:
		return nil, err
	}

	refreshed, err := s.userRepo.FindByID(ctx, viewer.ID.String())
	if err != nil {
		return nil, err
	}
	credits := refreshed.Credits

	return &dto.DisclosureResult{
		Disclosed:          true,
		ContactInformation: profile.ContactInformation,
		RemainingCredits:   &credits,
		AlreadyUnlocked:    alreadyUnlocked,
		ChargedCredits:     cost,
		ProfileID:          profile.ProfileID,
	}, nil
}

// GetProfileDetail returns a profile for viewing. The contact field is
// attached only when this viewer is already entitled to it; it never triggers
// a debit.
func (s *contactService) GetProfileDetail(ctx context.Context, viewerID *uuid.UUID, profileID string) (*dto.ProfileDetail, error) {
	profile, err := s.profileRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	detail := &dto.ProfileDetail{Profile: profile}

	if viewerID == nil {
		if !profileVisible(profile) {
			return nil, apperror.ErrNotFound
		}
		return detail, nil
	}

	viewer, err := s.userRepo.FindByID(ctx, viewerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	isOwner := profile.UserID == viewer.ID
	if !isOwner && !viewer.IsAdmin() && !profileVisible(profile) {
		return nil, apperror.ErrNotFound
	}

	if s.bookmarkRepo != nil {
		bookmarked, err := s.bookmarkRepo.Exists(ctx, viewer.ID, profile.ProfileID)
		if err == nil {
			detail.Bookmarked = bookmarked
		}
	}

	switch {
	case isOwner || viewer.IsAdmin():
		contact := profile.ContactInformation
		detail.ContactInformation = &contact
		detail.Unlocked = true
	case !s.canAccessContactInfo(viewer):
		// Ineligible viewers see the profile but never the contact field.
	case !s.settings.MonetizationEnabled(ctx):
		contact := profile.ContactInformation
		detail.ContactInformation = &contact
		detail.Unlocked = true
	default:
		unlocked, err := s.userRepo.HasUnlocked(ctx, viewer.ID, profile.ProfileID)
		if err != nil {
			return nil, err
		}
		if unlocked {
			contact := profile.ContactInformation
			detail.ContactInformation = &contact
			detail.Unlocked = true
		}
	}

	return detail, nil
}
