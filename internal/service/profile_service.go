package service

import (
	"context"
	"errors"
	"io"
	"log"
	"slices"
	"time"

	"amarbiye.com/campusmatrimony/internal/config"
	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"amarbiye.com/campusmatrimony/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type PhotoFile struct {
	Reader   io.Reader
	FileName string
}

type ProfileService interface {
	// SubmitOrEdit applies the full biodata field map. A first submission
	// creates the profile in pending_approval; an edit that changes at least
	// one field sends an approved or rejected profile back to review. An edit
	// that changes nothing writes nothing.
	SubmitOrEdit(ctx context.Context, userID uuid.UUID, input dto.BiodataInput, photo *PhotoFile) (*model.Profile, error)
	GetOwn(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	DeleteOwn(ctx context.Context, userID uuid.UUID) error
}

type profileService struct {
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	draftRepo    repository.DraftRepository
	imageStorage storage.ImageStorage
	meili        MeiliSearchService
	cfg          *config.Config
	sanitizer    *bluemonday.Policy
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	draftRepo repository.DraftRepository,
	imageStorage storage.ImageStorage,
	meili MeiliSearchService,
	cfg *config.Config,
) ProfileService {
	return &profileService{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		draftRepo:    draftRepo,
		imageStorage: imageStorage,
		meili:        meili,
		cfg:          cfg,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

// eligibleToSubmit gates biodata creation to institutional addresses and
// verified alumni.
func (s *profileService) eligibleToSubmit(user *model.User) bool {
	return s.cfg.InstitutionByEmail(user.Email) != nil || user.AlumniVerified
}

func (s *profileService) SubmitOrEdit(ctx context.Context, userID uuid.UUID, input dto.BiodataInput, photo *PhotoFile) (*model.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if user.IsBanned || user.IsRestricted || !user.IsActive {
		return nil, apperror.New(0, "this account cannot submit a biodata", apperror.ErrForbidden)
	}
	if !s.eligibleToSubmit(user) {
		return nil, apperror.New(0, "biodata submission is restricted to institutional or verified alumni accounts", apperror.ErrForbidden)
	}

	if err := validateBiodata(input); err != nil {
		return nil, err
	}
	sanitizeBiodata(s.sanitizer, &input)

	var photoURL *string
	if photo != nil && photo.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, photo.Reader, "biodata_photos", photo.FileName)
		if err != nil {
			return nil, err
		}
		photoURL = &url
	}

	existing, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.createProfile(ctx, user, input, photoURL)
		}
		return nil, err
	}

	return s.editProfile(ctx, existing, input, photoURL)
}

func (s *profileService) createProfile(ctx context.Context, user *model.User, input dto.BiodataInput, photoURL *string) (*model.Profile, error) {
	profileID := ""
	if user.ProfileID != nil {
		profileID = *user.ProfileID
	} else {
		inst := s.cfg.InstitutionByEmail(user.Email)
		prefix, start := "A", 1001 // alumni without an institutional address
		if inst != nil {
			prefix, start = inst.ProfilePrefix, inst.SequenceStart
		}
		assigned, err := s.userRepo.AssignProfileID(ctx, user.ID, prefix, start)
		if err != nil {
			return nil, err
		}
		profileID = assigned
	}

	profile := &model.Profile{
		ProfileID: profileID,
		UserID:    user.ID,
		Status:    model.ProfileStatusPendingApproval,
		PhotoURL:  photoURL,
	}
	applyBiodata(profile, input)

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	// The multi-step draft has served its purpose.
	if err := s.draftRepo.Delete(ctx, user.ID); err != nil {
		log.Printf("failed to delete draft for user %s: %v", user.ID, err)
	}

	return profile, nil
}

func (s *profileService) editProfile(ctx context.Context, profile *model.Profile, input dto.BiodataInput, photoURL *string) (*model.Profile, error) {
	if profile.Status == model.ProfileStatusHidden {
		return nil, apperror.New(0, "this biodata is currently hidden", apperror.ErrForbidden)
	}

	changed := diffBiodata(profile, input)
	if photoURL != nil {
		changed = append(changed, "photo_url")
	}
	if len(changed) == 0 {
		// Re-saving identical data must not force a re-review.
		return profile, nil
	}

	wasApproved := profile.Status == model.ProfileStatusApproved

	applyBiodata(profile, input)
	if photoURL != nil {
		profile.PhotoURL = photoURL
	}

	if profile.Status == model.ProfileStatusApproved || profile.Status == model.ProfileStatusRejected {
		profile.Status = model.ProfileStatusPendingApproval
	}
	profile.IsUnderReview = true
	profile.HasEditPending = true
	profile.RejectionReason = nil
	profile.EditCount++
	now := time.Now()
	profile.LastEditDate = &now

	for _, field := range changed {
		if !slices.Contains(profile.EditedFields, field) {
			profile.EditedFields = append(profile.EditedFields, field)
		}
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	// An edited profile leaves search until it is approved again.
	if wasApproved && s.meili != nil {
		if err := s.meili.DeleteProfile(profile.ProfileID); err != nil {
			log.Printf("failed to remove profile %s from search index: %v", profile.ProfileID, err)
		}
	}

	return profile, nil
}

func (s *profileService) GetOwn(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) DeleteOwn(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.profileRepo.Delete(ctx, profile.ProfileID); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err == nil {
		user.HasProfile = false
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Printf("failed to clear has_profile for user %s: %v", userID, err)
		}
	}

	if s.meili != nil {
		if err := s.meili.DeleteProfile(profile.ProfileID); err != nil {
			log.Printf("failed to remove profile %s from search index: %v", profile.ProfileID, err)
		}
	}

	return nil
}

// validateBiodata holds the conditional rules that binding tags cannot express.
func validateBiodata(in dto.BiodataInput) error {
	if in.FatherAlive && in.FatherOccupation == "" {
		return apperror.New(0, "father's occupation is required when father is alive", apperror.ErrInvalidInput)
	}
	if in.MotherAlive && in.MotherOccupation == "" {
		return apperror.New(0, "mother's occupation is required when mother is alive", apperror.ErrInvalidInput)
	}
	if in.PartnerAgeMin > 0 && in.PartnerAgeMax > 0 && in.PartnerAgeMin > in.PartnerAgeMax {
		return apperror.New(0, "partner age range is invalid", apperror.ErrInvalidInput)
	}
	for _, member := range in.FamilyOccupations {
		if member.Relation == "" || member.Occupation == "" {
			return apperror.New(0, "each family occupation entry needs a relation and an occupation", apperror.ErrInvalidInput)
		}
	}
	return nil
}

func sanitizeBiodata(p *bluemonday.Policy, in *dto.BiodataInput) {
	in.OccupationDesc = p.Sanitize(in.OccupationDesc)
	in.ReligiousPractice = p.Sanitize(in.ReligiousPractice)
	in.LifestyleNotes = p.Sanitize(in.LifestyleNotes)
	in.FamilyDetails = p.Sanitize(in.FamilyDetails)
	in.PartnerExpectings = p.Sanitize(in.PartnerExpectings)
	in.AboutMe = p.Sanitize(in.AboutMe)
	in.ContactInformation = p.Sanitize(in.ContactInformation)
	in.PersonalContactInfo = p.Sanitize(in.PersonalContactInfo)
}

// diffBiodata returns the names of fields whose values would change if the
// input were applied.
func diffBiodata(p *model.Profile, in dto.BiodataInput) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}

	add("gender", p.Gender != in.Gender)
	add("marital_status", p.MaritalStatus != in.MaritalStatus)
	add("birth_year", p.BirthYear != in.BirthYear)
	add("height_cm", p.HeightCM != in.HeightCM)
	add("complexion", p.Complexion != in.Complexion)
	add("blood_group", p.BloodGroup != in.BloodGroup)
	add("nationality", p.Nationality != in.Nationality)
	add("present_district", p.PresentDistrict != in.PresentDistrict)
	add("permanent_district", p.PermanentDistrict != in.PermanentDistrict)
	add("grew_up_in", p.GrewUpIn != in.GrewUpIn)
	add("department", p.Department != in.Department)
	add("batch_year", p.BatchYear != in.BatchYear)
	add("education_level", p.EducationLevel != in.EducationLevel)
	add("occupation", p.Occupation != in.Occupation)
	add("occupation_desc", p.OccupationDesc != in.OccupationDesc)
	add("monthly_income", p.MonthlyIncome != in.MonthlyIncome)
	add("religious_practice", p.ReligiousPractice != in.ReligiousPractice)
	add("dress_code", p.DressCode != in.DressCode)
	add("lifestyle_notes", p.LifestyleNotes != in.LifestyleNotes)
	add("father_alive", p.FatherAlive != in.FatherAlive)
	add("father_occupation", p.FatherOccupation != in.FatherOccupation)
	add("mother_alive", p.MotherAlive != in.MotherAlive)
	add("mother_occupation", p.MotherOccupation != in.MotherOccupation)
	add("brothers_count", p.BrothersCount != in.BrothersCount)
	add("sisters_count", p.SistersCount != in.SistersCount)
	add("family_occupations", !slices.Equal([]model.FamilyMember(p.FamilyOccupations), in.FamilyOccupations))
	add("family_details", p.FamilyDetails != in.FamilyDetails)
	add("economic_condition", p.EconomicCondition != in.EconomicCondition)
	add("partner_age_min", p.PartnerAgeMin != in.PartnerAgeMin)
	add("partner_age_max", p.PartnerAgeMax != in.PartnerAgeMax)
	add("partner_education", p.PartnerEducation != in.PartnerEducation)
	add("partner_districts", p.PartnerDistricts != in.PartnerDistricts)
	add("partner_expectings", p.PartnerExpectings != in.PartnerExpectings)
	add("about_me", p.AboutMe != in.AboutMe)
	add("contact_information", p.ContactInformation != in.ContactInformation)
	add("personal_contact_info", p.PersonalContactInfo != in.PersonalContactInfo)

	return changed
}

func applyBiodata(p *model.Profile, in dto.BiodataInput) {
	p.Gender = in.Gender
	p.MaritalStatus = in.MaritalStatus
	p.BirthYear = in.BirthYear
	p.HeightCM = in.HeightCM
	p.Complexion = in.Complexion
	p.BloodGroup = in.BloodGroup
	p.Nationality = in.Nationality
	p.PresentDistrict = in.PresentDistrict
	p.PermanentDistrict = in.PermanentDistrict
	p.GrewUpIn = in.GrewUpIn
	p.Department = in.Department
	p.BatchYear = in.BatchYear
	p.EducationLevel = in.EducationLevel
	p.Occupation = in.Occupation
	p.OccupationDesc = in.OccupationDesc
	p.MonthlyIncome = in.MonthlyIncome
	p.ReligiousPractice = in.ReligiousPractice
	p.DressCode = in.DressCode
	p.LifestyleNotes = in.LifestyleNotes
	p.FatherAlive = in.FatherAlive
	p.FatherOccupation = in.FatherOccupation
	p.MotherAlive = in.MotherAlive
	p.MotherOccupation = in.MotherOccupation
	p.BrothersCount = in.BrothersCount
	p.SistersCount = in.SistersCount
	p.FamilyOccupations = in.FamilyOccupations
	p.FamilyDetails = in.FamilyDetails
	p.EconomicCondition = in.EconomicCondition
	p.PartnerAgeMin = in.PartnerAgeMin
	p.PartnerAgeMax = in.PartnerAgeMax
	p.PartnerEducation = in.PartnerEducation
	p.PartnerDistricts = in.PartnerDistricts
	p.PartnerExpectings = in.PartnerExpectings
	p.AboutMe = in.AboutMe
	p.ContactInformation = in.ContactInformation
	p.PersonalContactInfo = in.PersonalContactInfo
}
