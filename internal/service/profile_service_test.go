package service

import (
	"context"
	"strings"
	"testing"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

type profileFixture struct {
	userRepo    *fakeUserRepo
	profileRepo *fakeProfileRepo
	draftRepo   *fakeDraftRepo
	meili       *fakeMeili
	svc         ProfileService
}

func newProfileFixture() *profileFixture {
	userRepo := newFakeUserRepo()
	profileRepo := newFakeProfileRepo(userRepo)
	draftRepo := newFakeDraftRepo()
	meili := newFakeMeili()

	return &profileFixture{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		draftRepo:   draftRepo,
		meili:       meili,
		svc:         NewProfileService(profileRepo, userRepo, draftRepo, fakeImageStorage{}, meili, testConfig()),
	}
}

func validBiodata() dto.BiodataInput {
	return dto.BiodataInput{
		Gender:              "male",
		MaritalStatus:       "never_married",
		BirthYear:           1998,
		HeightCM:            170,
		PresentDistrict:     "Chattogram",
		PermanentDistrict:   "Cumilla",
		Department:          "CSE",
		BatchYear:           2016,
		EducationLevel:      "BSc",
		Occupation:          "Software Engineer",
		FatherAlive:         true,
		FatherOccupation:    "Teacher",
		MotherAlive:         true,
		MotherOccupation:    "Homemaker",
		PartnerAgeMin:       22,
		PartnerAgeMax:       28,
		ContactInformation:  "call 01700000000",
		PersonalContactInfo: "guardian: 01800000000",
	}
}

func TestFirstSubmissionCreatesPendingProfile(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})
	f.draftRepo.Upsert(context.Background(), &model.BiodataDraft{UserID: user.ID, Step: 5})

	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "X1001", profile.ProfileID)
	assert.Equal(t, model.ProfileStatusPendingApproval, profile.Status)
	assert.Equal(t, 0, profile.EditCount)

	stored, err := f.userRepo.FindByID(context.Background(), user.ID.String())
	assert.NoError(t, err)
	assert.True(t, stored.HasProfile)

	// The multi-step draft is cleared on submission.
	_, err = f.draftRepo.FindByUserID(context.Background(), user.ID)
	assert.Error(t, err)
}

func TestProfileIDSequenceIncrements(t *testing.T) {
	f := newProfileFixture()
	first := f.userRepo.add(&model.User{Email: "a@student.cuet.ac.bd", IsActive: true})
	second := f.userRepo.add(&model.User{Email: "b@student.cuet.ac.bd", IsActive: true})

	p1, err := f.svc.SubmitOrEdit(context.Background(), first.ID, validBiodata(), nil)
	assert.NoError(t, err)
	p2, err := f.svc.SubmitOrEdit(context.Background(), second.ID, validBiodata(), nil)
	assert.NoError(t, err)

	assert.Equal(t, "X1001", p1.ProfileID)
	assert.Equal(t, "X1002", p2.ProfileID)
}

func TestVerifiedAlumniGetsAlumniPrefix(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "alum@gmail.com", IsActive: true, AlumniVerified: true})

	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "A1001", profile.ProfileID)
}

func TestIneligibleAccountCannotSubmit(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "random@gmail.com", IsActive: true})

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestBannedAccountCannotSubmit(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true, IsBanned: true})

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestIdenticalResaveWritesNothing(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	input := validBiodata()
	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, input, nil)
	assert.NoError(t, err)

	// Approve it, then re-save the exact same payload.
	stored := f.profileRepo.get("X1001")
	stored.Status = model.ProfileStatusApproved

	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, input, nil)

	assert.NoError(t, err)
	assert.Equal(t, model.ProfileStatusApproved, profile.Status)
	assert.Equal(t, 0, profile.EditCount)
	assert.False(t, profile.IsUnderReview)
	assert.Empty(t, profile.EditedFields)
}

func TestEditTriggersReReview(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)
	assert.NoError(t, err)

	stored := f.profileRepo.get("X1001")
	stored.Status = model.ProfileStatusApproved
	f.meili.IndexProfile(stored)

	edited := validBiodata()
	edited.Occupation = "Senior Software Engineer"

	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, edited, nil)

	assert.NoError(t, err)
	assert.Equal(t, model.ProfileStatusPendingApproval, profile.Status)
	assert.True(t, profile.IsUnderReview)
	assert.True(t, profile.HasEditPending)
	assert.Equal(t, 1, profile.EditCount)
	assert.Contains(t, []string(profile.EditedFields), "occupation")
	assert.NotNil(t, profile.LastEditDate)
	// Edited profiles leave the search index until re-approved.
	assert.False(t, f.meili.has("X1001"))
}

func TestEditedFieldsDeduplicated(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)
	assert.NoError(t, err)

	edited := validBiodata()
	edited.Occupation = "Senior Software Engineer"
	_, err = f.svc.SubmitOrEdit(context.Background(), user.ID, edited, nil)
	assert.NoError(t, err)

	edited.Occupation = "Staff Engineer"
	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, edited, nil)
	assert.NoError(t, err)

	occurrences := 0
	for _, field := range profile.EditedFields {
		if field == "occupation" {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)
	assert.Equal(t, 2, profile.EditCount)
}

func TestEditClearsRejectionReason(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)
	assert.NoError(t, err)

	stored := f.profileRepo.get("X1001")
	stored.Status = model.ProfileStatusRejected
	reason := "incomplete information"
	stored.RejectionReason = &reason

	edited := validBiodata()
	edited.AboutMe = "a few words about me"

	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, edited, nil)

	assert.NoError(t, err)
	assert.Equal(t, model.ProfileStatusPendingApproval, profile.Status)
	assert.Nil(t, profile.RejectionReason)
}

func TestHiddenProfileCannotBeEdited(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)
	assert.NoError(t, err)

	stored := f.profileRepo.get("X1001")
	stored.Status = model.ProfileStatusHidden

	edited := validBiodata()
	edited.AboutMe = "updated"

	_, err = f.svc.SubmitOrEdit(context.Background(), user.ID, edited, nil)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestFatherOccupationRequiredWhenAlive(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	input := validBiodata()
	input.FatherOccupation = ""

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, input, nil)

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPartnerAgeRangeValidated(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	input := validBiodata()
	input.PartnerAgeMin = 30
	input.PartnerAgeMax = 25

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, input, nil)

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestFamilyOccupationEntriesValidated(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	input := validBiodata()
	input.FamilyOccupations = []model.FamilyMember{{Relation: "brother", Occupation: ""}}

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, input, nil)

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestFreeTextIsSanitized(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	input := validBiodata()
	input.AboutMe = `hello <script>alert("x")</script>world`

	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, input, nil)

	assert.NoError(t, err)
	assert.NotContains(t, profile.AboutMe, "<script>")
}

func TestPhotoUploadStoresURL(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	photo := &PhotoFile{Reader: strings.NewReader("fake image bytes"), FileName: "me.jpg"}
	profile, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), photo)

	assert.NoError(t, err)
	if assert.NotNil(t, profile.PhotoURL) {
		assert.Contains(t, *profile.PhotoURL, "biodata_photos")
	}
}

func TestDeleteOwnProfile(t *testing.T) {
	f := newProfileFixture()
	user := f.userRepo.add(&model.User{Email: "student@student.cuet.ac.bd", IsActive: true})

	_, err := f.svc.SubmitOrEdit(context.Background(), user.ID, validBiodata(), nil)
	assert.NoError(t, err)

	assert.NoError(t, f.svc.DeleteOwn(context.Background(), user.ID))

	_, err = f.svc.GetOwn(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	stored, err := f.userRepo.FindByID(context.Background(), user.ID.String())
	assert.NoError(t, err)
	assert.False(t, stored.HasProfile)
}
