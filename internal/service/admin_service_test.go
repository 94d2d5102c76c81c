package service

import (
	"context"
	"testing"

	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

type adminFixture struct {
	userRepo    *fakeUserRepo
	profileRepo *fakeProfileRepo
	meili       *fakeMeili
	svc         AdminService
}

func newAdminFixture() *adminFixture {
	userRepo := newFakeUserRepo()
	profileRepo := newFakeProfileRepo(userRepo)
	meili := newFakeMeili()
	moderation := NewModerationService(profileRepo, userRepo, meili, nil, nil)

	return &adminFixture{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		meili:       meili,
		svc:         NewAdminService(userRepo, moderation, meili),
	}
}

func (f *adminFixture) addMember(profileStatus model.ProfileStatus) *model.User {
	profileID := "X1001"
	member := f.userRepo.add(&model.User{
		Email:     "member@student.cuet.ac.bd",
		IsActive:  true,
		ProfileID: &profileID,
	})
	f.profileRepo.Create(context.Background(), &model.Profile{
		ProfileID: profileID,
		UserID:    member.ID,
		Status:    profileStatus,
	})
	return member
}

func TestRestrictUserHidesProfile(t *testing.T) {
	f := newAdminFixture()
	member := f.addMember(model.ProfileStatusApproved)

	updated, err := f.svc.RestrictUser(context.Background(), member.ID)

	assert.NoError(t, err)
	assert.True(t, updated.IsRestricted)

	stored := f.profileRepo.get("X1001")
	assert.Equal(t, model.ProfileStatusHidden, stored.Status)
	if assert.NotNil(t, stored.StatusBeforeHide) {
		assert.Equal(t, model.ProfileStatusApproved, *stored.StatusBeforeHide)
	}
}

func TestUnrestrictUserRestoresProfile(t *testing.T) {
	f := newAdminFixture()
	member := f.addMember(model.ProfileStatusApproved)

	_, err := f.svc.RestrictUser(context.Background(), member.ID)
	assert.NoError(t, err)

	updated, err := f.svc.UnrestrictUser(context.Background(), member.ID)

	assert.NoError(t, err)
	assert.False(t, updated.IsRestricted)

	stored := f.profileRepo.get("X1001")
	assert.Equal(t, model.ProfileStatusApproved, stored.Status)
	assert.Nil(t, stored.StatusBeforeHide)
	assert.True(t, f.meili.has("X1001"))
}

func TestUnbanKeepsProfileHiddenWhileRestricted(t *testing.T) {
	f := newAdminFixture()
	member := f.addMember(model.ProfileStatusApproved)

	_, err := f.svc.RestrictUser(context.Background(), member.ID)
	assert.NoError(t, err)
	_, err = f.svc.BanUser(context.Background(), member.ID)
	assert.NoError(t, err)

	_, err = f.svc.UnbanUser(context.Background(), member.ID)
	assert.NoError(t, err)

	stored := f.profileRepo.get("X1001")
	assert.Equal(t, model.ProfileStatusHidden, stored.Status)
}

func TestAdminAccountsCannotBeBanned(t *testing.T) {
	f := newAdminFixture()
	admin := f.userRepo.add(&model.User{
		Email:    "admin@example.com",
		IsActive: true,
		Role:     model.Role{Name: "admin"},
	})

	_, err := f.svc.BanUser(context.Background(), admin.ID)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestVerifyAlumniClearsRequestFlag(t *testing.T) {
	f := newAdminFixture()
	member := f.userRepo.add(&model.User{
		Email:               "alum@gmail.com",
		IsActive:            true,
		VerificationRequest: true,
	})

	updated, err := f.svc.VerifyAlumni(context.Background(), member.ID)

	assert.NoError(t, err)
	assert.True(t, updated.AlumniVerified)
	assert.False(t, updated.VerificationRequest)
}

func TestDeleteUserRemovesSearchDocument(t *testing.T) {
	f := newAdminFixture()
	member := f.addMember(model.ProfileStatusApproved)
	f.meili.IndexProfile(&model.Profile{ProfileID: "X1001"})

	err := f.svc.DeleteUser(context.Background(), member.ID)

	assert.NoError(t, err)
	assert.False(t, f.meili.has("X1001"))

	_, err = f.userRepo.FindByID(context.Background(), member.ID.String())
	assert.Error(t, err)
}
