package service

import (
	"context"
	"testing"

	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

type bookmarkFixture struct {
	userRepo     *fakeUserRepo
	profileRepo  *fakeProfileRepo
	bookmarkRepo *fakeBookmarkRepo
	svc          BookmarkService
}

func newBookmarkFixture() *bookmarkFixture {
	userRepo := newFakeUserRepo()
	profileRepo := newFakeProfileRepo(userRepo)
	bookmarkRepo := newFakeBookmarkRepo()

	return &bookmarkFixture{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		bookmarkRepo: bookmarkRepo,
		svc:          NewBookmarkService(bookmarkRepo, profileRepo),
	}
}

func (f *bookmarkFixture) addProfile(profileID string, status model.ProfileStatus) *model.User {
	owner := f.userRepo.add(&model.User{
		Email:     profileID + "@student.cuet.ac.bd",
		IsActive:  true,
		ProfileID: &profileID,
	})
	f.profileRepo.Create(context.Background(), &model.Profile{
		ProfileID: profileID,
		UserID:    owner.ID,
		Status:    status,
	})
	return owner
}

func TestBookmarkAddAndList(t *testing.T) {
	f := newBookmarkFixture()
	f.addProfile("X1001", model.ProfileStatusApproved)
	viewer := f.userRepo.add(&model.User{Email: "viewer@student.cuet.ac.bd", IsActive: true})

	assert.NoError(t, f.svc.Add(context.Background(), viewer.ID, "X1001"))

	list, err := f.svc.List(context.Background(), viewer.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "X1001", list[0].ProfileID)
	assert.True(t, list[0].StillValid)
	assert.NotNil(t, list[0].Profile)
}

func TestBookmarkAddIsIdempotent(t *testing.T) {
	f := newBookmarkFixture()
	f.addProfile("X1001", model.ProfileStatusApproved)
	viewer := f.userRepo.add(&model.User{Email: "viewer@student.cuet.ac.bd", IsActive: true})

	assert.NoError(t, f.svc.Add(context.Background(), viewer.ID, "X1001"))
	assert.NoError(t, f.svc.Add(context.Background(), viewer.ID, "X1001"))

	list, err := f.svc.List(context.Background(), viewer.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBookmarkOwnProfileRejected(t *testing.T) {
	f := newBookmarkFixture()
	owner := f.addProfile("X1001", model.ProfileStatusApproved)

	err := f.svc.Add(context.Background(), owner.ID, "X1001")

	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestBookmarkInvisibleProfileNotFound(t *testing.T) {
	f := newBookmarkFixture()
	f.addProfile("X1001", model.ProfileStatusPendingApproval)
	viewer := f.userRepo.add(&model.User{Email: "viewer@student.cuet.ac.bd", IsActive: true})

	err := f.svc.Add(context.Background(), viewer.ID, "X1001")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBookmarkSurvivesProfileHiding(t *testing.T) {
	f := newBookmarkFixture()
	f.addProfile("X1001", model.ProfileStatusApproved)
	viewer := f.userRepo.add(&model.User{Email: "viewer@student.cuet.ac.bd", IsActive: true})

	assert.NoError(t, f.svc.Add(context.Background(), viewer.ID, "X1001"))

	stored := f.profileRepo.get("X1001")
	stored.Status = model.ProfileStatusHidden

	list, err := f.svc.List(context.Background(), viewer.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	// The entry stays, but no longer carries a viewable summary.
	assert.False(t, list[0].StillValid)
	assert.Nil(t, list[0].Profile)
}

func TestBookmarkRemove(t *testing.T) {
	f := newBookmarkFixture()
	f.addProfile("X1001", model.ProfileStatusApproved)
	viewer := f.userRepo.add(&model.User{Email: "viewer@student.cuet.ac.bd", IsActive: true})

	assert.NoError(t, f.svc.Add(context.Background(), viewer.ID, "X1001"))
	assert.NoError(t, f.svc.Remove(context.Background(), viewer.ID, "X1001"))

	list, err := f.svc.List(context.Background(), viewer.ID)
	assert.NoError(t, err)
	assert.Empty(t, list)
}
