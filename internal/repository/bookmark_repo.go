package repository

import (
	"context"

	"amarbiye.com/campusmatrimony/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookmarkRepository interface {
	Add(ctx context.Context, bookmark *model.Bookmark) (bool, error)
	Remove(ctx context.Context, userID uuid.UUID, profileID string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error)
	Exists(ctx context.Context, userID uuid.UUID, profileID string) (bool, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Add inserts the bookmark; returns false if the pair already existed.
func (r *bookmarkRepository) Add(ctx context.Context, bookmark *model.Bookmark) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID uuid.UUID, profileID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND profile_id = ?", userID, profileID).
		Delete(&model.Bookmark{}).Error
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error) {
	var bookmarks []model.Bookmark
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error; err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID uuid.UUID, profileID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("user_id = ? AND profile_id = ?", userID, profileID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
