package repository

import (
	"context"

	"amarbiye.com/campusmatrimony/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftRepository interface {
	Upsert(ctx context.Context, draft *model.BiodataDraft) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.BiodataDraft, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Upsert(ctx context.Context, draft *model.BiodataDraft) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(draft).Error
}

func (r *draftRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.BiodataDraft, error) {
	var draft model.BiodataDraft
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.BiodataDraft{}).Error
}
