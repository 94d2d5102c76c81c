package repository

import (
	"context"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Save(ctx context.Context, profile *model.Profile) error
	FindByProfileID(ctx context.Context, profileID string) (*model.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Delete(ctx context.Context, profileID string) error

	// ListVisible returns approved profiles whose owners are active and
	// unrestricted, matching the filter, plus the total match count.
	ListVisible(ctx context.Context, filter dto.ProfileFilter, limit, offset int) ([]*model.Profile, int64, error)

	// ListByStatus is the admin moderation queue.
	ListByStatus(ctx context.Context, status model.ProfileStatus, limit, offset int) ([]*model.Profile, int64, error)

	FindAllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) Save(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) FindByProfileID(ctx context.Context, profileID string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Role").
		Where("profile_id = ?", profileID).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Delete(ctx context.Context, profileID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&model.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profileID).Delete(&model.ProfileReport{}).Error; err != nil {
			return err
		}
		return tx.Where("profile_id = ?", profileID).Delete(&model.Profile{}).Error
	})
}

func (r *profileRepository) ListVisible(ctx context.Context, filter dto.ProfileFilter, limit, offset int) ([]*model.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profiles.status = ?", model.ProfileStatusApproved).
		Where("users.is_active = ? AND users.is_banned = ? AND users.is_restricted = ?", true, false, false)

	if filter.Gender != "" {
		query = query.Where("profiles.gender = ?", filter.Gender)
	}
	if filter.MaritalStatus != "" {
		query = query.Where("profiles.marital_status = ?", filter.MaritalStatus)
	}
	if filter.PresentDistrict != "" {
		query = query.Where("profiles.present_district = ?", filter.PresentDistrict)
	}
	if filter.Department != "" {
		query = query.Where("profiles.department = ?", filter.Department)
	}
	if filter.EducationLevel != "" {
		query = query.Where("profiles.education_level = ?", filter.EducationLevel)
	}
	// Age filters translate to birth-year bounds.
	if filter.AgeMin > 0 {
		query = query.Where("profiles.birth_year <= EXTRACT(YEAR FROM NOW()) - ?", filter.AgeMin)
	}
	if filter.AgeMax > 0 {
		query = query.Where("profiles.birth_year >= EXTRACT(YEAR FROM NOW()) - ?", filter.AgeMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []*model.Profile
	if err := query.Limit(limit).Offset(offset).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepository) ListByStatus(ctx context.Context, status model.ProfileStatus, limit, offset int) ([]*model.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Profile{}).
		Preload("User").
		Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []*model.Profile
	if err := query.Order("updated_at ASC").Limit(limit).Offset(offset).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepository) FindAllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Profile, error) {
	var profiles []*model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
