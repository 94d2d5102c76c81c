package repository

import (
	"context"

	"amarbiye.com/campusmatrimony/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.ProfileReport) (bool, error)
	ListOpen(ctx context.Context, limit, offset int) ([]model.ProfileReport, int64, error)
	Resolve(ctx context.Context, id uint) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts the report; returns false if this reporter already reported
// this profile.
func (r *reportRepository) Create(ctx context.Context, report *model.ProfileReport) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(report)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reportRepository) ListOpen(ctx context.Context, limit, offset int) ([]model.ProfileReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ProfileReport{}).
		Preload("Reporter").
		Where("status = ?", model.ReportStatusOpen)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []model.ProfileReport
	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) Resolve(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.ProfileReport{}).
		Where("id = ?", id).
		Update("status", model.ReportStatusResolved).Error
}
