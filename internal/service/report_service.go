package service

import (
	"context"
	"errors"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportService interface {
	Report(ctx context.Context, reporterID uuid.UUID, profileID, reason string) error
	ListOpen(ctx context.Context, page, limit int) ([]model.ProfileReport, *dto.PaginationMeta, error)
	Resolve(ctx context.Context, reportID uint) error
}

type reportService struct {
	reportRepo  repository.ReportRepository
	profileRepo repository.ProfileRepository
}

func NewReportService(reportRepo repository.ReportRepository, profileRepo repository.ProfileRepository) ReportService {
	return &reportService{reportRepo: reportRepo, profileRepo: profileRepo}
}

func (s *reportService) Report(ctx context.Context, reporterID uuid.UUID, profileID, reason string) error {
	profile, err := s.profileRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if profile.UserID == reporterID {
		return apperror.New(0, "you cannot report your own profile", apperror.ErrBadRequest)
	}

	inserted, err := s.reportRepo.Create(ctx, &model.ProfileReport{
		ReporterID: reporterID,
		ProfileID:  profileID,
		Reason:     reason,
	})
	if err != nil {
		return err
	}
	if !inserted {
		return apperror.New(0, "you have already reported this profile", apperror.ErrConflict)
	}
	return nil
}

func (s *reportService) ListOpen(ctx context.Context, page, limit int) ([]model.ProfileReport, *dto.PaginationMeta, error) {
	page, limit = normalizePaging(page, limit)

	reports, total, err := s.reportRepo.ListOpen(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	return reports, paginationMeta(page, limit, total), nil
}

func (s *reportService) Resolve(ctx context.Context, reportID uint) error {
	return s.reportRepo.Resolve(ctx, reportID)
}
