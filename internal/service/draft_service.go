package service

import (
	"context"
	"encoding/json"
	"errors"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DraftService persists in-progress biodata forms so a multi-step submission
// survives page reloads. One draft per user; submitting the biodata clears it.
type DraftService interface {
	Save(ctx context.Context, userID uuid.UUID, input dto.SaveDraftInput) (*model.BiodataDraft, error)
	Get(ctx context.Context, userID uuid.UUID) (*model.BiodataDraft, error)
	Discard(ctx context.Context, userID uuid.UUID) error
}

type draftService struct {
	draftRepo repository.DraftRepository
}

func NewDraftService(draftRepo repository.DraftRepository) DraftService {
	return &draftService{draftRepo: draftRepo}
}

func (s *draftService) Save(ctx context.Context, userID uuid.UUID, input dto.SaveDraftInput) (*model.BiodataDraft, error) {
	payload, err := json.Marshal(input.Data)
	if err != nil {
		return nil, apperror.New(0, "draft payload is not valid JSON", apperror.ErrInvalidInput)
	}

	draft := &model.BiodataDraft{
		UserID: userID,
		Step:   input.Step,
		Data:   payload,
	}

	if err := s.draftRepo.Upsert(ctx, draft); err != nil {
		return nil, err
	}

	return draft, nil
}

func (s *draftService) Get(ctx context.Context, userID uuid.UUID) (*model.BiodataDraft, error) {
	draft, err := s.draftRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return draft, nil
}

func (s *draftService) Discard(ctx context.Context, userID uuid.UUID) error {
	return s.draftRepo.Delete(ctx, userID)
}
