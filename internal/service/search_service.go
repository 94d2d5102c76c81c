package service

import (
	"context"
	"math/rand"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
)

// SearchService lists approved profiles for browsing. Result order is
// shuffled per request so visibility spreads evenly across profiles.
type SearchService interface {
	ListProfiles(ctx context.Context, filter dto.ProfileFilter) (*dto.PaginatedProfileResponse, error)
}

type searchService struct {
	profileRepo repository.ProfileRepository
}

func NewSearchService(profileRepo repository.ProfileRepository) SearchService {
	return &searchService{profileRepo: profileRepo}
}

func (s *searchService) ListProfiles(ctx context.Context, filter dto.ProfileFilter) (*dto.PaginatedProfileResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 50 {
		filter.Limit = 12
	}

	profiles, total, err := s.profileRepo.ListVisible(ctx, filter, filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(profiles), func(i, j int) {
		profiles[i], profiles[j] = profiles[j], profiles[i]
	})

	summaries := make([]dto.ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		summaries = append(summaries, ToProfileSummary(p))
	}

	return &dto.PaginatedProfileResponse{
		Data: summaries,
		Meta: dto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

// ToProfileSummary maps a profile to its listing shape. Contact fields are
// not part of the summary type at all.
func ToProfileSummary(p *model.Profile) dto.ProfileSummary {
	return dto.ProfileSummary{
		ProfileID:       p.ProfileID,
		Gender:          p.Gender,
		MaritalStatus:   p.MaritalStatus,
		BirthYear:       p.BirthYear,
		HeightCM:        p.HeightCM,
		PresentDistrict: p.PresentDistrict,
		Department:      p.Department,
		BatchYear:       p.BatchYear,
		EducationLevel:  p.EducationLevel,
		Occupation:      p.Occupation,
		PhotoURL:        p.PhotoURL,
	}
}
