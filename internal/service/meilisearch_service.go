package service

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"amarbiye.com/campusmatrimony/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// MeiliSearchService mirrors approved profiles into a meilisearch index for
// text search. Contact fields are never indexed.
type MeiliSearchService interface {
	IndexProfile(profile *model.Profile) error
	DeleteProfile(profileID string) error
	GenerateSearchToken(userRole string) (string, error)
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	masterKey     string
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) MeiliSearchService {
	masterKey := os.Getenv("MEILI_MASTER_KEY")
	if masterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}

	s := &meiliSearchService{
		client:    client,
		masterKey: masterKey,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"profiles"},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"status", "gender", "marital_status", "present_district", "department", "education_level", "batch_year"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("profiles").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update profiles filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "birth_year", "height_cm"}
	_, err = s.client.Index("profiles").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update profiles sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliProfileDoc struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	Gender          string `json:"gender"`
	MaritalStatus   string `json:"marital_status"`
	BirthYear       int    `json:"birth_year"`
	HeightCM        int    `json:"height_cm"`
	PresentDistrict string `json:"present_district"`
	Department      string `json:"department"`
	BatchYear       int    `json:"batch_year"`
	EducationLevel  string `json:"education_level"`
	Occupation      string `json:"occupation"`
	AboutMe         string `json:"about_me"`
	FamilyDetails   string `json:"family_details"`
	CreatedAt       int64  `json:"created_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexProfile(profile *model.Profile) error {
	doc := meiliProfileDoc{
		ID:              profile.ProfileID,
		Status:          string(profile.Status),
		Gender:          profile.Gender,
		MaritalStatus:   profile.MaritalStatus,
		BirthYear:       profile.BirthYear,
		HeightCM:        profile.HeightCM,
		PresentDistrict: profile.PresentDistrict,
		Department:      profile.Department,
		BatchYear:       profile.BatchYear,
		EducationLevel:  profile.EducationLevel,
		Occupation:      profile.Occupation,
		AboutMe:         s.cleanContentForIndex(profile.AboutMe),
		FamilyDetails:   s.cleanContentForIndex(profile.FamilyDetails),
		CreatedAt:       profile.CreatedAt.Unix(),
	}

	task, err := s.client.Index("profiles").AddDocuments([]meiliProfileDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed profile %s, task id: %d", profile.ProfileID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteProfile(profileID string) error {
	_, err := s.client.Index("profiles").DeleteDocument(profileID)
	return err
}

// GenerateSearchToken returns a tenant token that scopes non-admin viewers to
// approved documents only.
func (s *meiliSearchService) GenerateSearchToken(userRole string) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{}
	if userRole == "admin" {
		searchRules["profiles"] = map[string]any{"filter": nil}
	} else {
		searchRules["profiles"] = map[string]any{
			"filter": "status = 'approved'",
		}
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func strPtr(s string) *string {
	return &s
}
