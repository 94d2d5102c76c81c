package dto

import (
	"time"

	"amarbiye.com/campusmatrimony/internal/model"
)

// BiodataInput is the full field map for a biodata submission or edit. The
// same payload is used for both; the service diffs it against the stored
// profile to decide whether a re-review is needed.
type BiodataInput struct {
	Gender        string `json:"gender" binding:"required,oneof=male female"`
	MaritalStatus string `json:"marital_status" binding:"required,oneof=never_married divorced widowed"`
	BirthYear     int    `json:"birth_year" binding:"required,gte=1950,lte=2010"`
	HeightCM      int    `json:"height_cm" binding:"required,gte=120,lte=230"`
	Complexion    string `json:"complexion"`
	BloodGroup    string `json:"blood_group"`
	Nationality   string `json:"nationality"`

	PresentDistrict   string `json:"present_district" binding:"required"`
	PermanentDistrict string `json:"permanent_district" binding:"required"`
	GrewUpIn          string `json:"grew_up_in"`

	Department     string `json:"department" binding:"required"`
	BatchYear      int    `json:"batch_year" binding:"required,gte=1960,lte=2035"`
	EducationLevel string `json:"education_level" binding:"required"`
	Occupation     string `json:"occupation" binding:"required"`
	OccupationDesc string `json:"occupation_desc"`
	MonthlyIncome  string `json:"monthly_income"`

	ReligiousPractice string `json:"religious_practice"`
	DressCode         string `json:"dress_code"`
	LifestyleNotes    string `json:"lifestyle_notes"`

	FatherAlive       bool                 `json:"father_alive"`
	FatherOccupation  string               `json:"father_occupation"`
	MotherAlive       bool                 `json:"mother_alive"`
	MotherOccupation  string               `json:"mother_occupation"`
	BrothersCount     int                  `json:"brothers_count" binding:"gte=0,lte=20"`
	SistersCount      int                  `json:"sisters_count" binding:"gte=0,lte=20"`
	FamilyOccupations []model.FamilyMember `json:"family_occupations"`
	FamilyDetails     string               `json:"family_details"`
	EconomicCondition string               `json:"economic_condition"`

	PartnerAgeMin     int    `json:"partner_age_min" binding:"gte=0"`
	PartnerAgeMax     int    `json:"partner_age_max" binding:"gte=0"`
	PartnerEducation  string `json:"partner_education"`
	PartnerDistricts  string `json:"partner_districts"`
	PartnerExpectings string `json:"partner_expectings"`

	AboutMe string `json:"about_me"`

	ContactInformation  string `json:"contact_information" binding:"required,min=10,max=500"`
	PersonalContactInfo string `json:"personal_contact_info" binding:"required,min=5,max=1000"`
}

// ProfileSummary is the search/listing shape. Contact fields are absent by
// construction, not just redacted.
type ProfileSummary struct {
	ProfileID       string  `json:"profile_id"`
	Gender          string  `json:"gender"`
	MaritalStatus   string  `json:"marital_status"`
	BirthYear       int     `json:"birth_year"`
	HeightCM        int     `json:"height_cm"`
	PresentDistrict string  `json:"present_district"`
	Department      string  `json:"department"`
	BatchYear       int     `json:"batch_year"`
	EducationLevel  string  `json:"education_level"`
	Occupation      string  `json:"occupation"`
	PhotoURL        *string `json:"photo_url,omitempty"`
}

type PaginatedProfileResponse struct {
	Data []ProfileSummary `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// ProfileDetail is the single-profile payload. ContactInformation is present
// only when the disclosure engine allowed it for this viewer.
type ProfileDetail struct {
	Profile            *model.Profile `json:"profile"`
	ContactInformation *string        `json:"contact_information,omitempty"`
	Unlocked           bool           `json:"unlocked"`
	Bookmarked         bool           `json:"bookmarked"`
}

// DisclosureResult is what the unlock endpoint returns.
type DisclosureResult struct {
	Disclosed          bool    `json:"disclosed"`
	ContactInformation string  `json:"contact_information,omitempty"`
	RemainingCredits   *int    `json:"remaining_credits,omitempty"`
	AlreadyUnlocked    bool    `json:"already_unlocked"`
	ChargedCredits     int     `json:"charged_credits"`
	ProfileID          string  `json:"profile_id"`
	UnlockedAt         *string `json:"unlocked_at,omitempty"`
}

type SaveDraftInput struct {
	Step int                    `json:"step" binding:"required,min=1,max=10"`
	Data map[string]interface{} `json:"data" binding:"required"`
}

type RejectProfileInput struct {
	Reason string `json:"reason" binding:"required,min=5,max=1000"`
}

type ReportProfileInput struct {
	Reason string `json:"reason" binding:"required,min=10,max=1000"`
}

type BookmarkResponse struct {
	ProfileID  string          `json:"profile_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Profile    *ProfileSummary `json:"profile,omitempty"`
	StillValid bool            `json:"still_valid"`
}
