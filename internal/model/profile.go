package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProfileStatus string

const (
	ProfileStatusPendingApproval ProfileStatus = "pending_approval"
	ProfileStatusApproved        ProfileStatus = "approved"
	ProfileStatusRejected        ProfileStatus = "rejected"
	ProfileStatusHidden          ProfileStatus = "hidden"
)

// FamilyMember is one (relation, occupation) entry, e.g. {"brother", "Engineer"}.
// Stored as a typed JSON list instead of dynamically named columns.
type FamilyMember struct {
	Relation   string `json:"relation"`
	Occupation string `json:"occupation"`
}

type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID string    `gorm:"size:20;uniqueIndex;not null" json:"profile_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Status ProfileStatus `gorm:"size:30;not null;default:'pending_approval'" json:"status"`
	// StatusBeforeHide remembers the status a profile held when its owner was
	// restricted, so unrestricting restores the true prior state.
	StatusBeforeHide *ProfileStatus `gorm:"size:30" json:"-"`
	RejectionReason  *string        `gorm:"type:text" json:"rejection_reason,omitempty"`

	IsUnderReview  bool                        `gorm:"default:false" json:"is_under_review"`
	HasEditPending bool                        `gorm:"default:false" json:"has_edit_pending"`
	EditCount      int                         `gorm:"default:0" json:"edit_count"`
	EditedFields   datatypes.JSONSlice[string] `json:"edited_fields"`
	LastEditDate   *time.Time                  `json:"last_edit_date,omitempty"`

	// General
	Gender        string `gorm:"size:10;not null" json:"gender"`
	MaritalStatus string `gorm:"size:30;not null" json:"marital_status"`
	BirthYear     int    `gorm:"not null" json:"birth_year"`
	HeightCM      int    `gorm:"not null" json:"height_cm"`
	Complexion    string `gorm:"size:30" json:"complexion"`
	BloodGroup    string `gorm:"size:5" json:"blood_group"`
	Nationality   string `gorm:"size:50" json:"nationality"`

	// Address
	PresentDistrict   string `gorm:"size:50;not null" json:"present_district"`
	PermanentDistrict string `gorm:"size:50;not null" json:"permanent_district"`
	GrewUpIn          string `gorm:"size:100" json:"grew_up_in"`

	// Education and occupation
	Department     string `gorm:"size:100;not null" json:"department"`
	BatchYear      int    `gorm:"not null" json:"batch_year"`
	EducationLevel string `gorm:"size:100;not null" json:"education_level"`
	Occupation     string `gorm:"size:100;not null" json:"occupation"`
	OccupationDesc string `gorm:"type:text" json:"occupation_desc"`
	MonthlyIncome  string `gorm:"size:50" json:"monthly_income"`

	// Religious and lifestyle
	ReligiousPractice string `gorm:"type:text" json:"religious_practice"`
	DressCode         string `gorm:"size:100" json:"dress_code"`
	LifestyleNotes    string `gorm:"type:text" json:"lifestyle_notes"`

	// Family
	FatherAlive       bool                              `json:"father_alive"`
	FatherOccupation  string                            `gorm:"size:100" json:"father_occupation"`
	MotherAlive       bool                              `json:"mother_alive"`
	MotherOccupation  string                            `gorm:"size:100" json:"mother_occupation"`
	BrothersCount     int                               `json:"brothers_count"`
	SistersCount      int                               `json:"sisters_count"`
	FamilyOccupations datatypes.JSONSlice[FamilyMember] `json:"family_occupations"`
	FamilyDetails     string                            `gorm:"type:text" json:"family_details"`
	EconomicCondition string                            `gorm:"size:50" json:"economic_condition"`

	// Partner preferences
	PartnerAgeMin     int    `json:"partner_age_min"`
	PartnerAgeMax     int    `json:"partner_age_max"`
	PartnerEducation  string `gorm:"size:200" json:"partner_education"`
	PartnerDistricts  string `gorm:"size:200" json:"partner_districts"`
	PartnerExpectings string `gorm:"type:text" json:"partner_expectings"`

	AboutMe  string  `gorm:"type:text" json:"about_me"`
	PhotoURL *string `gorm:"type:text" json:"photo_url,omitempty"`

	// ContactInformation is disclosed only through the unlock flow.
	// PersonalContactInfo is visible to admins only.
	ContactInformation  string `gorm:"type:text;not null" json:"-"`
	PersonalContactInfo string `gorm:"type:text;not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// Visible reports whether the profile may appear in search and public detail.
func (p *Profile) Visible() bool {
	return p.Status == ProfileStatusApproved
}
