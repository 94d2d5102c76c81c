package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	GoogleID     *string   `gorm:"size:100;uniqueIndex" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`

	// ProfileID is the public biodata identifier (e.g. "X1001"), assigned from the
	// per-institution sequence on first biodata submission.
	ProfileID  *string `gorm:"size:20;uniqueIndex" json:"profile_id,omitempty"`
	HasProfile bool    `gorm:"default:false" json:"has_profile"`

	Credits int `gorm:"not null;default:0;check:credits >= 0" json:"credits"`

	IsActive            bool `gorm:"default:true" json:"is_active"`
	IsBanned            bool `gorm:"default:false" json:"is_banned"`
	IsRestricted        bool `gorm:"default:false" json:"is_restricted"`
	AlumniVerified      bool `gorm:"default:false" json:"alumni_verified"`
	VerificationRequest bool `gorm:"default:false" json:"verification_request"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role.Name == "admin"
}

// ContactUnlock records that a user has permanently unlocked a profile's contact
// information. The unique pair index gives the unlocked-contact set its set
// semantics at the schema level.
type ContactUnlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_unlock_user_profile" json:"user_id"`
	ProfileID string    `gorm:"size:20;not null;uniqueIndex:idx_unlock_user_profile" json:"profile_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
