package model

import (
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_profile" json:"user_id"`
	ProfileID string    `gorm:"size:20;not null;uniqueIndex:idx_bookmark_user_profile" json:"profile_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusResolved ReportStatus = "resolved"
)

type ProfileReport struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ReporterID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_report_user_profile" json:"reporter_id"`
	ProfileID  string       `gorm:"size:20;not null;uniqueIndex:idx_report_user_profile" json:"profile_id"`
	Reason     string       `gorm:"type:text;not null" json:"reason"`
	Status     ReportStatus `gorm:"size:20;not null;default:'open'" json:"status"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`

	Reporter *User `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
}
