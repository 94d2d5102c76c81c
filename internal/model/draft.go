package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BiodataDraft holds the in-progress multi-step form state for a user before
// submission. One row per user, replaced on every save.
type BiodataDraft struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Step      int            `gorm:"not null;default:1" json:"step"`
	Data      datatypes.JSON `json:"data"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
