package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string
type TransactionStatus string

const (
	TransactionTypePurchase       TransactionType = "purchase"
	TransactionTypeCreditAddition TransactionType = "credit_addition"
	TransactionTypeCreditDeduct   TransactionType = "credit_deduction"
	TransactionTypeContactUnlock  TransactionType = "contact_unlock"

	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusRejected TransactionStatus = "rejected"
)

// Transaction is the audit trail for every credit-balance change. Rows are
// append-only; only a pending purchase ever changes status afterwards.
type Transaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Type   TransactionType   `gorm:"size:30;not null" json:"type"`
	Status TransactionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	// Credits is the signed number of credits this row accounts for. A purchase
	// row carries the requested amount but the balance change is recorded on the
	// separate credit_addition row written at approval time.
	Credits int     `gorm:"not null" json:"credits"`
	Amount  float64 `json:"amount"`
	Price   float64 `json:"price"`

	// External payment reference for manual verification.
	ExternalTxnID string `gorm:"size:100" json:"external_txn_id,omitempty"`
	PhoneNumber   string `gorm:"size:30" json:"phone_number,omitempty"`

	// Set when an unlock row points at the profile it paid for.
	ProfileID *string `gorm:"size:20" json:"profile_id,omitempty"`

	Note        string     `gorm:"type:text" json:"note,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
