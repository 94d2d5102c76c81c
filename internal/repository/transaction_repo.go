package repository

import (
	"context"
	"time"

	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Transaction, int64, error)
	ListByTypeAndStatus(ctx context.Context, txnType model.TransactionType, status model.TransactionStatus, limit, offset int) ([]*model.Transaction, int64, error)

	// ApprovePurchase flips a pending purchase to approved, credits the buyer
	// and writes the credit_addition ledger row, all in one transaction. The
	// purchase row itself never carries the balance change.
	ApprovePurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error)

	RejectPurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error)

	// AdjustCredits applies an admin credit grant (positive) or deduction
	// (negative) together with its ledger row. Deductions that would take the
	// balance below zero fail with apperror.ErrInsufficientCredits.
	AdjustCredits(ctx context.Context, userID, adminID uuid.UUID, credits int, note string) (*model.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var txn model.Transaction
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []*model.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

func (r *transactionRepository) ListByTypeAndStatus(ctx context.Context, txnType model.TransactionType, status model.TransactionStatus, limit, offset int) ([]*model.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Preload("User").
		Where("type = ? AND status = ?", txnType, status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []*model.Transaction
	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

func (r *transactionRepository) ApprovePurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error) {
	var purchase model.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", txnID).First(&purchase).Error; err != nil {
			return err
		}
		if purchase.Type != model.TransactionTypePurchase {
			return apperror.New(0, "transaction is not a purchase", apperror.ErrBadRequest)
		}
		if purchase.Status != model.TransactionStatusPending {
			return apperror.New(0, "purchase has already been processed", apperror.ErrConflict)
		}

		now := time.Now()
		purchase.Status = model.TransactionStatusApproved
		purchase.ProcessedAt = &now
		purchase.ProcessedBy = &adminID
		if err := tx.Save(&purchase).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", purchase.UserID).
			UpdateColumn("credits", gorm.Expr("credits + ?", purchase.Credits)).Error; err != nil {
			return err
		}

		// The separate credit_addition row is the actual ledger entry; the
		// purchase row stays an order record.
		addition := &model.Transaction{
			UserID:      purchase.UserID,
			Type:        model.TransactionTypeCreditAddition,
			Status:      model.TransactionStatusApproved,
			Credits:     purchase.Credits,
			Amount:      purchase.Amount,
			ProcessedAt: &now,
			ProcessedBy: &adminID,
		}
		return tx.Create(addition).Error
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

func (r *transactionRepository) RejectPurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error) {
	var purchase model.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", txnID).First(&purchase).Error; err != nil {
			return err
		}
		if purchase.Type != model.TransactionTypePurchase {
			return apperror.New(0, "transaction is not a purchase", apperror.ErrBadRequest)
		}
		if purchase.Status != model.TransactionStatusPending {
			return apperror.New(0, "purchase has already been processed", apperror.ErrConflict)
		}

		now := time.Now()
		purchase.Status = model.TransactionStatusRejected
		purchase.ProcessedAt = &now
		purchase.ProcessedBy = &adminID
		return tx.Save(&purchase).Error
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

func (r *transactionRepository) AdjustCredits(ctx context.Context, userID, adminID uuid.UUID, credits int, note string) (*model.Transaction, error) {
	var ledger *model.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res *gorm.DB
		if credits >= 0 {
			res = tx.Model(&model.User{}).
				Where("id = ?", userID).
				UpdateColumn("credits", gorm.Expr("credits + ?", credits))
		} else {
			res = tx.Model(&model.User{}).
				Where("id = ? AND credits >= ?", userID, -credits).
				UpdateColumn("credits", gorm.Expr("credits + ?", credits))
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if credits < 0 {
				return apperror.ErrInsufficientCredits
			}
			return apperror.ErrNotFound
		}

		now := time.Now()
		txnType := model.TransactionTypeCreditAddition
		if credits < 0 {
			txnType = model.TransactionTypeCreditDeduct
		}
		ledger = &model.Transaction{
			UserID:      userID,
			Type:        txnType,
			Status:      model.TransactionStatusApproved,
			Credits:     credits,
			Note:        note,
			ProcessedAt: &now,
			ProcessedBy: &adminID,
		}
		return tx.Create(ledger).Error
	})
	if err != nil {
		return nil, err
	}

	return ledger, nil
}
