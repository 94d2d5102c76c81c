package service

import (
	"context"
	"errors"
	"log"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"amarbiye.com/campusmatrimony/pkg/email"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionService interface {
	// RecordPurchaseRequest writes the pending order row. Credits are granted
	// only when an admin approves after manually verifying the payment.
	RecordPurchaseRequest(ctx context.Context, userID uuid.UUID, input dto.PurchaseRequestInput) (*model.Transaction, error)
	ListOwn(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Transaction, *dto.PaginationMeta, error)
	ListPendingPurchases(ctx context.Context, page, limit int) ([]*model.Transaction, *dto.PaginationMeta, error)
	ApprovePurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error)
	RejectPurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error)
	AdjustCredits(ctx context.Context, userID, adminID uuid.UUID, credits int, note string) (*model.Transaction, error)
}

type transactionService struct {
	txnRepo       repository.TransactionRepository
	userRepo      repository.UserRepository
	emailSender   email.Sender
	notifications NotificationService
}

func NewTransactionService(
	txnRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	emailSender email.Sender,
	notifications NotificationService,
) TransactionService {
	return &transactionService{
		txnRepo:       txnRepo,
		userRepo:      userRepo,
		emailSender:   emailSender,
		notifications: notifications,
	}
}

func (s *transactionService) RecordPurchaseRequest(ctx context.Context, userID uuid.UUID, input dto.PurchaseRequestInput) (*model.Transaction, error) {
	if _, err := s.userRepo.FindByID(ctx, userID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	txn := &model.Transaction{
		UserID:        userID,
		Type:          model.TransactionTypePurchase,
		Status:        model.TransactionStatusPending,
		Credits:       input.Credits,
		Amount:        input.Price,
		Price:         input.Price,
		ExternalTxnID: input.ExternalTxnID,
		PhoneNumber:   input.PhoneNumber,
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

func (s *transactionService) ListOwn(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Transaction, *dto.PaginationMeta, error) {
	page, limit = normalizePaging(page, limit)

	txns, total, err := s.txnRepo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	return txns, paginationMeta(page, limit, total), nil
}

func (s *transactionService) ListPendingPurchases(ctx context.Context, page, limit int) ([]*model.Transaction, *dto.PaginationMeta, error) {
	page, limit = normalizePaging(page, limit)

	txns, total, err := s.txnRepo.ListByTypeAndStatus(ctx, model.TransactionTypePurchase, model.TransactionStatusPending, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	return txns, paginationMeta(page, limit, total), nil
}

func (s *transactionService) ApprovePurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error) {
	purchase, err := s.txnRepo.ApprovePurchase(ctx, txnID, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	s.notifyBuyer(purchase, true)

	return purchase, nil
}

func (s *transactionService) RejectPurchase(ctx context.Context, txnID, adminID uuid.UUID) (*model.Transaction, error) {
	purchase, err := s.txnRepo.RejectPurchase(ctx, txnID, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	s.notifyBuyer(purchase, false)

	return purchase, nil
}

func (s *transactionService) AdjustCredits(ctx context.Context, userID, adminID uuid.UUID, credits int, note string) (*model.Transaction, error) {
	if credits == 0 {
		return nil, apperror.New(0, "credit adjustment cannot be zero", apperror.ErrInvalidInput)
	}

	ledger, err := s.txnRepo.AdjustCredits(ctx, userID, adminID, credits, note)
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

func (s *transactionService) notifyBuyer(purchase *model.Transaction, approved bool) {
	purchaseCopy := *purchase

	go func() {
		ctx := context.Background()

		user, err := s.userRepo.FindByID(ctx, purchaseCopy.UserID.String())
		if err != nil {
			log.Printf("failed to load buyer %s for purchase notification: %v", purchaseCopy.UserID, err)
			return
		}

		notifType := NotificationPurchaseRejected
		message := "Your credit purchase could not be verified."
		if approved {
			notifType = NotificationPurchaseApproved
			message = "Your credit purchase was verified and credits were added to your account."
		}

		if s.notifications != nil {
			notification := &model.Notification{
				UserID:  user.ID,
				Type:    notifType,
				Message: message,
			}
			if err := s.notifications.CreateNotification(ctx, notification); err != nil {
				log.Printf("failed to create %s notification for user %s: %v", notifType, user.ID, err)
			}
		}

		if s.emailSender != nil {
			var err error
			if approved {
				err = s.emailSender.SendPurchaseApproved(user.Email, user.FullName, purchaseCopy.Credits)
			} else {
				err = s.emailSender.SendPurchaseRejected(user.Email, user.FullName)
			}
			if err != nil {
				log.Printf("failed to send %s email to %s: %v", notifType, user.Email, err)
			}
		}
	}()
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) *dto.PaginationMeta {
	return &dto.PaginationMeta{
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalItems:  total,
		Limit:       limit,
	}
}
