package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	Update(ctx context.Context, user *model.User) error
	FindAll(ctx context.Context, search string, limit, offset int) ([]*model.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	// AssignProfileID picks the next free profile ID for the institution
	// sequence (prefix + number) and stamps it on the user.
	AssignProfileID(ctx context.Context, userID uuid.UUID, prefix string, start int) (string, error)

	// UnlockContact performs the paid unlock as one database transaction:
	// insert the unlock row, conditionally debit the credit balance, and append
	// the ledger entry. It returns apperror.ErrAlreadyUnlocked when the unlock
	// row already exists and apperror.ErrInsufficientCredits when the balance
	// guard fails; in both cases nothing is written.
	UnlockContact(ctx context.Context, userID uuid.UUID, profileID string, cost int) error

	// RecordFreeUnlock marks a contact unlocked without touching the balance
	// (free mode). Inserting an existing pair is a no-op.
	RecordFreeUnlock(ctx context.Context, userID uuid.UUID, profileID string) error

	HasUnlocked(ctx context.Context, userID uuid.UUID, profileID string) (bool, error)
	ListUnlocks(ctx context.Context, userID uuid.UUID) ([]model.ContactUnlock, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Profile").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Profile").
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}

	return &role, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).Preload("Role")

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ? OR profile_id = ?", like, like, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Delete removes the user and everything hanging off the account.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}

		if user.ProfileID != nil {
			pid := *user.ProfileID
			if err := tx.Where("profile_id = ?", pid).Delete(&model.Bookmark{}).Error; err != nil {
				return err
			}
			if err := tx.Where("profile_id = ?", pid).Delete(&model.ProfileReport{}).Error; err != nil {
				return err
			}
		}

		for _, m := range []interface{}{
			&model.Profile{}, &model.BiodataDraft{}, &model.ContactUnlock{},
			&model.Bookmark{}, &model.Notification{}, &model.Transaction{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("reporter_id = ?", id).Delete(&model.ProfileReport{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) AssignProfileID(ctx context.Context, userID uuid.UUID, prefix string, start int) (string, error) {
	var assigned string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last *string
		row := tx.Model(&model.User{}).
			Select("profile_id").
			Where("profile_id LIKE ?", prefix+"%").
			Order("LENGTH(profile_id) DESC, profile_id DESC").
			Limit(1).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Row()
		if err := row.Scan(&last); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			// sql.ErrNoRows lands here too; an empty sequence is fine
			last = nil
		}

		next := start
		if last != nil {
			if n, err := strconv.Atoi(strings.TrimPrefix(*last, prefix)); err == nil && n >= start {
				next = n + 1
			}
		}

		assigned = fmt.Sprintf("%s%d", prefix, next)
		return tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{"profile_id": assigned, "has_profile": true}).Error
	})
	if err != nil {
		return "", err
	}

	return assigned, nil
}

func (r *userRepository) UnlockContact(ctx context.Context, userID uuid.UUID, profileID string, cost int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unlock := &model.ContactUnlock{UserID: userID, ProfileID: profileID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(unlock)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Pair already present. Returning an error rolls back cleanly and
			// the caller treats it as success without a second debit.
			return apperror.ErrAlreadyUnlocked
		}

		debit := tx.Model(&model.User{}).
			Where("id = ? AND credits >= ?", userID, cost).
			UpdateColumn("credits", gorm.Expr("credits - ?", cost))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return apperror.ErrInsufficientCredits
		}

		ledger := &model.Transaction{
			UserID:    userID,
			Type:      model.TransactionTypeContactUnlock,
			Status:    model.TransactionStatusApproved,
			Credits:   -cost,
			ProfileID: &profileID,
		}
		return tx.Create(ledger).Error
	})
}

func (r *userRepository) RecordFreeUnlock(ctx context.Context, userID uuid.UUID, profileID string) error {
	unlock := &model.ContactUnlock{UserID: userID, ProfileID: profileID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(unlock).Error
}

func (r *userRepository) HasUnlocked(ctx context.Context, userID uuid.UUID, profileID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ContactUnlock{}).
		Where("user_id = ? AND profile_id = ?", userID, profileID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) ListUnlocks(ctx context.Context, userID uuid.UUID) ([]model.ContactUnlock, error) {
	var unlocks []model.ContactUnlock
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&unlocks).Error; err != nil {
		return nil, err
	}
	return unlocks, nil
}
