package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-commission-api/internal/domain/repository"
)

var errHeaderMissing = errors.New("transaction header missing")

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateWithItems(ctx context.Context, txn *entity.Transaction, items []entity.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(txn).Error; err != nil {
			return err
		}
		return insertItems(tx, txn, items)
	})
}

func (r *transactionRepository) ReplaceWithItems(ctx context.Context, txn *entity.Transaction, from enum.TransactionStatus, items []entity.LineItem) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Transaction{}).
			Where("id = ? AND status = ?", txn.ID, from).
			Updates(map[string]interface{}{
				"customer_name":  txn.CustomerName,
				"customer_phone": txn.CustomerPhone,
				"total_price":    txn.TotalPrice,
				"payment_method": txn.PaymentMethod,
				"member_id":      txn.MemberID,
				"branch_id":      txn.BranchID,
				"status":         txn.Status,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errHeaderMissing
		}

		if err := tx.Where("transaction_id = ?", txn.ID).Delete(&entity.LineItem{}).Error; err != nil {
			return err
		}
		return insertItems(tx, txn, items)
	})
	if errors.Is(err, errHeaderMissing) {
		return false, nil
	}
	return err == nil, err
}

func (r *transactionRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", id).Delete(&entity.LineItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Transaction{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errHeaderMissing
		}
		return nil
	})
	if errors.Is(err, errHeaderMissing) {
		return false, nil
	}
	return err == nil, err
}

// insertItems stamps ownership on items and inserts them. Items without a
// creation time take the sale timestamp.
func insertItems(tx *gorm.DB, txn *entity.Transaction, items []entity.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].TransactionID = txn.ID
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = txn.CreatedAt
		}
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Preload("Member").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.created_at ASC, line_items.id ASC")
		}).
		Preload("Items.Service").
		Preload("Items.Employee").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) ListItems(ctx context.Context, transactionID uuid.UUID) ([]entity.LineItem, error) {
	items := []entity.LineItem{}
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txns []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(BranchScope(ctx))

	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC, id DESC").
		Find(&txns).Error

	return txns, total, err
}
