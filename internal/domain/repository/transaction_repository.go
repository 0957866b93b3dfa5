package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// TransactionRepository persists transactions together with their line items.
// Every write method is a single database transaction covering the header and
// all items.
type TransactionRepository interface {
	// CreateWithItems inserts the header and every item, or nothing.
	CreateWithItems(ctx context.Context, txn *entity.Transaction, items []entity.LineItem) error
	// ReplaceWithItems updates the header identified by txn.ID, provided it is
	// still in status from, and swaps its whole item set for items. Returns
	// false, writing nothing, when no such header matched.
	ReplaceWithItems(ctx context.Context, txn *entity.Transaction, from enum.TransactionStatus, items []entity.LineItem) (bool, error)
	// DeleteWithItems removes the items and then the header. Returns false
	// when no header matched, in which case nothing is deleted.
	DeleteWithItems(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	ListItems(ctx context.Context, transactionID uuid.UUID) ([]entity.LineItem, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams narrows a transaction listing. Time bounds are
// half-open: From <= created_at < To.
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	BranchID   *uuid.UUID
	Status     *enum.TransactionStatus
	From       *time.Time
	To         *time.Time
}
