package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// BranchIDKey is the context key for the caller's branch restriction
const BranchIDKey ctxKey = "branch_id"

// BranchScope restricts branch-owned rows to the caller's branch when the
// request carries one. Head-office callers have no branch and see everything.
func BranchScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		branchID, ok := GetBranchID(ctx)
		if !ok {
			return db
		}
		return db.Where("branch_id = ?", branchID)
	}
}

// WithBranch restricts subsequent repository reads to branchID
func WithBranch(ctx context.Context, branchID uuid.UUID) context.Context {
	return context.WithValue(ctx, BranchIDKey, branchID)
}

// GetBranchID extracts the branch restriction from context
func GetBranchID(ctx context.Context) (uuid.UUID, bool) {
	branchID, ok := ctx.Value(BranchIDKey).(uuid.UUID)
	if !ok || branchID == uuid.Nil {
		return uuid.Nil, false
	}
	return branchID, true
}
