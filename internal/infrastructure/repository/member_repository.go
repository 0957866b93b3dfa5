package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) domainRepo.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID is not branch scoped: members are served at any branch.
func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) List(ctx context.Context, params *pagination.PaginationParams, branchID *uuid.UUID, search string) ([]entity.Member, int64, error) {
	var members []entity.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Member{})
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&members).Error

	return members, total, err
}
