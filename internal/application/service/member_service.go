package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// MemberService handles loyalty member records
type MemberService struct {
	memberRepo repository.MemberRepository
	branchRepo repository.BranchRepository
	clock      *bizclock.Clock
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repository.MemberRepository, branchRepo repository.BranchRepository, clock *bizclock.Clock) *MemberService {
	return &MemberService{memberRepo: memberRepo, branchRepo: branchRepo, clock: clock}
}

// CreateMemberInput represents the create member input
type CreateMemberInput struct {
	Name      string
	Phone     string
	Address   *string
	BirthDate *time.Time
	BranchID  uuid.UUID
}

// CreateMember registers a member at a branch, dated today in business time
func (s *MemberService) CreateMember(ctx context.Context, input *CreateMemberInput) (*entity.Member, error) {
	if err := requireNameAndBranch(input.Name, input.BranchID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "phone", Message: "is required"}})
	}
	if err := ensureBranch(ctx, s.branchRepo, input.BranchID); err != nil {
		return nil, err
	}

	member := &entity.Member{
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      input.Address,
		BirthDate:    input.BirthDate,
		RegisteredAt: s.clock.StartOfDay(s.clock.Now()),
		BranchID:     input.BranchID,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, apperror.NewStorageError("create member", err)
	}
	return member, nil
}

// GetMember retrieves a member by ID
func (s *MemberService) GetMember(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load member", err)
	}
	if member == nil {
		return nil, apperror.ErrMemberNotFound
	}
	return member, nil
}

// ListMembers lists members, optionally of one branch and matching search
func (s *MemberService) ListMembers(ctx context.Context, params *pagination.PaginationParams, branchID *uuid.UUID, search string) (*pagination.PaginatedResult[entity.Member], error) {
	members, total, err := s.memberRepo.List(ctx, params, branchID, search)
	if err != nil {
		return nil, apperror.NewStorageError("list members", err)
	}
	return pagination.NewPaginatedResult(members, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
