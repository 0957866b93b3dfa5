package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// BranchService handles branch operations
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// CreateBranchInput represents the create branch input
type CreateBranchInput struct {
	Name    string
	Code    string
	Address *string
	Phone   *string
}

// CreateBranch creates a new branch with a unique code
func (s *BranchService) CreateBranch(ctx context.Context, input *CreateBranchInput) (*entity.Branch, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	var fieldErrs []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if code == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "code", Message: "is required"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	existing, err := s.branchRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.NewStorageError("load branch", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Branch code already exists")
	}

	branch := &entity.Branch{
		Name:    strings.TrimSpace(input.Name),
		Code:    code,
		Address: input.Address,
		Phone:   input.Phone,
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, apperror.NewStorageError("create branch", err)
	}
	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load branch", err)
	}
	if branch == nil {
		return nil, apperror.ErrBranchNotFound
	}
	return branch, nil
}

// ListBranches lists branches by code
func (s *BranchService) ListBranches(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Branch], error) {
	branches, total, err := s.branchRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewStorageError("list branches", err)
	}
	return pagination.NewPaginatedResult(branches, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
