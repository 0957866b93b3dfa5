package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// Lookups return (nil, nil) when the row does not exist.

type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	GetByCode(ctx context.Context, code string) (*entity.Branch, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Branch, int64, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	Update(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error)
	List(ctx context.Context, params *pagination.PaginationParams, category string) ([]entity.Service, int64, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Employee, error)
	List(ctx context.Context, params *pagination.PaginationParams, branchID *uuid.UUID) ([]entity.Employee, int64, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	List(ctx context.Context, params *pagination.PaginationParams, branchID *uuid.UUID, search string) ([]entity.Member, int64, error)
}
