package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	infraRepo "github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// EmployeeService handles employee records. It never writes commission
// accumulators.
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	branchRepo   repository.BranchRepository
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repository.EmployeeRepository, branchRepo repository.BranchRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, branchRepo: branchRepo}
}

// CreateEmployeeInput represents the create employee input
type CreateEmployeeInput struct {
	Name     string
	Address  *string
	Phone    *string
	BranchID uuid.UUID
}

// CreateEmployee registers an employee at a branch with zero accumulators
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *CreateEmployeeInput) (*entity.Employee, error) {
	if err := requireNameAndBranch(input.Name, input.BranchID); err != nil {
		return nil, err
	}
	if err := ensureBranch(ctx, s.branchRepo, input.BranchID); err != nil {
		return nil, err
	}

	employee := &entity.Employee{
		Name:     strings.TrimSpace(input.Name),
		Address:  input.Address,
		Phone:    input.Phone,
		BranchID: input.BranchID,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, apperror.NewStorageError("create employee", err)
	}
	return employee, nil
}

// GetEmployee retrieves an employee, including current accumulators
func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load employee", err)
	}
	if employee == nil {
		return nil, apperror.ErrEmployeeNotFound
	}
	return employee, nil
}

// ListEmployees lists employees, optionally of one branch
func (s *EmployeeService) ListEmployees(ctx context.Context, params *pagination.PaginationParams, branchID *uuid.UUID) (*pagination.PaginatedResult[entity.Employee], error) {
	employees, total, err := s.employeeRepo.List(ctx, params, branchID)
	if err != nil {
		return nil, apperror.NewStorageError("list employees", err)
	}
	return pagination.NewPaginatedResult(employees, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

func requireNameAndBranch(name string, branchID uuid.UUID) error {
	var errs []apperror.FieldError
	if strings.TrimSpace(name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if branchID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "branch_id", Message: "is required"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

func ensureBranch(ctx context.Context, branchRepo repository.BranchRepository, branchID uuid.UUID) error {
	if scoped, ok := infraRepo.GetBranchID(ctx); ok && scoped != branchID {
		return apperror.ErrForbidden
	}
	branch, err := branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return apperror.NewStorageError("load branch", err)
	}
	if branch == nil {
		return apperror.ErrBranchNotFound
	}
	return nil
}
