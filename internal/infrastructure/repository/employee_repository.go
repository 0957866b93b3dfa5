package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create never writes the accumulators; they start at their column default.
func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).
		Omit("DailyCommission", "MonthlyCommission").
		Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}

func (r *employeeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Employee, error) {
	var employees []entity.Employee
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) List(ctx context.Context, params *pagination.PaginationParams, branchID *uuid.UUID) ([]entity.Employee, int64, error) {
	var employees []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{}).Scopes(BranchScope(ctx))
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&employees).Error

	return employees, total, err
}
