package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// CatalogService manages the salon's service menu and its commission tariffs
type CatalogService struct {
	serviceRepo repository.ServiceRepository
	cache       cache.ServiceCache
	log         zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(serviceRepo repository.ServiceRepository, serviceCache cache.ServiceCache, log zerolog.Logger) *CatalogService {
	if serviceCache == nil {
		serviceCache = cache.NoopServiceCache{}
	}
	return &CatalogService{serviceRepo: serviceRepo, cache: serviceCache, log: log}
}

// ServiceInput represents the create/update service input
type ServiceInput struct {
	Name              string
	RegularPercent    decimal.Decimal
	AfterHoursPercent decimal.Decimal
	Category          string
}

func (in *ServiceInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if !validPercent(in.RegularPercent) {
		errs = append(errs, apperror.FieldError{Field: "regular_percent", Message: "must be between 0 and 100"})
	}
	if !validPercent(in.AfterHoursPercent) {
		errs = append(errs, apperror.FieldError{Field: "after_hours_percent", Message: "must be between 0 and 100"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

func validPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

// CreateService adds a service to the menu
func (s *CatalogService) CreateService(ctx context.Context, input *ServiceInput) (*entity.Service, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	svc := &entity.Service{
		Name:              strings.TrimSpace(input.Name),
		RegularPercent:    input.RegularPercent,
		AfterHoursPercent: input.AfterHoursPercent,
		Category:          input.Category,
	}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, apperror.NewStorageError("create service", err)
	}
	return svc, nil
}

// UpdateService changes a service's name or tariffs. The cached copy is
// dropped so the next accrual sees the new tariffs.
func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, input *ServiceInput) (*entity.Service, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	svc.Name = strings.TrimSpace(input.Name)
	svc.RegularPercent = input.RegularPercent
	svc.AfterHoursPercent = input.AfterHoursPercent
	svc.Category = input.Category

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		return nil, apperror.NewStorageError("update service", err)
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("service_id", id.String()).Msg("service cache invalidation failed")
	}
	return svc, nil
}

// GetService retrieves a service by ID
func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load service", err)
	}
	if svc == nil {
		return nil, apperror.ErrServiceNotFound
	}
	return svc, nil
}

// ListServices lists the menu, optionally by category
func (s *CatalogService) ListServices(ctx context.Context, params *pagination.PaginationParams, category string) (*pagination.PaginatedResult[entity.Service], error) {
	services, total, err := s.serviceRepo.List(ctx, params, category)
	if err != nil {
		return nil, apperror.NewStorageError("list services", err)
	}
	return pagination.NewPaginatedResult(services, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
