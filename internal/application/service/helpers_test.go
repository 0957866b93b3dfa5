package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/internal/logger"
	"github.com/sangkips/salon-commission-api/internal/testutil"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
)

type env struct {
	db    *gorm.DB
	loc   *time.Location
	clock *bizclock.Clock
	now   time.Time

	tariffs      *service.TariffResolver
	commissions  *service.CommissionService
	transactions *service.TransactionService
	catalog      *service.CatalogService
	cache        *memoryCache

	branch   *entity.Branch
	haircut  *entity.Service
	employee *entity.Employee
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{db: testutil.NewDB(t), loc: testutil.Jakarta(t)}
	e.now = time.Date(2024, 3, 1, 14, 0, 0, 0, e.loc)
	e.clock = bizclock.NewWithNow(e.loc, func() time.Time { return e.now })
	e.cache = newMemoryCache()

	log := logger.Nop()
	txRepo := repository.NewTransactionRepository(e.db)
	serviceRepo := repository.NewServiceRepository(e.db)
	e.tariffs = service.NewTariffResolver(serviceRepo, e.cache, time.Minute, e.clock, service.DefaultWorkingHours, log)
	e.commissions = service.NewCommissionService(repository.NewCommissionRepository(e.db), txRepo, e.tariffs, e.clock, log)
	e.transactions = service.NewTransactionService(
		txRepo,
		repository.NewBranchRepository(e.db),
		serviceRepo,
		repository.NewEmployeeRepository(e.db),
		service.NewMemberResolver(repository.NewMemberRepository(e.db)),
		e.commissions,
		e.clock,
		log,
	)
	e.catalog = service.NewCatalogService(serviceRepo, e.cache, log)

	e.branch = testutil.CreateBranch(t, e.db, "JKT")
	e.haircut = testutil.CreateService(t, e.db, "Haircut", "10", "15")
	e.employee = testutil.CreateEmployee(t, e.db, "Rina", e.branch.ID)
	return e
}

func (e *env) at(hour, minute int) {
	e.now = time.Date(2024, 3, 1, hour, minute, 0, 0, e.loc)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (e *env) input(prices ...string) *service.TransactionInput {
	in := &service.TransactionInput{
		CustomerName:  "Walk-in",
		CustomerPhone: "0811",
		TotalPrice:    dec("0"),
		PaymentMethod: "cash",
		BranchID:      e.branch.ID,
	}
	total := decimal.Zero
	for _, p := range prices {
		in.Items = append(in.Items, service.LineItemInput{
			ServiceID:  e.haircut.ID,
			EmployeeID: e.employee.ID,
			Price:      dec(p),
		})
		total = total.Add(*dec(p))
	}
	in.TotalPrice = &total
	return in
}

func (e *env) employeeTotals(t *testing.T, id uuid.UUID) (decimal.Decimal, decimal.Decimal) {
	emp := testutil.ReloadEmployee(t, e.db, id)
	return emp.DailyCommission, emp.MonthlyCommission
}

// memoryCache is a ServiceCache that counts reads
type memoryCache struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Service
	hits  int
}

var _ cache.ServiceCache = (*memoryCache)(nil)

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[uuid.UUID]entity.Service{}}
}

func (c *memoryCache) Get(_ context.Context, id uuid.UUID) (*entity.Service, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	svc, ok := c.items[id]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &svc, true, nil
}

func (c *memoryCache) Set(_ context.Context, svc *entity.Service, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[svc.ID] = *svc
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}
