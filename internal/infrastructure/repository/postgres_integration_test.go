//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/sangkips/salon-commission-api/internal/config"
	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/database"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/internal/logger"
	"github.com/sangkips/salon-commission-api/internal/testutil"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// PostgresSuite runs the repositories against a real PostgreSQL, where
// concurrent writers hold separate connections.
type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
}

func TestPostgresSuite(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("salon"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432")
	s.Require().NoError(err)

	db, err := database.NewPostgresDB(&config.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		Name:     "salon",
		User:     "postgres",
		Password: "password",
		SSLMode:  "disable",
		Timezone: "Asia/Jakarta",
	}, "test", logger.Nop())
	s.Require().NoError(err)
	s.Require().NoError(database.AutoMigrate(db))
	s.db = db
}

func (s *PostgresSuite) TearDownSuite() {
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(
		"TRUNCATE line_items, transactions, commission_resets, idempotency_keys, members, employees, services, branches CASCADE").Error)
}

func (s *PostgresSuite) TestConcurrentAccrualsSumExactly() {
	t := s.T()
	f := fixtureOn(t, s.db)
	ctx := context.Background()
	repo := repository.NewCommissionRepository(s.db)
	at := time.Date(2024, 3, 1, 14, 0, 0, 0, f.loc)

	const sales = 25
	claimed := make([]entity.LineItem, 0, sales)
	for i := 0; i < sales; i++ {
		items := f.items("10000")
		s.Require().NoError(f.repo.CreateWithItems(ctx, f.header(at, enum.TransactionStatusCompleted), items))
		claimed = append(claimed, items[0])
	}

	var wg sync.WaitGroup
	for _, item := range claimed {
		// Two racing attempts per item; only one may land
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.ApplyAccrual(ctx, item.ID, f.employee.ID, testutil.Dec("1000"), at)
				s.NoError(err)
			}()
		}
	}
	wg.Wait()

	emp := testutil.ReloadEmployee(t, s.db, f.employee.ID)
	s.True(testutil.Dec("25000").Equal(emp.DailyCommission), emp.DailyCommission.String())
	s.True(testutil.Dec("25000").Equal(emp.MonthlyCommission), emp.MonthlyCommission.String())
}

func (s *PostgresSuite) TestResetAppliesOncePerPeriod() {
	t := s.T()
	f := fixtureOn(t, s.db)
	ctx := context.Background()
	repo := repository.NewCommissionRepository(s.db)
	testutil.SetAccumulators(t, s.db, f.employee.ID, "500", "700")
	period := time.Date(2024, 3, 1, 0, 0, 0, 0, f.loc)

	var wg sync.WaitGroup
	results := make(chan bool, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, applied, err := repo.Reset(ctx, enum.ResetKindDaily, period)
			s.NoError(err)
			results <- applied
		}()
	}
	wg.Wait()
	close(results)

	appliedCount := 0
	for applied := range results {
		if applied {
			appliedCount++
		}
	}
	s.Equal(1, appliedCount)

	emp := testutil.ReloadEmployee(t, s.db, f.employee.ID)
	s.True(emp.DailyCommission.IsZero())
	s.True(testutil.Dec("700").Equal(emp.MonthlyCommission))

	latest, err := repo.LatestReset(ctx, enum.ResetKindDaily)
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.True(latest.PeriodStart.Equal(period))
}

func (s *PostgresSuite) TestListByLocalDayBoundaries() {
	t := s.T()
	f := fixtureOn(t, s.db)
	ctx := context.Background()

	inside := time.Date(2024, 3, 1, 0, 30, 0, 0, f.loc)
	outside := time.Date(2024, 2, 29, 23, 30, 0, 0, f.loc)
	s.Require().NoError(f.repo.CreateWithItems(ctx, f.header(inside, enum.TransactionStatusCompleted), f.items("100")))
	s.Require().NoError(f.repo.CreateWithItems(ctx, f.header(outside, enum.TransactionStatusCompleted), f.items("100")))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, f.loc)
	to := from.AddDate(0, 0, 1)
	txns, total, err := f.repo.List(ctx, &domainRepo.TransactionFilterParams{
		BranchID:   &f.branch.ID,
		From:       &from,
		To:         &to,
		Pagination: pagination.DefaultPagination(),
	})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(txns, 1)
	s.True(txns[0].CreatedAt.Equal(inside))
}
