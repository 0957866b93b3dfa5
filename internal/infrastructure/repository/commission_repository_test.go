package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/internal/testutil"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
)

func TestApplyAccrual_IncrementsBothAccumulatorsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := repository.NewCommissionRepository(f.db)
	at := time.Date(2024, 3, 1, 14, 0, 0, 0, f.loc)

	txn := f.header(at, enum.TransactionStatusCompleted)
	items := f.items("100000")
	require.NoError(t, f.repo.CreateWithItems(ctx, txn, items))

	applied, err := repo.ApplyAccrual(ctx, items[0].ID, f.employee.ID, testutil.Dec("10000"), at)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.ApplyAccrual(ctx, items[0].ID, f.employee.ID, testutil.Dec("10000"), at)
	require.NoError(t, err)
	assert.False(t, applied, "second accrual of the same item is skipped")

	emp := testutil.ReloadEmployee(t, f.db, f.employee.ID)
	assert.True(t, emp.DailyCommission.Equal(testutil.Dec("10000")), emp.DailyCommission.String())
	assert.True(t, emp.MonthlyCommission.Equal(testutil.Dec("10000")), emp.MonthlyCommission.String())

	stored, err := f.repo.ListItems(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Accrued)
	assert.True(t, stored[0].Commission.Equal(testutil.Dec("10000")))
}

func TestApplyAccrual_MissingEmployeeRollsBackClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := repository.NewCommissionRepository(f.db)

	txn := f.header(time.Date(2024, 3, 1, 14, 0, 0, 0, f.loc), enum.TransactionStatusCompleted)
	items := f.items("100000")
	require.NoError(t, f.repo.CreateWithItems(ctx, txn, items))

	_, err := repo.ApplyAccrual(ctx, items[0].ID, uuid.New(), testutil.Dec("10000"), time.Now())
	require.ErrorIs(t, err, apperror.ErrEmployeeNotFound)

	stored, err := f.repo.ListItems(ctx, txn.ID)
	require.NoError(t, err)
	assert.False(t, stored[0].Accrued, "claim must roll back with the failed increment")
}

func TestApplyAccrual_ConcurrentIncrementsDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := repository.NewCommissionRepository(f.db)
	at := time.Date(2024, 3, 1, 14, 0, 0, 0, f.loc)

	txn := f.header(at, enum.TransactionStatusCompleted)
	items := f.items("5000", "7000")
	require.NoError(t, f.repo.CreateWithItems(ctx, txn, items))

	deltas := []string{"500", "700"}
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.ApplyAccrual(ctx, items[i].ID, f.employee.ID, testutil.Dec(deltas[i]), at)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	emp := testutil.ReloadEmployee(t, f.db, f.employee.ID)
	assert.True(t, emp.DailyCommission.Equal(testutil.Dec("1200")), emp.DailyCommission.String())
	assert.True(t, emp.MonthlyCommission.Equal(testutil.Dec("1200")), emp.MonthlyCommission.String())
}

func TestReset_ZeroesOnlyTargetColumnOncePerPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := repository.NewCommissionRepository(f.db)
	second := testutil.CreateEmployee(t, f.db, "Dewi", f.branch.ID)
	testutil.SetAccumulators(t, f.db, f.employee.ID, "50000", "900000")
	testutil.SetAccumulators(t, f.db, second.ID, "20000", "300000")

	period := time.Date(2024, 3, 2, 0, 0, 0, 0, f.loc)
	record, applied, err := repo.Reset(ctx, enum.ResetKindDaily, period)
	require.NoError(t, err)
	require.True(t, applied)
	assert.EqualValues(t, 2, record.AffectedRows)

	for _, id := range []uuid.UUID{f.employee.ID, second.ID} {
		emp := testutil.ReloadEmployee(t, f.db, id)
		assert.True(t, emp.DailyCommission.IsZero())
		assert.False(t, emp.MonthlyCommission.IsZero())
	}

	testutil.SetAccumulators(t, f.db, f.employee.ID, "1000", "901000")
	_, applied, err = repo.Reset(ctx, enum.ResetKindDaily, period)
	require.NoError(t, err)
	assert.False(t, applied, "same period must not reset twice")
	emp := testutil.ReloadEmployee(t, f.db, f.employee.ID)
	assert.True(t, emp.DailyCommission.Equal(testutil.Dec("1000")))

	latest, err := repo.LatestReset(ctx, enum.ResetKindDaily)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.PeriodStart.Equal(period))

	none, err := repo.LatestReset(ctx, enum.ResetKindMonthly)
	require.NoError(t, err)
	assert.Nil(t, none)

	var resets int64
	f.db.Model(&entity.CommissionReset{}).Count(&resets)
	assert.EqualValues(t, 1, resets)
}
