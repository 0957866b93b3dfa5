package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	infraRepo "github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/internal/testutil"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

func TestCreateCompletedAccruesAtSaleTime(t *testing.T) {
	e := newEnv(t)
	e.at(20, 0)

	result, err := e.transactions.CreateTransaction(context.Background(), e.input("100000"))
	require.NoError(t, err)
	require.NotNil(t, result.Accrual)
	assert.True(t, result.Accrual.Complete())
	assert.True(t, result.Accrual.Total.Equal(testutil.Dec("15000")))
	assert.Equal(t, service.AccrualStatusAccrued, result.Accrual.Items[0].Status)

	daily, monthly := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.Equal(testutil.Dec("15000")), daily.String())
	assert.True(t, monthly.Equal(testutil.Dec("15000")), monthly.String())
}

func TestCreateRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	member := testutil.CreateMember(t, e.db, "Sari", "0812", e.branch.ID)

	in := e.input("60000", "40000")
	in.MemberID = &member.ID
	in.PaymentMethod = "qris"
	in.Items[0].Note = "short layers"

	created, err := e.transactions.CreateTransaction(ctx, in)
	require.NoError(t, err)

	got, err := e.transactions.GetTransaction(ctx, created.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sari", got.CustomerName)
	assert.Equal(t, "0812", got.CustomerPhone)
	assert.Equal(t, enum.PaymentMethodQRIS, got.PaymentMethod)
	assert.Equal(t, enum.TransactionStatusCompleted, got.Status)
	require.NotNil(t, got.MemberID)
	assert.Equal(t, member.ID, *got.MemberID)
	assert.True(t, got.TotalPrice.Equal(testutil.Dec("100000")))
	assert.True(t, got.CreatedAt.Equal(e.now))

	require.Len(t, got.Items, 2)
	notes := []string{got.Items[0].Note, got.Items[1].Note}
	assert.Contains(t, notes, "short layers")
	for _, item := range got.Items {
		assert.True(t, item.Accrued)
		assert.Equal(t, e.employee.ID, item.EmployeeID)
	}
}

func TestCreateDraftDoesNotAccrue(t *testing.T) {
	e := newEnv(t)
	in := e.input("100000")
	in.Draft = true

	result, err := e.transactions.CreateTransaction(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, result.Accrual)
	assert.True(t, result.AccrualComplete())
	assert.Equal(t, enum.TransactionStatusDraft, result.Transaction.Status)

	daily, _ := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.IsZero())
}

func TestCreateDraftMayHaveNoItems(t *testing.T) {
	e := newEnv(t)
	in := e.input()
	in.Draft = true

	_, err := e.transactions.CreateTransaction(context.Background(), in)
	require.NoError(t, err)

	in.Draft = false
	_, err = e.transactions.CreateTransaction(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreateUnknownMemberWritesNothing(t *testing.T) {
	e := newEnv(t)
	ghost := uuid.New()
	in := e.input("100000")
	in.MemberID = &ghost

	_, err := e.transactions.CreateTransaction(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrMemberNotFound)

	var headers, lines int64
	e.db.Model(&entity.Transaction{}).Count(&headers)
	e.db.Model(&entity.LineItem{}).Count(&lines)
	assert.Zero(t, headers)
	assert.Zero(t, lines)
	daily, _ := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.IsZero())
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := map[string]struct {
		mutate func(in *service.TransactionInput)
		want   error
	}{
		"missing total":    {func(in *service.TransactionInput) { in.TotalPrice = nil }, apperror.ErrValidation},
		"negative total":   {func(in *service.TransactionInput) { in.TotalPrice = dec("-1") }, apperror.ErrValidation},
		"bad payment":      {func(in *service.TransactionInput) { in.PaymentMethod = "barter" }, apperror.ErrValidation},
		"negative price":   {func(in *service.TransactionInput) { in.Items[0].Price = dec("-5") }, apperror.ErrValidation},
		"no customer":      {func(in *service.TransactionInput) { in.CustomerPhone = "" }, apperror.ErrMissingCustomerInfo},
		"unknown branch":   {func(in *service.TransactionInput) { in.BranchID = uuid.New() }, apperror.ErrBranchNotFound},
		"unknown service":  {func(in *service.TransactionInput) { in.Items[0].ServiceID = uuid.New() }, apperror.ErrServiceNotFound},
		"unknown employee": {func(in *service.TransactionInput) { in.Items[0].EmployeeID = uuid.New() }, apperror.ErrEmployeeNotFound},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := e.input("100000")
			tc.mutate(in)
			_, err := e.transactions.CreateTransaction(ctx, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var headers int64
	e.db.Model(&entity.Transaction{}).Count(&headers)
	assert.Zero(t, headers)
}

func TestCreateForOtherBranchIsForbidden(t *testing.T) {
	e := newEnv(t)
	other := testutil.CreateBranch(t, e.db, "BDG")
	ctx := infraRepo.WithBranch(context.Background(), other.ID)

	_, err := e.transactions.CreateTransaction(ctx, e.input("100000"))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteTransaction(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.transactions.CreateTransaction(ctx, e.input("1000", "2000"))
	require.NoError(t, err)
	id := created.Transaction.ID

	require.NoError(t, e.transactions.DeleteTransaction(ctx, id))

	_, err = e.transactions.GetTransaction(ctx, id)
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)

	items, err := e.transactions.ListItems(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, e.transactions.DeleteTransaction(ctx, id), apperror.ErrTransactionNotFound)

	// accrued commission is not reversed
	daily, _ := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.Equal(testutil.Dec("300")), daily.String())
}

func TestUpdatePreservesStatusAndDoesNotAccrue(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	draft := e.input("1000")
	draft.Draft = true
	created, err := e.transactions.CreateTransaction(ctx, draft)
	require.NoError(t, err)

	update := e.input("5000", "6000")
	update.CustomerName = "Renamed"
	result, err := e.transactions.UpdateTransaction(ctx, created.Transaction.ID, update)
	require.NoError(t, err)
	assert.Nil(t, result.Accrual)

	got, err := e.transactions.GetTransaction(ctx, created.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusDraft, got.Status)
	assert.Equal(t, "Renamed", got.CustomerName)
	assert.Len(t, got.Items, 2)

	daily, _ := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.IsZero())

	_, err = e.transactions.UpdateTransaction(ctx, uuid.New(), update)
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func TestUpdateCompletedSaleCannotBeCreditedAgain(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.transactions.CreateTransaction(ctx, e.input("100000"))
	require.NoError(t, err)
	id := created.Transaction.ID

	daily, _ := e.employeeTotals(t, e.employee.ID)
	require.True(t, daily.Equal(testutil.Dec("10000")), daily.String())

	e.at(15, 30)
	result, err := e.transactions.UpdateTransaction(ctx, id, e.input("100000"))
	require.NoError(t, err)
	assert.Nil(t, result.Accrual)

	report, err := e.commissions.RetryAccrual(ctx, id)
	require.NoError(t, err)
	assert.True(t, report.Complete())
	assert.True(t, report.Total.IsZero(), report.Total.String())
	for _, item := range report.Items {
		assert.Equal(t, service.AccrualStatusSkipped, item.Status)
	}

	daily, monthly := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.Equal(testutil.Dec("10000")), daily.String())
	assert.True(t, monthly.Equal(testutil.Dec("10000")), monthly.String())

	items, err := e.transactions.ListItems(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Accrued)
	assert.True(t, items[0].Commission.IsZero())
	assert.True(t, items[0].CreatedAt.Equal(time.Date(2024, 3, 1, 15, 30, 0, 0, e.loc)))

	got, err := e.transactions.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 3, 1, 14, 0, 0, 0, e.loc)))
}

func TestContinueDraftReplacesItemsAndAccruesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.at(20, 0) // sale opened after hours
	draft := e.input("1000", "2000", "3000")
	draft.Draft = true
	created, err := e.transactions.CreateTransaction(ctx, draft)
	require.NoError(t, err)
	id := created.Transaction.ID

	e.at(21, 30)
	result, err := e.transactions.ContinueDraft(ctx, id, e.input("100000", "20000"))
	require.NoError(t, err)
	require.NotNil(t, result.Accrual)
	assert.True(t, result.Accrual.Complete())

	items, err := e.transactions.ListItems(ctx, id)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	got, err := e.transactions.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusCompleted, got.Status)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 3, 1, 20, 0, 0, 0, e.loc)))

	// 15% after hours on 120000
	daily, monthly := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.Equal(testutil.Dec("18000")), daily.String())
	assert.True(t, monthly.Equal(testutil.Dec("18000")), monthly.String())

	_, err = e.transactions.ContinueDraft(ctx, id, e.input("1"))
	assert.ErrorIs(t, err, apperror.ErrNotDraft)
	daily, _ = e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.Equal(testutil.Dec("18000")))
}

func TestConcurrentSalesForSameEmployee(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, price := range []string{"5000", "7000"} {
		wg.Add(1)
		go func(price string) {
			defer wg.Done()
			result, err := e.transactions.CreateTransaction(ctx, e.input(price))
			if assert.NoError(t, err) {
				assert.True(t, result.Accrual.Complete())
			}
		}(price)
	}
	wg.Wait()

	daily, monthly := e.employeeTotals(t, e.employee.ID)
	assert.True(t, daily.Equal(testutil.Dec("1200")), daily.String())
	assert.True(t, monthly.Equal(testutil.Dec("1200")), monthly.String())
}

func TestListTransactionsFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	other := testutil.CreateBranch(t, e.db, "BDG")
	otherEmp := testutil.CreateEmployee(t, e.db, "Dewi", other.ID)

	create := func(day, hour int, draft bool, branch *entity.Branch, emp *entity.Employee) uuid.UUID {
		e.now = time.Date(2024, 3, day, hour, 0, 0, 0, e.loc)
		in := e.input("1000")
		in.Draft = draft
		in.BranchID = branch.ID
		in.Items[0].EmployeeID = emp.ID
		res, err := e.transactions.CreateTransaction(ctx, in)
		require.NoError(t, err)
		return res.Transaction.ID
	}

	morning := create(1, 9, false, e.branch, e.employee)
	evening := create(1, 20, false, e.branch, e.employee)
	draft := create(1, 12, true, e.branch, e.employee)
	nextDay := create(2, 0, false, e.branch, e.employee)
	elsewhere := create(1, 10, false, other, otherEmp)
	lastMonth := create(0, 23, false, e.branch, e.employee) // Feb 29

	ids := func(filter service.ListFilter) []uuid.UUID {
		txns, _, err := e.transactions.ListTransactions(ctx, filter, pagination.DefaultPagination())
		require.NoError(t, err)
		out := make([]uuid.UUID, 0, len(txns))
		for _, txn := range txns {
			out = append(out, txn.ID)
		}
		return out
	}

	assert.Equal(t, []uuid.UUID{evening, draft, elsewhere, morning}, ids(service.ByDate(2024, time.March, 1)))
	assert.Equal(t, []uuid.UUID{evening, morning}, ids(service.CompletedOnDate(2024, time.March, 1, e.branch.ID)))
	assert.Equal(t, []uuid.UUID{nextDay, evening, morning}, ids(service.CompletedInMonth(2024, time.March, e.branch.ID)))
	assert.Equal(t, []uuid.UUID{lastMonth}, ids(service.CompletedInMonth(2024, time.February, e.branch.ID)))
	assert.Equal(t, []uuid.UUID{draft}, ids(service.DraftsByBranch(e.branch.ID)))
	assert.Equal(t, []uuid.UUID{elsewhere}, ids(service.ByBranch(other.ID)))
	assert.Len(t, ids(service.ListFilter{}), 6)

	_, _, err := e.transactions.ListTransactions(ctx, service.CompletedInMonth(2024, 13, e.branch.ID), nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, _, err = e.transactions.ListTransactions(ctx, service.DraftsByBranch(uuid.Nil), nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
