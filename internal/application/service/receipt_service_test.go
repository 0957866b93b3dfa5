package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/internal/logger"
	"github.com/sangkips/salon-commission-api/internal/testutil"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/printer"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, job []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }

func (e *env) receipts(p printer.Printer) *service.ReceiptService {
	return service.NewReceiptService(p, "network", printer.Width58mm,
		repository.NewTransactionRepository(e.db), repository.NewBranchRepository(e.db), e.clock, logger.Nop())
}

func TestReceiptComposesSale(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	member := testutil.CreateMember(t, e.db, "Sari", "0812", e.branch.ID)

	in := e.input("150000", "33333.50")
	in.MemberID = &member.ID
	in.Items[1].Note = "extra toner"
	created, err := e.transactions.CreateTransaction(ctx, in)
	require.NoError(t, err)

	r, err := e.receipts(&recordingPrinter{}).Receipt(ctx, created.Transaction.ID)
	require.NoError(t, err)

	assert.Equal(t, e.branch.Name, r.BranchName)
	assert.Equal(t, "Sari", r.Customer)
	assert.True(t, r.Member)
	assert.False(t, r.Draft)
	assert.True(t, r.IssuedAt.Equal(e.now))
	require.Len(t, r.Items, 2)
	assert.Equal(t, "Haircut", r.Items[0].Service)
	assert.Equal(t, e.employee.Name, r.Items[0].Stylist)
	assert.Equal(t, "extra toner", r.Items[1].Note)
	assert.True(t, r.Total.Equal(testutil.Dec("183333.50")))
}

func TestPrintSendsJob(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.transactions.CreateTransaction(ctx, e.input("150000"))
	require.NoError(t, err)

	p := &recordingPrinter{}
	_, err = e.receipts(p).Print(ctx, created.Transaction.ID)
	require.NoError(t, err)

	require.Len(t, p.jobs, 1)
	assert.True(t, bytes.Contains(p.jobs[0], []byte("Haircut")))
	assert.True(t, bytes.Contains(p.jobs[0], []byte("150.000")))
}

func TestPrintFailureStillReturnsReceipt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.transactions.CreateTransaction(ctx, e.input("150000"))
	require.NoError(t, err)

	r, err := e.receipts(&recordingPrinter{err: errors.New("connection refused")}).Print(ctx, created.Transaction.ID)
	assert.ErrorIs(t, err, apperror.ErrPrinter)
	require.NotNil(t, r)
	assert.Len(t, r.Items, 1)
}

func TestReceiptUnknownTransaction(t *testing.T) {
	e := newEnv(t)
	_, err := e.receipts(nil).Receipt(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"950":      "950",
		"150000":   "150.000",
		"1234567":  "1.234.567",
		"4166.63":  "4.166,63",
		"4166.6":   "4.166,60",
		"100.05":   "100,05",
		"-25000.5": "-25.000,50",
		"999.999":  "1.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, service.FormatAmount(testutil.Dec(in)), in)
	}
}
