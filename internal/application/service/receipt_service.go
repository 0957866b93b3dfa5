package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
	"github.com/sangkips/salon-commission-api/pkg/printer"
)

const receiptTimeLayout = "02/01/2006 15:04"

// ReceiptService composes customer receipts for sales and sends them to the
// front-desk printer.
type ReceiptService struct {
	printer         printer.Printer
	printerType     string
	width           int
	transactionRepo repository.TransactionRepository
	branchRepo      repository.BranchRepository
	clock           *bizclock.Clock
	log             zerolog.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	p printer.Printer,
	printerType string,
	width int,
	transactionRepo repository.TransactionRepository,
	branchRepo repository.BranchRepository,
	clock *bizclock.Clock,
	log zerolog.Logger,
) *ReceiptService {
	if p == nil {
		p = printer.Null{}
	}
	return &ReceiptService{
		printer:         p,
		printerType:     printerType,
		width:           width,
		transactionRepo: transactionRepo,
		branchRepo:      branchRepo,
		clock:           clock,
		log:             log,
	}
}

// PrinterStatus describes the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

func (s *ReceiptService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// Receipt builds the receipt of a transaction
func (s *ReceiptService) Receipt(ctx context.Context, transactionID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.transactionRepo.GetWithItems(ctx, transactionID)
	if err != nil {
		return nil, apperror.NewStorageError("load transaction", err)
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound
	}

	branch, err := s.branchRepo.GetByID(ctx, txn.BranchID)
	if err != nil {
		return nil, apperror.NewStorageError("load branch", err)
	}
	if branch == nil {
		return nil, apperror.ErrBranchNotFound
	}

	r := &entity.Receipt{
		TransactionID: txn.ID,
		BranchName:    branch.Name,
		IssuedAt:      s.clock.In(txn.CreatedAt),
		Customer:      txn.CustomerName,
		Phone:         txn.CustomerPhone,
		Member:        txn.MemberID != nil,
		PaymentMethod: string(txn.PaymentMethod),
		Draft:         txn.IsDraft(),
		Total:         txn.TotalPrice,
		Items:         make([]entity.ReceiptItem, 0, len(txn.Items)),
	}
	if branch.Address != nil {
		r.BranchAddress = *branch.Address
	}
	if branch.Phone != nil {
		r.BranchPhone = *branch.Phone
	}

	for _, item := range txn.Items {
		line := entity.ReceiptItem{Service: "Service", Stylist: "-", Note: item.Note, Price: item.Price}
		if item.Service != nil {
			line.Service = item.Service.Name
		}
		if item.Employee != nil {
			line.Stylist = item.Employee.Name
		}
		r.Items = append(r.Items, line)
	}
	return r, nil
}

// Print builds and prints the receipt of a transaction. The composed
// receipt is returned even when the printer fails.
func (s *ReceiptService) Print(ctx context.Context, transactionID uuid.UUID) (*entity.Receipt, error) {
	r, err := s.Receipt(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		s.log.Error().Err(err).Str("transaction_id", transactionID.String()).Msg("receipt print failed")
		return r, apperror.Wrap(apperror.ErrPrinter, err)
	}
	return r, nil
}

// FormatReceipt renders r as an ESC/POS job
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).Bold(true).Large(true).
		Line(r.BranchName).
		Large(false).Bold(false)
	if r.BranchAddress != "" {
		doc.Line(r.BranchAddress)
	}
	if r.BranchPhone != "" {
		doc.Line(r.BranchPhone)
	}
	if r.Draft {
		doc.Bold(true).Line("*** DRAFT ***").Bold(false)
	}

	doc.Align(printer.AlignLeft).Rule().
		Columns("No:", r.Number()).
		Columns("Date:", r.IssuedAt.Format(receiptTimeLayout))

	customer := r.Customer
	if r.Member {
		customer += " (member)"
	}
	doc.Columns("Customer:", customer).
		Columns("Payment:", strings.ToUpper(r.PaymentMethod)).
		Rule()

	for _, item := range r.Items {
		doc.Columns(item.Service, FormatAmount(item.Price))
		doc.Line("  by " + item.Stylist)
		if item.Note != "" {
			doc.Line("  " + item.Note)
		}
	}

	doc.Rule().
		Bold(true).Columns("TOTAL", FormatAmount(r.Total)).Bold(false).
		Rule().
		Align(printer.AlignCenter).
		Feed(1).
		Line("Thank you for visiting").
		Align(printer.AlignLeft).
		Feed(3).
		Cut()

	return doc.Bytes()
}

// FormatAmount renders a rupiah amount with dot thousands separators and
// cents only when present, e.g. 150.000 or 4.166,63.
func FormatAmount(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)

	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	digits := whole.String()
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if cents != 0 {
		b.WriteByte(',')
		if cents < 10 {
			b.WriteByte('0')
		}
		b.WriteString(decimal.NewFromInt(cents).String())
	}
	return b.String()
}
