package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	infraRepo "github.com/sangkips/salon-commission-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// TransactionService owns the transaction lifecycle: create, replace,
// continue a draft, delete and query.
type TransactionService struct {
	transactionRepo repository.TransactionRepository
	branchRepo      repository.BranchRepository
	serviceRepo     repository.ServiceRepository
	employeeRepo    repository.EmployeeRepository
	members         *MemberResolver
	commissions     *CommissionService
	clock           *bizclock.Clock
	log             zerolog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	branchRepo repository.BranchRepository,
	serviceRepo repository.ServiceRepository,
	employeeRepo repository.EmployeeRepository,
	members *MemberResolver,
	commissions *CommissionService,
	clock *bizclock.Clock,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		branchRepo:      branchRepo,
		serviceRepo:     serviceRepo,
		employeeRepo:    employeeRepo,
		members:         members,
		commissions:     commissions,
		clock:           clock,
		log:             log,
	}
}

// LineItemInput is one service performed by one employee
type LineItemInput struct {
	ServiceID  uuid.UUID
	EmployeeID uuid.UUID
	Price      *decimal.Decimal
	Note       string
}

// TransactionInput carries a transaction header and its complete item set
type TransactionInput struct {
	CustomerName  string
	CustomerPhone string
	TotalPrice    *decimal.Decimal
	PaymentMethod string
	MemberID      *uuid.UUID
	BranchID      uuid.UUID
	Draft         bool
	Items         []LineItemInput
}

// TransactionResult is a stored transaction plus, when the write accrued
// commission, the per-item accrual report.
type TransactionResult struct {
	Transaction *entity.Transaction `json:"transaction"`
	Accrual     *AccrualReport      `json:"accrual,omitempty"`
}

// AccrualComplete is true when no accrual ran or every item landed
func (r *TransactionResult) AccrualComplete() bool {
	return r.Accrual == nil || r.Accrual.Complete()
}

// CreateTransaction validates input, stores header and items atomically and,
// unless the sale is a draft, accrues commission for every item.
func (s *TransactionService) CreateTransaction(ctx context.Context, input *TransactionInput) (*TransactionResult, error) {
	status := enum.TransactionStatusCompleted
	if input.Draft {
		status = enum.TransactionStatusDraft
	}

	txn, items, err := s.prepare(ctx, input, status)
	if err != nil {
		return nil, err
	}

	txn.CreatedAt = s.clock.Now()
	if err := s.transactionRepo.CreateWithItems(ctx, txn, items); err != nil {
		return nil, apperror.NewStorageError("create transaction", err)
	}
	txn.Items = items

	result := &TransactionResult{Transaction: txn}
	if status == enum.TransactionStatusCompleted {
		result.Accrual = s.commissions.Accrue(ctx, txn.ID, txn.Items, txn.CreatedAt)
	}
	return result, nil
}

// UpdateTransaction replaces the header fields and the whole item set of an
// existing transaction. Status is preserved and no commission is accrued.
// Replacement items of a completed sale are stored as already accrued with a
// zero commission, so a later accrual retry cannot credit them again.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, input *TransactionInput) (*TransactionResult, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	txn, items, err := s.prepare(ctx, input, existing.Status)
	if err != nil {
		return nil, err
	}

	if existing.Status == enum.TransactionStatusCompleted {
		settled := s.clock.Now()
		for i := range items {
			items[i].Accrued = true
			items[i].AccruedAt = &settled
			items[i].Commission = decimal.Zero
		}
	}

	return s.replace(ctx, existing, txn, items)
}

// ContinueDraft completes a draft with a fresh item set and accrues
// commission for those items at the original sale instant. Only drafts can be
// continued.
func (s *TransactionService) ContinueDraft(ctx context.Context, id uuid.UUID, input *TransactionInput) (*TransactionResult, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsDraft() {
		return nil, apperror.ErrNotDraft
	}

	txn, items, err := s.prepare(ctx, input, enum.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}

	result, err := s.replace(ctx, existing, txn, items)
	if err != nil {
		return nil, err
	}
	result.Accrual = s.commissions.Accrue(ctx, txn.ID, result.Transaction.Items, txn.CreatedAt)
	return result, nil
}

func (s *TransactionService) replace(ctx context.Context, existing, txn *entity.Transaction, items []entity.LineItem) (*TransactionResult, error) {
	if !existing.Status.CanTransitionTo(txn.Status) {
		return nil, apperror.NewConflictError(fmt.Sprintf("cannot move transaction from %s to %s", existing.Status, txn.Status))
	}

	txn.ID = existing.ID
	txn.CreatedAt = existing.CreatedAt
	now := s.clock.Now()
	for i := range items {
		items[i].CreatedAt = now
	}

	ok, err := s.transactionRepo.ReplaceWithItems(ctx, txn, existing.Status, items)
	if err != nil {
		return nil, apperror.NewStorageError("update transaction", err)
	}
	if !ok {
		// Deleted, or completed by a concurrent request, since it was loaded
		current, err := s.load(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		if current.Status != existing.Status {
			return nil, apperror.ErrNotDraft
		}
		return nil, apperror.ErrTransactionNotFound
	}

	txn.Items = items
	return &TransactionResult{Transaction: txn}, nil
}

// DeleteTransaction removes a transaction and all of its items. Commission
// already accrued from it stays on the employees.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	ok, err := s.transactionRepo.DeleteWithItems(ctx, id)
	if err != nil {
		return apperror.NewStorageError("delete transaction", err)
	}
	if !ok {
		return apperror.ErrTransactionNotFound
	}
	return nil
}

// GetTransaction returns the header with its items
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load transaction", err)
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound
	}
	return txn, nil
}

// ListItems returns the items owned by a transaction. A deleted or unknown
// transaction has none.
func (s *TransactionService) ListItems(ctx context.Context, transactionID uuid.UUID) ([]entity.LineItem, error) {
	if _, ok := infraRepo.GetBranchID(ctx); ok {
		// Items carry no branch; gate on the header.
		txn, err := s.transactionRepo.GetByID(ctx, transactionID)
		if err != nil {
			return nil, apperror.NewStorageError("load transaction", err)
		}
		if txn == nil {
			return []entity.LineItem{}, nil
		}
	}

	items, err := s.transactionRepo.ListItems(ctx, transactionID)
	if err != nil {
		return nil, apperror.NewStorageError("list line items", err)
	}
	return items, nil
}

// ListTransactions returns one page of transactions matching filter
func (s *TransactionService) ListTransactions(ctx context.Context, filter ListFilter, params *pagination.PaginationParams) ([]entity.Transaction, *pagination.Pagination, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	query, err := filter.params(s.clock)
	if err != nil {
		return nil, nil, err
	}
	query.Pagination = params

	txns, total, err := s.transactionRepo.List(ctx, query)
	if err != nil {
		return nil, nil, apperror.NewStorageError("list transactions", err)
	}
	return txns, pagination.NewPagination(params.Page, params.PerPage, total), nil
}

func (s *TransactionService) load(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load transaction", err)
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound
	}
	return txn, nil
}

// prepare validates input and builds the header and items to write. Nothing
// is written here.
func (s *TransactionService) prepare(ctx context.Context, input *TransactionInput, status enum.TransactionStatus) (*entity.Transaction, []entity.LineItem, error) {
	if fieldErrs := validateInput(input, status); len(fieldErrs) > 0 {
		return nil, nil, apperror.NewValidationError(fieldErrs)
	}

	if scoped, ok := infraRepo.GetBranchID(ctx); ok && scoped != input.BranchID {
		return nil, nil, apperror.ErrForbidden
	}

	branch, err := s.branchRepo.GetByID(ctx, input.BranchID)
	if err != nil {
		return nil, nil, apperror.NewStorageError("load branch", err)
	}
	if branch == nil {
		return nil, nil, apperror.ErrBranchNotFound
	}

	resolution, err := s.members.Resolve(ctx, input.MemberID)
	if err != nil {
		return nil, nil, err
	}
	name, phone, err := resolution.CustomerIdentity(input.CustomerName, input.CustomerPhone)
	if err != nil {
		return nil, nil, err
	}

	if err := s.checkReferences(ctx, input.Items); err != nil {
		return nil, nil, err
	}

	txn := &entity.Transaction{
		CustomerName:  name,
		CustomerPhone: phone,
		TotalPrice:    *input.TotalPrice,
		PaymentMethod: enum.PaymentMethod(input.PaymentMethod),
		BranchID:      input.BranchID,
		Status:        status,
	}
	if resolution.Kind == MemberResolved {
		memberID := resolution.MemberID
		txn.MemberID = &memberID
	}

	items := make([]entity.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, entity.LineItem{
			ServiceID:  in.ServiceID,
			EmployeeID: in.EmployeeID,
			Price:      *in.Price,
			Note:       in.Note,
		})
	}
	return txn, items, nil
}

// checkReferences batch-loads the referenced services and employees and
// fails on the first one missing.
func (s *TransactionService) checkReferences(ctx context.Context, items []LineItemInput) error {
	if len(items) == 0 {
		return nil
	}

	serviceIDs := make([]uuid.UUID, 0, len(items))
	employeeIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		serviceIDs = append(serviceIDs, item.ServiceID)
		employeeIDs = append(employeeIDs, item.EmployeeID)
	}

	services, err := s.serviceRepo.GetByIDs(ctx, uniqueIDs(serviceIDs))
	if err != nil {
		return apperror.NewStorageError("load services", err)
	}
	knownServices := make(map[uuid.UUID]bool, len(services))
	for _, svc := range services {
		knownServices[svc.ID] = true
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, uniqueIDs(employeeIDs))
	if err != nil {
		return apperror.NewStorageError("load employees", err)
	}
	knownEmployees := make(map[uuid.UUID]bool, len(employees))
	for _, emp := range employees {
		knownEmployees[emp.ID] = true
	}

	for _, item := range items {
		if !knownServices[item.ServiceID] {
			return apperror.ErrServiceNotFound
		}
		if !knownEmployees[item.EmployeeID] {
			return apperror.ErrEmployeeNotFound
		}
	}
	return nil
}

func validateInput(input *TransactionInput, status enum.TransactionStatus) []apperror.FieldError {
	var errs []apperror.FieldError
	add := func(field, msg string) {
		errs = append(errs, apperror.FieldError{Field: field, Message: msg})
	}

	if input.TotalPrice == nil {
		add("total_price", "is required")
	} else if input.TotalPrice.IsNegative() {
		add("total_price", "must not be negative")
	}
	if !enum.PaymentMethod(input.PaymentMethod).IsValid() {
		add("payment_method", fmt.Sprintf("must be one of %v", enum.PaymentMethods))
	}
	if input.BranchID == uuid.Nil {
		add("branch_id", "is required")
	}
	if status == enum.TransactionStatusCompleted && len(input.Items) == 0 {
		add("items", "a completed transaction needs at least one item")
	}

	for i, item := range input.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if item.ServiceID == uuid.Nil {
			add(prefix+"service_id", "is required")
		}
		if item.EmployeeID == uuid.Nil {
			add(prefix+"employee_id", "is required")
		}
		if item.Price == nil {
			add(prefix+"price", "is required")
		} else if item.Price.IsNegative() {
			add(prefix+"price", "must not be negative")
		}
	}
	return errs
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ListFilterKind selects which listing a ListFilter describes
type ListFilterKind int

const (
	ListAll ListFilterKind = iota
	ListByBranch
	ListByDate
	ListCompletedOnDate
	ListCompletedInMonth
	ListDraftsByBranch
)

// ListFilter is exactly one transaction listing. Build it with the
// constructors below.
type ListFilter struct {
	Kind     ListFilterKind
	BranchID uuid.UUID
	Year     int
	Month    time.Month
	Day      int
}

func ByBranch(branchID uuid.UUID) ListFilter {
	return ListFilter{Kind: ListByBranch, BranchID: branchID}
}

func ByDate(year int, month time.Month, day int) ListFilter {
	return ListFilter{Kind: ListByDate, Year: year, Month: month, Day: day}
}

func CompletedOnDate(year int, month time.Month, day int, branchID uuid.UUID) ListFilter {
	return ListFilter{Kind: ListCompletedOnDate, Year: year, Month: month, Day: day, BranchID: branchID}
}

func CompletedInMonth(year int, month time.Month, branchID uuid.UUID) ListFilter {
	return ListFilter{Kind: ListCompletedInMonth, Year: year, Month: month, BranchID: branchID}
}

func DraftsByBranch(branchID uuid.UUID) ListFilter {
	return ListFilter{Kind: ListDraftsByBranch, BranchID: branchID}
}

// params turns the filter into repository bounds; dates become local-midnight
// ranges in the business timezone.
func (f ListFilter) params(clock *bizclock.Clock) (*repository.TransactionFilterParams, error) {
	p := &repository.TransactionFilterParams{}
	completed := enum.TransactionStatusCompleted
	draft := enum.TransactionStatusDraft

	needBranch := func() error {
		if f.BranchID == uuid.Nil {
			return apperror.NewValidationError([]apperror.FieldError{{Field: "branch_id", Message: "is required for this filter"}})
		}
		branchID := f.BranchID
		p.BranchID = &branchID
		return nil
	}
	dayRange := func() error {
		if !validDate(f.Year, f.Month, f.Day) {
			return apperror.NewValidationError([]apperror.FieldError{{Field: "date", Message: "is not a valid calendar date"}})
		}
		from, to := clock.DayRange(f.Year, f.Month, f.Day)
		p.From, p.To = &from, &to
		return nil
	}

	switch f.Kind {
	case ListAll:
	case ListByBranch:
		if err := needBranch(); err != nil {
			return nil, err
		}
	case ListByDate:
		if err := dayRange(); err != nil {
			return nil, err
		}
	case ListCompletedOnDate:
		if err := needBranch(); err != nil {
			return nil, err
		}
		if err := dayRange(); err != nil {
			return nil, err
		}
		p.Status = &completed
	case ListCompletedInMonth:
		if err := needBranch(); err != nil {
			return nil, err
		}
		if f.Month < time.January || f.Month > time.December || f.Year < 1 {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "month", Message: "must be between 1 and 12"}})
		}
		from, to := clock.MonthRange(f.Year, f.Month)
		p.From, p.To = &from, &to
		p.Status = &completed
	case ListDraftsByBranch:
		if err := needBranch(); err != nil {
			return nil, err
		}
		p.Status = &draft
	default:
		return nil, apperror.NewBadRequestError("unknown transaction filter")
	}
	return p, nil
}

func validDate(year int, month time.Month, day int) bool {
	if year < 1 || month < time.January || month > time.December || day < 1 {
		return false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return d.Day() == day && d.Month() == month
}
