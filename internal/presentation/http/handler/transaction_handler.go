package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	commissionService  *service.CommissionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService, commissionService *service.CommissionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		commissionService:  commissionService,
	}
}

type accrualView struct {
	*service.AccrualReport
	Complete bool `json:"complete"`
}

type transactionView struct {
	Transaction interface{}  `json:"transaction"`
	Accrual     *accrualView `json:"accrual,omitempty"`
}

func viewOf(result *service.TransactionResult) transactionView {
	v := transactionView{Transaction: result.Transaction}
	if result.Accrual != nil {
		v.Accrual = &accrualView{AccrualReport: result.Accrual, Complete: result.Accrual.Complete()}
	}
	return v
}

// respondWithResult renders a write result. An incomplete accrual is still a
// success for the sale itself and is flagged in the message and payload.
func respondWithResult(c *gin.Context, status int, message string, result *service.TransactionResult) {
	if !result.AccrualComplete() {
		message += "; commission accrual incomplete"
	}
	response.Success(c, status, message, viewOf(result))
}

func toInput(req *request.TransactionRequest) *service.TransactionInput {
	items := make([]service.LineItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.LineItemInput{
			ServiceID:  item.ServiceID,
			EmployeeID: item.EmployeeID,
			Price:      item.Price,
			Note:       item.Note,
		}
	}
	return &service.TransactionInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: req.PaymentMethod,
		MemberID:      req.MemberID,
		BranchID:      req.BranchID,
		Draft:         req.Draft,
		Items:         items,
	}
}

// Create handles recording a sale (or saving a draft)
func (h *TransactionHandler) Create(c *gin.Context) {
	var req request.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.transactionService.CreateTransaction(c.Request.Context(), toInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Transaction created successfully"
	if req.Draft {
		message = "Draft saved successfully"
	}
	respondWithResult(c, http.StatusCreated, message, result)
}

// Get handles fetching one transaction with its items
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Transaction retrieved successfully", txn)
}

// Update handles replacing a transaction's header and items
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	var req request.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, toInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithResult(c, http.StatusOK, "Transaction updated successfully", result)
}

// Continue handles completing a draft
func (h *TransactionHandler) Continue(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	var req request.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.transactionService.ContinueDraft(c.Request.Context(), id, toInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithResult(c, http.StatusOK, "Draft completed successfully", result)
}

// Delete handles removing a transaction and its items
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Items handles listing the line items of a transaction
func (h *TransactionHandler) Items(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	items, err := h.transactionService.ListItems(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line items retrieved successfully", items)
}

// RetryAccrual handles re-running commission accrual for a completed sale
func (h *TransactionHandler) RetryAccrual(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	report, err := h.commissionService.RetryAccrual(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Commission accrual completed"
	if !report.Complete() {
		message = "Commission accrual incomplete"
	}
	response.OK(c, message, &accrualView{AccrualReport: report, Complete: report.Complete()})
}

// List handles listing transactions. The query selects one listing:
//
//	date                      all transactions of a local day
//	date + branch_id          completed transactions of a branch on a day
//	month + year + branch_id  completed transactions of a branch in a month
//	branch_id + status=draft  open drafts of a branch
//	branch_id                 all transactions of a branch
//	(nothing)                 all transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var q request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter, ok := filterFromQuery(c, &q)
	if !ok {
		return
	}

	params := pagination.FromStrings(q.Page, q.PerPage)
	txns, page, err := h.transactionService.ListTransactions(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Transactions retrieved successfully", pagination.NewPaginatedResult(txns, page))
}

func filterFromQuery(c *gin.Context, q *request.TransactionFilterRequest) (service.ListFilter, bool) {
	branchID, ok := optionalUUID(c, "branch_id")
	if !ok {
		return service.ListFilter{}, false
	}

	var status *enum.TransactionStatus
	if q.Status != "" {
		s, err := enum.ParseTransactionStatus(q.Status)
		if err != nil {
			response.BadRequest(c, "Invalid status")
			return service.ListFilter{}, false
		}
		status = &s
	}
	draftOnly := status != nil && *status == enum.TransactionStatusDraft

	bad := func(msg string) (service.ListFilter, bool) {
		response.BadRequest(c, msg)
		return service.ListFilter{}, false
	}

	switch {
	case q.Date != "":
		if q.Month != 0 || q.Year != 0 || draftOnly {
			return bad("date cannot be combined with month, year or status=draft")
		}
		y, m, d, err := parseDate(q.Date)
		if err != nil {
			return bad("date must be YYYY-MM-DD")
		}
		if branchID != nil {
			return service.CompletedOnDate(y, m, d, *branchID), true
		}
		if status != nil {
			return bad("status requires branch_id")
		}
		return service.ByDate(y, m, d), true

	case q.Month != 0 || q.Year != 0:
		if q.Month == 0 || q.Year == 0 || branchID == nil {
			return bad("month listing needs month, year and branch_id")
		}
		if draftOnly {
			return bad("month listing is for completed transactions")
		}
		return service.CompletedInMonth(q.Year, monthOf(q.Month), *branchID), true

	case branchID != nil:
		if draftOnly {
			return service.DraftsByBranch(*branchID), true
		}
		if status != nil {
			return bad("only status=draft is supported with branch_id alone")
		}
		return service.ByBranch(*branchID), true

	case status != nil:
		return bad("status requires branch_id")
	}
	return service.ListFilter{}, true
}
