package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one service line of a transaction
type LineItemRequest struct {
	ServiceID  uuid.UUID        `json:"service_id"`
	EmployeeID uuid.UUID        `json:"employee_id"`
	Price      *decimal.Decimal `json:"price"`
	Note       string           `json:"note" binding:"max=1000"`
}

// TransactionRequest is the body of create, update and continue. Items is
// always the complete item set. Required fields are checked by the service so
// that all problems come back together as field errors.
type TransactionRequest struct {
	CustomerName  string            `json:"customer_name" binding:"max=255"`
	CustomerPhone string            `json:"customer_phone" binding:"max=50"`
	TotalPrice    *decimal.Decimal  `json:"total_price"`
	PaymentMethod string            `json:"payment_method"`
	MemberID      *uuid.UUID        `json:"member_id"`
	BranchID      uuid.UUID         `json:"branch_id"`
	Draft         bool              `json:"draft"`
	Items         []LineItemRequest `json:"items" binding:"dive"`
}

// TransactionFilterRequest selects one transaction listing
type TransactionFilterRequest struct {
	BranchID string `form:"branch_id"`
	Date     string `form:"date"` // YYYY-MM-DD, business local date
	Month    int    `form:"month"`
	Year     int    `form:"year"`
	Status   string `form:"status"`
	Page     string `form:"page"`
	PerPage  string `form:"per_page"`
}
