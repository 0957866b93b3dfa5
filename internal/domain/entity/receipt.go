package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptItem is one performed service as printed for the customer
type ReceiptItem struct {
	Service string          `json:"service"`
	Stylist string          `json:"stylist"`
	Note    string          `json:"note,omitempty"`
	Price   decimal.Decimal `json:"price"`
}

// Receipt is composed from a transaction at print time; it is not stored.
type Receipt struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	BranchName    string          `json:"branch_name"`
	BranchAddress string          `json:"branch_address,omitempty"`
	BranchPhone   string          `json:"branch_phone,omitempty"`
	IssuedAt      time.Time       `json:"issued_at"`
	Customer      string          `json:"customer"`
	Phone         string          `json:"phone"`
	Member        bool            `json:"member"`
	PaymentMethod string          `json:"payment_method"`
	Draft         bool            `json:"draft"`
	Items         []ReceiptItem   `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

// Number is the short reference printed on paper
func (r *Receipt) Number() string {
	return r.TransactionID.String()[:8]
}
