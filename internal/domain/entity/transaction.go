package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/salon-commission-api/internal/domain/enum"
)

// Transaction is one sale at the front desk. It exclusively owns its line
// items: they are written, replaced and deleted together with the header.
type Transaction struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	CustomerName  string                 `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone string                 `gorm:"size:50;not null" json:"customer_phone"`
	TotalPrice    decimal.Decimal        `gorm:"type:numeric(15,2);not null" json:"total_price"`
	PaymentMethod enum.PaymentMethod     `gorm:"size:20;not null" json:"payment_method"`
	MemberID      *uuid.UUID             `gorm:"type:uuid;index" json:"member_id,omitempty"`
	BranchID      uuid.UUID              `gorm:"type:uuid;not null;index:idx_transactions_branch_created" json:"branch_id"`
	Status        enum.TransactionStatus `gorm:"not null;default:0;index" json:"status"`
	CreatedAt     time.Time              `gorm:"not null;index:idx_transactions_branch_created" json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`

	Branch *Branch    `gorm:"foreignKey:BranchID" json:"-"`
	Member *Member    `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Items  []LineItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) IsDraft() bool {
	return t.Status == enum.TransactionStatusDraft
}

// LineItem is one service performed by one employee within a transaction.
// Accrued flips to true, together with the employee increment, the first time
// its commission lands; later accrual attempts skip it.
type LineItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ServiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_id"`
	Note          string          `gorm:"type:text" json:"note"`
	Price         decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"price"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Commission    decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"commission"`
	Accrued       bool            `gorm:"not null;default:false" json:"accrued"`
	AccruedAt     *time.Time      `json:"accrued_at,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`

	Service  *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

func (LineItem) TableName() string {
	return "line_items"
}
