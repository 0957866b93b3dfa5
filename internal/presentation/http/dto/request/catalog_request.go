package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Code    string  `json:"code" binding:"required,max=20"`
	Address *string `json:"address"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
}

// ServiceRequest represents a salon service create/update request
type ServiceRequest struct {
	Name              string           `json:"name" binding:"required,max=255"`
	RegularPercent    *decimal.Decimal `json:"regular_percent" binding:"required"`
	AfterHoursPercent *decimal.Decimal `json:"after_hours_percent" binding:"required"`
	Category          string           `json:"category" binding:"max=100"`
}

// CreateEmployeeRequest represents an employee creation request. Commission
// accumulators are not accepted.
type CreateEmployeeRequest struct {
	Name     string    `json:"name" binding:"required,max=255"`
	Address  *string   `json:"address"`
	Phone    *string   `json:"phone" binding:"omitempty,max=50"`
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
}

// CreateMemberRequest represents a member registration request
type CreateMemberRequest struct {
	Name      string    `json:"name" binding:"required,max=255"`
	Phone     string    `json:"phone" binding:"required,max=50"`
	Address   *string   `json:"address"`
	BirthDate *string   `json:"birth_date"` // YYYY-MM-DD
	BranchID  uuid.UUID `json:"branch_id" binding:"required"`
}
