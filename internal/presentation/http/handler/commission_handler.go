package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
)

// ResetRunner runs a commission reset for the current period
type ResetRunner interface {
	RunNow(ctx context.Context, kind enum.ResetKind) (*entity.CommissionReset, bool, error)
	NextRuns() map[enum.ResetKind]time.Time
}

// CommissionHandler exposes the reset schedule to administrators
type CommissionHandler struct {
	resets ResetRunner
}

// NewCommissionHandler creates a new commission handler
func NewCommissionHandler(resets ResetRunner) *CommissionHandler {
	return &CommissionHandler{resets: resets}
}

type resetView struct {
	Applied bool                    `json:"applied"`
	Reset   *entity.CommissionReset `json:"reset"`
}

// Reset handles a manual reset of the daily or monthly accumulator. Running it
// twice within one period zeroes only once.
func (h *CommissionHandler) Reset(c *gin.Context) {
	kind, err := enum.ParseResetKind(c.Param("kind"))
	if err != nil {
		response.BadRequest(c, "kind must be daily or monthly")
		return
	}

	record, applied, err := h.resets.RunNow(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Commission reset applied"
	if !applied {
		message = "Commission reset already applied for this period"
	}
	response.OK(c, message, resetView{Applied: applied, Reset: record})
}

// Schedule handles reporting the next scheduled reset times
func (h *CommissionHandler) Schedule(c *gin.Context) {
	response.OK(c, "Reset schedule retrieved successfully", h.resets.NextRuns())
}
