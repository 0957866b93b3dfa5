package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
)

// ReceiptHandler handles receipt and printer requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Get returns the receipt of a transaction without printing it
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Receipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Print sends the receipt of a transaction to the front-desk printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := parseID(c, "transaction")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Print(c.Request.Context(), id)
	if err != nil {
		appErr := apperror.GetAppError(err)
		if receipt != nil && appErr.Kind == apperror.KindPrinter {
			// The receipt can still be shown on screen
			response.Success(c, appErr.Code, appErr.Message, receipt)
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed successfully", receipt)
}

// PrinterStatus reports whether the printer is configured and reachable
func (h *ReceiptHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.receiptService.Status(c.Request.Context()))
}
