package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
)

// BranchHandler handles branch HTTP requests
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create handles branch creation
func (h *BranchHandler) Create(c *gin.Context) {
	var req request.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), &service.CreateBranchInput{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Branch created successfully", branch)
}

// Get handles fetching a branch
func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "branch")
	if !ok {
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch retrieved successfully", branch)
}

// List handles listing branches
func (h *BranchHandler) List(c *gin.Context) {
	result, err := h.branchService.ListBranches(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Branches retrieved successfully", result)
}
