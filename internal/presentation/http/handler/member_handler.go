package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
)

// MemberHandler handles member HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Create handles member registration
func (h *MemberHandler) Create(c *gin.Context) {
	var req request.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateMemberInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		BranchID: req.BranchID,
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		birth, err := time.Parse(dateLayout, *req.BirthDate)
		if err != nil {
			response.BadRequest(c, "birth_date must be YYYY-MM-DD")
			return
		}
		input.BirthDate = &birth
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Member created successfully", member)
}

// Get handles fetching a member
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "member")
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member retrieved successfully", member)
}

// List handles listing and searching members
func (h *MemberHandler) List(c *gin.Context) {
	branchID, ok := optionalUUID(c, "branch_id")
	if !ok {
		return
	}

	result, err := h.memberService.ListMembers(c.Request.Context(), pageParams(c), branchID, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Members retrieved successfully", result)
}
