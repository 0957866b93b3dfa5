package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
)

// EmployeeHandler handles employee HTTP requests
type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create handles registering an employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req request.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), &service.CreateEmployeeInput{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		BranchID: req.BranchID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Employee created successfully", employee)
}

// Get handles fetching an employee with current commission totals
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "employee")
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employee retrieved successfully", employee)
}

// List handles listing employees, optionally by branch
func (h *EmployeeHandler) List(c *gin.Context) {
	branchID, ok := optionalUUID(c, "branch_id")
	if !ok {
		return
	}

	result, err := h.employeeService.ListEmployees(c.Request.Context(), pageParams(c), branchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Employees retrieved successfully", result)
}
