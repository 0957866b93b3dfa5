package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
)

// ServiceHandler handles salon service catalog requests
type ServiceHandler struct {
	catalogService *service.CatalogService
}

// NewServiceHandler creates a new service catalog handler
func NewServiceHandler(catalogService *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalogService: catalogService}
}

func serviceInput(req *request.ServiceRequest) *service.ServiceInput {
	return &service.ServiceInput{
		Name:              req.Name,
		RegularPercent:    *req.RegularPercent,
		AfterHoursPercent: *req.AfterHoursPercent,
		Category:          req.Category,
	}
}

// Create handles adding a service to the catalog
func (h *ServiceHandler) Create(c *gin.Context) {
	var req request.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	svc, err := h.catalogService.CreateService(c.Request.Context(), serviceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Service created successfully", svc)
}

// Update handles changing a service's name or commission tariffs. Sales
// already recorded keep the commission they accrued.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "service")
	if !ok {
		return
	}

	var req request.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	svc, err := h.catalogService.UpdateService(c.Request.Context(), id, serviceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service updated successfully", svc)
}

// Get handles fetching a service
func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "service")
	if !ok {
		return
	}

	svc, err := h.catalogService.GetService(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service retrieved successfully", svc)
}

// List handles listing services, optionally by category
func (h *ServiceHandler) List(c *gin.Context) {
	result, err := h.catalogService.ListServices(c.Request.Context(), pageParams(c), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Services retrieved successfully", result)
}
