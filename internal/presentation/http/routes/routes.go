package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sangkips/salon-commission-api/internal/config"
	domainRepo "github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-commission-api/pkg/utils"
)

// Permissions carried in access tokens
const (
	PermManageTransactions = "manage-transactions"
	PermManageCatalog      = "manage-catalog"
	PermManageStaff        = "manage-staff"
	PermManageMembers      = "manage-members"

	RoleAdmin = "admin"
)

// AllPermissions is every permission a head-office administrator holds
var AllPermissions = []string{PermManageTransactions, PermManageCatalog, PermManageStaff, PermManageMembers}

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Transaction *handler.TransactionHandler
	Branch      *handler.BranchHandler
	Service     *handler.ServiceHandler
	Employee    *handler.EmployeeHandler
	Member      *handler.MemberHandler
	Commission  *handler.CommissionHandler
	Receipt     *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	Logger          zerolog.Logger
	Now             func() time.Time
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	registerTransactionRoutes(v1, h, deps)
	registerCatalogRoutes(v1, h)
	registerStaffRoutes(v1, h)
	registerMemberRoutes(v1, h)
	registerAdminRoutes(v1, h)

	return router
}

func registerTransactionRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := v1.Group("/transactions")
	transactions.Use(middleware.RequirePermission(PermManageTransactions))
	{
		transactions.GET("", h.Transaction.List)
		// A retried sale must not accrue commission twice
		transactions.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Now:  deps.Now,
		}), h.Transaction.Create)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.PUT("/:id", h.Transaction.Update)
		transactions.DELETE("/:id", h.Transaction.Delete)
		transactions.GET("/:id/items", h.Transaction.Items)
		transactions.POST("/:id/continue", h.Transaction.Continue)
		transactions.POST("/:id/accrual", h.Transaction.RetryAccrual)
		transactions.GET("/:id/receipt", h.Receipt.Get)
		transactions.POST("/:id/receipt/print", h.Receipt.Print)
	}

	v1.GET("/printer/status", middleware.RequirePermission(PermManageTransactions), h.Receipt.PrinterStatus)
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	// Reads are open to every authenticated user so the front desk can price sales
	v1.GET("/services", h.Service.List)
	v1.GET("/services/:id", h.Service.Get)
	v1.GET("/branches", h.Branch.List)
	v1.GET("/branches/:id", h.Branch.Get)

	catalog := v1.Group("")
	catalog.Use(middleware.RequirePermission(PermManageCatalog))
	{
		catalog.POST("/services", h.Service.Create)
		catalog.PUT("/services/:id", h.Service.Update)
		catalog.POST("/branches", h.Branch.Create)
	}
}

func registerStaffRoutes(v1 *gin.RouterGroup, h *Handlers) {
	employees := v1.Group("/employees")
	employees.Use(middleware.RequirePermission(PermManageStaff))
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.GET("/:id", h.Employee.Get)
	}
}

func registerMemberRoutes(v1 *gin.RouterGroup, h *Handlers) {
	members := v1.Group("/members")
	members.Use(middleware.RequirePermission(PermManageMembers))
	{
		members.GET("", h.Member.List)
		members.POST("", h.Member.Create)
		members.GET("/:id", h.Member.Get)
	}
}

func registerAdminRoutes(v1 *gin.RouterGroup, h *Handlers) {
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireRole(RoleAdmin))
	{
		admin.GET("/commission-resets", h.Commission.Schedule)
		admin.POST("/commission-resets/:kind", h.Commission.Reset)
	}
}
