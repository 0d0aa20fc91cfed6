// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bricostore/internal/domain/audit"
	"bricostore/internal/domain/auth"
	"bricostore/internal/domain/billing/invoice"
	"bricostore/internal/domain/catalog/article"
	"bricostore/internal/domain/reports"
	"bricostore/internal/domain/sales/purchase"
	"bricostore/internal/infrastructure/http/v1/handlers"
	"bricostore/internal/infrastructure/http/v1/middleware"
	"bricostore/internal/infrastructure/storage/postgres"
	"bricostore/internal/infrastructure/storage/postgres/billing_repo"
	"bricostore/internal/infrastructure/storage/postgres/catalog_repo"
	"bricostore/internal/infrastructure/storage/postgres/report_repo"
	"bricostore/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager manages database transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// InvoiceNumbers generates invoice numbers
	InvoiceNumbers invoice.NumberGenerator

	// Auditor records business mutations
	Auditor audit.Recorder

	// AuditHistory reads recorded audit entries back
	AuditHistory handlers.EntityHistoryReader
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Domain services share the transaction manager, so a purchase can
	// span the stock and billing repositories atomically.
	articleService := article.NewService(catalog_repo.NewArticleRepo(cfg.TxManager), cfg.TxManager, cfg.Auditor)
	invoiceService := invoice.NewService(billing_repo.NewInvoiceRepo(cfg.TxManager), cfg.TxManager, cfg.InvoiceNumbers, cfg.Auditor)
	purchaseService := purchase.NewService(articleService, invoiceService, cfg.TxManager, cfg.Auditor)
	reportsService := reports.NewService(report_repo.NewRevenueRepo(cfg.TxManager), cfg.TxManager)

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg, baseHandler)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, baseHandler, articleService)
		registerSalesRoutes(protected, baseHandler, purchaseService)
		registerBillingRoutes(protected, baseHandler, invoiceService)
		registerReportRoutes(protected, baseHandler, reportsService)
		registerAuditRoutes(protected, baseHandler, cfg.AuditHistory)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig, base *handlers.BaseHandler) {
	if cfg.AuthService == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	public := rg.Group("/auth")
	public.POST("/login", authHandler.Login)

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.GET("/me", authHandler.Me)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, service *article.Service) {
	handler := handlers.NewArticleHandler(base, service)

	catalog := rg.Group("/catalog")
	catalog.GET("/articles", handler.ListByFamily)
	catalog.GET("/articles/:reference", handler.Get)
	catalog.POST("/articles/:reference/restock",
		middleware.RequirePermission(auth.PermissionRestock), handler.Restock)
}

// registerSalesRoutes registers purchase endpoints.
func registerSalesRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, service *purchase.Service) {
	handler := handlers.NewPurchaseHandler(base, service)

	sales := rg.Group("/sales")
	sales.POST("/purchases", handler.Buy)
}

// registerBillingRoutes registers invoice endpoints.
func registerBillingRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, service *invoice.Service) {
	handler := handlers.NewInvoiceHandler(base, service)

	billing := rg.Group("/billing")
	billing.GET("/invoices/open/:customerId", handler.GetOpen)
	billing.POST("/invoices/pay", handler.Pay)
}

// registerAuditRoutes registers audit trail endpoints.
func registerAuditRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, history handlers.EntityHistoryReader) {
	if history == nil {
		return
	}

	handler := handlers.NewAuditHandler(base, history)

	auditGroup := rg.Group("/audit")
	auditGroup.GET("/:entityType/:entityKey",
		middleware.RequirePermission(auth.PermissionAuditRead), handler.GetHistory)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, service *reports.Service) {
	handler := handlers.NewReportsHandler(base, service)

	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/revenue",
		middleware.RequirePermission(auth.PermissionRevenueRead), handler.DailyRevenue)
}
