package api

import (
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/service"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	cartService    *service.CartService
	paymentQueue   *service.PaymentQueue
	sessionService *service.SessionService
	userService    *service.UserService
	catalogService *service.CatalogService
	reportService  *service.ReportService
	receiptService *service.ReceiptService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cartService *service.CartService,
	paymentQueue *service.PaymentQueue,
	sessionService *service.SessionService,
	userService *service.UserService,
	catalogService *service.CatalogService,
	reportService *service.ReportService,
	receiptService *service.ReceiptService,
) *Handler {
	return &Handler{
		cartService:    cartService,
		paymentQueue:   paymentQueue,
		sessionService: sessionService,
		userService:    userService,
		catalogService: catalogService,
		reportService:  reportService,
		receiptService: receiptService,
	}
}

// SetupRoutes sets up HTTP routes. Paths follow the POS clients'
// contract; mutations read JSON bodies, reads take query or path
// parameters.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/registration/user/name/password/role", h.register)
	router.POST("/login/user/name/role", h.login)
	router.POST("/dashboard/user-card/userID", h.dashboardUserID)

	admin := router.Group("/admin")
	{
		admin.GET("/latest/categories", h.listCategories)
		admin.POST("/categories", h.addCategory)
		admin.POST("/products", h.addProduct)
		admin.POST("/sales-report/one-date", h.generateDailyReport)
		admin.POST("/sales-report/two-dates", h.generateRangeReport)
		admin.GET("/sales-report/one-date/items", h.dailyReportItems)
		admin.GET("/sales-report/two-dates/items", h.rangeReportItems)
		admin.GET("/report-history", h.reportHistory)
		admin.GET("/user-record", h.userRecord)
		admin.POST("/remove-user", h.removeUser)
	}

	shopper := router.Group("/shopper")
	{
		shopper.POST("/create-session", h.createSession)
		shopper.POST("/end-session", h.endSession)
		shopper.POST("/create-cart", h.createCart)
		shopper.GET("/dialog/product-image", h.productImage)
		shopper.GET("/products/category/:category", h.productsByCategory)
		shopper.POST("/cart", h.addToCartByBarcode)
		shopper.POST("/manual-selection/cart", h.addToCartByName)
		shopper.GET("/cart", h.cartItems)
		shopper.GET("/cart/total/:cart_id", h.cartTotal)
		shopper.PUT("/cart/:cart_item_id", h.updateCartItem)
		shopper.DELETE("/cart/delete-item", h.deleteCartItem)
		shopper.POST("/cart/check-stock", h.checkCartStock)
		shopper.POST("/payment-method", h.paymentMethod)
		shopper.GET("/checkout", h.checkoutItems)
		shopper.GET("/receipt/total/:receipt_num", h.receiptTotal)
		shopper.GET("/transaction-history", h.transactionHistory)
	}

	verifier := router.Group("/verifier")
	{
		verifier.POST("/verification-id", h.createVerification)
		verifier.GET("/receipt-number", h.verifyReceiptNumber)
		verifier.GET("/receipt-items", h.verifierReceiptItems)
		verifier.GET("/receipt/total/:receipt_num", h.receiptTotal)
		verifier.POST("/verification/status", h.updateVerificationStatus)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
