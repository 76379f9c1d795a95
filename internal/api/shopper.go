package api

import (
	"errors"
	"net/http"
	"strconv"

	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	UserID int64 `json:"userID" binding:"required"`
}

// createSession opens a shopping session
func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	sessionID, err := h.sessionService.CreateSession(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

type endSessionRequest struct {
	SessionID int64 `json:"sessionID" binding:"required"`
}

// endSession closes a shopping session
func (h *Handler) endSession(c *gin.Context) {
	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	if err := h.sessionService.EndSession(c.Request.Context(), req.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

type createCartRequest struct {
	SessionID int64 `json:"sessionID" binding:"required"`
}

// createCart resolves the session's active cart, creating one if needed
func (h *Handler) createCart(c *gin.Context) {
	var req createCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	cartID, err := h.sessionService.CreateCart(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cartID": cartID})
}

// productImage returns the stored product image for a barcode. An unknown
// barcode answers with an empty image, a known product without an image
// answers "No image"; the scanner dialog renders both.
func (h *Handler) productImage(c *gin.Context) {
	barcode := c.Query("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Barcode ID is required"})
		return
	}

	product, err := h.catalogService.ProductByBarcode(c.Request.Context(), barcode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if product == nil {
		c.JSON(http.StatusOK, gin.H{"product_image": ""})
		return
	}
	if product.ProductImage == nil {
		c.JSON(http.StatusOK, gin.H{"product_image": "No image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_image": *product.ProductImage})
}

type categoryProduct struct {
	ProductName  string  `json:"product_name"`
	ProductImage *string `json:"product_image"`
	Price        float64 `json:"price"`
	Weight       float64 `json:"weight"`
	WeightUnit   string  `json:"weight_unit"`
	Quantity     int     `json:"quantity"`
	Category     string  `json:"category"`
}

// productsByCategory lists a category's products for manual selection
func (h *Handler) productsByCategory(c *gin.Context) {
	category := c.Param("category")

	products, err := h.catalogService.ProductsByCategory(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No products found for this category"})
		return
	}

	filtered := make([]categoryProduct, 0, len(products))
	for _, p := range products {
		filtered = append(filtered, categoryProduct{
			ProductName:  p.ProductName,
			ProductImage: p.ProductImage,
			Price:        p.Price,
			Weight:       p.Weight,
			WeightUnit:   p.WeightUnit,
			Quantity:     p.Quantity,
			Category:     p.CategoryName,
		})
	}
	c.JSON(http.StatusOK, filtered)
}

type barcodeCartRequest struct {
	CartID    int64  `json:"cart_id" binding:"required"`
	BarcodeID string `json:"barcode_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// addToCartByBarcode adds a scanned product to the cart
func (h *Handler) addToCartByBarcode(c *gin.Context) {
	var req barcodeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	result, err := h.cartService.AddItemByBarcode(c.Request.Context(), req.CartID, req.BarcodeID, req.Quantity)
	h.respondCartMutation(c, result, err)
}

type manualCartRequest struct {
	CartID      int64  `json:"cart_id" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
}

// addToCartByName adds a manually selected product to the cart
func (h *Handler) addToCartByName(c *gin.Context) {
	var req manualCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	result, err := h.cartService.AddItemByName(c.Request.Context(), req.CartID, req.ProductName, req.Quantity)
	h.respondCartMutation(c, result, err)
}

// respondCartMutation maps the cart mutator's taxonomy onto HTTP.
// Insufficient stock is a 200 with the available amount, not an error.
func (h *Handler) respondCartMutation(c *gin.Context, result *service.AddItemResult, err error) {
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart ID not found"})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, result)
	}
}

// cartItems lists the items in a cart
func (h *Handler) cartItems(c *gin.Context) {
	cartID, err := strconv.ParseInt(c.Query("cartId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart ID is required"})
		return
	}

	items, err := h.sessionService.CartItems(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// cartTotal returns the aggregate price of a cart
func (h *Handler) cartTotal(c *gin.Context) {
	cartID, err := strconv.ParseInt(c.Param("cart_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return
	}

	total, err := h.sessionService.CartTotal(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// updateCartItem sets a new quantity for a cart line
func (h *Handler) updateCartItem(c *gin.Context) {
	cartItemID, err := strconv.ParseInt(c.Param("cart_item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	if err := h.sessionService.UpdateItemQuantity(c.Request.Context(), cartItemID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// deleteCartItem removes a cart line
func (h *Handler) deleteCartItem(c *gin.Context) {
	cartItemID, err := strconv.ParseInt(c.Query("cart_item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart item ID is required"})
		return
	}

	if err := h.sessionService.RemoveItem(c.Request.Context(), cartItemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

type checkCartStockRequest struct {
	CartID int64 `json:"cartID" binding:"required"`
}

// checkCartStock re-validates a cart against current stock before payment
func (h *Handler) checkCartStock(c *gin.Context) {
	var req checkCartStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart ID is required"})
		return
	}

	successMsg, errorMsg, err := h.sessionService.CheckCartStock(c.Request.Context(), req.CartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if errorMsg != "" {
		c.JSON(http.StatusOK, gin.H{"message": errorMsg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": successMsg})
}

type paymentMethodRequest struct {
	UserID        int64  `json:"userID"`
	CartID        int64  `json:"cartID"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// paymentMethod submits a payment through the serialization queue
func (h *Handler) paymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CartID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart ID is required"})
		return
	}

	receipt, err := h.paymentQueue.Submit(c.Request.Context(), service.PaymentRequest{
		UserID:        req.UserID,
		CartID:        req.CartID,
		PaymentMethod: req.PaymentMethod,
	})
	if errors.Is(err, service.ErrPaymentUpdateFailed) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to update payment method"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receiptNumber": receipt})
}

// checkoutItems lists the line items of a checkout receipt
func (h *Handler) checkoutItems(c *gin.Context) {
	receiptNum := c.Query("receipt_num")
	if receiptNum == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt number is required"})
		return
	}

	items, err := h.receiptService.ReceiptItems(c.Request.Context(), receiptNum)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// receiptTotal returns a receipt's total; unknown receipts answer 0
func (h *Handler) receiptTotal(c *gin.Context) {
	receiptNum := c.Param("receipt_num")

	total, found, err := h.receiptService.ReceiptTotal(c.Request.Context(), receiptNum)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"total": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// transactionHistory lists a user's past transactions
func (h *Handler) transactionHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	history, err := h.receiptService.TransactionHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}
