package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createVerificationRequest struct {
	UserID     int64  `json:"userID" binding:"required"`
	ReceiptNum string `json:"receipt_num" binding:"required"`
}

// createVerification opens a verification record for a receipt
func (h *Handler) createVerification(c *gin.Context) {
	var req createVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt number and user ID are required"})
		return
	}

	verificationID, err := h.receiptService.CreateVerification(c.Request.Context(), req.UserID, req.ReceiptNum)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification_id": verificationID})
}

// verifyReceiptNumber checks whether a receipt number is on record; an
// unknown number answers null rather than an error
func (h *Handler) verifyReceiptNumber(c *gin.Context) {
	receiptNum := c.Query("receipt_num")
	if receiptNum == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt number is required"})
		return
	}

	receipt, found, err := h.receiptService.ReceiptExists(c.Request.Context(), receiptNum)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"receipt_num": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_num": receipt})
}

// verifierReceiptItems lists the line items of a receipt under review
func (h *Handler) verifierReceiptItems(c *gin.Context) {
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

type updateVerificationRequest struct {
	VerificationID int64 `json:"verification_id" binding:"required"`
}

// updateVerificationStatus advances a verification record
func (h *Handler) updateVerificationStatus(c *gin.Context) {
	var req updateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification ID is required"})
		return
	}

	if err := h.receiptService.UpdateVerificationStatus(c.Request.Context(), req.VerificationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification status updated"})
}
