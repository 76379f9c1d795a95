package api

import (
	"errors"
	"net/http"
	"strconv"

	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

type registrationRequest struct {
	UserName     string `json:"userName" binding:"required"`
	UserPassword string `json:"userPassword" binding:"required"`
	UserRole     string `json:"userRole" binding:"required"`
}

// register creates a new user account
func (h *Handler) register(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	message, err := h.userService.Register(c.Request.Context(), req.UserName, req.UserPassword, req.UserRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

type loginRequest struct {
	UserName string `json:"userName" binding:"required"`
	UserRole string `json:"userRole" binding:"required"`
}

// login returns the stored credentials for the client-side check
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req.UserName, req.UserRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":       user.ID,
		"password_hash": user.PasswordHash,
	})
}

// dashboardUserID resolves a username and role to a user id
func (h *Handler) dashboardUserID(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	userID, found, err := h.userService.LookupUserID(c.Request.Context(), req.UserName, req.UserRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "User ID not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

// listCategories returns all category names
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": categories})
}

type addCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// addCategory creates a category unless the name is taken
func (h *Handler) addCategory(c *gin.Context) {
	var req addCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	created, err := h.catalogService.AddCategory(c.Request.Context(), req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Category already exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "New category added"})
}

// addProduct stores a new product with its generated barcode image
func (h *Handler) addProduct(c *gin.Context) {
	var req service.NewProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.catalogService.AddProduct(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidBarcode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type dailyReportRequest struct {
	UserID    int64  `json:"userID" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
}

// generateDailyReport builds a single-date sales report
func (h *Handler) generateDailyReport(c *gin.Context) {
	var req dailyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start/end date is required"})
		return
	}

	reportID, err := h.reportService.GenerateDailyReport(c.Request.Context(), req.UserID, req.StartDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reportID": reportID})
}

type rangeReportRequest struct {
	UserID    int64  `json:"userID" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// generateRangeReport builds a date-range sales report
func (h *Handler) generateRangeReport(c *gin.Context) {
	var req rangeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start/end date is required"})
		return
	}

	reportID, err := h.reportService.GenerateRangeReport(c.Request.Context(), req.UserID, req.StartDate, req.EndDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reportID": reportID})
}

// dailyReportItems lists the rows of a single-date report
func (h *Handler) dailyReportItems(c *gin.Context) {
	reportID, err := strconv.ParseInt(c.Query("reportID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ReportID is required"})
		return
	}

	items, err := h.reportService.DailyReportItems(c.Request.Context(), reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// rangeReportItems lists the rows of a date-range report
func (h *Handler) rangeReportItems(c *gin.Context) {
	reportID, err := strconv.ParseInt(c.Query("reportID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ReportID is required"})
		return
	}

	items, err := h.reportService.RangeReportItems(c.Request.Context(), reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// reportHistory lists a user's generated reports
func (h *Handler) reportHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	history, err := h.reportService.ReportHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

// userRecord lists all user accounts
func (h *Handler) userRecord(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

type removeUserRequest struct {
	UserID int64 `json:"userID" binding:"required"`
}

// removeUser deletes a user account
func (h *Handler) removeUser(c *gin.Context) {
	var req removeUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	if err := h.userService.RemoveUser(c.Request.Context(), req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}
