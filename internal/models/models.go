package models

import "time"

// User represents a registered account (cashier, admin, verifier)
type User struct {
	ID           int64  `db:"user_id" json:"user_id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"password_hash,omitempty"`
	RoleName     string `db:"role_name" json:"role_name"`
}

// Category represents a product category
type Category struct {
	Name string `db:"category_name" json:"category_name"`
}

// Product represents a catalog product; Quantity is the live stock count
type Product struct {
	BarcodeID    string  `db:"barcode_id" json:"barcode_id"`
	ProductName  string  `db:"product_name" json:"product_name"`
	ProductImage *string `db:"product_image" json:"product_image,omitempty"`
	CategoryName string  `db:"category_name" json:"category_name"`
	Price        float64 `db:"price" json:"price"`
	Weight       float64 `db:"weight" json:"weight"`
	WeightUnit   string  `db:"weight_unit" json:"weight_unit"`
	Quantity     int     `db:"quantity" json:"quantity"`
}

// ShoppingSession groups a shopper's carts
type ShoppingSession struct {
	ID        int64     `db:"session_id" json:"session_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Cart holds items for one shopping session
type Cart struct {
	ID         int64   `db:"cart_id" json:"cart_id"`
	SessionID  int64   `db:"session_id" json:"session_id"`
	Status     string  `db:"status" json:"status"`
	TotalPrice float64 `db:"total_price" json:"total_price"`
}

// CartItem is one product line in a cart; at most one row per
// (cart_id, product) pair
type CartItem struct {
	ID           int64   `db:"cart_item_id" json:"cart_item_id"`
	CartID       int64   `db:"cart_id" json:"cart_id"`
	BarcodeID    string  `db:"barcode_id" json:"barcode_id,omitempty"`
	ProductName  string  `db:"product_name" json:"product_name"`
	Price        float64 `db:"price" json:"price"`
	Quantity     int     `db:"quantity" json:"quantity"`
	PTotal       float64 `db:"p_total" json:"p_total"`
	ProductImage *string `db:"product_image" json:"product_image,omitempty"`
}

// Transaction is the checkout record for a cart; at most one per cart_id
type Transaction struct {
	CartID        int64     `db:"cart_id" json:"cart_id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	ReceiptNumber string    `db:"official_receiptnum" json:"official_receiptnum"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	TotalCost     float64   `db:"total_cost" json:"total_cost"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// TransactionItem is a line item snapshotted at checkout, immutable
type TransactionItem struct {
	ReceiptNumber string  `db:"official_receiptnum" json:"official_receiptnum,omitempty"`
	ProductName   string  `db:"product_name" json:"product_name"`
	Price         float64 `db:"price" json:"price"`
	Quantity      int     `db:"quantity" json:"quantity"`
	TotalCost     float64 `db:"total_cost" json:"total_cost"`
}

// Verification links a receipt to a reviewer-facing verification record
type Verification struct {
	ID            int64  `db:"verification_id" json:"verification_id"`
	UserID        int64  `db:"user_id" json:"user_id"`
	ReceiptNumber string `db:"receipt_num" json:"receipt_num"`
	Status        string `db:"status" json:"status"`
}

// SalesReportItem is one product row of a generated sales report
type SalesReportItem struct {
	ProductName  string  `db:"product_name" json:"product_name"`
	QuantitySold int     `db:"quantity_sold" json:"quantity_sold"`
	PriceUnit    float64 `db:"price_unit" json:"price_unit"`
	TotalSales   float64 `db:"total_sales" json:"total_sales"`
}

// ReportAccess is a row of a user's report history
type ReportAccess struct {
	ReportID   int64     `db:"report_id" json:"report_id"`
	AccessedAt time.Time `db:"accessed_at" json:"accessed_at"`
}

// Cart statuses
const (
	CartStatusActive = "active"
	CartStatusClosed = "closed"
)

// Verification statuses
const (
	VerificationStatusPending  = "PENDING"
	VerificationStatusVerified = "VERIFIED"
)
