package models

import "time"

// Event types
const (
	EventTypeTransactionCreated = "TRANSACTION_CREATED"
	EventTypeStockDepleted      = "STOCK_DEPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionCreatedEvent published when the payment queue creates a
// checkout transaction
type TransactionCreatedEvent struct {
	BaseEvent
	CartID        int64   `json:"cart_id"`
	UserID        int64   `json:"user_id"`
	ReceiptNumber string  `json:"official_receiptnum"`
	PaymentMethod string  `json:"payment_method"`
	TotalCost     float64 `json:"total_cost"`
}

// StockDepletedEvent published when a committed cart mutation takes a
// product's stock to zero
type StockDepletedEvent struct {
	BaseEvent
	BarcodeID    string `json:"barcode_id"`
	ProductName  string `json:"product_name"`
	CategoryName string `json:"category_name"`
	CartID       int64  `json:"cart_id"`
}
