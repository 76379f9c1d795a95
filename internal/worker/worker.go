package worker

import (
	"context"
	"log"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/redisclient"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// AuditWorker consumes sale events: it writes the audit log for created
// transactions and drops cached reads for products that sold out, so
// browsing shoppers stop seeing stale stock.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cache        *redisclient.Client
	logger       *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, cache *redisclient.Client) *AuditWorker {
	w := &AuditWorker{
		consumer: consumer,
		cache:    cache,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnTransactionCreated(w.handleTransactionCreated)
	eventHandler.OnStockDepleted(w.handleStockDepleted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	log.Println("Starting audit worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	log.Println("Stopping audit worker...")
	return w.consumer.Close()
}

func (w *AuditWorker) handleTransactionCreated(ctx context.Context, event *models.TransactionCreatedEvent) error {
	w.logger.Info("Sale recorded",
		zap.Int64("cart_id", event.CartID),
		zap.Int64("user_id", event.UserID),
		zap.String("receipt", event.ReceiptNumber),
		zap.String("payment_method", event.PaymentMethod),
		zap.Float64("total_cost", event.TotalCost),
		zap.Time("at", event.Timestamp))
	return nil
}

func (w *AuditWorker) handleStockDepleted(ctx context.Context, event *models.StockDepletedEvent) error {
	w.logger.Warn("Product stock depleted",
		zap.String("barcode", event.BarcodeID),
		zap.String("product", event.ProductName),
		zap.String("category", event.CategoryName))

	if w.cache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := w.cache.InvalidateProduct(ctx, event.BarcodeID, event.CategoryName); err != nil {
		w.logger.Error("Failed to invalidate depleted product cache",
			zap.String("barcode", event.BarcodeID),
			zap.Error(err))
		return err
	}
	return nil
}
