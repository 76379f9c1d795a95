package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPaymentUpdateFailed is returned when the payment-method update
// matched no transaction row.
var ErrPaymentUpdateFailed = errors.New("unable to update payment method")

// PaymentRequest is one payment-method submission for a cart.
type PaymentRequest struct {
	UserID        int64
	CartID        int64
	PaymentMethod string
}

// PaymentProcessor finalizes one payment request to completion.
type PaymentProcessor interface {
	Process(ctx context.Context, req PaymentRequest) (string, error)
}

type paymentOutcome struct {
	receipt string
	err     error
}

type queuedPayment struct {
	ctx    context.Context
	req    PaymentRequest
	result chan paymentOutcome
}

// PaymentQueue serializes payment finalization: a single worker drains a
// FIFO queue, so at most one existence-check-then-create runs at a time
// and concurrent submissions for one cart cannot both create a
// transaction row. The guarantee holds within this process only; a second
// server instance sharing the store reintroduces the race.
type PaymentQueue struct {
	processor PaymentProcessor
	logger    *zap.Logger
	requests  chan *queuedPayment
}

// NewPaymentQueue creates the queue with a bounded pending buffer. Depth
// beyond the buffer blocks submitters rather than rejecting them.
func NewPaymentQueue(processor PaymentProcessor, size int) *PaymentQueue {
	if size < 1 {
		size = 1
	}
	return &PaymentQueue{
		processor: processor,
		logger:    util.GetLogger(),
		requests:  make(chan *queuedPayment, size),
	}
}

// Start runs the drain loop until ctx is cancelled. Each request is
// handled to completion before the next is popped; a failed request is
// reported to its own caller and never stops the loop.
func (q *PaymentQueue) Start(ctx context.Context) error {
	q.logger.Info("Starting payment queue worker")
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("Payment queue worker stopping")
			return ctx.Err()
		case qp := <-q.requests:
			util.PaymentQueueDepth.Dec()
			receipt, err := q.processor.Process(qp.ctx, qp.req)
			if err != nil {
				q.logger.Error("Payment request failed",
					zap.Int64("cart_id", qp.req.CartID),
					zap.Error(err))
			}
			qp.result <- paymentOutcome{receipt: receipt, err: err}
		}
	}
}

// Submit enqueues a payment request and waits for its outcome. Requests
// are processed strictly in arrival order.
func (q *PaymentQueue) Submit(ctx context.Context, req PaymentRequest) (string, error) {
	util.PaymentAttemptsTotal.Inc()
	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	qp := &queuedPayment{
		ctx:    ctx,
		req:    req,
		result: make(chan paymentOutcome, 1),
	}

	select {
	case q.requests <- qp:
		util.PaymentQueueDepth.Inc()
	case <-ctx.Done():
		util.PaymentFailedTotal.Inc()
		return "", ctx.Err()
	}

	select {
	case out := <-qp.result:
		if out.err != nil {
			util.PaymentFailedTotal.Inc()
		}
		return out.receipt, out.err
	case <-ctx.Done():
		util.PaymentFailedTotal.Inc()
		return "", ctx.Err()
	}
}

// paymentProcessor is the store-backed processor used in production.
type paymentProcessor struct {
	store     *store.Store
	publisher *broker.EventPublisher
	logger    *zap.Logger
	timeout   time.Duration
}

// NewPaymentProcessor creates the store-backed payment processor
func NewPaymentProcessor(st *store.Store, publisher *broker.EventPublisher, timeout time.Duration) PaymentProcessor {
	return &paymentProcessor{
		store:     st,
		publisher: publisher,
		logger:    util.GetLogger(),
		timeout:   timeout,
	}
}

// Process looks up the cart's transaction; when one exists the payment
// method is updated only if it differs and the stored receipt number is
// returned, otherwise a transaction is created and its generated receipt
// validated.
func (p *paymentProcessor) Process(ctx context.Context, req PaymentRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "PaymentQueue.Process")
	defer span.End()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	existing, err := p.store.GetTransactionByCartID(ctx, req.CartID)
	if err != nil {
		return "", fmt.Errorf("failed to look up transaction for cart %d: %w", req.CartID, err)
	}

	if existing != nil {
		util.PaymentDuplicateTotal.Inc()
		if existing.PaymentMethod != req.PaymentMethod {
			affected, err := p.store.UpdatePaymentMethod(ctx, req.CartID, req.PaymentMethod)
			if err != nil {
				return "", fmt.Errorf("failed to update payment method for cart %d: %w", req.CartID, err)
			}
			if affected == 0 {
				return "", ErrPaymentUpdateFailed
			}
		}
		receipt, err := p.store.GetReceiptNumberByCartID(ctx, req.CartID)
		if err != nil {
			return "", fmt.Errorf("failed to fetch receipt for cart %d: %w", req.CartID, err)
		}
		p.logger.Info("Payment method recorded on existing transaction",
			zap.Int64("cart_id", req.CartID),
			zap.String("receipt", receipt))
		return receipt, nil
	}

	receipt, err := p.store.CallCreateTransaction(ctx, req.UserID, req.CartID, req.PaymentMethod)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction for cart %d: %w", req.CartID, err)
	}
	if receipt == "" {
		return "", fmt.Errorf("create transaction for cart %d returned no receipt number", req.CartID)
	}

	util.PaymentCreatedTotal.Inc()
	p.logger.Info("Transaction created",
		zap.Int64("cart_id", req.CartID),
		zap.String("receipt", receipt))

	p.publishCreated(ctx, req, receipt)

	return receipt, nil
}

// publishCreated emits the TransactionCreated event; failures are logged
// only, the receipt has already been committed.
func (p *paymentProcessor) publishCreated(ctx context.Context, req PaymentRequest, receipt string) {
	if p.publisher == nil {
		return
	}

	var totalCost float64
	if txn, err := p.store.GetTransactionByCartID(ctx, req.CartID); err == nil && txn != nil {
		totalCost = txn.TotalCost
	}

	event := &models.TransactionCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeTransactionCreated,
			Timestamp: time.Now(),
		},
		CartID:        req.CartID,
		UserID:        req.UserID,
		ReceiptNumber: receipt,
		PaymentMethod: req.PaymentMethod,
		TotalCost:     totalCost,
	}
	if err := p.publisher.PublishTransactionCreated(ctx, event); err != nil {
		p.logger.Error("Failed to publish TransactionCreated event", zap.Error(err))
	}
}
