package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/redisclient"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Lookup failures surfaced by the cart mutator. Insufficient stock is not
// among them: it is a normal outcome carried in AddItemResult.
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
)

// Messages returned to shoppers, kept stable for the POS clients.
const (
	MsgAddedSuccessfully = "Added Successfully!"
	MsgInsufficientStock = "Insufficient quantity in stock"
)

// AddItemResult is the outcome of a cart mutation. Available carries the
// stock level observed under the row lock, so a rejected shopper knows how
// many units are left.
type AddItemResult struct {
	Message   string `json:"message"`
	Available int    `json:"quantity"`
}

// Sufficient reports whether the mutation committed.
func (r *AddItemResult) Sufficient() bool {
	return r.Message == MsgAddedSuccessfully
}

// CartService adds and updates cart lines without overselling stock. The
// whole check-then-mutate sequence runs inside one transaction holding an
// exclusive lock on the product's stock row; releasing the lock between
// the stock check and the insert would reopen the oversell race.
type CartService struct {
	store         *store.Store
	cache         *redisclient.Client
	publisher     *broker.EventPublisher
	logger        *zap.Logger
	txTimeout     time.Duration
	beginAttempts int
}

// NewCartService creates a new cart service
func NewCartService(
	st *store.Store,
	cache *redisclient.Client,
	publisher *broker.EventPublisher,
	txTimeout time.Duration,
	beginAttempts int,
) *CartService {
	if beginAttempts < 1 {
		beginAttempts = 1
	}
	return &CartService{
		store:         st,
		cache:         cache,
		publisher:     publisher,
		logger:        util.GetLogger(),
		txTimeout:     txTimeout,
		beginAttempts: beginAttempts,
	}
}

// productOps is the lookup-specific half of the mutation protocol. The
// barcode and manual-selection paths differ only in these four calls.
type productOps struct {
	lock        func(ctx context.Context, tx *sqlx.Tx) (*store.LockedStock, error)
	itemExists  func(ctx context.Context, tx *sqlx.Tx) (bool, error)
	addNew      func(ctx context.Context, tx *sqlx.Tx) error
	addExisting func(ctx context.Context, tx *sqlx.Tx) error
}

// AddItemByBarcode adds or updates a cart line identified by barcode.
func (cs *CartService) AddItemByBarcode(ctx context.Context, cartID int64, barcode string, quantity int) (*AddItemResult, error) {
	ops := productOps{
		lock: func(ctx context.Context, tx *sqlx.Tx) (*store.LockedStock, error) {
			return cs.store.LockProductByBarcodeTx(ctx, tx, barcode)
		},
		itemExists: func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
			return cs.store.CartItemExistsByBarcodeTx(ctx, tx, cartID, barcode)
		},
		addNew: func(ctx context.Context, tx *sqlx.Tx) error {
			return cs.store.CallAddItemCartTx(ctx, tx, cartID, barcode, quantity)
		},
		addExisting: func(ctx context.Context, tx *sqlx.Tx) error {
			return cs.store.CallAddExistingItemCartTx(ctx, tx, cartID, barcode, quantity)
		},
	}
	return cs.addOrUpdateItem(ctx, cartID, quantity, ops)
}

// AddItemByName adds or updates a cart line identified by product name
// (manual-selection path).
func (cs *CartService) AddItemByName(ctx context.Context, cartID int64, productName string, quantity int) (*AddItemResult, error) {
	ops := productOps{
		lock: func(ctx context.Context, tx *sqlx.Tx) (*store.LockedStock, error) {
			return cs.store.LockProductByNameTx(ctx, tx, productName)
		},
		itemExists: func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
			return cs.store.CartItemExistsByNameTx(ctx, tx, cartID, productName)
		},
		addNew: func(ctx context.Context, tx *sqlx.Tx) error {
			_, err := cs.store.CallManualAddItemCartTx(ctx, tx, cartID, productName, quantity)
			return err
		},
		addExisting: func(ctx context.Context, tx *sqlx.Tx) error {
			return cs.store.CallManualAddExistingItemCartTx(ctx, tx, cartID, productName, quantity)
		},
	}
	return cs.addOrUpdateItem(ctx, cartID, quantity, ops)
}

// addOrUpdateItem runs the locked mutation protocol: verify the cart,
// lock the product's stock row, compare requested against available stock,
// re-check the cart line's existence under the same lock, then route to
// the add or update stored operation. Every early exit rolls back.
func (cs *CartService) addOrUpdateItem(ctx context.Context, cartID int64, quantity int, ops productOps) (*AddItemResult, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddOrUpdateItem")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CartMutationLatency.Observe(time.Since(start).Seconds())
	}()

	if cs.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.txTimeout)
		defer cancel()
	}

	tx, err := cs.beginWithRetry(ctx)
	if err != nil {
		util.CartAddRejectedTotal.WithLabelValues("tx_failure").Inc()
		return nil, err
	}
	defer tx.Rollback()

	exists, err := cs.store.CartExistsTx(ctx, tx, cartID)
	if err != nil {
		util.CartAddRejectedTotal.WithLabelValues("tx_failure").Inc()
		return nil, fmt.Errorf("failed to check cart %d: %w", cartID, err)
	}
	if !exists {
		util.CartAddRejectedTotal.WithLabelValues("cart_not_found").Inc()
		return nil, ErrCartNotFound
	}

	locked, err := ops.lock(ctx, tx)
	if err != nil {
		util.CartAddRejectedTotal.WithLabelValues("tx_failure").Inc()
		return nil, fmt.Errorf("failed to lock product stock: %w", err)
	}
	if locked == nil {
		util.CartAddRejectedTotal.WithLabelValues("product_not_found").Inc()
		return nil, ErrProductNotFound
	}

	if quantity > locked.Quantity {
		// Normal outcome, not an error: abandon the transaction cleanly
		// and report the available amount.
		util.StockConflictsTotal.Inc()
		cs.logger.Info("Insufficient stock for cart mutation",
			zap.Int64("cart_id", cartID),
			zap.String("product", locked.ProductName),
			zap.Int("requested", quantity),
			zap.Int("available", locked.Quantity))
		return &AddItemResult{Message: MsgInsufficientStock, Available: locked.Quantity}, nil
	}

	itemExists, err := ops.itemExists(ctx, tx)
	if err != nil {
		util.CartAddRejectedTotal.WithLabelValues("tx_failure").Inc()
		return nil, fmt.Errorf("failed to check cart item: %w", err)
	}

	if itemExists {
		err = ops.addExisting(ctx, tx)
	} else {
		err = ops.addNew(ctx, tx)
	}
	if err != nil {
		util.CartAddRejectedTotal.WithLabelValues("tx_failure").Inc()
		return nil, fmt.Errorf("failed to add item to cart %d: %w", cartID, err)
	}

	if err := tx.Commit(); err != nil {
		util.CartAddRejectedTotal.WithLabelValues("tx_failure").Inc()
		return nil, fmt.Errorf("failed to commit cart mutation: %w", err)
	}

	util.CartItemsAddedTotal.Inc()
	cs.logger.Info("Cart line committed",
		zap.Int64("cart_id", cartID),
		zap.String("product", locked.ProductName),
		zap.Int("quantity", quantity))

	cs.afterCommit(cartID, locked, quantity)

	return &AddItemResult{Message: MsgAddedSuccessfully, Available: locked.Quantity}, nil
}

// beginWithRetry retries transaction begin a bounded number of times.
// Only connection establishment is retried; business outcomes never are.
func (cs *CartService) beginWithRetry(ctx context.Context) (*sqlx.Tx, error) {
	var lastErr error
	for attempt := 1; attempt <= cs.beginAttempts; attempt++ {
		tx, err := cs.store.BeginTx(ctx)
		if err == nil {
			return tx, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < cs.beginAttempts {
			util.CartTxRetriesTotal.Inc()
			cs.logger.Warn("Retrying transaction begin",
				zap.Int("attempt", attempt),
				zap.Error(err))
			select {
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// afterCommit invalidates cached product reads and reports depletion.
// Failures here never affect the committed mutation.
func (cs *CartService) afterCommit(cartID int64, locked *store.LockedStock, quantity int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cs.cache != nil {
		if err := cs.cache.InvalidateProduct(ctx, locked.BarcodeID, locked.CategoryName); err != nil {
			cs.logger.Warn("Failed to invalidate product cache",
				zap.String("barcode", locked.BarcodeID),
				zap.Error(err))
		}
	}

	if locked.Quantity-quantity == 0 {
		util.StockDepletedTotal.Inc()
		if cs.publisher != nil {
			event := &models.StockDepletedEvent{
				BaseEvent: models.BaseEvent{
					EventID:   uuid.New().String(),
					EventType: models.EventTypeStockDepleted,
					Timestamp: time.Now(),
				},
				BarcodeID:    locked.BarcodeID,
				ProductName:  locked.ProductName,
				CategoryName: locked.CategoryName,
				CartID:       cartID,
			}
			if err := cs.publisher.PublishStockDepleted(ctx, event); err != nil {
				cs.logger.Error("Failed to publish StockDepleted event", zap.Error(err))
			}
		}
	}
}
