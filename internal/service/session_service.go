package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// SessionService covers the session and cart accessor endpoints: plain
// reads and read-then-create calls over uncontended identifiers, no
// locking needed.
type SessionService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(st *store.Store) *SessionService {
	return &SessionService{store: st, logger: util.GetLogger()}
}

// CreateSession opens a shopping session for a user
func (ss *SessionService) CreateSession(ctx context.Context, userID int64) (int64, error) {
	sessionID, err := ss.store.CallCreateShoppingSession(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create shopping session: %w", err)
	}
	ss.logger.Info("Shopping session created",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID))
	return sessionID, nil
}

// EndSession closes a shopping session
func (ss *SessionService) EndSession(ctx context.Context, sessionID int64) error {
	if err := ss.store.CallEndShoppingSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session %d: %w", sessionID, err)
	}
	ss.logger.Info("Shopping session ended", zap.Int64("session_id", sessionID))
	return nil
}

// CreateCart returns the session's active cart, creating one when absent
func (ss *SessionService) CreateCart(ctx context.Context, sessionID int64) (int64, error) {
	cartID, err := ss.store.CallCreateCart(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to create cart: %w", err)
	}
	ss.logger.Info("Cart resolved for session",
		zap.Int64("session_id", sessionID),
		zap.Int64("cart_id", cartID))
	return cartID, nil
}

// CartItems lists the line items of a cart
func (ss *SessionService) CartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	return ss.store.GetCartItems(ctx, cartID)
}

// CartTotal returns the aggregate price of a cart
func (ss *SessionService) CartTotal(ctx context.Context, cartID int64) (float64, error) {
	return ss.store.GetCartTotal(ctx, cartID)
}

// UpdateItemQuantity sets a cart line to a new quantity
func (ss *SessionService) UpdateItemQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	if err := ss.store.CallUpdateCartItem(ctx, cartItemID, quantity); err != nil {
		return fmt.Errorf("failed to update cart item %d: %w", cartItemID, err)
	}
	return nil
}

// RemoveItem deletes a cart line. Quantity changes go through
// UpdateItemQuantity; removal never carries a quantity.
func (ss *SessionService) RemoveItem(ctx context.Context, cartItemID int64) error {
	if err := ss.store.CallDeleteCartItem(ctx, cartItemID); err != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", cartItemID, err)
	}
	ss.logger.Info("Cart item removed", zap.Int64("cart_item_id", cartItemID))
	return nil
}

// CheckCartStock re-validates a cart against current stock before payment
func (ss *SessionService) CheckCartStock(ctx context.Context, cartID int64) (string, string, error) {
	return ss.store.CallCheckCartStock(ctx, cartID)
}
