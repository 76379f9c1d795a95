package store

import (
	"context"
	"database/sql"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type sessionRow struct {
	SessionID int64 `db:"session_id"`
}

// CallCreateShoppingSession creates a shopping session and returns the
// generated session id
func (s *Store) CallCreateShoppingSession(ctx context.Context, userID int64) (int64, error) {
	var row sessionRow
	if err := s.callRow(ctx, &row, "CALL CreateShoppingSession(?)", userID); err != nil {
		return 0, err
	}
	return row.SessionID, nil
}

// CallEndShoppingSession closes a shopping session
func (s *Store) CallEndShoppingSession(ctx context.Context, sessionID int64) error {
	return s.callVoid(ctx, "CALL EndShoppingSession(?)", sessionID)
}

type cartRow struct {
	CartID int64 `db:"cart_id"`
}

// CallCreateCart returns the session's active cart id, creating a cart
// when the session has none. Lookup-before-create lives in the stored
// operation, so a session keeps at most one active cart.
func (s *Store) CallCreateCart(ctx context.Context, sessionID int64) (int64, error) {
	var row cartRow
	if err := s.callRow(ctx, &row, "CALL CreateCart(?)", sessionID); err != nil {
		return 0, err
	}
	return row.CartID, nil
}

// GetCartItems retrieves the line items of a cart
func (s *Store) GetCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.selectAll(ctx, &items,
		"SELECT cart_item_id, cart_id, product_name, price, quantity, p_total, product_image FROM CartItems WHERE cart_id = ?",
		cartID)
	return items, err
}

// GetCartTotal retrieves the aggregate price of a cart; 0 when the cart
// has no row yet
func (s *Store) GetCartTotal(ctx context.Context, cartID int64) (float64, error) {
	var total float64
	err := s.get(ctx, &total, "SELECT total_price FROM Carts WHERE cart_id = ?", cartID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return total, err
}

// CallUpdateCartItem invokes the UpdateCartItem stored operation
func (s *Store) CallUpdateCartItem(ctx context.Context, cartItemID int64, quantity int) error {
	return s.callVoid(ctx, "CALL UpdateCartItem(?, ?)", cartItemID, quantity)
}

// CallDeleteCartItem invokes the DeleteCartItem stored operation
func (s *Store) CallDeleteCartItem(ctx context.Context, cartItemID int64) error {
	return s.callVoid(ctx, "CALL DeleteCartItem(?)", cartItemID)
}

type cartStockRow struct {
	SuccessMessage sql.NullString `db:"success_message"`
	ErrorMessage   sql.NullString `db:"error_message"`
}

// CallCheckCartStock re-validates a cart's items against current stock and
// drops lines the store can no longer fulfil. Returns the store's success
// or error message.
func (s *Store) CallCheckCartStock(ctx context.Context, cartID int64) (string, string, error) {
	var row cartStockRow
	if err := s.callRow(ctx, &row, "CALL CheckCartStock(?)", cartID); err != nil {
		return "", "", err
	}
	return row.SuccessMessage.String, row.ErrorMessage.String, nil
}

// CartExistsTx checks cart existence inside an open transaction
func (s *Store) CartExistsTx(ctx context.Context, tx *sqlx.Tx, cartID int64) (bool, error) {
	var id int64
	err := tx.GetContext(ctx, &id, "SELECT cart_id FROM Carts WHERE cart_id = ?", cartID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LockedStock is the product stock row read under FOR UPDATE. The lock is
// held until the surrounding transaction commits or rolls back.
type LockedStock struct {
	BarcodeID    string `db:"barcode_id"`
	ProductName  string `db:"product_name"`
	CategoryName string `db:"category_name"`
	Quantity     int    `db:"quantity"`
}

// LockProductByBarcodeTx takes an exclusive row lock on the product's
// stock row; returns nil when the barcode is unknown
func (s *Store) LockProductByBarcodeTx(ctx context.Context, tx *sqlx.Tx, barcode string) (*LockedStock, error) {
	var locked LockedStock
	err := tx.GetContext(ctx, &locked,
		"SELECT barcode_id, product_name, category_name, quantity FROM Products WHERE barcode_id = ? FOR UPDATE",
		barcode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &locked, nil
}

// LockProductByNameTx is LockProductByBarcodeTx keyed by product name,
// for the manual-selection path
func (s *Store) LockProductByNameTx(ctx context.Context, tx *sqlx.Tx, productName string) (*LockedStock, error) {
	var locked LockedStock
	err := tx.GetContext(ctx, &locked,
		"SELECT barcode_id, product_name, category_name, quantity FROM Products WHERE product_name = ? FOR UPDATE",
		productName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &locked, nil
}

// CartItemExistsByBarcodeTx checks, under lock, whether the cart already
// carries a line for this barcode
func (s *Store) CartItemExistsByBarcodeTx(ctx context.Context, tx *sqlx.Tx, cartID int64, barcode string) (bool, error) {
	var id int64
	err := tx.GetContext(ctx, &id,
		"SELECT cart_item_id FROM CartItems WHERE cart_id = ? AND barcode_id = ? FOR UPDATE",
		cartID, barcode)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CartItemExistsByNameTx checks, under lock, whether the cart already
// carries a line for this product name
func (s *Store) CartItemExistsByNameTx(ctx context.Context, tx *sqlx.Tx, cartID int64, productName string) (bool, error) {
	var id int64
	err := tx.GetContext(ctx, &id,
		"SELECT cart_item_id FROM CartItems WHERE cart_id = ? AND product_name = ? FOR UPDATE",
		cartID, productName)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CallAddItemCartTx inserts a new cart line by barcode inside the open
// transaction
func (s *Store) CallAddItemCartTx(ctx context.Context, tx *sqlx.Tx, cartID int64, barcode string, quantity int) error {
	return s.callVoidTx(ctx, tx, "CALL AddItemCart(?, ?, ?)", cartID, barcode, quantity)
}

// CallAddExistingItemCartTx adds quantity to an existing cart line by
// barcode inside the open transaction
func (s *Store) CallAddExistingItemCartTx(ctx context.Context, tx *sqlx.Tx, cartID int64, barcode string, quantity int) error {
	return s.callVoidTx(ctx, tx, "CALL AddExistingItemCart(?, ?, ?)", cartID, barcode, quantity)
}

type cartItemRow struct {
	CartItemID int64 `db:"cart_item_id"`
}

// CallManualAddItemCartTx inserts a new cart line by product name and
// returns the generated cart_item_id
func (s *Store) CallManualAddItemCartTx(ctx context.Context, tx *sqlx.Tx, cartID int64, productName string, quantity int) (int64, error) {
	var row cartItemRow
	if err := s.callRowTx(ctx, tx, &row, "CALL ManualAddItemCart(?, ?, ?)", cartID, productName, quantity); err != nil {
		return 0, err
	}
	return row.CartItemID, nil
}

// CallManualAddExistingItemCartTx adds quantity to an existing cart line
// by product name inside the open transaction
func (s *Store) CallManualAddExistingItemCartTx(ctx context.Context, tx *sqlx.Tx, cartID int64, productName string, quantity int) error {
	return s.callVoidTx(ctx, tx, "CALL ManualAddExistingItemCart(?, ?, ?)", cartID, productName, quantity)
}
