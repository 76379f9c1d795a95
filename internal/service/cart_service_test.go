package service

import (
	"context"
	"regexp"
	"testing"

	"pos-service/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockCartService(t *testing.T) (*CartService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.NewStoreFromDB(sqlx.NewDb(db, "sqlmock"))
	return NewCartService(st, nil, nil, 0, 1), mock
}

func expectCartCheck(mock sqlmock.Sqlmock, cartID int64, exists bool) {
	rows := sqlmock.NewRows([]string{"cart_id"})
	if exists {
		rows.AddRow(cartID)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT cart_id FROM Carts WHERE cart_id = ?")).
		WithArgs(cartID).
		WillReturnRows(rows)
}

func expectBarcodeLock(mock sqlmock.Sqlmock, barcode string, stock int) {
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT barcode_id, product_name, category_name, quantity FROM Products WHERE barcode_id = ? FOR UPDATE")).
		WithArgs(barcode).
		WillReturnRows(sqlmock.NewRows([]string{"barcode_id", "product_name", "category_name", "quantity"}).
			AddRow(barcode, "Canned Tuna", "Groceries", stock))
}

func expectBarcodeItemCheck(mock sqlmock.Sqlmock, cartID int64, barcode string, exists bool) {
	rows := sqlmock.NewRows([]string{"cart_item_id"})
	if exists {
		rows.AddRow(int64(555))
	}
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT cart_item_id FROM CartItems WHERE cart_id = ? AND barcode_id = ? FOR UPDATE")).
		WithArgs(cartID, barcode).
		WillReturnRows(rows)
}

func TestAddItemByBarcodeCartNotFound(t *testing.T) {
	cs, mock := newMockCartService(t)

	mock.ExpectBegin()
	expectCartCheck(mock, 10, false)
	mock.ExpectRollback()

	result, err := cs.AddItemByBarcode(context.Background(), 10, "4800016641503", 2)
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemByBarcodeProductNotFound(t *testing.T) {
	cs, mock := newMockCartService(t)

	mock.ExpectBegin()
	expectCartCheck(mock, 10, true)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT barcode_id, product_name, category_name, quantity FROM Products WHERE barcode_id = ? FOR UPDATE")).
		WithArgs("0000000000000").
		WillReturnRows(sqlmock.NewRows([]string{"barcode_id", "product_name", "category_name", "quantity"}))
	mock.ExpectRollback()

	result, err := cs.AddItemByBarcode(context.Background(), 10, "0000000000000", 2)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemByBarcodeInsufficientStock(t *testing.T) {
	cs, mock := newMockCartService(t)

	// Requesting 5 with 3 on hand must abandon the transaction without
	// touching the cart, and report the available amount.
	mock.ExpectBegin()
	expectCartCheck(mock, 10, true)
	expectBarcodeLock(mock, "4800016641503", 3)
	mock.ExpectRollback()

	result, err := cs.AddItemByBarcode(context.Background(), 10, "4800016641503", 5)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, MsgInsufficientStock, result.Message)
	assert.Equal(t, 3, result.Available)
	assert.False(t, result.Sufficient())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemByBarcodeNewLine(t *testing.T) {
	cs, mock := newMockCartService(t)

	mock.ExpectBegin()
	expectCartCheck(mock, 10, true)
	expectBarcodeLock(mock, "4800016641503", 8)
	expectBarcodeItemCheck(mock, 10, "4800016641503", false)
	mock.ExpectQuery(regexp.QuoteMeta("CALL AddItemCart(?, ?, ?)")).
		WithArgs(int64(10), "4800016641503", 2).
		WillReturnRows(sqlmock.NewRows([]string{"ok"}))
	mock.ExpectCommit()

	result, err := cs.AddItemByBarcode(context.Background(), 10, "4800016641503", 2)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, MsgAddedSuccessfully, result.Message)
	assert.True(t, result.Sufficient())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemByBarcodeExistingLine(t *testing.T) {
	cs, mock := newMockCartService(t)

	mock.ExpectBegin()
	expectCartCheck(mock, 10, true)
	expectBarcodeLock(mock, "4800016641503", 8)
	expectBarcodeItemCheck(mock, 10, "4800016641503", true)
	mock.ExpectQuery(regexp.QuoteMeta("CALL AddExistingItemCart(?, ?, ?)")).
		WithArgs(int64(10), "4800016641503", 2).
		WillReturnRows(sqlmock.NewRows([]string{"ok"}))
	mock.ExpectCommit()

	result, err := cs.AddItemByBarcode(context.Background(), 10, "4800016641503", 2)
	require.NoError(t, err)
	assert.Equal(t, MsgAddedSuccessfully, result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemByBarcodeExactStock(t *testing.T) {
	cs, mock := newMockCartService(t)

	// Taking the last units is allowed; only quantity above stock is
	// rejected.
	mock.ExpectBegin()
	expectCartCheck(mock, 10, true)
	expectBarcodeLock(mock, "4800016641503", 2)
	expectBarcodeItemCheck(mock, 10, "4800016641503", false)
	mock.ExpectQuery(regexp.QuoteMeta("CALL AddItemCart(?, ?, ?)")).
		WithArgs(int64(10), "4800016641503", 2).
		WillReturnRows(sqlmock.NewRows([]string{"ok"}))
	mock.ExpectCommit()

	result, err := cs.AddItemByBarcode(context.Background(), 10, "4800016641503", 2)
	require.NoError(t, err)
	assert.Equal(t, MsgAddedSuccessfully, result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemByNameNewLine(t *testing.T) {
	cs, mock := newMockCartService(t)

	mock.ExpectBegin()
	expectCartCheck(mock, 10, true)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT barcode_id, product_name, category_name, quantity FROM Products WHERE product_name = ? FOR UPDATE")).
		WithArgs("Canned Tuna").
		WillReturnRows(sqlmock.NewRows([]string{"barcode_id", "product_name", "category_name", "quantity"}).
			AddRow("4800016641503", "Canned Tuna", "Groceries", 8))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT cart_item_id FROM CartItems WHERE cart_id = ? AND product_name = ? FOR UPDATE")).
		WithArgs(int64(10), "Canned Tuna").
		WillReturnRows(sqlmock.NewRows([]string{"cart_item_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("CALL ManualAddItemCart(?, ?, ?)")).
		WithArgs(int64(10), "Canned Tuna", 2).
		WillReturnRows(sqlmock.NewRows([]string{"cart_item_id"}).AddRow(int64(901)))
	mock.ExpectCommit()

	result, err := cs.AddItemByName(context.Background(), 10, "Canned Tuna", 2)
	require.NoError(t, err)
	assert.Equal(t, MsgAddedSuccessfully, result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemByNameExistingLine(t *testing.T) {
	cs, mock := newMockCartService(t)

	mock.ExpectBegin()
	expectCartCheck(mock, 10, true)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT barcode_id, product_name, category_name, quantity FROM Products WHERE product_name = ? FOR UPDATE")).
		WithArgs("Canned Tuna").
		WillReturnRows(sqlmock.NewRows([]string{"barcode_id", "product_name", "category_name", "quantity"}).
			AddRow("4800016641503", "Canned Tuna", "Groceries", 8))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT cart_item_id FROM CartItems WHERE cart_id = ? AND product_name = ? FOR UPDATE")).
		WithArgs(int64(10), "Canned Tuna").
		WillReturnRows(sqlmock.NewRows([]string{"cart_item_id"}).AddRow(int64(555)))
	mock.ExpectQuery(regexp.QuoteMeta("CALL ManualAddExistingItemCart(?, ?, ?)")).
		WithArgs(int64(10), "Canned Tuna", 2).
		WillReturnRows(sqlmock.NewRows([]string{"ok"}))
	mock.ExpectCommit()

	result, err := cs.AddItemByName(context.Background(), 10, "Canned Tuna", 2)
	require.NoError(t, err)
	assert.Equal(t, MsgAddedSuccessfully, result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
