package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"pos-service/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStoreFromDB(sqlx.NewDb(db, "sqlmock")), mock
}

func TestGetProductByBarcodeUnknown(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM Products WHERE barcode_id = ?")).
		WithArgs("0000000000000").
		WillReturnRows(sqlmock.NewRows([]string{"barcode_id"}))

	product, err := s.GetProductByBarcode(context.Background(), "0000000000000")
	assert.NoError(t, err)
	assert.Nil(t, product)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCartTotalMissingCart(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_price FROM Carts WHERE cart_id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"total_price"}))

	total, err := s.GetCartTotal(context.Background(), 99)
	assert.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallCreateTransactionScansReceipt(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("CALL CreateTransaction(?, ?, ?)")).
		WithArgs(int64(7), int64(42), "cash").
		WillReturnRows(sqlmock.NewRows([]string{"official_receiptnum"}).AddRow("OR-2024-0001"))

	receipt, err := s.CallCreateTransaction(context.Background(), 7, 42, "cash")
	assert.NoError(t, err)
	assert.Equal(t, "OR-2024-0001", receipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallCreateTransactionEmptyResult(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("CALL CreateTransaction(?, ?, ?)")).
		WithArgs(int64(7), int64(42), "cash").
		WillReturnRows(sqlmock.NewRows([]string{"official_receiptnum"}))

	_, err := s.CallCreateTransaction(context.Background(), 7, 42, "cash")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentMethodReportsAffected(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Transactions SET payment_method = ? WHERE cart_id = ?")).
		WithArgs("gcash", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := s.UpdatePaymentMethod(context.Background(), 42, "gcash")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockProductByBarcodeTx(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT barcode_id, product_name, category_name, quantity FROM Products WHERE barcode_id = ? FOR UPDATE")).
		WithArgs("4800016641503").
		WillReturnRows(sqlmock.NewRows([]string{"barcode_id", "product_name", "category_name", "quantity"}).
			AddRow("4800016641503", "Instant Noodles", "Groceries", 12))
	mock.ExpectRollback()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	locked, err := s.LockProductByBarcodeTx(ctx, tx, "4800016641503")
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, "Instant Noodles", locked.ProductName)
	assert.Equal(t, 12, locked.Quantity)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartExistsTxAbsent(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT cart_id FROM Carts WHERE cart_id = ?")).
		WithArgs(int64(123)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}))
	mock.ExpectRollback()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	exists, err := s.CartExistsTx(ctx, tx, 123)
	assert.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptExistsAbsent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT official_receiptnum FROM Transactions WHERE official_receiptnum = ?")).
		WithArgs("OR-MISSING").
		WillReturnRows(sqlmock.NewRows([]string{"official_receiptnum"}))

	receipt, found, err := s.ReceiptExists(context.Background(), "OR-MISSING")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, receipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectAllPropagatesError(t *testing.T) {
	s, mock := newMockStore(t)

	queryErr := errors.New("table gone")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT category_name FROM Categories")).
		WillReturnError(queryErr)

	_, err := s.GetCategories(context.Background())
	assert.ErrorIs(t, err, queryErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAgainstDatabase(t *testing.T) {
	t.Skip("Integration test - requires database")

	s, err := NewStore(config.DatabaseConfig{
		DSN:          "pos:secret@tcp(localhost:3306)/shopmate_db_test?parseTime=true",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	categories, err := s.GetCategories(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, categories)
}
