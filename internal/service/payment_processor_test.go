package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"pos-service/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProcessor(t *testing.T) (PaymentProcessor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.NewStoreFromDB(sqlx.NewDb(db, "sqlmock"))
	return NewPaymentProcessor(st, nil, 0), mock
}

func transactionColumns() []string {
	return []string{"cart_id", "user_id", "official_receiptnum", "payment_method", "total_cost", "created_at"}
}

func expectTransactionLookup(mock sqlmock.Sqlmock, cartID int64, rows *sqlmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM Transactions WHERE cart_id = ?")).
		WithArgs(cartID).
		WillReturnRows(rows)
}

func TestProcessCreatesTransaction(t *testing.T) {
	p, mock := newMockProcessor(t)

	expectTransactionLookup(mock, 42, sqlmock.NewRows(transactionColumns()))
	mock.ExpectQuery(regexp.QuoteMeta("CALL CreateTransaction(?, ?, ?)")).
		WithArgs(int64(7), int64(42), "cash").
		WillReturnRows(sqlmock.NewRows([]string{"official_receiptnum"}).AddRow("OR-2024-0007"))

	receipt, err := p.Process(context.Background(), PaymentRequest{UserID: 7, CartID: 42, PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "OR-2024-0007", receipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessDuplicateSameMethod(t *testing.T) {
	p, mock := newMockProcessor(t)

	// A second submission with an unchanged method issues no update and
	// returns the stored receipt.
	expectTransactionLookup(mock, 42, sqlmock.NewRows(transactionColumns()).
		AddRow(int64(42), int64(7), "OR-2024-0007", "cash", 350.0, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT official_receiptnum FROM Transactions WHERE cart_id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"official_receiptnum"}).AddRow("OR-2024-0007"))

	receipt, err := p.Process(context.Background(), PaymentRequest{UserID: 7, CartID: 42, PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "OR-2024-0007", receipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessDuplicateChangedMethod(t *testing.T) {
	p, mock := newMockProcessor(t)

	expectTransactionLookup(mock, 42, sqlmock.NewRows(transactionColumns()).
		AddRow(int64(42), int64(7), "OR-2024-0007", "cash", 350.0, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE Transactions SET payment_method = ? WHERE cart_id = ?")).
		WithArgs("gcash", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT official_receiptnum FROM Transactions WHERE cart_id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"official_receiptnum"}).AddRow("OR-2024-0007"))

	receipt, err := p.Process(context.Background(), PaymentRequest{UserID: 7, CartID: 42, PaymentMethod: "gcash"})
	require.NoError(t, err)
	assert.Equal(t, "OR-2024-0007", receipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessUpdateMatchesNoRow(t *testing.T) {
	p, mock := newMockProcessor(t)

	expectTransactionLookup(mock, 42, sqlmock.NewRows(transactionColumns()).
		AddRow(int64(42), int64(7), "OR-2024-0007", "cash", 350.0, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE Transactions SET payment_method = ? WHERE cart_id = ?")).
		WithArgs("gcash", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := p.Process(context.Background(), PaymentRequest{UserID: 7, CartID: 42, PaymentMethod: "gcash"})
	assert.ErrorIs(t, err, ErrPaymentUpdateFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessEmptyReceiptFromCreate(t *testing.T) {
	p, mock := newMockProcessor(t)

	expectTransactionLookup(mock, 42, sqlmock.NewRows(transactionColumns()))
	mock.ExpectQuery(regexp.QuoteMeta("CALL CreateTransaction(?, ?, ?)")).
		WithArgs(int64(7), int64(42), "cash").
		WillReturnRows(sqlmock.NewRows([]string{"official_receiptnum"}).AddRow(""))

	_, err := p.Process(context.Background(), PaymentRequest{UserID: 7, CartID: 42, PaymentMethod: "cash"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
