package store

import (
	"context"
	"database/sql"

	"pos-service/internal/models"
)

// GetTransactionByCartID retrieves the checkout transaction for a cart;
// returns nil when the cart has no transaction yet
func (s *Store) GetTransactionByCartID(ctx context.Context, cartID int64) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.get(ctx, &txn, "SELECT * FROM Transactions WHERE cart_id = ?", cartID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdatePaymentMethod changes the payment method of an existing
// transaction and reports the affected row count
func (s *Store) UpdatePaymentMethod(ctx context.Context, cartID int64, paymentMethod string) (int64, error) {
	return s.exec(ctx, "UPDATE Transactions SET payment_method = ? WHERE cart_id = ?", paymentMethod, cartID)
}

// GetReceiptNumberByCartID retrieves the official receipt number of a
// cart's transaction
func (s *Store) GetReceiptNumberByCartID(ctx context.Context, cartID int64) (string, error) {
	var receipt string
	err := s.get(ctx, &receipt, "SELECT official_receiptnum FROM Transactions WHERE cart_id = ?", cartID)
	if err != nil {
		return "", err
	}
	return receipt, nil
}

type createTransactionRow struct {
	ReceiptNumber string `db:"official_receiptnum"`
}

// CallCreateTransaction invokes the CreateTransaction stored operation and
// returns the generated official receipt number
func (s *Store) CallCreateTransaction(ctx context.Context, userID, cartID int64, paymentMethod string) (string, error) {
	var row createTransactionRow
	if err := s.callRow(ctx, &row, "CALL CreateTransaction(?, ?, ?)", userID, cartID, paymentMethod); err != nil {
		return "", err
	}
	return row.ReceiptNumber, nil
}

// GetTransactionItems retrieves the immutable line items of a receipt
func (s *Store) GetTransactionItems(ctx context.Context, receiptNum string) ([]models.TransactionItem, error) {
	var items []models.TransactionItem
	err := s.selectAll(ctx, &items,
		"SELECT product_name, price, quantity, total_cost FROM TransactionItems WHERE official_receiptnum = ?",
		receiptNum)
	return items, err
}

// GetTransactionTotal retrieves a receipt's total; the bool reports
// whether the receipt exists
func (s *Store) GetTransactionTotal(ctx context.Context, receiptNum string) (float64, bool, error) {
	var total float64
	err := s.get(ctx, &total, "SELECT total_cost FROM Transactions WHERE official_receiptnum = ?", receiptNum)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return total, true, nil
}

// GetTransactionHistory retrieves a user's past transactions
func (s *Store) GetTransactionHistory(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.selectAll(ctx, &txns,
		"SELECT official_receiptnum, created_at, total_cost, payment_method FROM Transactions WHERE user_id = ?",
		userID)
	return txns, err
}

// ReceiptExists checks whether a receipt number is present in the store
func (s *Store) ReceiptExists(ctx context.Context, receiptNum string) (string, bool, error) {
	var receipt string
	err := s.get(ctx, &receipt,
		"SELECT official_receiptnum FROM Transactions WHERE official_receiptnum = ?", receiptNum)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return receipt, true, nil
}

type verificationRow struct {
	VerificationID int64 `db:"verification_id"`
}

// CallCreateVerification creates a verification record for a receipt and
// returns the generated verification id
func (s *Store) CallCreateVerification(ctx context.Context, userID int64, receiptNum string) (int64, error) {
	var row verificationRow
	if err := s.callRow(ctx, &row, "CALL CreateVerification(?, ?)", userID, receiptNum); err != nil {
		return 0, err
	}
	return row.VerificationID, nil
}

// CallUpdateVerStatus advances a verification record's status
func (s *Store) CallUpdateVerStatus(ctx context.Context, verificationID int64) error {
	return s.callVoid(ctx, "CALL UpdateVerStatus(?)", verificationID)
}
