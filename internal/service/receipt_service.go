package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ReceiptService covers checkout receipt reads and the verification
// workflow
type ReceiptService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(st *store.Store) *ReceiptService {
	return &ReceiptService{store: st, logger: util.GetLogger()}
}

// ReceiptItems lists the line items of a receipt
func (rs *ReceiptService) ReceiptItems(ctx context.Context, receiptNum string) ([]models.TransactionItem, error) {
	return rs.store.GetTransactionItems(ctx, receiptNum)
}

// ReceiptTotal returns a receipt's total; found is false for unknown
// receipt numbers
func (rs *ReceiptService) ReceiptTotal(ctx context.Context, receiptNum string) (float64, bool, error) {
	return rs.store.GetTransactionTotal(ctx, receiptNum)
}

// ReceiptExists checks whether a receipt number is on record
func (rs *ReceiptService) ReceiptExists(ctx context.Context, receiptNum string) (string, bool, error) {
	return rs.store.ReceiptExists(ctx, receiptNum)
}

// TransactionHistory lists a user's past transactions
func (rs *ReceiptService) TransactionHistory(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return rs.store.GetTransactionHistory(ctx, userID)
}

// CreateVerification opens a verification record for a receipt
func (rs *ReceiptService) CreateVerification(ctx context.Context, userID int64, receiptNum string) (int64, error) {
	verificationID, err := rs.store.CallCreateVerification(ctx, userID, receiptNum)
	if err != nil {
		return 0, fmt.Errorf("failed to create verification: %w", err)
	}
	rs.logger.Info("Verification created",
		zap.String("receipt", receiptNum),
		zap.Int64("verification_id", verificationID))
	return verificationID, nil
}

// UpdateVerificationStatus advances a verification record
func (rs *ReceiptService) UpdateVerificationStatus(ctx context.Context, verificationID int64) error {
	if err := rs.store.CallUpdateVerStatus(ctx, verificationID); err != nil {
		return fmt.Errorf("failed to update verification %d: %w", verificationID, err)
	}
	rs.logger.Info("Verification status updated", zap.Int64("verification_id", verificationID))
	return nil
}
