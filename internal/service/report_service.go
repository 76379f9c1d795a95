package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ReportService covers sales report generation and history
type ReportService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(st *store.Store) *ReportService {
	return &ReportService{store: st, logger: util.GetLogger()}
}

// GenerateDailyReport builds a single-date sales report
func (rs *ReportService) GenerateDailyReport(ctx context.Context, userID int64, date string) (int64, error) {
	reportID, err := rs.store.CallGetSalesDataByDate(ctx, userID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to generate sales report: %w", err)
	}
	rs.logger.Info("Sales report generated",
		zap.Int64("user_id", userID),
		zap.String("date", date),
		zap.Int64("report_id", reportID))
	return reportID, nil
}

// GenerateRangeReport builds a date-range sales report
func (rs *ReportService) GenerateRangeReport(ctx context.Context, userID int64, startDate, endDate string) (int64, error) {
	reportID, err := rs.store.CallGetSalesData(ctx, userID, startDate, endDate)
	if err != nil {
		return 0, fmt.Errorf("failed to generate sales report: %w", err)
	}
	rs.logger.Info("Range sales report generated",
		zap.Int64("user_id", userID),
		zap.String("start", startDate),
		zap.String("end", endDate),
		zap.Int64("report_id", reportID))
	return reportID, nil
}

// DailyReportItems lists the rows of a single-date report
func (rs *ReportService) DailyReportItems(ctx context.Context, reportID int64) ([]models.SalesReportItem, error) {
	return rs.store.GetSalesReportItems(ctx, reportID)
}

// RangeReportItems lists the rows of a date-range report
func (rs *ReportService) RangeReportItems(ctx context.Context, reportID int64) ([]models.SalesReportItem, error) {
	return rs.store.GetGroupReportItems(ctx, reportID)
}

// ReportHistory lists a user's past reports
func (rs *ReportService) ReportHistory(ctx context.Context, userID int64) ([]models.ReportAccess, error) {
	return rs.store.GetReportHistory(ctx, userID)
}
