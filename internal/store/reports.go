package store

import (
	"context"

	"pos-service/internal/models"
)

type reportRow struct {
	ReportID int64 `db:"report_id"`
}

// CallGetSalesDataByDate generates a single-date sales report and returns
// the generated report id
func (s *Store) CallGetSalesDataByDate(ctx context.Context, userID int64, date string) (int64, error) {
	var row reportRow
	if err := s.callRow(ctx, &row, "CALL GetSalesDataByDate(?, ?)", userID, date); err != nil {
		return 0, err
	}
	return row.ReportID, nil
}

// CallGetSalesData generates a date-range sales report and returns the
// generated report id
func (s *Store) CallGetSalesData(ctx context.Context, userID int64, startDate, endDate string) (int64, error) {
	var row reportRow
	if err := s.callRow(ctx, &row, "CALL GetSalesData(?, ?, ?)", userID, startDate, endDate); err != nil {
		return 0, err
	}
	return row.ReportID, nil
}

// GetSalesReportItems retrieves the rows of a single-date report
func (s *Store) GetSalesReportItems(ctx context.Context, reportID int64) ([]models.SalesReportItem, error) {
	var items []models.SalesReportItem
	err := s.selectAll(ctx, &items,
		"SELECT product_name, quantity_sold, price_unit, total_sales FROM SalesReportItems WHERE report_id = ?",
		reportID)
	return items, err
}

// GetGroupReportItems retrieves the rows of a date-range report
func (s *Store) GetGroupReportItems(ctx context.Context, reportID int64) ([]models.SalesReportItem, error) {
	var items []models.SalesReportItem
	err := s.selectAll(ctx, &items,
		"SELECT product_name, quantity_sold, price_unit, total_sales FROM ReportProducts WHERE report_id = ?",
		reportID)
	return items, err
}

// GetReportHistory retrieves a user's report access history
func (s *Store) GetReportHistory(ctx context.Context, userID int64) ([]models.ReportAccess, error) {
	var history []models.ReportAccess
	err := s.selectAll(ctx, &history,
		"SELECT report_id, accessed_at FROM UserReportAccess WHERE user_id = ?", userID)
	return history, err
}
