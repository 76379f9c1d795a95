package store

import (
	"context"
	"database/sql"

	"pos-service/internal/models"
)

// GetCategories retrieves all category names
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.selectAll(ctx, &categories, "SELECT category_name FROM Categories")
	return categories, err
}

// CategoryExists checks whether a category name is already taken
func (s *Store) CategoryExists(ctx context.Context, name string) (bool, error) {
	var existing string
	err := s.get(ctx, &existing, "SELECT category_name FROM Categories WHERE category_name = ?", name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CallAddCategory invokes the AddCategory stored operation
func (s *Store) CallAddCategory(ctx context.Context, name string) error {
	return s.callVoid(ctx, "CALL AddCategory(?)", name)
}

// AddProductParams carries the inputs of the AddProduct stored operation
type AddProductParams struct {
	BarcodeID    string
	BarcodeImage string
	ProductName  string
	CategoryName string
	Price        float64
	Weight       float64
	WeightUnit   string
	Quantity     int
}

// CallAddProduct invokes the AddProduct stored operation
func (s *Store) CallAddProduct(ctx context.Context, p AddProductParams) error {
	return s.callVoid(ctx, "CALL AddProduct(?, ?, ?, ?, ?, ?, ?, ?)",
		p.BarcodeID, p.BarcodeImage, p.ProductName, p.CategoryName,
		p.Price, p.Weight, p.WeightUnit, p.Quantity)
}

// GetProductByBarcode retrieves a product by barcode; returns nil when the
// barcode is unknown
func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := s.get(ctx, &product, "SELECT * FROM Products WHERE barcode_id = ?", barcode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByCategory retrieves products belonging to a category
func (s *Store) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := s.selectAll(ctx, &products, "SELECT * FROM Products WHERE category_name = ?", category)
	return products, err
}
