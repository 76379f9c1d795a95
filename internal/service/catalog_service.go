package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"pos-service/internal/models"
	"pos-service/internal/redisclient"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"go.uber.org/zap"
)

// ErrInvalidBarcode is returned when a barcode cannot be encoded as EAN-13.
var ErrInvalidBarcode = errors.New("invalid barcode")

// NewProductInput carries the admin's new-product form
type NewProductInput struct {
	Name       string  `json:"name" binding:"required"`
	Weight     float64 `json:"weight"`
	Price      float64 `json:"price" binding:"required"`
	Category   string  `json:"category" binding:"required"`
	WeightUnit string  `json:"weight_unit"`
	BarcodeID  string  `json:"barcode_id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,min=0"`
}

// NewProductResult echoes the created product back to the admin client
type NewProductResult struct {
	BarcodeImage string  `json:"barcodeImage"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Weight       float64 `json:"weight"`
	Quantity     int     `json:"quantity"`
	WeightUnit   string  `json:"weight_unit"`
}

// CatalogService covers category and product endpoints. Product reads go
// through the redis read-through cache; stock-mutating paths invalidate it.
type CatalogService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store, cache *redisclient.Client) *CatalogService {
	return &CatalogService{store: st, cache: cache, logger: util.GetLogger()}
}

// Categories lists all category names
func (cs *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cs.store.GetCategories(ctx)
}

// AddCategory creates a category unless the name is taken; the bool
// reports whether a new category was created
func (cs *CatalogService) AddCategory(ctx context.Context, name string) (bool, error) {
	exists, err := cs.store.CategoryExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := cs.store.CallAddCategory(ctx, name); err != nil {
		return false, fmt.Errorf("failed to add category: %w", err)
	}
	cs.logger.Info("Category added", zap.String("category", name))
	return true, nil
}

// AddProduct generates the EAN-13 barcode image and stores the product
func (cs *CatalogService) AddProduct(ctx context.Context, in NewProductInput) (*NewProductResult, error) {
	image, err := renderBarcode(in.BarcodeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBarcode, in.BarcodeID)
	}

	err = cs.store.CallAddProduct(ctx, store.AddProductParams{
		BarcodeID:    in.BarcodeID,
		BarcodeImage: image,
		ProductName:  in.Name,
		CategoryName: in.Category,
		Price:        in.Price,
		Weight:       in.Weight,
		WeightUnit:   in.WeightUnit,
		Quantity:     in.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	cs.logger.Info("Product added",
		zap.String("barcode", in.BarcodeID),
		zap.String("name", in.Name),
		zap.String("category", in.Category))

	if cs.cache != nil {
		if err := cs.cache.InvalidateCategory(ctx, in.Category); err != nil {
			cs.logger.Warn("Failed to invalidate category cache", zap.Error(err))
		}
	}

	return &NewProductResult{
		BarcodeImage: image,
		Name:         in.Name,
		Category:     in.Category,
		Price:        in.Price,
		Weight:       in.Weight,
		Quantity:     in.Quantity,
		WeightUnit:   in.WeightUnit,
	}, nil
}

// ProductByBarcode retrieves a product, cache first; nil when unknown
func (cs *CatalogService) ProductByBarcode(ctx context.Context, barcodeID string) (*models.Product, error) {
	if cs.cache != nil {
		if product, err := cs.cache.GetProduct(ctx, barcodeID); err != nil {
			cs.logger.Warn("Product cache read failed", zap.Error(err))
		} else if product != nil {
			return product, nil
		}
	}

	product, err := cs.store.GetProductByBarcode(ctx, barcodeID)
	if err != nil || product == nil {
		return product, err
	}

	if cs.cache != nil {
		if err := cs.cache.SetProduct(ctx, product); err != nil {
			cs.logger.Warn("Product cache write failed", zap.Error(err))
		}
	}
	return product, nil
}

// ProductsByCategory lists a category's products, cache first
func (cs *CatalogService) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if cs.cache != nil {
		if products, hit, err := cs.cache.GetCategoryProducts(ctx, category); err != nil {
			cs.logger.Warn("Category cache read failed", zap.Error(err))
		} else if hit {
			return products, nil
		}
	}

	products, err := cs.store.GetProductsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if cs.cache != nil && len(products) > 0 {
		if err := cs.cache.SetCategoryProducts(ctx, category, products); err != nil {
			cs.logger.Warn("Category cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// renderBarcode encodes an EAN-13 barcode as a PNG data URL
func renderBarcode(barcodeID string) (string, error) {
	code, err := ean.Encode(barcodeID)
	if err != nil {
		return "", err
	}

	scaled, err := barcode.Scale(code, 200, 100)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
