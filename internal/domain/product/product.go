package product

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("product: not found")
	ErrInvalidPrice      = errors.New("product: price must be greater than zero")
	ErrInvalidStock      = errors.New("product: stock must be zero or greater")
	ErrInsufficientStock = errors.New("product: insufficient stock")
)

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryFood        Category = "food"
	CategoryOther       Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryFood, CategoryOther:
		return true
	}
	return false
}

// Product is mutated only through the stock-adjustment process once
// created. StockQuantity is the one field shared by concurrent processes
// and must never go negative.
type Product struct {
	ID            uint
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	Category      Category
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New validates product attributes and returns an active product.
// An empty category defaults to CategoryOther.
func New(name, description string, price float64, stockQuantity int, category Category) (*Product, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if category == "" {
		category = CategoryOther
	}
	now := time.Now().UTC()
	return &Product{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
		Category:      category,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Clone returns a copy detached from repository-internal storage.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// LowStockItem is one row of the low-stock report.
type LowStockItem struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
}

// LowStockReport lists active products whose stock is strictly below the
// requested threshold, ordered by id.
type LowStockReport struct {
	LowStockCount int            `json:"low_stock_count"`
	Products      []LowStockItem `json:"products"`
}
