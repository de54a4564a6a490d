package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/shopworks/fulfillment/internal/domain/product"
)

type productRow struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"not null;index"`
	Description   string  `gorm:"not null"`
	Price         float64 `gorm:"not null"`
	StockQuantity int     `gorm:"not null;default:0"`
	Category      string  `gorm:"not null;type:varchar(32);default:other"`
	IsActive      bool    `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (productRow) TableName() string { return "products" }

func (r productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Category:      domain.Category(r.Category),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts the product in its own transaction; a constraint
// violation rolls back without leaving a partial record.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	row := productRow{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      string(p.Category),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*domain.Product, error) {
	var row productRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	var rows []productRow
	q := r.db.WithContext(ctx).Order("id").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// AdjustStock issues one conditional UPDATE guarded by the non-negativity
// predicate, so two concurrent decrements can never both pass a stale
// check: the losing one matches zero rows and is rejected.
func (r *ProductRepository) AdjustStock(ctx context.Context, id uint, delta int) (int, error) {
	var current int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&productRow{}).
			Where("id = ? AND stock_quantity + ? >= 0", id, delta).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&productRow{}).Where("id = ?", id).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return domain.ErrNotFound
			}
			return domain.ErrInsufficientStock
		}
		var row productRow
		if err := tx.Select("stock_quantity").First(&row, id).Error; err != nil {
			return err
		}
		current = row.StockQuantity
		return nil
	})
	if err != nil {
		return 0, err
	}
	return current, nil
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.LowStockItem, error) {
	var rows []productRow
	err := r.db.WithContext(ctx).
		Where("stock_quantity < ? AND is_active = ?", threshold, true).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]domain.LowStockItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.LowStockItem{
			ID:           row.ID,
			Name:         row.Name,
			CurrentStock: row.StockQuantity,
		})
	}
	return items, nil
}
