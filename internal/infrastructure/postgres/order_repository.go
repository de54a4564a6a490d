package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/shopworks/fulfillment/internal/domain/order"
)

type orderRow struct {
	ID              uint    `gorm:"primaryKey"`
	UserID          uint    `gorm:"not null;index"`
	ProductName     string  `gorm:"not null"`
	Quantity        int     `gorm:"not null"`
	Price           float64 `gorm:"not null"`
	TotalAmount     float64 `gorm:"not null"`
	ShippingAddress string  `gorm:"not null"`
	Status          string  `gorm:"not null;type:varchar(32);default:received;index"`
	FailureReason   string  `gorm:"not null;type:varchar(32);default:none"`
}

func (orderRow) TableName() string { return "orders" }

func (r orderRow) toDomain() *domain.Order {
	return &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		ProductName:     r.ProductName,
		Quantity:        r.Quantity,
		Price:           r.Price,
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
		Status:          domain.Status(r.Status),
		FailureReason:   domain.FailureReason(r.FailureReason),
	}
}

func toOrderRow(o *domain.Order) orderRow {
	return orderRow{
		ID:              o.ID,
		UserID:          o.UserID,
		ProductName:     o.ProductName,
		Quantity:        o.Quantity,
		Price:           o.Price,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Status:          string(o.Status),
		FailureReason:   string(o.FailureReason),
	}
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	row := toOrderRow(o)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	o.ID = row.ID
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id uint) (*domain.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *OrderRepository) List(ctx context.Context, offset, limit int) ([]*domain.Order, error) {
	var rows []orderRow
	q := r.db.WithContext(ctx).Order("id").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpdateStatus loads the order inside a transaction, applies the domain
// transition rules and persists the result, so illegal or backward moves
// are rejected at the data layer too.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, next domain.Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, id)
		if err != nil {
			return err
		}
		if err := o.Advance(next); err != nil {
			return err
		}
		return tx.Model(&orderRow{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":         string(o.Status),
				"failure_reason": string(o.FailureReason),
			}).Error
	})
}

func (r *OrderRepository) MarkFailed(ctx context.Context, id uint, reason domain.FailureReason) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, id)
		if err != nil {
			return err
		}
		if err := o.Fail(reason); err != nil {
			return err
		}
		return tx.Model(&orderRow{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":         string(o.Status),
				"failure_reason": string(o.FailureReason),
			}).Error
	})
}

func lockOrder(tx *gorm.DB, id uint) (*domain.Order, error) {
	var row orderRow
	err := tx.Raw("SELECT * FROM orders WHERE id = ? FOR UPDATE", id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return row.toDomain(), nil
}
