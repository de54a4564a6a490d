package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/shopworks/fulfillment/internal/domain/user"
)

type userRow struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"not null;uniqueIndex"`
	Username       string `gorm:"not null;uniqueIndex"`
	HashedPassword string `gorm:"not null"`
	IsActive       bool   `gorm:"not null;default:true"`
}

func (userRow) TableName() string { return "users" }

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	row := userRow{
		Email:          u.Email,
		Username:       u.Username,
		HashedPassword: u.HashedPassword,
		IsActive:       u.IsActive,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	u.ID = row.ID
	return nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:             row.ID,
		Email:          row.Email,
		Username:       row.Username,
		HashedPassword: row.HashedPassword,
		IsActive:       row.IsActive,
	}, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userRow{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
