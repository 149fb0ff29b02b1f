package repository

import (
	"storefront_api/internal/domain/cart/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	GetByUser(userID string) ([]model.CartItem, error)
	Clear(userID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUser(userID string) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) Clear(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}
