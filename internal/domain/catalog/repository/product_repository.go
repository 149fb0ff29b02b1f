package repository

import (
	"errors"
	"fmt"

	"storefront_api/internal/domain/catalog/model"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a conditional stock decrement matches no row.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository interface {
	GetByID(id string) (*model.Product, error)
	GetByIDs(ids []string) ([]model.Product, error)
	// AdjustStock applies a stock delta atomically. Negative deltas are
	// conditional on sufficient remaining stock and fail with
	// ErrInsufficientStock instead of going negative.
	AdjustStock(tx *gorm.DB, productID string, delta int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ids []string) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// AdjustStock runs the read-check and the write as one statement so that
// concurrent decrements cannot lose updates or drive stock negative.
func (r *productRepository) AdjustStock(tx *gorm.DB, productID string, delta int) error {
	if tx == nil {
		tx = r.db
	}

	query := tx.Model(&model.Product{}).Where("id = ?", productID)
	if delta < 0 {
		query = query.Where("quantity >= ?", -delta)
	}

	result := query.UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if delta < 0 {
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, productID)
		}
		return fmt.Errorf("product %s not found", productID)
	}
	return nil
}
