package repository

import (
	"errors"

	"storefront_api/internal/domain/voucher/model"

	"gorm.io/gorm"
)

// ErrUsageLimitReached is returned when a conditional redemption matches no row.
var ErrUsageLimitReached = errors.New("voucher usage limit reached")

type VoucherRepository interface {
	GetByCode(code string) (*model.Voucher, error)
	// ConsumeUse bumps the used counter, guarded against the usage limit.
	ConsumeUse(voucherID string) error
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) GetByCode(code string) (*model.Voucher, error) {
	var voucher model.Voucher
	if err := r.db.Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) ConsumeUse(voucherID string) error {
	result := r.db.Model(&model.Voucher{}).
		Where("id = ? AND used < usage_limit", voucherID).
		UpdateColumn("used", gorm.Expr("used + 1"))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}
