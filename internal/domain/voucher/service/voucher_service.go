package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"storefront_api/internal/domain/voucher/model"
	"storefront_api/internal/domain/voucher/repository"

	"gorm.io/gorm"
)

var (
	ErrVoucherNotFound   = errors.New("voucher not found")
	ErrVoucherNotActive  = errors.New("voucher is not active")
	ErrVoucherExhausted  = errors.New("voucher has been fully redeemed")
	ErrBelowMinimumOrder = errors.New("order subtotal below voucher minimum")
)

// VoucherService validates and redeems discount codes. The order engine treats
// the result as a black-box discount amount recorded on the order.
type VoucherService interface {
	// Redeem validates the code against the subtotal, consumes one use and
	// returns the discount amount in minor units.
	Redeem(code string, subtotal int64) (int64, error)
}

type voucherService struct {
	repo repository.VoucherRepository
}

func NewVoucherService(repo repository.VoucherRepository) VoucherService {
	return &voucherService{repo: repo}
}

func (s *voucherService) Redeem(code string, subtotal int64) (int64, error) {
	voucher, err := s.repo.GetByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrVoucherNotFound
		}
		return 0, err
	}

	now := time.Now()
	if now.Before(voucher.StartTime) || now.After(voucher.EndTime) {
		return 0, ErrVoucherNotActive
	}
	if subtotal < voucher.MinOrderValue {
		return 0, fmt.Errorf("%w: requires %d", ErrBelowMinimumOrder, voucher.MinOrderValue)
	}

	if err := s.repo.ConsumeUse(voucher.ID); err != nil {
		if errors.Is(err, repository.ErrUsageLimitReached) {
			return 0, ErrVoucherExhausted
		}
		return 0, err
	}

	return discountAmount(voucher, subtotal), nil
}

func discountAmount(v *model.Voucher, subtotal int64) int64 {
	var amount int64
	switch v.DiscountType {
	case model.DiscountTypePercentage:
		amount = int64(math.Round(float64(subtotal) * float64(v.DiscountValue) / 100))
	case model.DiscountTypeFixed:
		amount = v.DiscountValue
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount
}
