package service

import (
	"testing"
	"time"

	"storefront_api/internal/domain/voucher/model"
	"storefront_api/internal/domain/voucher/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockVoucherRepository is a mock of VoucherRepository
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) GetByCode(code string) (*model.Voucher, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ConsumeUse(voucherID string) error {
	args := m.Called(voucherID)
	return args.Error(0)
}

func activeVoucher(discountType string, value int64) *model.Voucher {
	return &model.Voucher{
		Code:          "SUMMER10",
		DiscountType:  discountType,
		DiscountValue: value,
		UsageLimit:    100,
		StartTime:     time.Now().Add(-time.Hour),
		EndTime:       time.Now().Add(time.Hour),
	}
}

func TestRedeem(t *testing.T) {
	newFixture := func() (*MockVoucherRepository, VoucherService) {
		mockRepo := new(MockVoucherRepository)
		return mockRepo, NewVoucherService(mockRepo)
	}

	t.Run("Percentage discount rounds on the subtotal", func(t *testing.T) {
		mockRepo, service := newFixture()
		mockRepo.On("GetByCode", "SUMMER10").Return(activeVoucher(model.DiscountTypePercentage, 10), nil).Once()
		mockRepo.On("ConsumeUse", mock.Anything).Return(nil).Once()

		amount, err := service.Redeem("summer10", 255000)

		assert.NoError(t, err)
		assert.Equal(t, int64(25500), amount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Fixed discount is capped at the subtotal", func(t *testing.T) {
		mockRepo, service := newFixture()
		mockRepo.On("GetByCode", "SUMMER10").Return(activeVoucher(model.DiscountTypeFixed, 50000), nil).Once()
		mockRepo.On("ConsumeUse", mock.Anything).Return(nil).Once()

		amount, err := service.Redeem("SUMMER10", 30000)

		assert.NoError(t, err)
		assert.Equal(t, int64(30000), amount)
	})

	t.Run("Unknown code", func(t *testing.T) {
		mockRepo, service := newFixture()
		mockRepo.On("GetByCode", "NOPE").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := service.Redeem("NOPE", 100000)

		assert.ErrorIs(t, err, ErrVoucherNotFound)
	})

	t.Run("Outside the validity window", func(t *testing.T) {
		mockRepo, service := newFixture()
		expired := activeVoucher(model.DiscountTypePercentage, 10)
		expired.EndTime = time.Now().Add(-time.Minute)
		mockRepo.On("GetByCode", "SUMMER10").Return(expired, nil).Once()

		_, err := service.Redeem("SUMMER10", 100000)

		assert.ErrorIs(t, err, ErrVoucherNotActive)
		mockRepo.AssertNotCalled(t, "ConsumeUse", mock.Anything)
	})

	t.Run("Below the minimum order value", func(t *testing.T) {
		mockRepo, service := newFixture()
		v := activeVoucher(model.DiscountTypePercentage, 10)
		v.MinOrderValue = 200000
		mockRepo.On("GetByCode", "SUMMER10").Return(v, nil).Once()

		_, err := service.Redeem("SUMMER10", 150000)

		assert.ErrorIs(t, err, ErrBelowMinimumOrder)
	})

	t.Run("Usage limit exhausted", func(t *testing.T) {
		mockRepo, service := newFixture()
		mockRepo.On("GetByCode", "SUMMER10").Return(activeVoucher(model.DiscountTypePercentage, 10), nil).Once()
		mockRepo.On("ConsumeUse", mock.Anything).Return(repository.ErrUsageLimitReached).Once()

		_, err := service.Redeem("SUMMER10", 100000)

		assert.ErrorIs(t, err, ErrVoucherExhausted)
	})
}
