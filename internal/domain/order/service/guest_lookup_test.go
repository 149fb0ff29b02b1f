package service

import (
	"testing"

	"storefront_api/internal/domain/order/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func storedGuestOrder() *model.Order {
	return &model.Order{
		Status:        model.StatusAwaitingPayment,
		PaymentMethod: model.MethodBankTransfer,
		Total:         230000,
		Items:         model.OrderItems{{ProductID: "p1", ProductTitle: "Ceramic Mug", Quantity: 2}},
		ShippingInfo: model.ShippingInfo{
			FullName: "Nguyen Van A",
			Phone:    "+84356176878",
			Email:    "Buyer@Example.com",
			Address:  "1 Le Loi, Da Nang",
		},
	}
}

func TestGuestLookup(t *testing.T) {
	newFixture := func() (*MockOrderRepository, OrderService) {
		mockOrders := new(MockOrderRepository)
		service := newTestService(mockOrders, new(MockProductRepository),
			new(MockCartRepository), new(MockVoucherService))
		return mockOrders, service
	}

	t.Run("Email match ignores case and whitespace", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", "o1").Return(storedGuestOrder(), nil).Once()

		redacted, err := service.GuestLookup("o1", "  buyer@example.com ")

		assert.NoError(t, err)
		assert.Equal(t, "***", redacted.MaskedAddress)
		assert.Equal(t, "*********878", redacted.MaskedPhone)
		assert.Equal(t, int64(230000), redacted.Total)
	})

	t.Run("Phone suffix matches the stored number", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", "o1").Return(storedGuestOrder(), nil).Once()

		_, err := service.GuestLookup("o1", "356176878")

		assert.NoError(t, err)
	})

	t.Run("Local phone form matches the normalized stored number", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", "o1").Return(storedGuestOrder(), nil).Once()

		_, err := service.GuestLookup("o1", "0356176878")

		assert.NoError(t, err)
	})

	t.Run("Wrong credential gets the generic error", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", "o1").Return(storedGuestOrder(), nil).Once()

		_, err := service.GuestLookup("o1", "someoneelse@example.com")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Unknown id gets the same generic error", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := service.GuestLookup("missing", "buyer@example.com")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Empty credential never matches", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", "o1").Return(storedGuestOrder(), nil).Once()

		_, err := service.GuestLookup("o1", "   ")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
