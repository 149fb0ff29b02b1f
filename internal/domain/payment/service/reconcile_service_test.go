package service

import (
	"testing"
	"time"

	orderModel "storefront_api/internal/domain/order/model"
	"storefront_api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	m.Run()
}

// MockOrderRepository is a mock of the order repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithStockReservation(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*orderModel.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) GetList(status string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(id, from, to string, extra map[string]interface{}) error {
	args := m.Called(id, from, to, extra)
	return args.Error(0)
}

func (m *MockOrderRepository) CancelWithStockRestore(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(id, transactionCode string) (bool, error) {
	args := m.Called(id, transactionCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindOverdue(now time.Time) ([]orderModel.Order, error) {
	args := m.Called(now)
	return args.Get(0).([]orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) ExpireWithStockRestore(order *orderModel.Order, now time.Time) (bool, error) {
	args := m.Called(order, now)
	return args.Bool(0), args.Error(1)
}

const testOrderID = "5f2458c3-71ab-4a1e-9b6e-1f0c2d3e4a5b"

func awaitingOrder(total int64) *orderModel.Order {
	return &orderModel.Order{
		Status:        orderModel.StatusAwaitingPayment,
		PaymentStatus: orderModel.PaymentStatusPending,
		PaymentMethod: orderModel.MethodBankTransfer,
		Total:         total,
	}
}

func TestExtractOrderID(t *testing.T) {
	t.Run("Hyphenated id in memo", func(t *testing.T) {
		id, ok := ExtractOrderID("CK don hang " + testOrderID + " cam on")
		assert.True(t, ok)
		assert.Equal(t, testOrderID, id)
	})

	t.Run("Bare hex run is re-hyphenated", func(t *testing.T) {
		id, ok := ExtractOrderID("DH 5f2458c371ab4a1e9b6e1f0c2d3e4a5b TT")
		assert.True(t, ok)
		assert.Equal(t, testOrderID, id)
	})

	t.Run("Uppercase memo is lowered", func(t *testing.T) {
		id, ok := ExtractOrderID("5F2458C371AB4A1E9B6E1F0C2D3E4A5B")
		assert.True(t, ok)
		assert.Equal(t, testOrderID, id)
	})

	t.Run("No id in memo", func(t *testing.T) {
		_, ok := ExtractOrderID("chuyen tien an trua")
		assert.False(t, ok)
	})
}

func TestReconcile(t *testing.T) {
	newFixture := func() (*MockOrderRepository, ReconcileService) {
		mockOrders := new(MockOrderRepository)
		return mockOrders, NewReconcileService(mockOrders, nil)
	}

	t.Run("Exact amount marks the order paid", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", testOrderID).Return(awaitingOrder(230000), nil).Once()
		mockOrders.On("MarkPaid", testOrderID, "TXN001").Return(true, nil).Once()

		result, err := service.Reconcile("thanh toan "+testOrderID, 230000, "TXN001")

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, testOrderID, result.OrderID)
		mockOrders.AssertExpectations(t)
	})

	t.Run("Overpayment is accepted", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", testOrderID).Return(awaitingOrder(230000), nil).Once()
		mockOrders.On("MarkPaid", testOrderID, "TXN002").Return(true, nil).Once()

		result, err := service.Reconcile(testOrderID, 250000, "TXN002")

		assert.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("Underpayment is rejected without touching the order", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", testOrderID).Return(awaitingOrder(230000), nil).Once()

		result, err := service.Reconcile(testOrderID, 200000, "TXN003")

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, ReasonAmountMismatch, result.Reason)
		mockOrders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("Replayed delivery on a paid order succeeds idempotently", func(t *testing.T) {
		mockOrders, service := newFixture()
		paid := awaitingOrder(230000)
		paid.Status = orderModel.StatusPaid
		paid.PaymentStatus = orderModel.PaymentStatusPaid
		mockOrders.On("GetByID", testOrderID).Return(paid, nil).Once()

		result, err := service.Reconcile(testOrderID, 230000, "TXN001")

		assert.NoError(t, err)
		assert.True(t, result.Success)
		mockOrders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("Losing a concurrent duplicate still reports success", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", testOrderID).Return(awaitingOrder(230000), nil).Once()
		mockOrders.On("MarkPaid", testOrderID, "TXN004").Return(false, nil).Once()

		result, err := service.Reconcile(testOrderID, 230000, "TXN004")

		assert.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("Memo without an order id", func(t *testing.T) {
		_, service := newFixture()

		result, err := service.Reconcile("chuyen khoan", 230000, "TXN005")

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, ReasonNoOrderID, result.Reason)
	})

	t.Run("Unknown order id", func(t *testing.T) {
		mockOrders, service := newFixture()
		mockOrders.On("GetByID", testOrderID).Return(nil, gorm.ErrRecordNotFound).Once()

		result, err := service.Reconcile(testOrderID, 230000, "TXN006")

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, ReasonOrderNotFound, result.Reason)
	})
}
