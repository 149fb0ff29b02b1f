package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	cartRepo "storefront_api/internal/domain/cart/repository"
	catalogModel "storefront_api/internal/domain/catalog/model"
	catalogRepo "storefront_api/internal/domain/catalog/repository"
	"storefront_api/internal/domain/order/model"
	"storefront_api/internal/domain/order/repository"
	voucherService "storefront_api/internal/domain/voucher/service"
	"storefront_api/internal/pkg/config"
	"storefront_api/internal/pkg/notifier"
	"storefront_api/pkg/logger"
	"storefront_api/pkg/metrics"
	"storefront_api/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrMissingShipping   = errors.New("shipping information is required")
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
)

// TransitionError reports an illegal state-machine edge.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// StockError carries the product display name and remaining quantity so the
// storefront can tell the buyer what to reduce.
type StockError struct {
	ProductTitle string
	Remaining    int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%q is out of stock: only %d left", e.ProductTitle, e.Remaining)
}

// UnavailableProductError reports an inactive product in the request.
type UnavailableProductError struct {
	ProductTitle string
}

func (e *UnavailableProductError) Error() string {
	return fmt.Sprintf("%q is no longer available", e.ProductTitle)
}

// LineRequest is one requested order line.
type LineRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	VariantID   string `json:"variantId"`
	VariantName string `json:"variantName"`
}

// CreateOrderInput is the checkout payload after HTTP binding.
type CreateOrderInput struct {
	UserID        *string
	Items         []LineRequest
	ShippingInfo  model.ShippingInfo
	PaymentMethod string
	VoucherCode   string
}

type OrderService interface {
	CreateOrder(input CreateOrderInput) (*model.Order, error)
	GetOrder(id string) (*model.Order, error)
	ListOrders(status string, offset, limit int) ([]model.Order, int64, error)
	UpdateStatus(orderID, newStatus string) (*model.Order, error)
	GuestLookup(orderID, credential string) (*model.RedactedOrder, error)
	// ExpireOverdue runs one sweep over lapsed AWAITING_PAYMENT orders.
	ExpireOverdue() (int, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products catalogRepo.ProductRepository
	carts    cartRepo.CartRepository
	vouchers voucherService.VoucherService
	notify   notifier.Notifier
	cfg      config.ShopConfig
}

func NewOrderService(
	orders repository.OrderRepository,
	products catalogRepo.ProductRepository,
	carts cartRepo.CartRepository,
	vouchers voucherService.VoucherService,
	notify notifier.Notifier,
	cfg config.ShopConfig,
) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		carts:    carts,
		vouchers: vouchers,
		notify:   notify,
		cfg:      cfg,
	}
}

func (s *orderService) CreateOrder(input CreateOrderInput) (*model.Order, error) {
	items := input.Items
	// Convenience path: an authenticated checkout without explicit lines
	// orders the stored cart.
	if len(items) == 0 && input.UserID != nil {
		cartItems, err := s.carts.GetByUser(*input.UserID)
		if err != nil {
			return nil, err
		}
		for _, ci := range cartItems {
			items = append(items, LineRequest{
				ProductID:   ci.ProductID,
				Quantity:    ci.Quantity,
				VariantID:   ci.VariantID,
				VariantName: ci.VariantName,
			})
		}
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	policy, ok := methodPolicies[input.PaymentMethod]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, input.PaymentMethod)
	}

	shipping := input.ShippingInfo
	if shipping.FullName == "" || shipping.Phone == "" {
		return nil, ErrMissingShipping
	}
	if !policy.pickup && shipping.Address == "" {
		return nil, ErrMissingShipping
	}
	shipping.Phone = utils.NormalizePhone(shipping.Phone)

	now := time.Now()

	productMap, err := s.fetchProducts(items)
	if err != nil {
		return nil, err
	}

	var lines model.OrderItems
	var subtotal int64
	for _, req := range items {
		product, ok := productMap[req.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
		}
		if !product.IsActive {
			return nil, &UnavailableProductError{ProductTitle: product.Title}
		}
		if req.Quantity > product.Quantity {
			return nil, &StockError{ProductTitle: product.Title, Remaining: product.Quantity}
		}

		price, original, discount := priceLine(product, req.VariantName, now)
		lines = append(lines, model.OrderItem{
			ProductID:      product.ID,
			ProductTitle:   product.Title,
			Quantity:       req.Quantity,
			VariantID:      req.VariantID,
			VariantName:    req.VariantName,
			Price:          price,
			OriginalPrice:  original,
			DiscountAmount: discount,
		})
		subtotal += price * int64(req.Quantity)
	}

	if policy.pickup {
		shipping.DeliveryMethod = model.DeliveryMethodPickup
	} else if shipping.DeliveryMethod == "" {
		shipping.DeliveryMethod = model.DeliveryMethodShipping
	}
	shipping.ShippingFee = s.shippingFee(subtotal, policy.pickup)

	var voucherDiscount int64
	if input.VoucherCode != "" {
		voucherDiscount, err = s.vouchers.Redeem(input.VoucherCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	order := &model.Order{
		UserID:          input.UserID,
		Status:          policy.initialStatus,
		PaymentMethod:   policy.storedMethod,
		PaymentStatus:   model.PaymentStatusPending,
		Total:           subtotal + shipping.ShippingFee,
		Items:           lines,
		ShippingInfo:    shipping,
		VoucherCode:     strings.ToUpper(strings.TrimSpace(input.VoucherCode)),
		VoucherDiscount: voucherDiscount,
	}
	if policy.deferred {
		deadline := now.Add(time.Duration(s.cfg.PaymentWindowMinutes) * time.Minute)
		order.PaymentDeadline = &deadline
	}

	if err := s.orders.CreateWithStockReservation(order); err != nil {
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			// Concurrent checkout drained the stock between the pre-check
			// and the reservation; report with the current remainder.
			title, remaining := stockErr.ProductID, 0
			if p, ok := productMap[stockErr.ProductID]; ok {
				title = p.Title
				if fresh, ferr := s.products.GetByID(p.ID); ferr == nil {
					remaining = fresh.Quantity
				}
			}
			return nil, &StockError{ProductTitle: title, Remaining: remaining}
		}
		return nil, err
	}

	if input.UserID != nil {
		if err := s.carts.Clear(*input.UserID); err != nil {
			logger.Log.Warn("Failed to clear cart after checkout",
				zap.String("user_id", *input.UserID), zap.Error(err))
		}
	}

	metrics.OrdersCreatedTotal.WithLabelValues(order.PaymentMethod).Inc()
	s.dispatch(notifier.KindOrderConfirmed, order)

	return order, nil
}

// dispatch is nil-safe: notification wiring is optional in tooling contexts.
func (s *orderService) dispatch(kind notifier.Kind, order *model.Order) {
	if s.notify != nil {
		s.notify.Notify(kind, order)
	}
}

func (s *orderService) fetchProducts(items []LineRequest) (map[string]*catalogModel.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, req := range items {
		if !seen[req.ProductID] {
			seen[req.ProductID] = true
			ids = append(ids, req.ProductID)
		}
	}

	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	productMap := make(map[string]*catalogModel.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}
	return productMap, nil
}

func (s *orderService) GetOrder(id string) (*model.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(status string, offset, limit int) ([]model.Order, int64, error) {
	return s.orders.GetList(status, offset, limit)
}

func (s *orderService) UpdateStatus(orderID, newStatus string) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	// Requesting the current status is an idempotent no-op.
	if order.Status == newStatus {
		return order, nil
	}

	if !model.CanTransition(order.Status, newStatus) {
		return nil, &TransitionError{From: order.Status, To: newStatus}
	}

	from := order.Status
	switch newStatus {
	case model.StatusCanceled:
		// Cancel from any pre-terminal state gives reserved stock back.
		err = s.orders.CancelWithStockRestore(order)
	case model.StatusPaid:
		// Reaching PAID always forces the payment flag, however driven.
		err = s.orders.UpdateStatus(order.ID, from, newStatus, map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
		})
	default:
		err = s.orders.UpdateStatus(order.ID, from, newStatus, nil)
	}
	if err != nil {
		return nil, err
	}

	order.Status = newStatus
	if newStatus == model.StatusPaid {
		order.PaymentStatus = model.PaymentStatusPaid
	}

	metrics.OrderTransitionsTotal.WithLabelValues(from, newStatus).Inc()
	s.dispatch(notifier.KindStatusChanged, order)

	return order, nil
}

func (s *orderService) ExpireOverdue() (int, error) {
	now := time.Now()
	orders, err := s.orders.FindOverdue(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range orders {
		order := &orders[i]
		applied, err := s.orders.ExpireWithStockRestore(order, now)
		if err != nil {
			// One stuck order must not block the rest of the batch.
			logger.Log.Error("Failed to expire order",
				zap.String("order_id", order.ID), zap.Error(err))
			continue
		}
		if !applied {
			continue
		}

		expired++
		metrics.SweeperExpiredTotal.Inc()
		metrics.OrderTransitionsTotal.WithLabelValues(model.StatusAwaitingPayment, model.StatusExpired).Inc()

		order.Status = model.StatusExpired
		order.ExpiredAt = &now
		s.dispatch(notifier.KindStatusChanged, order)
	}
	return expired, nil
}
