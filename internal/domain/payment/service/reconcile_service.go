package service

import (
	"errors"
	"regexp"
	"strings"

	orderModel "storefront_api/internal/domain/order/model"
	orderRepo "storefront_api/internal/domain/order/repository"
	"storefront_api/internal/pkg/notifier"
	"storefront_api/pkg/logger"
	"storefront_api/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Machine-usable rejection reasons returned to the webhook boundary.
const (
	ReasonNoOrderID      = "no order id found"
	ReasonOrderNotFound  = "order not found"
	ReasonAmountMismatch = "amount mismatch"
)

// ReconcileResult is the structured outcome of one webhook delivery.
type ReconcileResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}

// ReconcileService applies inbound bank-transfer notifications to pending
// orders at most once. Webhook authentication is the HTTP boundary's job.
type ReconcileService interface {
	Reconcile(content string, transferAmount int64, transactionID string) (ReconcileResult, error)
}

type reconcileService struct {
	orders orderRepo.OrderRepository
	notify notifier.Notifier
}

func NewReconcileService(orders orderRepo.OrderRepository, notify notifier.Notifier) ReconcileService {
	return &reconcileService{orders: orders, notify: notify}
}

var (
	// Banks mangle transfer memos; the order id may arrive hyphenated or as
	// a bare 32-char hex run.
	hyphenatedIDPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	bareHexIDPattern    = regexp.MustCompile(`[0-9a-fA-F]{32}`)
)

// ExtractOrderID pulls an order id out of free-text memo content. A bare
// 32-char hex match is re-hyphenated into the standard 8-4-4-4-12 grouping.
func ExtractOrderID(content string) (string, bool) {
	if m := hyphenatedIDPattern.FindString(content); m != "" {
		return strings.ToLower(m), true
	}
	if m := bareHexIDPattern.FindString(content); m != "" {
		m = strings.ToLower(m)
		return m[0:8] + "-" + m[8:12] + "-" + m[12:16] + "-" + m[16:20] + "-" + m[20:32], true
	}
	return "", false
}

func (s *reconcileService) Reconcile(content string, transferAmount int64, transactionID string) (ReconcileResult, error) {
	orderID, ok := ExtractOrderID(content)
	if !ok {
		metrics.WebhookResultsTotal.WithLabelValues("no_order_id").Inc()
		return ReconcileResult{Success: false, Reason: ReasonNoOrderID}, nil
	}

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.WebhookResultsTotal.WithLabelValues("order_not_found").Inc()
			return ReconcileResult{Success: false, Reason: ReasonOrderNotFound, OrderID: orderID}, nil
		}
		return ReconcileResult{}, err
	}

	// The gateway retries deliveries; an already-paid order means an earlier
	// delivery has been applied, so report success without touching anything.
	if order.PaymentStatus == orderModel.PaymentStatusPaid {
		metrics.WebhookResultsTotal.WithLabelValues("duplicate").Inc()
		return ReconcileResult{Success: true, OrderID: orderID}, nil
	}

	// Underpayment is rejected; overpayment is accepted deliberately, since
	// customers round transfers up. Flag it for ops review.
	if transferAmount < order.Total {
		metrics.WebhookResultsTotal.WithLabelValues("amount_mismatch").Inc()
		return ReconcileResult{Success: false, Reason: ReasonAmountMismatch, OrderID: orderID}, nil
	}
	if transferAmount > order.Total {
		logger.Log.Warn("Overpayment accepted",
			zap.String("order_id", orderID),
			zap.Int64("expected", order.Total),
			zap.Int64("received", transferAmount))
	}

	applied, err := s.orders.MarkPaid(orderID, transactionID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if !applied {
		// A concurrent duplicate delivery won the conditional write.
		metrics.WebhookResultsTotal.WithLabelValues("duplicate").Inc()
		return ReconcileResult{Success: true, OrderID: orderID}, nil
	}

	metrics.WebhookResultsTotal.WithLabelValues("applied").Inc()

	order.Status = orderModel.StatusPaid
	order.PaymentStatus = orderModel.PaymentStatusPaid
	order.TransactionCode = transactionID
	if s.notify != nil {
		s.notify.Notify(notifier.KindPaymentSuccess, order)
		s.notify.Notify(notifier.KindAdminNewOrder, order)
	}

	return ReconcileResult{Success: true, OrderID: orderID}, nil
}
