package notifier

import (
	"fmt"

	orderModel "storefront_api/internal/domain/order/model"
)

// Kind identifies a customer or admin notification template.
type Kind string

const (
	KindOrderConfirmed Kind = "order-confirmed"
	KindPaymentSuccess Kind = "payment-success"
	KindAdminNewOrder  Kind = "admin-new-order"
	KindStatusChanged  Kind = "status-changed"
)

// Notifier dispatches a notification without blocking the caller. Failures
// are logged, never returned: dispatch must not fail the primary operation.
type Notifier interface {
	Notify(kind Kind, order *orderModel.Order)
}

// Global is the process-wide notifier, set up during bootstrap. May be nil in
// tooling contexts; use Dispatch for nil-safe access.
var Global Notifier

// Dispatch sends through the global notifier when one is configured.
func Dispatch(kind Kind, order *orderModel.Order) {
	if Global != nil {
		Global.Notify(kind, order)
	}
}

func renderMessage(kind Kind, order *orderModel.Order) (subject, body string) {
	switch kind {
	case KindOrderConfirmed:
		subject = fmt.Sprintf("Order %s confirmed", order.ID)
		body = fmt.Sprintf("Thank you %s! Your order %s for %d VND has been received and is being processed.",
			order.ShippingInfo.FullName, order.ID, order.Total)
	case KindPaymentSuccess:
		subject = fmt.Sprintf("Payment received for order %s", order.ID)
		body = fmt.Sprintf("We have received your payment of %d VND for order %s.",
			order.Total, order.ID)
	case KindAdminNewOrder:
		subject = fmt.Sprintf("New paid order %s", order.ID)
		body = fmt.Sprintf("Order %s (%d VND, method %s) has been paid and is ready for fulfilment.",
			order.ID, order.Total, order.PaymentMethod)
	case KindStatusChanged:
		subject = fmt.Sprintf("Order %s update", order.ID)
		body = fmt.Sprintf("Your order %s is now %s.", order.ID, order.Status)
	default:
		subject = fmt.Sprintf("Order %s update", order.ID)
		body = fmt.Sprintf("Your order %s has been updated.", order.ID)
	}
	return subject, body
}
