package service

import (
	"errors"
	"strings"

	"storefront_api/internal/domain/order/model"
	"storefront_api/pkg/utils"

	"gorm.io/gorm"
)

// GuestLookup lets an unauthenticated buyer retrieve a redacted view of their
// own order. A wrong id and a wrong credential both fail with the same
// generic error so the endpoint leaks nothing about which part was wrong.
func (s *orderService) GuestLookup(orderID, credential string) (*model.RedactedOrder, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !matchesCredential(order, credential) {
		return nil, ErrOrderNotFound
	}

	return redact(order), nil
}

// matchesCredential accepts the stored email (case/whitespace-insensitive) or
// a digit-only suffix-or-prefix match against the stored phone, which
// tolerates partial entry and formatting variance.
func matchesCredential(order *model.Order, credential string) bool {
	cred := strings.ToLower(strings.TrimSpace(credential))
	if cred == "" {
		return false
	}

	if email := strings.ToLower(strings.TrimSpace(order.ShippingInfo.Email)); email != "" && cred == email {
		return true
	}

	credDigits := utils.DigitsOnly(utils.NormalizePhone(credential))
	phoneDigits := utils.DigitsOnly(utils.NormalizePhone(order.ShippingInfo.Phone))
	if credDigits == "" || phoneDigits == "" {
		return false
	}

	return strings.HasSuffix(phoneDigits, credDigits) ||
		strings.HasPrefix(phoneDigits, credDigits) ||
		strings.HasSuffix(credDigits, phoneDigits) ||
		strings.HasPrefix(credDigits, phoneDigits)
}

func redact(order *model.Order) *model.RedactedOrder {
	return &model.RedactedOrder{
		ID:              order.ID,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		Total:           order.Total,
		Items:           order.Items,
		Email:           order.ShippingInfo.Email,
		MaskedPhone:     maskPhone(order.ShippingInfo.Phone),
		MaskedAddress:   "***",
		PaymentDeadline: order.PaymentDeadline,
		CreatedAt:       order.CreatedAt,
	}
}

// maskPhone keeps only the last three digits visible.
func maskPhone(phone string) string {
	if len(phone) <= 3 {
		return phone
	}
	return strings.Repeat("*", len(phone)-3) + phone[len(phone)-3:]
}
