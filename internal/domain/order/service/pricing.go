package service

import (
	"math"
	"time"

	catalogModel "storefront_api/internal/domain/catalog/model"
	"storefront_api/internal/domain/order/model"
)

// methodPolicy decides, per checkout payment tag, how the order starts out.
type methodPolicy struct {
	storedMethod  string
	initialStatus string
	deferred      bool // deferred methods get a payment deadline
	pickup        bool
}

// sepay and showroom are checkout-level tags; both are normalized to a
// storage-level method, with pickup recorded in shipping metadata.
var methodPolicies = map[string]methodPolicy{
	model.MethodCOD: {
		storedMethod:  model.MethodCOD,
		initialStatus: model.StatusPending,
	},
	model.MethodSePay: {
		storedMethod:  model.MethodBankTransfer,
		initialStatus: model.StatusAwaitingPayment,
		deferred:      true,
	},
	model.MethodShowroom: {
		storedMethod:  model.MethodCOD,
		initialStatus: model.StatusPending,
		pickup:        true,
	},
}

// priceLine computes a line's frozen price snapshot: variant price overrides
// the product price, then the active percentage discount applies.
func priceLine(product *catalogModel.Product, variantName string, now time.Time) (price, original, discount int64) {
	base := product.Price
	if variant, ok := product.VariantByName(variantName); ok {
		base = variant.Price
	}

	if !product.DiscountActiveAt(now) {
		return base, base, 0
	}

	discounted := int64(math.Round(float64(base) * (1 - product.DiscountPercentage/100)))
	return discounted, base, base - discounted
}

// shippingFee is zero above the free-shipping threshold and for in-person
// pickup, flat otherwise.
func (s *orderService) shippingFee(subtotal int64, pickup bool) int64 {
	if pickup || subtotal >= s.cfg.FreeShippingThreshold {
		return 0
	}
	return s.cfg.FlatShippingFee
}
