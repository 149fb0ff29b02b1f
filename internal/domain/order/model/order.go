package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	baseModel "storefront_api/pkg/model"
)

// Order is the persisted record of a checkout: a status, a frozen price/line
// snapshot and shipping details. Items and totals never change after creation.
type Order struct {
	baseModel.BaseModel
	UserID          *string      `gorm:"type:uuid;index" json:"userId,omitempty"` // nil for guest checkout
	Status          string       `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod   string       `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaymentStatus   string       `gorm:"type:varchar(10);not null;default:'pending'" json:"paymentStatus"`
	Total           int64        `gorm:"not null" json:"total"` // VND minor units, fixed at creation
	Items           OrderItems   `gorm:"type:jsonb;not null" json:"items"`
	ShippingInfo    ShippingInfo `gorm:"type:jsonb;not null" json:"shippingInfo"`
	PaymentDeadline *time.Time   `gorm:"index" json:"paymentDeadline,omitempty"`
	ExpiredAt       *time.Time   `json:"expiredAt,omitempty"`
	VoucherCode     string       `json:"voucherCode,omitempty"`
	VoucherDiscount int64        `gorm:"column:voucher_discount_amount" json:"voucherDiscountAmount,omitempty"`
	TransactionCode string       `json:"transactionCode,omitempty"`
}

// OrderItem is a line snapshot taken at creation time. Price fields are frozen
// regardless of later catalog changes.
type OrderItem struct {
	ProductID      string `json:"productId"`
	ProductTitle   string `json:"productTitle"`
	Quantity       int    `json:"quantity"`
	VariantID      string `json:"variantId,omitempty"`
	VariantName    string `json:"variantName,omitempty"`
	Price          int64  `json:"price"` // discounted unit price
	OriginalPrice  int64  `json:"originalPrice"`
	DiscountAmount int64  `json:"discountAmount"`
}

// OrderItems is stored as a jsonb column.
type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *OrderItems) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("order items: unsupported scan type")
	}
	return json.Unmarshal(bytes, i)
}

// ShippingInfo is the contact/address record plus checkout-derived fields.
type ShippingInfo struct {
	FullName       string `json:"fullName"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address"`
	Note           string `json:"note,omitempty"`
	ShippingFee    int64  `json:"shippingFee"`
	DeliveryMethod string `json:"deliveryMethod,omitempty"` // shipping, pickup
	PickupLocation string `json:"pickupLocation,omitempty"`
}

func (s ShippingInfo) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ShippingInfo) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("shipping info: unsupported scan type")
	}
	return json.Unmarshal(bytes, s)
}

const (
	DeliveryMethodShipping = "shipping"
	DeliveryMethodPickup   = "pickup"
)

// RedactedOrder is the projection returned by the guest lookup: enough to
// recognize your own order without exposing the full contact record.
type RedactedOrder struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	PaymentMethod   string     `json:"paymentMethod"`
	PaymentStatus   string     `json:"paymentStatus"`
	Total           int64      `json:"total"`
	Items           OrderItems `json:"items"`
	Email           string     `json:"email,omitempty"`
	MaskedPhone     string     `json:"phone"`
	MaskedAddress   string     `json:"address"`
	PaymentDeadline *time.Time `json:"paymentDeadline,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}
