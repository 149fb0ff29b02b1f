package model

import (
	baseModel "storefront_api/pkg/model"
)

// CartItem is one line of a buyer's stored cart. Merge-on-login and the
// browsing surface belong to the storefront; this service only reads lines
// for checkout and clears them afterwards.
type CartItem struct {
	baseModel.BaseModel
	UserID      string `gorm:"type:uuid;index;not null" json:"userId"`
	ProductID   string `gorm:"type:uuid;not null" json:"productId"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	VariantID   string `json:"variantId,omitempty"`
	VariantName string `json:"variantName,omitempty"`
}
