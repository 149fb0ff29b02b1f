package model

import (
	"time"

	baseModel "storefront_api/pkg/model"
)

// Voucher is a discount code redeemable at checkout.
type Voucher struct {
	baseModel.BaseModel
	Code          string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DiscountType  string    `gorm:"type:varchar(20);not null" json:"discountType"` // percentage, fixed
	DiscountValue int64     `gorm:"not null" json:"discountValue"`
	MinOrderValue int64     `gorm:"default:0" json:"minOrderValue"`
	UsageLimit    int       `gorm:"not null" json:"usageLimit"`
	Used          int       `gorm:"default:0" json:"used"`
	StartTime     time.Time `gorm:"not null" json:"startTime"`
	EndTime       time.Time `gorm:"not null" json:"endTime"`
}

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)
