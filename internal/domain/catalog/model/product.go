package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	baseModel "storefront_api/pkg/model"
)

// Product is the catalog row consulted and mutated by the order engine.
// Catalog browsing, translations and media live in the storefront collaborator;
// this service only needs pricing, discount windows and the stock counter.
type Product struct {
	baseModel.BaseModel
	Title              string     `gorm:"type:varchar(255);not null" json:"title"`
	Price              int64      `gorm:"not null" json:"price"` // VND minor units
	Quantity           int        `gorm:"not null;default:0" json:"quantity"`
	IsActive           bool       `gorm:"not null;default:true" json:"isActive"`
	Variants           Variants   `gorm:"type:jsonb" json:"variants"`
	DiscountPercentage float64    `gorm:"default:0" json:"discountPercentage"`
	DiscountStartDate  *time.Time `json:"discountStartDate,omitempty"`
	DiscountEndDate    *time.Time `json:"discountEndDate,omitempty"`
}

// Variant is a sellable variation with its own price.
type Variant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Variants is stored as a jsonb column.
type Variants []Variant

func (v Variants) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *Variants) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("variants: unsupported scan type")
	}
	return json.Unmarshal(bytes, v)
}

// DiscountActiveAt reports whether the product's percentage discount applies
// at the given instant. Bounds are inclusive; a missing bound is open-ended.
func (p *Product) DiscountActiveAt(now time.Time) bool {
	if p.DiscountPercentage <= 0 {
		return false
	}
	if p.DiscountStartDate != nil && now.Before(*p.DiscountStartDate) {
		return false
	}
	if p.DiscountEndDate != nil && now.After(*p.DiscountEndDate) {
		return false
	}
	return true
}

// VariantByName returns the variant with the given name, if any.
func (p *Product) VariantByName(name string) (*Variant, bool) {
	if name == "" {
		return nil, false
	}
	for i := range p.Variants {
		if p.Variants[i].Name == name {
			return &p.Variants[i], true
		}
	}
	return nil, false
}
