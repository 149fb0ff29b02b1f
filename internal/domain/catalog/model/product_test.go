package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiscountActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name    string
		pct     float64
		start   *time.Time
		end     *time.Time
		active  bool
	}{
		{"Inside window", 10, &before, &after, true},
		{"Zero percentage", 0, &before, &after, false},
		{"Negative percentage", -5, &before, &after, false},
		{"Start boundary is inclusive", 10, &now, &after, true},
		{"End boundary is inclusive", 10, &before, &now, true},
		{"Before window", 10, &after, nil, false},
		{"After window", 10, nil, &before, false},
		{"No bounds means always on", 10, nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{
				DiscountPercentage: tt.pct,
				DiscountStartDate:  tt.start,
				DiscountEndDate:    tt.end,
			}
			assert.Equal(t, tt.active, p.DiscountActiveAt(now))
		})
	}
}

func TestVariantByName(t *testing.T) {
	p := Product{Variants: Variants{
		{ID: "v1", Name: "Walnut", Price: 150000},
		{ID: "v2", Name: "Oak", Price: 140000},
	}}

	t.Run("Known variant", func(t *testing.T) {
		v, ok := p.VariantByName("Oak")
		assert.True(t, ok)
		assert.Equal(t, int64(140000), v.Price)
	})

	t.Run("Unknown variant", func(t *testing.T) {
		_, ok := p.VariantByName("Birch")
		assert.False(t, ok)
	})

	t.Run("Empty name never matches", func(t *testing.T) {
		_, ok := p.VariantByName("")
		assert.False(t, ok)
	})
}
