package models

import (
	"testing"
)

func TestValuation(t *testing.T) {
	market := 25.0
	zero := 0.0

	tests := []struct {
		name string
		item OwnedItem
		want float64
	}{
		{"market price preferred", OwnedItem{PurchasePrice: 10, MarketPrice: &market}, 25},
		{"nil market falls back to purchase", OwnedItem{PurchasePrice: 10}, 10},
		{"zero market falls back to purchase", OwnedItem{PurchasePrice: 10, MarketPrice: &zero}, 10},
		{"both absent", OwnedItem{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Valuation(); got != tt.want {
				t.Errorf("Valuation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsGraded(t *testing.T) {
	tests := []struct {
		company string
		want    bool
	}{
		{"raw", false},
		{"RAW", false}, // sentinel comparison is case-insensitive
		{"", false},    // missing tag treated as raw
		{"PSA", true},
		{"BGS", true},
		{"CGC", true},
	}

	for _, tt := range tests {
		item := OwnedItem{GradingCompany: tt.company}
		if got := item.IsGraded(); got != tt.want {
			t.Errorf("IsGraded() with company %q = %v, want %v", tt.company, got, tt.want)
		}
	}
}
