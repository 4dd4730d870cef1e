package models

import (
	"strings"
	"time"
)

// GradingRaw is the sentinel grading company value for ungraded cards.
const GradingRaw = "raw"

// OwnedItem represents one or more identical physical cards a user possesses.
type OwnedItem struct {
	ID                   uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                 string     `json:"name" gorm:"not null;index"`
	SetName              string     `json:"set_name" gorm:"index"`
	Quantity             int        `json:"quantity" gorm:"default:1"`
	PurchasePrice        float64    `json:"purchase_price"`
	MarketPrice          *float64   `json:"market_price"` // nil when no pricing data exists
	GradingCompany       string     `json:"grading_company" gorm:"default:'raw'"`
	Notes                string     `json:"notes"`
	PriceSource          string     `json:"price_source"` // "market", "cached", or "pending"
	MarketPriceUpdatedAt *time.Time `json:"market_price_updated_at"`
	AddedAt              time.Time  `json:"added_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Valuation returns the monetary figure used for this item, preferring the
// current market estimate over the original purchase price. A zero market
// price is treated the same as missing data.
func (i *OwnedItem) Valuation() float64 {
	if i.MarketPrice != nil && *i.MarketPrice != 0 {
		return *i.MarketPrice
	}
	return i.PurchasePrice
}

// IsGraded reports whether the item carries a third-party grading service
// tag. A missing tag is treated the same as the "raw" sentinel.
func (i *OwnedItem) IsGraded() bool {
	return i.GradingCompany != "" && !strings.EqualFold(i.GradingCompany, GradingRaw)
}

type AddOwnedItemRequest struct {
	Name           string   `json:"name" binding:"required"`
	SetName        string   `json:"set_name"`
	Quantity       int      `json:"quantity"`
	PurchasePrice  float64  `json:"purchase_price"`
	MarketPrice    *float64 `json:"market_price"`
	GradingCompany string   `json:"grading_company"`
	Notes          string   `json:"notes"`
}

type UpdateOwnedItemRequest struct {
	Quantity       *int     `json:"quantity"`
	PurchasePrice  *float64 `json:"purchase_price"`
	MarketPrice    *float64 `json:"market_price"`
	GradingCompany *string  `json:"grading_company"`
	Notes          *string  `json:"notes"`
}

type CollectionStats struct {
	TotalCards  int     `json:"total_cards"`
	UniqueCards int     `json:"unique_cards"`
	UniqueSets  int     `json:"unique_sets"`
	TotalValue  float64 `json:"total_value"`
	TotalCost   float64 `json:"total_cost"`
	GradedCards int     `json:"graded_cards"`
	RawCards    int     `json:"raw_cards"`
}
