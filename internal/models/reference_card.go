package models

import (
	"time"
)

// ReferenceCard is an entry in the reference catalog: a candidate card
// eligible for recommendation.
type ReferenceCard struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null;index"`
	SetName        string    `json:"set_name" gorm:"index"`
	CardNumber     string    `json:"card_number"`
	EstimatedPrice float64   `json:"estimated_price"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CatalogSearchResult struct {
	Cards      []ReferenceCard `json:"cards"`
	TotalCount int             `json:"total_count"`
}
