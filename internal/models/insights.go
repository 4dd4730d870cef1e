package models

// RecommendationKind is the closed tag set of recommendation categories.
type RecommendationKind string

const (
	RecommendationSetCompletion  RecommendationKind = "set-completion"
	RecommendationTrending       RecommendationKind = "trending"
	RecommendationUndervalued    RecommendationKind = "undervalued"
	RecommendationBudgetFriendly RecommendationKind = "budget-friendly"
)

// PriceRange is the min/max valuation across a collection.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CollectionProfile summarizes a user's inventory. It is recomputed from the
// inventory snapshot on every call and never persisted.
type CollectionProfile struct {
	FavoriteSetName   string     `json:"favorite_set_name"` // empty when the inventory is empty
	AveragePrice      float64    `json:"average_price"`
	PreferredCategory string     `json:"preferred_category"` // "graded" or "raw"
	PriceRange        PriceRange `json:"price_range"`
}

// Recommendation is a suggested card to acquire. Confidence and priority are
// fixed per kind rather than computed from statistical evidence.
type Recommendation struct {
	Kind            RecommendationKind `json:"kind"`
	Card            ReferenceCard      `json:"card"`
	ConfidenceScore int                `json:"confidence_score"` // 0-100
	PriorityRank    int                `json:"priority_rank"`    // 1-5, used only for sorting
}
