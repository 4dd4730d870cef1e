// Package insights derives collection statistics and acquisition
// recommendations from an inventory snapshot and a reference catalog. All
// functions are pure: they never mutate their inputs, hold no state, and are
// safe to call concurrently.
package insights

import (
	"github.com/cardfolio/cardfolio/internal/models"
)

// Defaults used when the inventory (or its valued subset) is empty, so that
// downstream recommendation passes never need a no-data branch.
const (
	DefaultAveragePrice = 50.0
	DefaultPriceMin     = 5.0
	DefaultPriceMax     = 100.0
)

// Analyze computes a CollectionProfile from an inventory snapshot.
//
// Favorite set is the set with the greatest cumulative owned quantity; ties
// keep the set seen first in input order. Item valuation prefers market price
// over purchase price, and items valued at exactly 0 are excluded from the
// average and price range but still count toward set quantities and the
// graded/raw split.
func Analyze(items []models.OwnedItem) models.CollectionProfile {
	profile := models.CollectionProfile{
		AveragePrice:      DefaultAveragePrice,
		PreferredCategory: models.GradingRaw,
		PriceRange:        models.PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax},
	}

	if len(items) == 0 {
		return profile
	}

	// Accumulate quantity per set, tracking first-seen order so the max is
	// stable across runs (Go map iteration order is randomized).
	setQuantities := make(map[string]int, len(items))
	var setOrder []string

	gradedCount := 0
	var valuations []float64

	for i := range items {
		item := &items[i]

		if _, seen := setQuantities[item.SetName]; !seen {
			setOrder = append(setOrder, item.SetName)
		}
		setQuantities[item.SetName] += item.Quantity

		if item.IsGraded() {
			gradedCount++
		}

		if v := item.Valuation(); v != 0 {
			valuations = append(valuations, v)
		}
	}

	bestQty := 0
	for _, set := range setOrder {
		if qty := setQuantities[set]; qty > bestQty {
			bestQty = qty
			profile.FavoriteSetName = set
		}
	}

	if gradedCount*2 > len(items) {
		profile.PreferredCategory = "graded"
	}

	if len(valuations) > 0 {
		sum := 0.0
		min := valuations[0]
		max := valuations[0]
		for _, v := range valuations {
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		profile.AveragePrice = sum / float64(len(valuations))
		profile.PriceRange = models.PriceRange{Min: min, Max: max}
	}

	return profile
}
