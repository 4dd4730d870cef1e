package insights

import (
	"testing"

	"github.com/cardfolio/cardfolio/internal/models"
)

func fp(v float64) *float64 {
	return &v
}

func TestAnalyzeEmptyInventory(t *testing.T) {
	profile := Analyze(nil)

	if profile.FavoriteSetName != "" {
		t.Errorf("Expected no favorite set for empty inventory, got %q", profile.FavoriteSetName)
	}
	if profile.AveragePrice != DefaultAveragePrice {
		t.Errorf("Expected default average price %v, got %v", DefaultAveragePrice, profile.AveragePrice)
	}
	if profile.PreferredCategory != "raw" {
		t.Errorf("Expected preferred category raw, got %q", profile.PreferredCategory)
	}
	if profile.PriceRange.Min != DefaultPriceMin || profile.PriceRange.Max != DefaultPriceMax {
		t.Errorf("Expected default price range {%v, %v}, got %+v", DefaultPriceMin, DefaultPriceMax, profile.PriceRange)
	}
}

func TestAnalyzeFavoriteSetByQuantity(t *testing.T) {
	items := []models.OwnedItem{
		{Name: "Charizard", SetName: "Base Set", Quantity: 2, PurchasePrice: 100},
		{Name: "Blastoise", SetName: "Base Set", Quantity: 3, PurchasePrice: 50},
		{Name: "Scyther", SetName: "Jungle", Quantity: 1, PurchasePrice: 10},
	}

	profile := Analyze(items)
	if profile.FavoriteSetName != "Base Set" {
		t.Errorf("Expected favorite set Base Set (qty 5 vs 1), got %q", profile.FavoriteSetName)
	}
}

func TestAnalyzeFavoriteSetTieKeepsFirstSeen(t *testing.T) {
	items := []models.OwnedItem{
		{Name: "Scyther", SetName: "Jungle", Quantity: 3, PurchasePrice: 10},
		{Name: "Charizard", SetName: "Base Set", Quantity: 3, PurchasePrice: 100},
	}

	profile := Analyze(items)
	if profile.FavoriteSetName != "Jungle" {
		t.Errorf("Tie should keep first-seen set Jungle, got %q", profile.FavoriteSetName)
	}
}

func TestAnalyzeValuationPrefersMarketPrice(t *testing.T) {
	items := []models.OwnedItem{
		{Name: "Pikachu", SetName: "Base Set", Quantity: 1, PurchasePrice: 10, MarketPrice: fp(20)},
		{Name: "Eevee", SetName: "Jungle", Quantity: 1, PurchasePrice: 30},
	}

	profile := Analyze(items)
	if profile.AveragePrice != 25 {
		t.Errorf("Expected mean of 20 and 30 = 25, got %v", profile.AveragePrice)
	}
	if profile.PriceRange.Min != 20 || profile.PriceRange.Max != 30 {
		t.Errorf("Expected price range {20, 30}, got %+v", profile.PriceRange)
	}
}

func TestAnalyzeZeroMarketPriceFallsBackToPurchase(t *testing.T) {
	items := []models.OwnedItem{
		{Name: "Pikachu", SetName: "Base Set", Quantity: 1, PurchasePrice: 12, MarketPrice: fp(0)},
	}

	profile := Analyze(items)
	if profile.AveragePrice != 12 {
		t.Errorf("Zero market price should fall back to purchase price, got average %v", profile.AveragePrice)
	}
}

func TestAnalyzeZeroValuedItemsExcludedFromMean(t *testing.T) {
	items := []models.OwnedItem{
		{Name: "Pikachu", SetName: "Base Set", Quantity: 4, PurchasePrice: 0},
		{Name: "Charizard", SetName: "Base Set", Quantity: 1, PurchasePrice: 80},
		{Name: "Scyther", SetName: "Jungle", Quantity: 2, PurchasePrice: 0},
	}

	profile := Analyze(items)

	// Zero-valued items drop out of the mean but still count for quantities.
	if profile.AveragePrice != 80 {
		t.Errorf("Expected average 80 from the single valued item, got %v", profile.AveragePrice)
	}
	if profile.FavoriteSetName != "Base Set" {
		t.Errorf("Zero-valued items must still count toward set quantities, got %q", profile.FavoriteSetName)
	}
	if profile.PriceRange.Min != 80 || profile.PriceRange.Max != 80 {
		t.Errorf("Expected price range {80, 80}, got %+v", profile.PriceRange)
	}
}

func TestAnalyzeAllZeroValuationsUseDefaults(t *testing.T) {
	items := []models.OwnedItem{
		{Name: "Pikachu", SetName: "Base Set", Quantity: 1, PurchasePrice: 0},
		{Name: "Eevee", SetName: "Jungle", Quantity: 1, PurchasePrice: 0},
	}

	profile := Analyze(items)
	if profile.AveragePrice != DefaultAveragePrice {
		t.Errorf("Expected default average with no valued items, got %v", profile.AveragePrice)
	}
	if profile.PriceRange.Min != DefaultPriceMin || profile.PriceRange.Max != DefaultPriceMax {
		t.Errorf("Expected default price range with no valued items, got %+v", profile.PriceRange)
	}
	if profile.FavoriteSetName == "" {
		t.Error("Favorite set should still be derived from quantities")
	}
}

func TestAnalyzePreferredCategory(t *testing.T) {
	tests := []struct {
		name      string
		companies []string
		want      string
	}{
		{"all raw", []string{"raw", "raw", "raw"}, "raw"},
		{"exactly half graded", []string{"PSA", "raw"}, "raw"},
		{"majority graded", []string{"PSA", "BGS", "raw"}, "graded"},
		{"single graded item", []string{"CGC"}, "graded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []models.OwnedItem
			for i, company := range tt.companies {
				items = append(items, models.OwnedItem{
					Name:           "Card",
					SetName:        "Base Set",
					Quantity:       1 + i, // quantities must not affect the split
					PurchasePrice:  10,
					GradingCompany: company,
				})
			}

			profile := Analyze(items)
			if profile.PreferredCategory != tt.want {
				t.Errorf("Expected preferred category %q, got %q", tt.want, profile.PreferredCategory)
			}
		})
	}
}

func TestAnalyzeDoesNotMutateInput(t *testing.T) {
	items := []models.OwnedItem{
		{Name: "Pikachu", SetName: "Base Set", Quantity: 3, PurchasePrice: 10, MarketPrice: fp(20)},
	}

	Analyze(items)

	if items[0].Quantity != 3 || items[0].PurchasePrice != 10 || *items[0].MarketPrice != 20 {
		t.Error("Analyze must not mutate its input")
	}
}
