package insights

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/cardfolio/cardfolio/internal/models"
)

// DefaultMaxResults is used when a caller passes maxResults <= 0.
const DefaultMaxResults = 6

// UndervaluedThreshold is the price ceiling for the undervalued pass.
const UndervaluedThreshold = 100.0

// maxPerPass caps how many candidates each recommendation pass contributes.
const maxPerPass = 2

// Budget-friendly pass bounds relative to the collection's average price.
const (
	budgetLowerFactor = 0.3
	budgetUpperFactor = 1.5
)

// Fixed confidence score and priority rank per recommendation kind. These are
// deliberately constants rather than computed scores.
var kindConfidence = map[models.RecommendationKind]int{
	models.RecommendationSetCompletion:  85,
	models.RecommendationBudgetFriendly: 75,
	models.RecommendationTrending:       70,
	models.RecommendationUndervalued:    65,
}

var kindPriority = map[models.RecommendationKind]int{
	models.RecommendationSetCompletion:  5,
	models.RecommendationTrending:       4,
	models.RecommendationBudgetFriendly: 3,
	models.RecommendationUndervalued:    2,
}

// Recommend produces a ranked list of suggested cards to acquire. Candidates
// are generated in four rule-based passes over the catalog (set completion,
// budget friendly, trending, undervalued), each contributing at most two
// cards, then sorted by descending priority rank (stable, so ties keep
// generation order) and truncated to maxResults.
//
// A card whose name case-insensitively matches an owned item is never
// recommended. The function is deterministic: identical inputs yield
// identical output, order included.
func Recommend(items []models.OwnedItem, catalog []models.ReferenceCard, maxResults int) []models.Recommendation {
	return RecommendShuffled(items, catalog, maxResults, 0)
}

// RecommendShuffled is Recommend with a caller-injected tiebreak key. A
// non-zero seed deterministically permutes the candidate scan order within
// each pass, which is how the UI's "shuffle" action is realized without the
// recommender holding random state: same seed, same output. Seed 0 scans in
// catalog order.
func RecommendShuffled(items []models.OwnedItem, catalog []models.ReferenceCard, maxResults int, seed uint64) []models.Recommendation {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	profile := Analyze(items)

	owned := make(map[string]struct{}, len(items))
	for i := range items {
		owned[strings.ToLower(items[i].Name)] = struct{}{}
	}

	scan := scanOrder(catalog, seed)

	var recs []models.Recommendation

	// Set completion: cards from the collector's favorite set.
	if profile.FavoriteSetName != "" {
		recs = appendPass(recs, scan, owned, models.RecommendationSetCompletion, func(card *models.ReferenceCard) bool {
			return card.SetName == profile.FavoriteSetName
		})
	}

	// Budget friendly: priced near the collection's average.
	lower := budgetLowerFactor * profile.AveragePrice
	upper := budgetUpperFactor * profile.AveragePrice
	recs = appendPass(recs, scan, owned, models.RecommendationBudgetFriendly, func(card *models.ReferenceCard) bool {
		return card.EstimatedPrice >= lower && card.EstimatedPrice <= upper
	})

	// Trending: first unexcluded cards in scan order. Placeholder until a
	// real trending signal (search volume, price velocity) is wired in.
	recs = appendPass(recs, scan, owned, models.RecommendationTrending, func(card *models.ReferenceCard) bool {
		return true
	})

	// Undervalued: priced under a fixed threshold.
	recs = appendPass(recs, scan, owned, models.RecommendationUndervalued, func(card *models.ReferenceCard) bool {
		return card.EstimatedPrice < UndervaluedThreshold
	})

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].PriorityRank > recs[j].PriorityRank
	})

	if len(recs) > maxResults {
		recs = recs[:maxResults]
	}
	return recs
}

// appendPass scans the catalog in the given order and appends up to
// maxPerPass matching, not-owned cards tagged with the pass's kind.
func appendPass(recs []models.Recommendation, scan []models.ReferenceCard, owned map[string]struct{}, kind models.RecommendationKind, match func(*models.ReferenceCard) bool) []models.Recommendation {
	added := 0
	for i := range scan {
		if added >= maxPerPass {
			break
		}
		card := &scan[i]
		if _, has := owned[strings.ToLower(card.Name)]; has {
			continue
		}
		if !match(card) {
			continue
		}
		recs = append(recs, models.Recommendation{
			Kind:            kind,
			Card:            *card,
			ConfidenceScore: kindConfidence[kind],
			PriorityRank:    kindPriority[kind],
		})
		added++
	}
	return recs
}

// scanOrder returns the catalog in its natural order for seed 0, or a
// deterministic permutation keyed on the seed otherwise.
func scanOrder(catalog []models.ReferenceCard, seed uint64) []models.ReferenceCard {
	if seed == 0 {
		return catalog
	}

	scan := make([]models.ReferenceCard, len(catalog))
	copy(scan, catalog)
	sort.SliceStable(scan, func(i, j int) bool {
		return shuffleRank(seed, scan[i].Name) < shuffleRank(seed, scan[j].Name)
	})
	return scan
}

// shuffleRank hashes a seed/name pair into a sort key for shuffled scans.
func shuffleRank(seed uint64, name string) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	h.Write(buf[:])
	h.Write([]byte(strings.ToLower(name)))
	return h.Sum64()
}
