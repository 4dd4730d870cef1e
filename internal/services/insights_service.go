package services

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio/internal/catalog"
	"github.com/cardfolio/cardfolio/internal/insights"
	"github.com/cardfolio/cardfolio/internal/metrics"
	"github.com/cardfolio/cardfolio/internal/models"
)

// memoCacheSize bounds the recommendation memo. Entries are tiny (a handful
// of recommendations each), so this mostly bounds churn between shuffles.
const memoCacheSize = 128

// InsightsService loads the inventory snapshot and reference catalog and runs
// the pure analyzer/recommender over them. Recommendation results are
// memoized on a fingerprint of the inputs, since the UI recomputes on every
// render.
type InsightsService struct {
	db      *gorm.DB
	catalog catalog.Repository
	memo    *lru.Cache[uint64, []models.Recommendation]
}

func NewInsightsService(db *gorm.DB, repo catalog.Repository) (*InsightsService, error) {
	memo, err := lru.New[uint64, []models.Recommendation](memoCacheSize)
	if err != nil {
		return nil, err
	}
	return &InsightsService{
		db:      db,
		catalog: repo,
		memo:    memo,
	}, nil
}

// Profile computes the collection profile for the current inventory.
func (s *InsightsService) Profile() (models.CollectionProfile, error) {
	items, err := s.loadInventory()
	if err != nil {
		return models.CollectionProfile{}, err
	}

	metrics.ProfileRequestsTotal.Inc()
	return insights.Analyze(items), nil
}

// Recommendations returns ranked acquisition suggestions. A non-zero seed
// reshuffles candidate ordering within each pass; the same seed always
// returns the same list.
func (s *InsightsService) Recommendations(maxResults int, seed uint64) ([]models.Recommendation, error) {
	items, err := s.loadInventory()
	if err != nil {
		return nil, err
	}

	cards, err := s.catalog.All()
	if err != nil {
		return nil, err
	}

	key := fingerprint(items, cards, maxResults, seed)
	if cached, ok := s.memo.Get(key); ok {
		metrics.RecommendationCacheHits.Inc()
		return cached, nil
	}
	metrics.RecommendationCacheMisses.Inc()

	recs := insights.RecommendShuffled(items, cards, maxResults, seed)
	s.memo.Add(key, recs)

	for _, rec := range recs {
		metrics.RecommendationsServed.WithLabelValues(string(rec.Kind)).Inc()
	}
	return recs, nil
}

func (s *InsightsService) loadInventory() ([]models.OwnedItem, error) {
	var items []models.OwnedItem
	if err := s.db.Order("added_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// fingerprint hashes everything the recommender's output depends on. A
// collision would serve a stale list for one render, which is acceptable for
// a memo cache.
func fingerprint(items []models.OwnedItem, cards []models.ReferenceCard, maxResults int, seed uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeF64 := func(v float64) {
		writeU64(math.Float64bits(v))
	}
	writeStr := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	writeU64(uint64(maxResults))
	writeU64(seed)

	writeU64(uint64(len(items)))
	for i := range items {
		writeStr(items[i].Name)
		writeStr(items[i].SetName)
		writeStr(items[i].GradingCompany)
		writeU64(uint64(items[i].Quantity))
		writeF64(items[i].PurchasePrice)
		if items[i].MarketPrice != nil {
			writeF64(*items[i].MarketPrice)
		} else {
			writeStr("-")
		}
	}

	writeU64(uint64(len(cards)))
	for i := range cards {
		writeStr(cards[i].Name)
		writeStr(cards[i].SetName)
		writeF64(cards[i].EstimatedPrice)
	}

	return h.Sum64()
}
