// Package metrics provides Prometheus metrics for the Cardfolio backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio/internal/models"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Insights Metrics
	ProfileRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardfolio_profile_requests_total",
			Help: "Total number of collection profile computations requested",
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardfolio_recommendations_served_total",
			Help: "Recommendations served, by kind",
		},
		[]string{"kind"},
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardfolio_recommendation_cache_hits_total",
			Help: "Recommendation memo cache hit count",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardfolio_recommendation_cache_misses_total",
			Help: "Recommendation memo cache miss count",
		},
	)

	// Market Client Metrics
	MarketRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardfolio_market_requests_total",
			Help: "Total number of requests to the market valuation backend",
		},
	)

	MarketErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardfolio_market_errors_total",
			Help: "Market valuation backend errors by type",
		},
		[]string{"type"}, // "network", "status", "parse"
	)

	MarketCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardfolio_market_cache_hits_total",
			Help: "Market price cache hit count",
		},
	)

	// Price Worker Metrics
	PriceUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardfolio_price_updates_total",
			Help: "Total number of owned item prices updated",
		},
	)

	PriceBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardfolio_price_batch_duration_seconds",
			Help:    "Time taken to process a price refresh batch",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Collection Metrics
	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardfolio_collection_cards_total",
			Help: "Total number of cards in the collection",
		},
	)

	CollectionValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardfolio_collection_value_usd",
			Help: "Total estimated value of the collection in USD",
		},
	)

	CollectionCardsByGrading = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cardfolio_collection_cards_by_grading",
			Help: "Number of collection items by grading category",
		},
		[]string{"category"}, // "graded" or "raw"
	)

	// Snapshot Metrics
	SnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardfolio_value_snapshots_total",
			Help: "Total number of collection value snapshots recorded",
		},
	)
)

// UpdateCollectionMetrics refreshes the collection gauges from the database.
// Called by the price worker after each batch.
func UpdateCollectionMetrics(db *gorm.DB) {
	if db == nil {
		return
	}

	var totalCards int
	db.Model(&models.OwnedItem{}).Select("COALESCE(SUM(quantity), 0)").Scan(&totalCards)
	CollectionCardsTotal.Set(float64(totalCards))

	var totalValue float64
	db.Model(&models.OwnedItem{}).
		Select("COALESCE(SUM(COALESCE(NULLIF(market_price, 0), purchase_price) * quantity), 0)").
		Scan(&totalValue)
	CollectionValueUSD.Set(float64(totalValue))

	var graded, raw int64
	db.Model(&models.OwnedItem{}).Where("grading_company != ?", models.GradingRaw).Count(&graded)
	db.Model(&models.OwnedItem{}).Where("grading_company = ?", models.GradingRaw).Count(&raw)
	CollectionCardsByGrading.WithLabelValues("graded").Set(float64(graded))
	CollectionCardsByGrading.WithLabelValues(models.GradingRaw).Set(float64(raw))
}
