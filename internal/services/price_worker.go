package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio/internal/metrics"
	"github.com/cardfolio/cardfolio/internal/models"
)

const (
	// defaultPriceBatchSize is the number of items to refresh per batch.
	defaultPriceBatchSize = 25

	// PriceStalenessThreshold is how old a market price can be before the
	// worker refreshes it.
	PriceStalenessThreshold = 24 * time.Hour
)

// PriceWorker periodically refreshes stale market prices on owned items from
// the valuation backend.
type PriceWorker struct {
	db             *gorm.DB
	market         *MarketClient
	batchSize      int
	updateInterval time.Duration
	mu             sync.RWMutex

	// Priority queue for user-requested refreshes
	urgentQueue []uint
	urgentMu    sync.Mutex

	itemsUpdatedToday int
	lastUpdateTime    time.Time
	lastStatsDay      time.Time
}

type PriceStatus struct {
	LastUpdateTime    time.Time `json:"last_update_time"`
	NextUpdateTime    time.Time `json:"next_update_time"`
	ItemsUpdatedToday int       `json:"items_updated_today"`
	BatchSize         int       `json:"batch_size"`
	QueueSize         int       `json:"queue_size"`
	MarketEnabled     bool      `json:"market_enabled"`
}

func NewPriceWorker(db *gorm.DB, market *MarketClient) *PriceWorker {
	return &PriceWorker{
		db:             db,
		market:         market,
		batchSize:      defaultPriceBatchSize,
		updateInterval: 15 * time.Minute,
	}
}

// QueueRefresh adds an item to the high-priority refresh queue and returns
// its 1-indexed position.
func (w *PriceWorker) QueueRefresh(itemID uint) int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	for i, id := range w.urgentQueue {
		if id == itemID {
			return i + 1
		}
	}
	w.urgentQueue = append(w.urgentQueue, itemID)
	log.Printf("Price worker: queued refresh for item %d (queue size: %d)", itemID, len(w.urgentQueue))
	return len(w.urgentQueue)
}

// GetQueueSize returns current urgent queue size
func (w *PriceWorker) GetQueueSize() int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()
	return len(w.urgentQueue)
}

// drainUrgent takes up to n item IDs off the urgent queue.
func (w *PriceWorker) drainUrgent(n int) []uint {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	if n > len(w.urgentQueue) {
		n = len(w.urgentQueue)
	}
	drained := make([]uint, n)
	copy(drained, w.urgentQueue[:n])
	w.urgentQueue = w.urgentQueue[n:]
	return drained
}

// resetDailyStatsIfNeeded resets itemsUpdatedToday at midnight
func (w *PriceWorker) resetDailyStatsIfNeeded() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if w.lastStatsDay.Before(today) {
		if !w.lastStatsDay.IsZero() {
			log.Printf("Price worker: daily stats reset (previous day: %d items updated)", w.itemsUpdatedToday)
		}
		w.itemsUpdatedToday = 0
		w.lastStatsDay = today
	}
}

// Start begins the background price refresh worker
func (w *PriceWorker) Start(ctx context.Context) {
	if !w.market.IsEnabled() {
		log.Println("Price worker disabled: no valuation backend configured")
		return
	}

	log.Printf("Price worker started: will refresh up to %d items every %v", w.batchSize, w.updateInterval)

	if updated, err := w.UpdateBatch(ctx); err != nil {
		log.Printf("Price worker: initial batch update failed: %v", err)
	} else {
		log.Printf("Price worker: initial batch updated %d items", updated)
	}

	ticker := time.NewTicker(w.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Price worker stopping...")
			return
		case <-ticker.C:
			if updated, err := w.UpdateBatch(ctx); err != nil {
				log.Printf("Price worker: batch update failed: %v", err)
			} else if updated > 0 {
				log.Printf("Price worker: batch updated %d items", updated)
			}
		}
	}
}

// UpdateBatch refreshes one batch of items: urgent refreshes first, then the
// stalest prices. Returns the number of items updated.
func (w *PriceWorker) UpdateBatch(ctx context.Context) (int, error) {
	start := time.Now()
	w.resetDailyStatsIfNeeded()

	var items []models.OwnedItem

	if urgent := w.drainUrgent(w.batchSize); len(urgent) > 0 {
		if err := w.db.Where("id IN ?", urgent).Find(&items).Error; err != nil {
			return 0, err
		}
	}

	if remaining := w.batchSize - len(items); remaining > 0 {
		cutoff := time.Now().Add(-PriceStalenessThreshold)
		var stale []models.OwnedItem
		err := w.db.
			Where("market_price_updated_at IS NULL OR market_price_updated_at < ?", cutoff).
			Order("market_price_updated_at ASC").
			Limit(remaining).
			Find(&stale).Error
		if err != nil {
			return 0, err
		}
		items = append(items, stale...)
	}

	updated := 0
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		if w.refreshItem(ctx, &items[i]) {
			updated++
		}
	}

	w.mu.Lock()
	w.itemsUpdatedToday += updated
	w.lastUpdateTime = time.Now()
	w.mu.Unlock()

	metrics.PriceUpdatesTotal.Add(float64(updated))
	metrics.PriceBatchDuration.Observe(time.Since(start).Seconds())
	metrics.UpdateCollectionMetrics(w.db)

	return updated, nil
}

// RefreshItem refreshes a single item immediately (manual trigger).
func (w *PriceWorker) RefreshItem(ctx context.Context, itemID uint) (*models.OwnedItem, error) {
	var item models.OwnedItem
	if err := w.db.First(&item, itemID).Error; err != nil {
		return nil, err
	}

	w.refreshItem(ctx, &item)
	return &item, nil
}

// refreshItem fetches and stores the market price for one item. A nil price
// from the backend still bumps the refresh timestamp so the item is not
// retried every batch.
func (w *PriceWorker) refreshItem(ctx context.Context, item *models.OwnedItem) bool {
	price, err := w.market.GetPrice(ctx, item.Name, item.SetName)
	if err != nil {
		log.Printf("Price worker: failed to fetch price for %q: %v", item.Name, err)
		return false
	}

	now := time.Now()
	item.MarketPriceUpdatedAt = &now
	if price != nil {
		item.MarketPrice = price
		item.PriceSource = "market"
	} else if item.PriceSource == "" {
		item.PriceSource = "pending"
	}

	if err := w.db.Save(item).Error; err != nil {
		log.Printf("Price worker: failed to save price for %q: %v", item.Name, err)
		return false
	}
	return price != nil
}

// GetStatus returns the worker's refresh state for the status endpoint.
func (w *PriceWorker) GetStatus() PriceStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var next time.Time
	if !w.lastUpdateTime.IsZero() {
		next = w.lastUpdateTime.Add(w.updateInterval)
	}

	return PriceStatus{
		LastUpdateTime:    w.lastUpdateTime,
		NextUpdateTime:    next,
		ItemsUpdatedToday: w.itemsUpdatedToday,
		BatchSize:         w.batchSize,
		QueueSize:         w.GetQueueSize(),
		MarketEnabled:     w.market.IsEnabled(),
	}
}
