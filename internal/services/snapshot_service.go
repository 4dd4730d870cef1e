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

// SnapshotService records daily collection value snapshots
type SnapshotService struct {
	db            *gorm.DB
	mu            sync.RWMutex
	lastSnapshot  time.Time
	snapshotHour  int // Hour of day to take snapshot (0-23)
	checkInterval time.Duration
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(db *gorm.DB) *SnapshotService {
	return &SnapshotService{
		db:            db,
		snapshotHour:  23, // Default: 11 PM
		checkInterval: 15 * time.Minute,
	}
}

// Start begins the background snapshot worker
func (s *SnapshotService) Start(ctx context.Context) {
	log.Println("Snapshot service started: will record daily collection value")

	// Check if we need to take a snapshot for today on startup
	s.checkAndSnapshot()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot service stopping...")
			return
		case <-ticker.C:
			s.checkAndSnapshot()
		}
	}
}

// checkAndSnapshot checks if a snapshot is needed and takes one
func (s *SnapshotService) checkAndSnapshot() {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.hasSnapshotForDate(today) {
		return
	}

	// Only take automatic snapshots at or after the configured hour
	if now.Hour() >= s.snapshotHour {
		if err := s.TakeSnapshot(); err != nil {
			log.Printf("Snapshot service: failed to take snapshot: %v", err)
		}
	}
}

// hasSnapshotForDate checks if a snapshot exists for the given date
func (s *SnapshotService) hasSnapshotForDate(date time.Time) bool {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var count int64
	s.db.Model(&models.CollectionValueSnapshot{}).
		Where("snapshot_date >= ? AND snapshot_date < ?", startOfDay, endOfDay).
		Count(&count)

	return count > 0
}

// TakeSnapshot records the current collection value
func (s *SnapshotService) TakeSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	snapshotDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := CalculateStats(s.db)

	snapshot := models.CollectionValueSnapshot{
		SnapshotDate: snapshotDate,
		TotalCards:   stats.TotalCards,
		UniqueCards:  stats.UniqueCards,
		TotalValue:   stats.TotalValue,
		TotalCost:    stats.TotalCost,
		GradedCards:  stats.GradedCards,
		RawCards:     stats.RawCards,
		CreatedAt:    now,
	}

	// Use upsert to handle duplicate dates
	result := s.db.Where("DATE(snapshot_date) = DATE(?)", snapshotDate).
		Assign(models.CollectionValueSnapshot{
			TotalCards:  snapshot.TotalCards,
			UniqueCards: snapshot.UniqueCards,
			TotalValue:  snapshot.TotalValue,
			TotalCost:   snapshot.TotalCost,
			GradedCards: snapshot.GradedCards,
			RawCards:    snapshot.RawCards,
		}).
		FirstOrCreate(&snapshot)

	if result.Error != nil {
		return result.Error
	}

	s.lastSnapshot = now
	metrics.SnapshotsTotal.Inc()
	log.Printf("Snapshot service: recorded value snapshot for %s (total: $%.2f, cards: %d)",
		snapshotDate.Format("2006-01-02"), stats.TotalValue, stats.TotalCards)

	return nil
}

// CalculateStats computes current collection statistics. Valuation prefers a
// non-zero market price over purchase price, matching the analyzer.
func CalculateStats(db *gorm.DB) models.CollectionStats {
	var stats models.CollectionStats

	db.Model(&models.OwnedItem{}).Select("COALESCE(SUM(quantity), 0)").Scan(&stats.TotalCards)

	var uniqueCount int64
	db.Model(&models.OwnedItem{}).Distinct("LOWER(name)").Count(&uniqueCount)
	stats.UniqueCards = int(uniqueCount)

	var setCount int64
	db.Model(&models.OwnedItem{}).Distinct("set_name").Count(&setCount)
	stats.UniqueSets = int(setCount)

	db.Model(&models.OwnedItem{}).
		Select("COALESCE(SUM(COALESCE(NULLIF(market_price, 0), purchase_price) * quantity), 0)").
		Scan(&stats.TotalValue)

	db.Model(&models.OwnedItem{}).
		Select("COALESCE(SUM(purchase_price * quantity), 0)").
		Scan(&stats.TotalCost)

	var graded int64
	db.Model(&models.OwnedItem{}).Where("grading_company != ?", models.GradingRaw).Count(&graded)
	stats.GradedCards = int(graded)

	var raw int64
	db.Model(&models.OwnedItem{}).Where("grading_company = ?", models.GradingRaw).Count(&raw)
	stats.RawCards = int(raw)

	return stats
}

// GetHistory retrieves value snapshots for a given period
func (s *SnapshotService) GetHistory(period string) ([]models.CollectionValueSnapshot, error) {
	var snapshots []models.CollectionValueSnapshot

	now := time.Now()
	var startDate time.Time

	switch period {
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "3month":
		startDate = now.AddDate(0, -3, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
		startDate = time.Time{} // No filter
	default:
		startDate = now.AddDate(0, -1, 0) // Default to 1 month
	}

	query := s.db.Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startDate)
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetLastSnapshot returns the most recent snapshot
func (s *SnapshotService) GetLastSnapshot() *models.CollectionValueSnapshot {
	var snapshot models.CollectionValueSnapshot

	if err := s.db.Order("snapshot_date DESC").First(&snapshot).Error; err != nil {
		return nil
	}

	return &snapshot
}

// ForceTakeSnapshot takes a snapshot regardless of timing (for manual triggers)
func (s *SnapshotService) ForceTakeSnapshot() error {
	return s.TakeSnapshot()
}
