// Package catalog provides access to the reference catalog of cards eligible
// for recommendation. The catalog is an injected dependency so the analyzer
// and recommender never touch a concrete data source directly.
package catalog

import (
	"strings"

	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio/internal/models"
)

// Repository is the read interface over the reference catalog.
type Repository interface {
	// All returns every catalog entry in stable catalog order.
	All() ([]models.ReferenceCard, error)

	// Search returns entries whose name or set name contains the query
	// (case-insensitive).
	Search(query string) ([]models.ReferenceCard, error)
}

// GormRepository serves the catalog from the database.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) All() ([]models.ReferenceCard, error) {
	var cards []models.ReferenceCard
	if err := r.db.Order("created_at ASC, id ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *GormRepository) Search(query string) ([]models.ReferenceCard, error) {
	var cards []models.ReferenceCard
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.
		Where("LOWER(name) LIKE ? OR LOWER(set_name) LIKE ?", pattern, pattern).
		Order("created_at ASC, id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// StaticRepository serves the catalog from an in-memory slice. Used in tests
// and as a fallback when no database-backed catalog exists yet.
type StaticRepository struct {
	cards []models.ReferenceCard
}

func NewStaticRepository(cards []models.ReferenceCard) *StaticRepository {
	return &StaticRepository{cards: cards}
}

func (r *StaticRepository) All() ([]models.ReferenceCard, error) {
	out := make([]models.ReferenceCard, len(r.cards))
	copy(out, r.cards)
	return out, nil
}

func (r *StaticRepository) Search(query string) ([]models.ReferenceCard, error) {
	q := strings.ToLower(query)
	var out []models.ReferenceCard
	for _, card := range r.cards {
		if strings.Contains(strings.ToLower(card.Name), q) ||
			strings.Contains(strings.ToLower(card.SetName), q) {
			out = append(out, card)
		}
	}
	return out, nil
}
