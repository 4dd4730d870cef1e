package catalog

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio/internal/models"
)

// seedEntry is the compact form of a reference card used for the built-in
// catalog. IDs are assigned at seed time.
type seedEntry struct {
	name     string
	setName  string
	number   string
	price    float64
	category string
}

// Built-in reference catalog. Stands in for a live market catalog until one
// is wired up; the repository interface keeps that swap local to main.
var seedEntries = []seedEntry{
	{"Charizard", "Base Set", "4/102", 350, "holo"},
	{"Blastoise", "Base Set", "2/102", 180, "holo"},
	{"Venusaur", "Base Set", "15/102", 150, "holo"},
	{"Alakazam", "Base Set", "1/102", 75, "holo"},
	{"Chansey", "Base Set", "3/102", 60, "holo"},
	{"Gyarados", "Base Set", "6/102", 55, "holo"},
	{"Raichu", "Base Set", "14/102", 65, "holo"},
	{"Mewtwo", "Base Set", "10/102", 70, "holo"},
	{"Nidoking", "Base Set", "11/102", 45, "holo"},
	{"Pikachu", "Base Set", "58/102", 25, "common"},
	{"Snorlax", "Jungle", "11/64", 40, "holo"},
	{"Scyther", "Jungle", "10/64", 25, "holo"},
	{"Vaporeon", "Jungle", "12/64", 35, "holo"},
	{"Flareon", "Jungle", "3/64", 30, "holo"},
	{"Jolteon", "Jungle", "4/64", 32, "holo"},
	{"Kangaskhan", "Jungle", "5/64", 22, "holo"},
	{"Eevee", "Jungle", "51/64", 12, "common"},
	{"Articuno", "Fossil", "2/62", 48, "holo"},
	{"Zapdos", "Fossil", "15/62", 42, "holo"},
	{"Moltres", "Fossil", "12/62", 38, "holo"},
	{"Dragonite", "Fossil", "4/62", 85, "holo"},
	{"Gengar", "Fossil", "5/62", 68, "holo"},
	{"Lapras", "Fossil", "10/62", 28, "holo"},
	{"Dark Charizard", "Team Rocket", "4/82", 120, "holo"},
	{"Dark Blastoise", "Team Rocket", "3/82", 58, "holo"},
	{"Dark Raichu", "Team Rocket", "83/82", 95, "secret"},
	{"Dratini", "Team Rocket", "25/82", 8, "common"},
	{"Lugia", "Neo Genesis", "9/111", 140, "holo"},
	{"Typhlosion", "Neo Genesis", "17/111", 90, "holo"},
	{"Feraligatr", "Neo Genesis", "4/111", 62, "holo"},
}

// SeedCards returns the built-in catalog as reference cards with fresh IDs.
// Creation timestamps are staggered so the curated order survives the
// repository's created_at ordering.
func SeedCards() []models.ReferenceCard {
	base := time.Now()
	cards := make([]models.ReferenceCard, 0, len(seedEntries))
	for i, e := range seedEntries {
		cards = append(cards, models.ReferenceCard{
			ID:             uuid.NewString(),
			Name:           e.name,
			SetName:        e.setName,
			CardNumber:     e.number,
			EstimatedPrice: e.price,
			Category:       e.category,
			CreatedAt:      base.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return cards
}

// Seed populates the reference_cards table if it is empty. Safe to run on
// every startup.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ReferenceCard{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cards := SeedCards()
	if err := db.Create(&cards).Error; err != nil {
		return err
	}

	log.Printf("Seeded reference catalog with %d cards", len(cards))
	return nil
}
