package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := normalizeGradingCompany(db); err != nil {
		return err
	}
	if err := normalizeQuantities(db); err != nil {
		return err
	}
	return nil
}

// normalizeGradingCompany fills in the "raw" sentinel for items with a
// missing grading company. Safe to run multiple times.
func normalizeGradingCompany(db *gorm.DB) error {
	if !db.Migrator().HasTable("owned_items") {
		return nil
	}

	result := db.Exec(`UPDATE owned_items SET grading_company = 'raw' WHERE grading_company IS NULL OR grading_company = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized grading company on %d owned items", result.RowsAffected)
	}
	return nil
}

// normalizeQuantities repairs rows that predate quantity validation at the
// API layer. Quantity must be at least 1.
func normalizeQuantities(db *gorm.DB) error {
	if !db.Migrator().HasTable("owned_items") {
		return nil
	}

	result := db.Exec(`UPDATE owned_items SET quantity = 1 WHERE quantity IS NULL OR quantity < 1`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized quantity on %d owned items", result.RowsAffected)
	}
	return nil
}
