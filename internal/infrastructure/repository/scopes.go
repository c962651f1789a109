package repository

import (
	"time"

	"gorm.io/gorm"
)

// POSScope restricts a query to one register. An empty id matches every register.
func POSScope(posID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if posID == "" {
			return db
		}
		return db.Where("pos_id = ?", posID)
	}
}

// CreatedBetween keeps rows created from the start of the start day up to the
// end of the end day. Either bound may be nil.
func CreatedBetween(start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where("created_at >= ?", truncateDay(*start))
		}
		if end != nil {
			db = db.Where("created_at < ?", truncateDay(*end).AddDate(0, 0, 1))
		}
		return db
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
