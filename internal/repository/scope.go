package repository

import "gorm.io/gorm"

// Live restricts a query to non-deleted rows. Every default read goes
// through this predicate explicitly; there is no implicit soft-delete
// hook anywhere in the storage layer.
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Deleted restricts a query to the soft-deleted set.
func Deleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", true)
}
