package controllers

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// applyUpdates writes the given columns to the row with this id, stamps
// updated_at and reloads the row into dest. It returns gorm.ErrRecordNotFound
// when no row matched.
func applyUpdates[T any](ctx context.Context, db *gorm.DB, dest *T, id string, changes map[string]interface{}) error {
	changes["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).Model(dest).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return db.WithContext(ctx).First(dest, "id = ?", id).Error
}

// deleteByID removes the row with this id. Missing rows are not an error.
func deleteByID[T any](ctx context.Context, db *gorm.DB, id string) error {
	var row T
	return db.WithContext(ctx).Where("id = ?", id).Delete(&row).Error
}
