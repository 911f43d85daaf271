package repository

import (
	"errors"

	"studydeck/internal/models"

	"gorm.io/gorm"
)

// notFound maps gorm's record-not-found to the application NotFound
// error so handlers never leak a driver error for a missing row.
func notFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
