package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err represents a missing row, so services
// can translate it into their own not-found taxonomy.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
