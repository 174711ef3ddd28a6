package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/contracts"
)

// translate maps gorm errors onto the contracts sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return contracts.ErrNotFound
	case isDuplicate(err):
		return contracts.ErrDuplicate
	case isDeadlock(err):
		return contracts.ErrContention
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Drivers without error translation.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isDeadlock(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout")
}
