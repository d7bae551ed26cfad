package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
// GORM surfaces gorm.ErrDuplicatedKey for drivers that translate errors;
// the string check covers Postgres error text when translation is off.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
