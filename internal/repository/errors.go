package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey recognises unique index violations from every supported SQL driver.
// TranslateError covers most cases; the string checks catch drivers or mocks
// that bypass the translator.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
