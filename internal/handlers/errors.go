package handlers

import (
	"errors"

	"gorm.io/gorm"
)

// gorm's TranslateError may hand back wrapped driver errors, so sentinel
// checks go through errors.Is.

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
