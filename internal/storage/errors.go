// Package storage описывает ошибки слоя хранения, общие для всех репозиториев.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("storage: not found")
	// ErrAlreadyExists нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("storage: already exists")
	// ErrConflict запись находится в состоянии, не допускающем операцию.
	ErrConflict = errors.New("storage: conflict")
)
