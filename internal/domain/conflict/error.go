package conflict

import "errors"

var (
	ErrNotFound = errors.New("conflict not found")

	// ErrAlreadyTerminal — попытка разрешить или проигнорировать конфликт,
	// уже покинувший статус pending. Не фатальна: вызывающему возвращается
	// сохраненный результат.
	ErrAlreadyTerminal = errors.New("conflict already in terminal status")

	// ErrBadSnapshot — снимок не декодируется. Ошибка локальна для одного
	// вызова detect/resolve.
	ErrBadSnapshot = errors.New("malformed snapshot")

	ErrInvalidResolution = errors.New("invalid resolution type")
)
