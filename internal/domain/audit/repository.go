package audit

import "context"

// Repository — insert-only хранилище аудит-записей. Записи переходов,
// совмещенных с мутацией конфликта, вставляет репозиторий конфликтов в
// своей транзакции; этот интерфейс покрывает чтение следа и одиночные
// записи вне транзакций.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	Trail(ctx context.Context, conflictID int64) ([]Entry, error)
}
