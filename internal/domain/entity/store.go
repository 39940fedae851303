package entity

import (
	"context"
	"errors"
	"time"

	"storesync/internal/domain/conflict"
	"storesync/internal/domain/rule"
)

var ErrNotFound = errors.New("entity not found")

// Store — каноническое хранилище бизнес-сущностей центральной системы.
// Движок конфликтов пишет сюда разрешенные записи; синк-endpoint читает
// отсюда удаленную сторону, когда магазин ее не прислал.
type Store interface {
	// Get возвращает текущую каноническую запись и время ее последнего
	// изменения. Отсутствие сущности — ErrNotFound.
	Get(ctx context.Context, entityType rule.EntityType, entityID string) (conflict.Snapshot, time.Time, error)

	// Replace целиком заменяет каноническую запись сущности.
	Replace(ctx context.Context, entityType rule.EntityType, entityID string, snapshot conflict.Snapshot) error
}
