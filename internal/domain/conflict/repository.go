package conflict

import (
	"context"
	"time"

	"storesync/internal/domain/rule"
)

// ListFilter — фильтры выборки конфликтов для дашбордов и батчей.
type ListFilter struct {
	Status      *Status
	EntityType  *rule.EntityType
	SyncBatchID *string
	Limit       int
	Offset      int
}

// Repository — долговременное хранилище конфликтов и их аудита.
//
// Все переходы статуса сериализуются по id конфликта: Resolve и Ignore
// выполняются в одной транзакции с блокировкой строки, переход проходит
// только пока конфликт все еще pending. Проигравшая конкурентная попытка
// получает ErrAlreadyTerminal вместе с сохраненной терминальной записью.
type Repository interface {
	// Create сохраняет новый pending-конфликт и атомарно с ним пишет
	// аудит-запись "Detected".
	Create(ctx context.Context, c *Conflict) (*Conflict, error)

	GetByID(ctx context.Context, id int64) (*Conflict, error)
	List(ctx context.Context, f ListFilter) ([]*Conflict, error)
	ListPending(ctx context.Context) ([]*Conflict, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// Resolve атомарно пишет разрешенную запись в каноническое хранилище
	// сущностей, переводит конфликт в resolved и добавляет аудит-запись
	// с указанным действием. Сбой канонической записи откатывает переход
	// целиком — конфликт остается pending.
	Resolve(ctx context.Context, id int64, res Resolution, action string) (*Conflict, error)

	// Ignore переводит конфликт в ignored, не трогая каноническую сущность.
	Ignore(ctx context.Context, id int64, userID int64, notes *string) (*Conflict, error)

	// PurgeTerminal физически удаляет терминальные конфликты, разрешенные
	// строго раньше olderThan, вместе с их аудитом. Pending не трогает.
	PurgeTerminal(ctx context.Context, olderThan time.Time) (int, error)
}
