package conflict

import (
	"time"

	"storesync/internal/domain/rule"
)

// Status — статус жизненного цикла конфликта. Жизненный цикл монотонный:
// из pending конфликт переходит в resolved или ignored и обратно не возвращается.
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusIgnored  Status = "ignored"
)

// Terminal сообщает, достиг ли конфликт терминального статуса.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusIgnored
}

// Conflict — зафиксированное расхождение между локальным (магазин) и
// удаленным (центральная система) снимками одного экземпляра сущности.
type Conflict struct {
	ID                int64               `json:"id"`
	EntityType        rule.EntityType     `json:"entity_type"`
	EntityID          string              `json:"entity_id"`
	LocalSnapshot     Snapshot            `json:"local_snapshot"`
	RemoteSnapshot    Snapshot            `json:"remote_snapshot"`
	LocalTimestamp    time.Time           `json:"local_timestamp"`
	RemoteTimestamp   time.Time           `json:"remote_timestamp"`
	ConflictingFields []string            `json:"conflicting_fields"`
	Status            Status              `json:"status"`
	ResolutionType    *rule.ResolutionType `json:"resolution_type,omitempty"`
	ResolvedSnapshot  Snapshot            `json:"resolved_snapshot,omitempty"`
	ResolvedBy        *int64              `json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time          `json:"resolved_at,omitempty"`
	Notes             *string             `json:"notes,omitempty"`
	SyncBatchID       *string             `json:"sync_batch_id,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// Resolution — вычисленный или выбранный оператором итог разрешения,
// применяемый к конфликту ровно один раз.
type Resolution struct {
	Snapshot   Snapshot
	Type       rule.ResolutionType
	ResolvedBy *int64
	Notes      *string
}

// ResolveResult — итог попытки разрешения конфликта.
type ResolveResult struct {
	Conflict *Conflict
	// ManualRequired: правила требуют ручного вмешательства, статус остался pending.
	ManualRequired bool
	// ManualFields — поля, для которых действует политика manual.
	ManualFields []string
	// AlreadyResolved: конфликт был терминальным до вызова; возвращен
	// сохраненный результат, каноническое хранилище не трогалось.
	AlreadyResolved bool
}
