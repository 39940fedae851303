package conflict

import (
	"time"

	"storesync/internal/domain/audit"
	"storesync/internal/domain/rule"
)

// DTO для API движка конфликтов.

// DetectRequest — пара снимков одного экземпляра сущности от синк-транспорта.
type DetectRequest struct {
	EntityType      rule.EntityType
	EntityID        string
	LocalSnapshot   Snapshot
	RemoteSnapshot  Snapshot
	LocalTimestamp  time.Time
	RemoteTimestamp time.Time
	SyncBatchID     *string
}

// ManualResolveRequest — явное разрешение от оператора, минуя правила.
type ManualResolveRequest struct {
	ConflictID       int64
	ResolvedSnapshot Snapshot
	ResolutionType   rule.ResolutionType
	UserID           int64
	Notes            *string
}

// BulkResolveRequest — массовое разрешение одной политикой.
type BulkResolveRequest struct {
	ConflictIDs    []int64
	ResolutionType rule.ResolutionType
	UserID         int64
	Notes          *string
}

// DetectItem — один элемент входящего синк-батча. Отсутствующий удаленный
// снимок дополняется канонической записью на стороне сервера.
type DetectItem struct {
	EntityType      string     `json:"entity_type" minLength:"1" example:"Product"`
	EntityID        string     `json:"entity_id" minLength:"1" example:"sku-1042"`
	LocalSnapshot   Snapshot   `json:"local_snapshot"`
	RemoteSnapshot  Snapshot   `json:"remote_snapshot,omitempty"`
	LocalTimestamp  time.Time  `json:"local_timestamp" format:"date-time"`
	RemoteTimestamp *time.Time `json:"remote_timestamp,omitempty" format:"date-time"`
}

// DetectBatchRequest — батч пар снимков от одного синк-прохода магазина.
type DetectBatchRequest struct {
	SyncBatchID string       `json:"sync_batch_id,omitempty" example:"5f0c0f9e-7d39-4b52-9a34-6f1fb02a7c11"`
	Items       []DetectItem `json:"items" minItems:"1"`
}

// DetectBatchResponse — итог обработки синк-батча.
type DetectBatchResponse struct {
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	Conflicts  []int64 `json:"conflicts,omitempty"`
	Detected   int     `json:"detected"`
	InSync     int     `json:"in_sync"`
	Failed     int     `json:"failed,omitempty"`
	FailErrors []string `json:"fail_errors,omitempty"`
}

// GetConflictResponse — один конфликт.
type GetConflictResponse struct {
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
	Data   *Conflict `json:"data,omitempty"`
}

// ListConflictsResponse — выборка конфликтов для дашборда.
type ListConflictsResponse struct {
	Status string     `json:"status"`
	Error  string     `json:"error,omitempty"`
	Data   []Conflict `json:"data,omitempty"`
}

// ResolveResponse — итог попытки разрешения.
type ResolveResponse struct {
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	Message         string    `json:"message,omitempty"`
	ManualRequired  bool      `json:"manual_required,omitempty"`
	ManualFields    []string  `json:"manual_fields,omitempty"`
	AlreadyResolved bool      `json:"already_resolved,omitempty"`
	Data            *Conflict `json:"data,omitempty"`
}

// CountResponse — итог батч-операции (auto-resolve, bulk, purge).
type CountResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Count  int    `json:"count"`
}

// StatsResponse — агрегат по статусам для дашбордов.
type StatsResponse struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Data   map[Status]int `json:"data,omitempty"`
}

// TrailResponse — аудит-след конфликта в хронологическом порядке.
type TrailResponse struct {
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
	Data   []audit.Entry `json:"data,omitempty"`
}
