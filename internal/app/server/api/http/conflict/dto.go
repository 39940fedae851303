package conflict

import (
	"time"

	"storesync/internal/domain/conflict"
)

type listInput struct {
	Status      string `query:"status" enum:"pending,resolved,ignored,"`
	EntityType  string `query:"entity_type"`
	SyncBatchID string `query:"sync_batch_id"`
	Limit       int    `query:"limit" minimum:"0" maximum:"1000" default:"100"`
	Offset      int    `query:"offset" minimum:"0" default:"0"`
}

type listOutput struct {
	Body conflict.ListConflictsResponse
}

type getInput struct {
	ID int64 `path:"id"`
}

type getOutput struct {
	Body conflict.GetConflictResponse
}

type resolveInput struct {
	ID int64 `path:"id"`
}

type resolveOutput struct {
	Body conflict.ResolveResponse
}

type manualResolveInput struct {
	ID   int64 `path:"id"`
	Body ManualResolveRequest
}

// ManualResolveRequest — решение оператора: итоговая запись и опциональная
// пометка, чем она является.
type ManualResolveRequest struct {
	ResolvedSnapshot conflict.Snapshot `json:"resolved_snapshot" minProperties:"1"`
	ResolutionType   string            `json:"resolution_type,omitempty" enum:"local_wins,remote_wins,last_write_wins,merge,manual,"`
	Notes            string            `json:"notes,omitempty" maxLength:"1024"`
}

type ignoreInput struct {
	ID   int64 `path:"id"`
	Body IgnoreRequest
}

type IgnoreRequest struct {
	Notes string `json:"notes,omitempty" maxLength:"1024"`
}

type bulkResolveInput struct {
	Body BulkResolveRequest
}

type BulkResolveRequest struct {
	ConflictIDs    []int64 `json:"conflict_ids" minItems:"1"`
	ResolutionType string  `json:"resolution_type" enum:"local_wins,remote_wins,last_write_wins,merge"`
	Notes          string  `json:"notes,omitempty" maxLength:"1024"`
}

type bulkResolveOutput struct {
	Body conflict.CountResponse
}

type autoResolveInput struct{}

type autoResolveOutput struct {
	Body conflict.CountResponse
}

type purgeInput struct {
	Body PurgeRequest
}

// PurgeRequest — граница очистки: терминальные конфликты, разрешенные
// строго раньше указанного момента, удаляются вместе с аудит-следом.
type PurgeRequest struct {
	OlderThan time.Time `json:"older_than" format:"date-time"`
}

type purgeOutput struct {
	Body conflict.CountResponse
}

type statsInput struct{}

type statsOutput struct {
	Body conflict.StatsResponse
}

type trailInput struct {
	ID int64 `path:"id"`
}

type trailOutput struct {
	Body conflict.TrailResponse
}
