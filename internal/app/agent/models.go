package agent

import "time"

// OutboxRecord — снимок сущности, зафиксированный на кассе и ожидающий
// отправки в центральную систему.
type OutboxRecord struct {
	ID         int64
	EntityType string
	EntityID   string
	Snapshot   map[string]any
	CapturedAt time.Time
	Pushed     bool
}

// PushResult — итог отправки одного синк-батча.
type PushResult struct {
	BatchID   string
	Pushed    int
	Detected  int
	InSync    int
	Failed    int
	Conflicts []int64
	Errors    []string
}
