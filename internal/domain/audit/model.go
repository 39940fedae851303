package audit

import "time"

// Действия, фиксируемые в аудит-следе конфликта. Поле свободно-текстовое,
// но движок пишет только эти глаголы.
const (
	ActionDetected         = "Detected"
	ActionAutoResolved     = "AutoResolved"
	ActionManuallyResolved = "ManuallyResolved"
	ActionBulkResolved     = "BulkResolved"
	ActionIgnored          = "Ignored"
)

// Entry — неизменяемая запись аудита: одна на каждый переход статуса
// конфликта. Записи только добавляются; исчезают они лишь вместе с самим
// конфликтом при purge.
type Entry struct {
	ID         int64     `json:"id"`
	ConflictID int64     `json:"conflict_id"`
	Action     string    `json:"action"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status"`
	UserID     *int64    `json:"user_id,omitempty"` // nil — системное действие
	Timestamp  time.Time `json:"timestamp"`
	Details    *string   `json:"details,omitempty"`
}
