package rule

import "time"

// EntityType — зарегистрированный тип бизнес-сущности ("Product", "Receipt", ...).
type EntityType string

// ResolutionType — политика разрешения конфликта.
type ResolutionType string

const (
	TypeLocalWins     ResolutionType = "local_wins"
	TypeRemoteWins    ResolutionType = "remote_wins"
	TypeLastWriteWins ResolutionType = "last_write_wins"
	TypeMerge         ResolutionType = "merge"
	TypeManual        ResolutionType = "manual"
)

// DefaultType — глобальная политика по умолчанию, когда для сущности
// не настроено ни одного правила.
const DefaultType = TypeLastWriteWins

// Valid сообщает, является ли значение известной политикой.
func (t ResolutionType) Valid() bool {
	switch t {
	case TypeLocalWins, TypeRemoteWins, TypeLastWriteWins, TypeMerge, TypeManual:
		return true
	}
	return false
}

// Key — типизированный ключ правила. Пустое Property означает правило
// по умолчанию для всего типа сущности.
type Key struct {
	EntityType EntityType
	Property   string
}

// Rule — настроенная политика разрешения для типа сущности,
// опционально суженная до одного поля.
type Rule struct {
	EntityType EntityType     `json:"entity_type"`
	Property   string         `json:"property,omitempty"`
	Type       ResolutionType `json:"type"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Key возвращает ключ, по которому правило хранится в Store.
func (r Rule) Key() Key {
	return Key{EntityType: r.EntityType, Property: r.Property}
}
