package conflict

import (
	"fmt"

	"golang.org/x/exp/slog"

	"storesync/internal/domain/rule"
)

// Resolver вычисляет разрешенную запись конфликта по таблице правил.
// Чистое вычисление: ничего не пишет, статус конфликта не меняет.
type Resolver struct {
	rules *rule.Store
	log   *slog.Logger
}

func NewResolver(rules *rule.Store, log *slog.Logger) *Resolver {
	return &Resolver{
		rules: rules,
		log:   log.With(slog.String("component", "resolver")),
	}
}

// Outcome — вычисленный итог: либо готовый снимок с фактически
// примененной политикой, либо признак ручного вмешательства.
type Outcome struct {
	Snapshot       Snapshot
	Type           rule.ResolutionType
	ManualRequired bool
	ManualFields   []string
}

// Resolve вычисляет победившие значения для каждого конфликтующего поля.
// Неконфликтующие поля копируются из локального снимка (локальная система —
// базовая для полей, не тронутых удаленно). Если хотя бы одно поле требует
// ручного разрешения, возвращается Outcome с ManualRequired и пустым снимком.
func (r *Resolver) Resolve(c *Conflict) (Outcome, error) {
	resolved := c.LocalSnapshot.Clone()
	if resolved == nil {
		resolved = make(Snapshot)
	}

	var manualFields []string
	types := make(map[rule.ResolutionType]struct{})

	for _, field := range c.ConflictingFields {
		rl := r.rules.ApplicableRule(c.EntityType, field)
		if rl.Type == rule.TypeManual {
			manualFields = append(manualFields, field)
			continue
		}

		applied := r.applyField(resolved, c, field, rl.Type)
		types[applied] = struct{}{}
	}

	if len(manualFields) > 0 {
		r.log.Debug("manual resolution required",
			slog.Int64("conflict_id", c.ID),
			slog.Any("fields", manualFields))
		return Outcome{ManualRequired: true, ManualFields: manualFields}, nil
	}

	return Outcome{Snapshot: resolved, Type: dominantType(types)}, nil
}

// ResolveWith вычисляет итог с одной явно заданной политикой для всех
// конфликтующих полей (bulk-разрешение). Политика manual здесь не имеет
// смысла: массово отправить конфликты «в ручное» нельзя.
func (r *Resolver) ResolveWith(c *Conflict, rt rule.ResolutionType) (Outcome, error) {
	if !rt.Valid() || rt == rule.TypeManual {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidResolution, rt)
	}

	resolved := c.LocalSnapshot.Clone()
	if resolved == nil {
		resolved = make(Snapshot)
	}
	for _, field := range c.ConflictingFields {
		r.applyField(resolved, c, field, rt)
	}

	return Outcome{Snapshot: resolved, Type: rt}, nil
}

// applyField записывает в resolved победившее значение поля и возвращает
// политику, которая фактически сработала (merge для отдельного поля
// вырождается в last_write_wins).
func (r *Resolver) applyField(resolved Snapshot, c *Conflict, field string, rt rule.ResolutionType) rule.ResolutionType {
	switch rt {
	case rule.TypeLocalWins:
		setOrDelete(resolved, field, c.LocalSnapshot)
		return rule.TypeLocalWins
	case rule.TypeRemoteWins:
		setOrDelete(resolved, field, c.RemoteSnapshot)
		return rule.TypeRemoteWins
	case rule.TypeMerge:
		// Внутри merge конфликтующее поле решается по времени записи,
		// если нет более узкого правила (узкое правило сюда уже не попало бы).
		return r.applyLastWrite(resolved, c, field)
	default: // last_write_wins
		return r.applyLastWrite(resolved, c, field)
	}
}

// applyLastWrite берет значение из снимка с более поздней меткой времени.
// Равенство меток трактуется в пользу удаленной стороны.
func (r *Resolver) applyLastWrite(resolved Snapshot, c *Conflict, field string) rule.ResolutionType {
	if c.LocalTimestamp.After(c.RemoteTimestamp) {
		setOrDelete(resolved, field, c.LocalSnapshot)
	} else {
		setOrDelete(resolved, field, c.RemoteSnapshot)
	}
	return rule.TypeLastWriteWins
}

// setOrDelete переносит значение поля из снимка-победителя; отсутствие поля
// у победителя означает его удаление из итоговой записи.
func setOrDelete(resolved Snapshot, field string, winner Snapshot) {
	if v, ok := winner[field]; ok {
		resolved[field] = v
	} else {
		delete(resolved, field)
	}
}

// dominantType сводит набор фактически сработавших политик к одной записи:
// единственная политика записывается как есть, смесь политик — как merge.
func dominantType(types map[rule.ResolutionType]struct{}) rule.ResolutionType {
	if len(types) == 1 {
		for t := range types {
			return t
		}
	}
	if len(types) == 0 {
		return rule.DefaultType
	}
	return rule.TypeMerge
}
