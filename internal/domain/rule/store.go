package rule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Store — таблица правил разрешения конфликтов с поиском по специфичности:
// правило на конкретное поле перекрывает правило типа сущности, которое в свою
// очередь перекрывает глобальную политику по умолчанию.
//
// Чтение лишь берет RLock, так что параллельные разрешения не конкурируют
// между собой. Мутации видны всем последующим поискам сразу; уже начатое
// разрешение продолжает работать с тем набором правил, который оно прочитало.
type Store struct {
	mu    sync.RWMutex
	rules map[Key]Rule
	repo  Repository
	log   *slog.Logger
}

// NewStore создает хранилище правил. repo может быть nil — тогда правила
// живут только в памяти (юнит-тесты, агент).
func NewStore(repo Repository, log *slog.Logger) *Store {
	return &Store{
		rules: make(map[Key]Rule),
		repo:  repo,
		log:   log.With(slog.String("component", "rule_store")),
	}
}

// Load подтягивает сохраненные правила из репозитория.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	rules, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = make(map[Key]Rule, len(rules))
	for _, r := range rules {
		s.rules[r.Key()] = r
	}

	s.log.Info("resolution rules loaded", slog.Int("count", len(rules)))
	return nil
}

// ApplicableRule возвращает действующее правило для пары (тип сущности, поле).
// Порядок поиска: правило поля → правило типа сущности → глобальное умолчание.
// Никогда не завершается неудачей.
func (s *Store) ApplicableRule(entityType EntityType, property string) Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if property != "" {
		if r, ok := s.rules[Key{EntityType: entityType, Property: property}]; ok {
			return r
		}
	}
	if r, ok := s.rules[Key{EntityType: entityType}]; ok {
		return r
	}
	return Rule{EntityType: entityType, Type: DefaultType}
}

// All возвращает все настроенные правила, отсортированные по ключу.
func (s *Store) All() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntityType != out[j].EntityType {
			return out[i].EntityType < out[j].EntityType
		}
		return out[i].Property < out[j].Property
	})
	return out
}

// AddOrUpdate добавляет правило либо заменяет существующее с тем же ключом.
func (s *Store) AddOrUpdate(ctx context.Context, r Rule) error {
	if r.EntityType == "" {
		return fmt.Errorf("%w: entity type is required", ErrInvalidRule)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown resolution type %q", ErrInvalidRule, r.Type)
	}
	r.UpdatedAt = time.Now()

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, r); err != nil {
			return fmt.Errorf("persist rule: %w", err)
		}
	}

	s.mu.Lock()
	s.rules[r.Key()] = r
	s.mu.Unlock()

	s.log.Debug("rule updated",
		slog.String("entity_type", string(r.EntityType)),
		slog.String("property", r.Property),
		slog.String("type", string(r.Type)))
	return nil
}

// Remove удаляет правило по ключу. Возвращает false, если правила не было.
func (s *Store) Remove(ctx context.Context, entityType EntityType, property string) (bool, error) {
	key := Key{EntityType: entityType, Property: property}

	if s.repo != nil {
		if _, err := s.repo.Delete(ctx, key); err != nil {
			return false, fmt.Errorf("delete rule: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[key]; !ok {
		return false, nil
	}
	delete(s.rules, key)
	return true, nil
}

// ResetToDefaults сбрасывает все настроенные правила; остаются только
// встроенные умолчания.
func (s *Store) ResetToDefaults(ctx context.Context) error {
	if s.repo != nil {
		if err := s.repo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("reset rules: %w", err)
		}
	}

	s.mu.Lock()
	s.rules = make(map[Key]Rule)
	s.mu.Unlock()

	s.log.Info("resolution rules reset to defaults")
	return nil
}
