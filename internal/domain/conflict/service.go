package conflict

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"storesync/internal/domain/audit"
	"storesync/internal/utils/metrics"
)

// Servicer — интерфейс движка обнаружения и разрешения конфликтов.
type Servicer interface {
	// Detect сравнивает два снимка; при значимом расхождении создает
	// pending-конфликт, иначе возвращает (nil, nil).
	Detect(ctx context.Context, req DetectRequest) (*Conflict, error)

	GetByID(ctx context.Context, id int64) (*Conflict, error)
	List(ctx context.Context, f ListFilter) ([]*Conflict, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	Trail(ctx context.Context, conflictID int64) ([]audit.Entry, error)

	// Resolve вычисляет разрешение по правилам и применяет его ровно один раз.
	Resolve(ctx context.Context, c *Conflict, userID *int64) (*ResolveResult, error)
	ResolveByID(ctx context.Context, id int64, userID *int64) (*ResolveResult, error)

	// ManualResolve применяет выбранную оператором запись, минуя правила.
	ManualResolve(ctx context.Context, req ManualResolveRequest) (*ResolveResult, error)

	// Ignore переводит конфликт в ignored, не трогая каноническую сущность.
	Ignore(ctx context.Context, id int64, userID int64, notes *string) (*Conflict, error)

	AutoResolveAll(ctx context.Context) (int, error)
	BulkResolve(ctx context.Context, req BulkResolveRequest) (int, error)
	PurgeResolved(ctx context.Context, olderThan time.Time) (int, error)
}

// Service — реализация движка конфликтов.
type Service struct {
	repo     Repository
	resolver *Resolver
	audit    audit.Servicer
	metrics  *metrics.Engine
	log      *slog.Logger
}

func NewService(repo Repository, resolver *Resolver, auditSvc audit.Servicer, m *metrics.Engine, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		audit:    auditSvc,
		metrics:  m,
		log:      log.With(slog.String("component", "conflict_service")),
	}
}

// Detect сравнивает локальный и удаленный снимки одного экземпляра сущности.
// Пара без значимых различий конфликтом не становится и не сохраняется.
func (s *Service) Detect(ctx context.Context, req DetectRequest) (*Conflict, error) {
	if req.EntityType == "" || req.EntityID == "" {
		return nil, fmt.Errorf("%w: entity type and id are required", ErrBadSnapshot)
	}

	fields := ConflictingFields(req.LocalSnapshot, req.RemoteSnapshot)
	if len(fields) == 0 {
		return nil, nil
	}

	c := &Conflict{
		EntityType:        req.EntityType,
		EntityID:          req.EntityID,
		LocalSnapshot:     req.LocalSnapshot,
		RemoteSnapshot:    req.RemoteSnapshot,
		LocalTimestamp:    req.LocalTimestamp,
		RemoteTimestamp:   req.RemoteTimestamp,
		ConflictingFields: fields,
		Status:            StatusPending,
		SyncBatchID:       req.SyncBatchID,
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create conflict: %w", err)
	}

	s.metrics.IncDetected()
	s.log.Info("conflict detected",
		slog.Int64("conflict_id", created.ID),
		slog.String("entity_type", string(created.EntityType)),
		slog.String("entity_id", created.EntityID),
		slog.Int("fields", len(fields)))
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Conflict, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Conflict, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) Trail(ctx context.Context, conflictID int64) ([]audit.Entry, error) {
	return s.audit.Trail(ctx, conflictID)
}

// Resolve вычисляет разрешение по действующим правилам и фиксирует его.
// Повторный вызов для уже разрешенного конфликта — no-op: возвращается
// сохраненный результат, каноническое хранилище второй раз не трогается.
func (s *Service) Resolve(ctx context.Context, c *Conflict, userID *int64) (*ResolveResult, error) {
	if c.Status.Terminal() {
		return &ResolveResult{Conflict: c, AlreadyResolved: true}, nil
	}

	outcome, err := s.resolver.Resolve(c)
	if err != nil {
		return nil, err
	}
	if outcome.ManualRequired {
		return &ResolveResult{
			Conflict:       c,
			ManualRequired: true,
			ManualFields:   outcome.ManualFields,
		}, nil
	}

	res := Resolution{
		Snapshot:   outcome.Snapshot,
		Type:       outcome.Type,
		ResolvedBy: userID,
	}
	return s.apply(ctx, c.ID, res, audit.ActionAutoResolved)
}

func (s *Service) ResolveByID(ctx context.Context, id int64, userID *int64) (*ResolveResult, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, c, userID)
}
