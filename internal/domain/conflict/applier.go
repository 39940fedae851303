package conflict

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"storesync/internal/domain/audit"
	"storesync/internal/domain/rule"
)

// apply фиксирует разрешение: каноническая запись и переход статуса
// выполняются репозиторием в одной транзакции. Проигравшая конкурентная
// попытка получает результат победителя, а не ошибку.
func (s *Service) apply(ctx context.Context, id int64, res Resolution, action string) (*ResolveResult, error) {
	resolved, err := s.repo.Resolve(ctx, id, res, action)
	if err != nil {
		if errors.Is(err, ErrAlreadyTerminal) && resolved != nil {
			return &ResolveResult{Conflict: resolved, AlreadyResolved: true}, nil
		}
		return nil, fmt.Errorf("apply resolution: %w", err)
	}

	s.metrics.IncResolved(string(res.Type))
	s.log.Info("conflict resolved",
		slog.Int64("conflict_id", id),
		slog.String("resolution_type", string(res.Type)),
		slog.String("action", action))
	return &ResolveResult{Conflict: resolved}, nil
}

// ManualResolve применяет явно выбранную оператором запись, минуя таблицу
// правил. Контракт применения тот же: ровно один переход, ровно одна
// каноническая запись.
func (s *Service) ManualResolve(ctx context.Context, req ManualResolveRequest) (*ResolveResult, error) {
	if req.ResolvedSnapshot == nil {
		return nil, fmt.Errorf("%w: resolved snapshot is required", ErrInvalidResolution)
	}

	rt := req.ResolutionType
	if rt == "" {
		rt = rule.TypeManual
	}
	if !rt.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResolution, rt)
	}

	res := Resolution{
		Snapshot:   req.ResolvedSnapshot,
		Type:       rt,
		ResolvedBy: &req.UserID,
		Notes:      req.Notes,
	}
	return s.apply(ctx, req.ConflictID, res, audit.ActionManuallyResolved)
}

// Ignore переводит конфликт в ignored: расхождение признано несущественным,
// каноническая сущность не изменяется.
func (s *Service) Ignore(ctx context.Context, id int64, userID int64, notes *string) (*Conflict, error) {
	c, err := s.repo.Ignore(ctx, id, userID, notes)
	if err != nil {
		if errors.Is(err, ErrAlreadyTerminal) && c != nil {
			return c, err
		}
		return nil, err
	}

	s.metrics.IncIgnored()
	s.log.Info("conflict ignored",
		slog.Int64("conflict_id", id),
		slog.Int64("user_id", userID))
	return c, nil
}
