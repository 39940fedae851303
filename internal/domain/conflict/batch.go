package conflict

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"

	"storesync/internal/domain/audit"
)

// AutoResolveAll проходит по всем pending-конфликтам и разрешает те, для
// которых ни одно конфликтующее поле не требует ручного вмешательства.
// Возвращает число фактически разрешенных конфликтов.
//
// Батч не атомарен целиком: каждый конфликт фиксируется отдельно, прерванный
// проход безопасно перезапускается, терминальные конфликты пропускаются.
func (s *Service) AutoResolveAll(ctx context.Context) (int, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, c := range pending {
		if err := ctx.Err(); err != nil {
			// Отмена останавливает выдачу новых разрешений; уже
			// примененные остаются примененными.
			return resolved, err
		}

		result, err := s.Resolve(ctx, c, nil)
		if err != nil {
			s.log.Warn("auto-resolve failed, conflict left pending",
				slog.Int64("conflict_id", c.ID),
				slog.Any("error", err))
			continue
		}
		if result.ManualRequired || result.AlreadyResolved {
			continue
		}
		resolved++
	}

	s.log.Info("auto-resolve sweep finished",
		slog.Int("pending", len(pending)),
		slog.Int("resolved", resolved))
	return resolved, nil
}

// BulkResolve применяет одну явную политику к набору конфликтов. Конфликты,
// уже ставшие терминальными, молча пропускаются. Возвращает число успешных
// разрешений.
func (s *Service) BulkResolve(ctx context.Context, req BulkResolveRequest) (int, error) {
	resolved := 0
	for _, id := range req.ConflictIDs {
		if err := ctx.Err(); err != nil {
			return resolved, err
		}

		c, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return resolved, err
		}
		if c.Status.Terminal() {
			continue
		}

		outcome, err := s.resolver.ResolveWith(c, req.ResolutionType)
		if err != nil {
			return resolved, err
		}

		res := Resolution{
			Snapshot:   outcome.Snapshot,
			Type:       outcome.Type,
			ResolvedBy: &req.UserID,
			Notes:      req.Notes,
		}
		result, err := s.apply(ctx, id, res, audit.ActionBulkResolved)
		if err != nil {
			s.log.Warn("bulk resolve failed for conflict",
				slog.Int64("conflict_id", id),
				slog.Any("error", err))
			continue
		}
		if !result.AlreadyResolved {
			resolved++
		}
	}
	return resolved, nil
}

// PurgeResolved физически удаляет терминальные конфликты, разрешенные строго
// раньше olderThan. Pending-конфликты не удаляются независимо от возраста.
func (s *Service) PurgeResolved(ctx context.Context, olderThan time.Time) (int, error) {
	purged, err := s.repo.PurgeTerminal(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	s.metrics.AddPurged(purged)
	s.log.Info("terminal conflicts purged",
		slog.Int("count", purged),
		slog.Time("older_than", olderThan))
	return purged, nil
}
