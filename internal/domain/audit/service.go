package audit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Servicer — сервис аудит-следа.
type Servicer interface {
	Log(ctx context.Context, conflictID int64, action, oldStatus, newStatus string, userID *int64, details *string) error
	Trail(ctx context.Context, conflictID int64) ([]Entry, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "audit")),
	}
}

// Log добавляет одну неизменяемую запись.
func (s *Service) Log(ctx context.Context, conflictID int64, action, oldStatus, newStatus string, userID *int64, details *string) error {
	e := &Entry{
		ConflictID: conflictID,
		Action:     action,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		UserID:     userID,
		Timestamp:  time.Now(),
		Details:    details,
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Trail возвращает след конфликта в хронологическом порядке.
func (s *Service) Trail(ctx context.Context, conflictID int64) ([]Entry, error) {
	entries, err := s.repo.Trail(ctx, conflictID)
	if err != nil {
		return nil, fmt.Errorf("load audit trail: %w", err)
	}
	return entries, nil
}
