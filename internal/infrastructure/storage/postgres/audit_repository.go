package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/audit"
)

// AuditRepository — insert-only хранилище аудит-записей. Переходы,
// совмещенные с мутацией конфликта, пишет ConflictRepository в своей
// транзакции; здесь — чтение следа и одиночные записи.
type AuditRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewAuditRepository(pool *pgxpool.Pool, log *slog.Logger) *AuditRepository {
	return &AuditRepository{
		pool: pool,
		log:  log.With(slog.String("component", "audit_repository")),
	}
}

func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO conflict_audit (conflict_id, action, old_status, new_status, user_id, details)
         VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
         RETURNING id, ts`,
		e.ConflictID, e.Action, e.OldStatus, e.NewStatus, e.UserID, e.Details).
		Scan(&e.ID, &e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) Trail(ctx context.Context, conflictID int64) ([]audit.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, conflict_id, action, COALESCE(old_status, ''), new_status, user_id, ts, details
         FROM conflict_audit
         WHERE conflict_id = $1
         ORDER BY ts, id`,
		conflictID)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.ConflictID, &e.Action, &e.OldStatus, &e.NewStatus,
			&e.UserID, &e.Timestamp, &e.Details); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
