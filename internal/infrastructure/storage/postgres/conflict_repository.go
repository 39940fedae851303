package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/audit"
	"storesync/internal/domain/conflict"
	"storesync/internal/domain/rule"
)

// ConflictRepository — хранилище конфликтов центральной системы.
//
// Переходы статуса сериализуются по строке конфликта: Resolve и Ignore
// берут блокировку SELECT ... FOR UPDATE и проходят только из pending.
// Каноническая запись сущности, смена статуса и аудит-запись фиксируются
// одной транзакцией.
type ConflictRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewConflictRepository(pool *pgxpool.Pool, log *slog.Logger) *ConflictRepository {
	return &ConflictRepository{
		pool: pool,
		log:  log.With(slog.String("component", "conflict_repository")),
	}
}

const conflictColumns = `id, entity_type, entity_id, local_snapshot, remote_snapshot,
       local_timestamp, remote_timestamp, conflicting_fields, status,
       resolution_type, resolved_snapshot, resolved_by, resolved_at, notes,
       sync_batch_id, created_at`

func (r *ConflictRepository) Create(ctx context.Context, c *conflict.Conflict) (*conflict.Conflict, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO conflicts (entity_type, entity_id, local_snapshot, remote_snapshot,
                                local_timestamp, remote_timestamp, conflicting_fields,
                                status, sync_batch_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at`,
		string(c.EntityType), c.EntityID, c.LocalSnapshot, c.RemoteSnapshot,
		c.LocalTimestamp, c.RemoteTimestamp, c.ConflictingFields,
		string(conflict.StatusPending), c.SyncBatchID).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert conflict: %w", err)
	}

	details := fmt.Sprintf("conflicting fields: %s", strings.Join(c.ConflictingFields, ", "))
	if err := appendAuditTx(ctx, tx, c.ID, audit.ActionDetected, "", string(conflict.StatusPending), nil, &details); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	c.Status = conflict.StatusPending
	return c, nil
}

func (r *ConflictRepository) GetByID(ctx context.Context, id int64) (*conflict.Conflict, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+conflictColumns+` FROM conflicts WHERE id = $1`, id)

	c, err := scanConflict(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conflict.ErrNotFound
		}
		return nil, fmt.Errorf("get conflict: %w", err)
	}
	return c, nil
}

func (r *ConflictRepository) List(ctx context.Context, f conflict.ListFilter) ([]*conflict.Conflict, error) {
	query := `SELECT ` + conflictColumns + ` FROM conflicts`
	var conds []string
	var args []any

	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.EntityType != nil {
		args = append(args, string(*f.EntityType))
		conds = append(conds, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if f.SyncBatchID != nil {
		args = append(args, *f.SyncBatchID)
		conds = append(conds, fmt.Sprintf("sync_batch_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	defer rows.Close()

	return scanConflicts(rows)
}

func (r *ConflictRepository) ListPending(ctx context.Context) ([]*conflict.Conflict, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+conflictColumns+` FROM conflicts
         WHERE status = $1 ORDER BY created_at, id`,
		string(conflict.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending conflicts: %w", err)
	}
	defer rows.Close()

	return scanConflicts(rows)
}

func (r *ConflictRepository) CountByStatus(ctx context.Context) (map[conflict.Status]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM conflicts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count conflicts: %w", err)
	}
	defer rows.Close()

	counts := make(map[conflict.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[conflict.Status(status)] = count
	}
	return counts, rows.Err()
}

// Resolve применяет разрешение ровно один раз. Блокировка строки
// сериализует конкурентные попытки: проигравшая видит терминальный статус
// и получает сохраненный результат вместе с ErrAlreadyTerminal.
func (r *ConflictRepository) Resolve(ctx context.Context, id int64, res conflict.Resolution, action string) (*conflict.Conflict, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := lockConflict(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if c.Status.Terminal() {
		return c, conflict.ErrAlreadyTerminal
	}

	// Каноническая запись и переход статуса — одна транзакция: сбой
	// записи сущности откатывает все, конфликт остается pending.
	if err := upsertEntity(ctx, tx, c.EntityType, c.EntityID, res.Snapshot); err != nil {
		return nil, fmt.Errorf("canonical entity update: %w", err)
	}

	resolvedAt := time.Now()
	_, err = tx.Exec(ctx,
		`UPDATE conflicts
         SET status = $2, resolution_type = $3, resolved_snapshot = $4,
             resolved_by = $5, resolved_at = $6, notes = $7
         WHERE id = $1`,
		id, string(conflict.StatusResolved), string(res.Type), res.Snapshot,
		res.ResolvedBy, resolvedAt, res.Notes)
	if err != nil {
		return nil, fmt.Errorf("update conflict: %w", err)
	}

	if err := appendAuditTx(ctx, tx, id, action,
		string(conflict.StatusPending), string(conflict.StatusResolved),
		res.ResolvedBy, res.Notes); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	rt := res.Type
	c.Status = conflict.StatusResolved
	c.ResolutionType = &rt
	c.ResolvedSnapshot = res.Snapshot
	c.ResolvedBy = res.ResolvedBy
	c.ResolvedAt = &resolvedAt
	c.Notes = res.Notes
	return c, nil
}

// Ignore переводит конфликт в ignored; каноническая сущность не меняется.
func (r *ConflictRepository) Ignore(ctx context.Context, id int64, userID int64, notes *string) (*conflict.Conflict, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := lockConflict(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if c.Status.Terminal() {
		return c, conflict.ErrAlreadyTerminal
	}

	resolvedAt := time.Now()
	_, err = tx.Exec(ctx,
		`UPDATE conflicts
         SET status = $2, resolved_by = $3, resolved_at = $4, notes = $5
         WHERE id = $1`,
		id, string(conflict.StatusIgnored), userID, resolvedAt, notes)
	if err != nil {
		return nil, fmt.Errorf("update conflict: %w", err)
	}

	if err := appendAuditTx(ctx, tx, id, audit.ActionIgnored,
		string(conflict.StatusPending), string(conflict.StatusIgnored),
		&userID, notes); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	c.Status = conflict.StatusIgnored
	c.ResolvedBy = &userID
	c.ResolvedAt = &resolvedAt
	c.Notes = notes
	return c, nil
}

// PurgeTerminal удаляет терминальные конфликты, разрешенные строго раньше
// olderThan; аудит уходит каскадом. Pending не затрагивается.
func (r *ConflictRepository) PurgeTerminal(ctx context.Context, olderThan time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM conflicts
         WHERE status IN ($1, $2) AND resolved_at < $3`,
		string(conflict.StatusResolved), string(conflict.StatusIgnored), olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge conflicts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// lockConflict читает строку конфликта под блокировкой FOR UPDATE.
func lockConflict(ctx context.Context, tx pgx.Tx, id int64) (*conflict.Conflict, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+conflictColumns+` FROM conflicts WHERE id = $1 FOR UPDATE`, id)

	c, err := scanConflict(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conflict.ErrNotFound
		}
		return nil, fmt.Errorf("lock conflict: %w", err)
	}
	return c, nil
}

func appendAuditTx(ctx context.Context, tx pgx.Tx, conflictID int64, action, oldStatus, newStatus string, userID *int64, details *string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO conflict_audit (conflict_id, action, old_status, new_status, user_id, details)
         VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)`,
		conflictID, action, oldStatus, newStatus, userID, details)
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConflict(row rowScanner) (*conflict.Conflict, error) {
	var c conflict.Conflict
	var entityType, status string
	var resolutionType *string

	err := row.Scan(&c.ID, &entityType, &c.EntityID, &c.LocalSnapshot, &c.RemoteSnapshot,
		&c.LocalTimestamp, &c.RemoteTimestamp, &c.ConflictingFields, &status,
		&resolutionType, &c.ResolvedSnapshot, &c.ResolvedBy, &c.ResolvedAt, &c.Notes,
		&c.SyncBatchID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	c.EntityType = rule.EntityType(entityType)
	c.Status = conflict.Status(status)
	if resolutionType != nil {
		rt := rule.ResolutionType(*resolutionType)
		c.ResolutionType = &rt
	}
	return &c, nil
}

func scanConflicts(rows pgx.Rows) ([]*conflict.Conflict, error) {
	var out []*conflict.Conflict
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
