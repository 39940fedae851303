package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/conflict"
	"storesync/internal/domain/entity"
	"storesync/internal/domain/rule"
)

// EntityStore — каноническое хранилище бизнес-сущностей в центральной базе.
type EntityStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewEntityStore(pool *pgxpool.Pool, log *slog.Logger) *EntityStore {
	return &EntityStore{
		pool: pool,
		log:  log.With(slog.String("component", "entity_store")),
	}
}

func (s *EntityStore) Get(ctx context.Context, entityType rule.EntityType, entityID string) (conflict.Snapshot, time.Time, error) {
	var snapshot conflict.Snapshot
	var updatedAt time.Time

	err := s.pool.QueryRow(ctx,
		`SELECT payload, updated_at FROM entity_records
         WHERE entity_type = $1 AND entity_id = $2`,
		string(entityType), entityID).Scan(&snapshot, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, entity.ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("get entity: %w", err)
	}

	return snapshot, updatedAt, nil
}

func (s *EntityStore) Replace(ctx context.Context, entityType rule.EntityType, entityID string, snapshot conflict.Snapshot) error {
	if err := upsertEntity(ctx, s.pool, entityType, entityID, snapshot); err != nil {
		return fmt.Errorf("replace entity: %w", err)
	}
	return nil
}

// upsertEntity — единственная операция канонической записи; репозиторий
// конфликтов вызывает ее внутри своей транзакции, чтобы запись сущности и
// переход статуса фиксировались вместе.
func upsertEntity(ctx context.Context, db executor, entityType rule.EntityType, entityID string, snapshot conflict.Snapshot) error {
	_, err := db.Exec(ctx,
		`INSERT INTO entity_records (entity_type, entity_id, payload, updated_at)
         VALUES ($1, $2, $3, NOW())
         ON CONFLICT (entity_type, entity_id) DO UPDATE SET
             payload = EXCLUDED.payload,
             updated_at = EXCLUDED.updated_at`,
		string(entityType), entityID, snapshot)
	return err
}

// executor — общее подмножество pgxpool.Pool и pgx.Tx.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
