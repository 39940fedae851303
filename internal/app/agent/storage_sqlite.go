package agent

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"storesync/internal/domain/conflict"
)

// SQLiteStorage — локальный outbox агента: снимки копятся офлайн и
// уходят на сервер командой push.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS outbox (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			captured_at DATETIME NOT NULL,
			pushed BOOLEAN NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_outbox_pushed ON outbox(pushed);
		CREATE INDEX IF NOT EXISTS idx_outbox_entity ON outbox(entity_type, entity_id);
	`)

	return err
}

// SaveSnapshot фиксирует снимок в outbox. Повторный capture той же
// сущности до push заменяет неотправленный снимок.
func (s *SQLiteStorage) SaveSnapshot(entityType, entityID string, snapshot map[string]any, capturedAt time.Time) error {
	snapshotJSON, err := conflict.Snapshot(snapshot).Encode()
	if err != nil {
		return fmt.Errorf("ошибка сериализации снимка: %w", err)
	}

	var existingID int64
	err = s.db.QueryRow(
		`SELECT id FROM outbox WHERE entity_type = ? AND entity_id = ? AND pushed = 0`,
		entityType, entityID).Scan(&existingID)

	switch err {
	case nil:
		_, err = s.db.Exec(
			`UPDATE outbox SET snapshot = ?, captured_at = ? WHERE id = ?`,
			snapshotJSON, capturedAt, existingID)
	case sql.ErrNoRows:
		_, err = s.db.Exec(
			`INSERT INTO outbox (entity_type, entity_id, snapshot, captured_at) VALUES (?, ?, ?, ?)`,
			entityType, entityID, snapshotJSON, capturedAt)
	}
	if err != nil {
		return fmt.Errorf("ошибка сохранения снимка: %w", err)
	}
	return nil
}

// PendingRecords возвращает неотправленные снимки в порядке фиксации.
func (s *SQLiteStorage) PendingRecords() ([]OutboxRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, entity_type, entity_id, snapshot, captured_at
         FROM outbox WHERE pushed = 0 ORDER BY captured_at, id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения outbox: %w", err)
	}
	defer rows.Close()

	var records []OutboxRecord
	for rows.Next() {
		var rec OutboxRecord
		var snapshotJSON []byte
		if err := rows.Scan(&rec.ID, &rec.EntityType, &rec.EntityID, &snapshotJSON, &rec.CapturedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения записи outbox: %w", err)
		}
		snapshot, err := conflict.DecodeSnapshot(snapshotJSON)
		if err != nil {
			return nil, fmt.Errorf("запись outbox %d: %w", rec.ID, err)
		}
		rec.Snapshot = snapshot
		records = append(records, rec)
	}
	return records, rows.Err()
}

// MarkPushed помечает снимки отправленными.
func (s *SQLiteStorage) MarkPushed(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE outbox SET pushed = 1 WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("ошибка пометки записи %d: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
