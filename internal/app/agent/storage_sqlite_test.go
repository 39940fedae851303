package agent

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesync/internal/domain/conflict"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "outbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestSQLiteStorage_SaveAndPending(t *testing.T) {
	storage := newTestStorage(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, storage.SaveSnapshot("Product", "sku-1", map[string]any{"price": 9.99}, now))
	require.NoError(t, storage.SaveSnapshot("Employee", "emp-7", map[string]any{"name": "Ира"}, now.Add(time.Second)))

	records, err := storage.PendingRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Product", records[0].EntityType)
	assert.Equal(t, "sku-1", records[0].EntityID)
	assert.Equal(t, 9.99, records[0].Snapshot["price"])
	assert.Equal(t, "Employee", records[1].EntityType)
}

func TestSQLiteStorage_RecaptureReplacesUnpushed(t *testing.T) {
	storage := newTestStorage(t)
	now := time.Now()

	require.NoError(t, storage.SaveSnapshot("Product", "sku-1", map[string]any{"price": 9.99}, now))
	require.NoError(t, storage.SaveSnapshot("Product", "sku-1", map[string]any{"price": 12.50}, now.Add(time.Minute)))

	records, err := storage.PendingRecords()
	require.NoError(t, err)
	require.Len(t, records, 1, "recapture before push must replace the snapshot, not queue a second one")
	assert.Equal(t, 12.50, records[0].Snapshot["price"])
}

func TestSQLiteStorage_MarkPushed(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveSnapshot("Product", "sku-1", map[string]any{"price": 9.99}, time.Now()))
	records, err := storage.PendingRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, storage.MarkPushed([]int64{records[0].ID}))

	records, err = storage.PendingRecords()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteStorage_MalformedSnapshotRow(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.db.Exec(
		`INSERT INTO outbox (entity_type, entity_id, snapshot, captured_at) VALUES (?, ?, ?, ?)`,
		"Product", "sku-1", "{not json", time.Now())
	require.NoError(t, err)

	_, err = storage.PendingRecords()
	require.Error(t, err)
	assert.True(t, errors.Is(err, conflict.ErrBadSnapshot))
}
