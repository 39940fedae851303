package conflict

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/rule"
)

func newTestResolver(t *testing.T, rules ...rule.Rule) *Resolver {
	t.Helper()
	store := rule.NewStore(nil, slog.Default())
	for _, r := range rules {
		require.NoError(t, store.AddOrUpdate(context.Background(), r))
	}
	return NewResolver(store, slog.Default())
}

func testConflict(local, remote Snapshot, localTS, remoteTS time.Time) *Conflict {
	return &Conflict{
		ID:                1,
		EntityType:        "Product",
		EntityID:          "sku-1",
		LocalSnapshot:     local,
		RemoteSnapshot:    remote,
		LocalTimestamp:    localTS,
		RemoteTimestamp:   remoteTS,
		ConflictingFields: ConflictingFields(local, remote),
		Status:            StatusPending,
	}
}

func TestResolver_LocalWins(t *testing.T) {
	r := newTestResolver(t, rule.Rule{EntityType: "Product", Type: rule.TypeLocalWins})

	now := time.Now()
	c := testConflict(
		Snapshot{"name": "Чай", "price": 100.0},
		Snapshot{"name": "Чай", "price": 120.0},
		now, now.Add(time.Hour),
	)

	outcome, err := r.Resolve(c)
	require.NoError(t, err)
	assert.False(t, outcome.ManualRequired)
	assert.Equal(t, rule.TypeLocalWins, outcome.Type)
	assert.Equal(t, 100.0, outcome.Snapshot["price"])
}

func TestResolver_RemoteWins(t *testing.T) {
	r := newTestResolver(t, rule.Rule{EntityType: "Product", Type: rule.TypeRemoteWins})

	now := time.Now()
	c := testConflict(
		Snapshot{"price": 100.0},
		Snapshot{"price": 120.0},
		now.Add(time.Hour), now,
	)

	outcome, err := r.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, rule.TypeRemoteWins, outcome.Type)
	assert.Equal(t, 120.0, outcome.Snapshot["price"])
}

func TestResolver_LastWriteWins(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		localTS  time.Time
		remoteTS time.Time
		expected float64
	}{
		{"local is newer", now.Add(time.Hour), now, 100.0},
		{"remote is newer", now, now.Add(time.Hour), 120.0},
		// Равные метки — побеждает центральная система
		{"tie favors remote", now, now, 120.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t)
			c := testConflict(
				Snapshot{"price": 100.0},
				Snapshot{"price": 120.0},
				tt.localTS, tt.remoteTS,
			)

			outcome, err := r.Resolve(c)
			require.NoError(t, err)
			assert.Equal(t, rule.TypeLastWriteWins, outcome.Type)
			assert.Equal(t, tt.expected, outcome.Snapshot["price"])
		})
	}
}

func TestResolver_GlobalDefaultIsLastWriteWins(t *testing.T) {
	// Ни одного правила не настроено
	r := newTestResolver(t)

	now := time.Now()
	c := testConflict(
		Snapshot{"price": 100.0},
		Snapshot{"price": 120.0},
		now.Add(time.Minute), now,
	)

	outcome, err := r.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, rule.TypeLastWriteWins, outcome.Type)
	assert.Equal(t, 100.0, outcome.Snapshot["price"])
}

func TestResolver_PropertyRuleOverridesEntityDefault(t *testing.T) {
	r := newTestResolver(t,
		rule.Rule{EntityType: "Product", Type: rule.TypeRemoteWins},
		rule.Rule{EntityType: "Product", Property: "price", Type: rule.TypeLocalWins},
	)

	now := time.Now()
	c := testConflict(
		Snapshot{"price": 100.0, "name": "Чай"},
		Snapshot{"price": 120.0, "name": "Зеленый чай"},
		now, now,
	)

	outcome, err := r.Resolve(c)
	require.NoError(t, err)
	// price — по узкому правилу, name — по дефолту типа
	assert.Equal(t, 100.0, outcome.Snapshot["price"])
	assert.Equal(t, "Зеленый чай", outcome.Snapshot["name"])
	// Смесь политик записывается как merge
	assert.Equal(t, rule.TypeMerge, outcome.Type)
}

func TestResolver_MergeKeepsLocalBase(t *testing.T) {
	r := newTestResolver(t, rule.Rule{EntityType: "Product", Type: rule.TypeMerge})

	now := time.Now()
	c := testConflict(
		Snapshot{"name": "Чай", "price": 100.0, "stock": 5.0},
		Snapshot{"name": "Чай", "price": 120.0, "barcode": "4600001"},
		now, now.Add(time.Hour),
	)

	outcome, err := r.Resolve(c)
	require.NoError(t, err)
	// Конфликтующие поля решаются по времени записи, остальное — из локального
	assert.Equal(t, 120.0, outcome.Snapshot["price"])
	assert.Equal(t, "4600001", outcome.Snapshot["barcode"])
	assert.Equal(t, 5.0, outcome.Snapshot["stock"])
	assert.Equal(t, "Чай", outcome.Snapshot["name"])
}

func TestResolver_WinnerWithoutFieldDeletesIt(t *testing.T) {
	r := newTestResolver(t, rule.Rule{EntityType: "Product", Type: rule.TypeRemoteWins})

	now := time.Now()
	c := testConflict(
		Snapshot{"name": "Чай", "discount": 5.0},
		Snapshot{"name": "Чай"},
		now, now,
	)

	outcome, err := r.Resolve(c)
	require.NoError(t, err)
	_, present := outcome.Snapshot["discount"]
	assert.False(t, present)
}

func TestResolver_ManualRuleStopsResolution(t *testing.T) {
	r := newTestResolver(t,
		rule.Rule{EntityType: "Product", Property: "price", Type: rule.TypeManual},
	)

	now := time.Now()
	c := testConflict(
		Snapshot{"price": 100.0, "name": "Чай"},
		Snapshot{"price": 120.0, "name": "Зеленый чай"},
		now, now,
	)

	outcome, err := r.Resolve(c)
	require.NoError(t, err)
	assert.True(t, outcome.ManualRequired)
	assert.Equal(t, []string{"price"}, outcome.ManualFields)
	assert.Nil(t, outcome.Snapshot)
}

func TestResolver_ResolveWith(t *testing.T) {
	r := newTestResolver(t)

	now := time.Now()
	c := testConflict(
		Snapshot{"price": 100.0},
		Snapshot{"price": 120.0},
		now.Add(time.Hour), now,
	)

	outcome, err := r.ResolveWith(c, rule.TypeRemoteWins)
	require.NoError(t, err)
	assert.Equal(t, rule.TypeRemoteWins, outcome.Type)
	assert.Equal(t, 120.0, outcome.Snapshot["price"])
}

func TestResolver_ResolveWithRejectsManualAndUnknown(t *testing.T) {
	r := newTestResolver(t)
	c := testConflict(Snapshot{"a": 1.0}, Snapshot{"a": 2.0}, time.Now(), time.Now())

	_, err := r.ResolveWith(c, rule.TypeManual)
	assert.ErrorIs(t, err, ErrInvalidResolution)

	_, err = r.ResolveWith(c, rule.ResolutionType("coin_flip"))
	assert.ErrorIs(t, err, ErrInvalidResolution)
}
