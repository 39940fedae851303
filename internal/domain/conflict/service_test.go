package conflict

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/audit"
	"storesync/internal/domain/rule"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *Conflict) (*Conflict, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conflict), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Conflict, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conflict), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]*Conflict, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Conflict), args.Error(1)
}

func (m *MockRepository) ListPending(ctx context.Context) ([]*Conflict, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Conflict), args.Error(1)
}

func (m *MockRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[Status]int), args.Error(1)
}

func (m *MockRepository) Resolve(ctx context.Context, id int64, res Resolution, action string) (*Conflict, error) {
	args := m.Called(ctx, id, res, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conflict), args.Error(1)
}

func (m *MockRepository) Ignore(ctx context.Context, id int64, userID int64, notes *string) (*Conflict, error) {
	args := m.Called(ctx, id, userID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conflict), args.Error(1)
}

func (m *MockRepository) PurgeTerminal(ctx context.Context, olderThan time.Time) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

// MockAuditService is a mock implementation of the audit Servicer
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Log(ctx context.Context, conflictID int64, action, oldStatus, newStatus string, userID *int64, details *string) error {
	args := m.Called(ctx, conflictID, action, oldStatus, newStatus, userID, details)
	return args.Error(0)
}

func (m *MockAuditService) Trail(ctx context.Context, conflictID int64) ([]audit.Entry, error) {
	args := m.Called(ctx, conflictID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func newTestService(t *testing.T, repo Repository, rules ...rule.Rule) *Service {
	t.Helper()
	store := rule.NewStore(nil, slog.Default())
	for _, r := range rules {
		require.NoError(t, store.AddOrUpdate(context.Background(), r))
	}
	resolver := NewResolver(store, slog.Default())
	return NewService(repo, resolver, new(MockAuditService), nil, slog.Default())
}

func TestService_Detect_CreatesPendingConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *Conflict) bool {
		return c.Status == StatusPending &&
			len(c.ConflictingFields) == 2 &&
			c.ConflictingFields[0] == "name" &&
			c.ConflictingFields[1] == "price"
	})).Return(&Conflict{ID: 7, Status: StatusPending}, nil)

	c, err := service.Detect(context.Background(), DetectRequest{
		EntityType:      "Product",
		EntityID:        "sku-1",
		LocalSnapshot:   Snapshot{"name": "Чай", "price": 100.0},
		RemoteSnapshot:  Snapshot{"name": "Зеленый чай", "price": 120.0},
		LocalTimestamp:  now,
		RemoteTimestamp: now,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	mockRepo.AssertExpectations(t)
}

func TestService_Detect_NoDifferenceCreatesNothing(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	c, err := service.Detect(context.Background(), DetectRequest{
		EntityType:      "Product",
		EntityID:        "sku-1",
		LocalSnapshot:   Snapshot{"price": 100},
		RemoteSnapshot:  Snapshot{"price": 100.0},
		LocalTimestamp:  now,
		RemoteTimestamp: now,
	})

	require.NoError(t, err)
	assert.Nil(t, c)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Detect_RequiresEntityIdentity(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	_, err := service.Detect(context.Background(), DetectRequest{
		LocalSnapshot:  Snapshot{"a": 1.0},
		RemoteSnapshot: Snapshot{"a": 2.0},
	})
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestService_Resolve_AppliesRuleOutcome(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo,
		rule.Rule{EntityType: "Product", Type: rule.TypeLocalWins})

	now := time.Now()
	c := testConflict(Snapshot{"price": 100.0}, Snapshot{"price": 120.0}, now, now)

	mockRepo.On("Resolve", mock.Anything, c.ID, mock.MatchedBy(func(res Resolution) bool {
		return res.Type == rule.TypeLocalWins && res.Snapshot["price"] == 100.0
	}), audit.ActionAutoResolved).
		Return(&Conflict{ID: c.ID, Status: StatusResolved}, nil)

	result, err := service.Resolve(context.Background(), c, nil)
	require.NoError(t, err)
	assert.False(t, result.ManualRequired)
	assert.False(t, result.AlreadyResolved)
	assert.Equal(t, StatusResolved, result.Conflict.Status)
	mockRepo.AssertExpectations(t)
}

func TestService_Resolve_TerminalIsNoop(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	c := testConflict(Snapshot{"a": 1.0}, Snapshot{"a": 2.0}, now, now)
	c.Status = StatusResolved

	result, err := service.Resolve(context.Background(), c, nil)
	require.NoError(t, err)
	assert.True(t, result.AlreadyResolved)
	mockRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Resolve_ManualRuleLeavesPending(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo,
		rule.Rule{EntityType: "Product", Property: "price", Type: rule.TypeManual})

	now := time.Now()
	c := testConflict(Snapshot{"price": 100.0}, Snapshot{"price": 120.0}, now, now)

	result, err := service.Resolve(context.Background(), c, nil)
	require.NoError(t, err)
	assert.True(t, result.ManualRequired)
	assert.Equal(t, []string{"price"}, result.ManualFields)
	mockRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Проигравшая конкурентная попытка получает результат победителя.
func TestService_Resolve_LoserGetsWinnersResult(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	c := testConflict(Snapshot{"price": 100.0}, Snapshot{"price": 120.0}, now.Add(time.Hour), now)

	stored := &Conflict{ID: c.ID, Status: StatusResolved}
	mockRepo.On("Resolve", mock.Anything, c.ID, mock.Anything, audit.ActionAutoResolved).
		Return(stored, ErrAlreadyTerminal)

	result, err := service.Resolve(context.Background(), c, nil)
	require.NoError(t, err)
	assert.True(t, result.AlreadyResolved)
	assert.Equal(t, stored, result.Conflict)
}

// Конкурентные вызовы: репозиторий пропускает ровно один переход,
// остальные попытки видят сохраненный результат.
func TestService_Resolve_ConcurrentSingleTransition(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	stored := &Conflict{ID: 1, Status: StatusResolved}

	// Эмулируем блокировку строки: первый вызов проходит, остальные
	// получают ErrAlreadyTerminal с сохраненным результатом
	var transitionMu sync.Mutex
	transitioned := false
	call := mockRepo.On("Resolve", mock.Anything, int64(1), mock.Anything, audit.ActionAutoResolved)
	call.RunFn = func(_ mock.Arguments) {
		transitionMu.Lock()
		defer transitionMu.Unlock()
		if transitioned {
			call.ReturnArguments = mock.Arguments{stored, ErrAlreadyTerminal}
			return
		}
		transitioned = true
		call.ReturnArguments = mock.Arguments{stored, nil}
	}

	const attempts = 8
	results := make([]*ResolveResult, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := testConflict(Snapshot{"price": 100.0}, Snapshot{"price": 120.0}, now.Add(time.Hour), now)
			result, err := service.Resolve(context.Background(), c, nil)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, result := range results {
		if !result.AlreadyResolved {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestService_ManualResolve(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	chosen := Snapshot{"price": 110.0}
	userID := int64(42)
	mockRepo.On("Resolve", mock.Anything, int64(5), mock.MatchedBy(func(res Resolution) bool {
		return res.Type == rule.TypeManual && res.ResolvedBy != nil && *res.ResolvedBy == userID
	}), audit.ActionManuallyResolved).
		Return(&Conflict{ID: 5, Status: StatusResolved}, nil)

	result, err := service.ManualResolve(context.Background(), ManualResolveRequest{
		ConflictID:       5,
		ResolvedSnapshot: chosen,
		UserID:           userID,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, result.Conflict.Status)
	mockRepo.AssertExpectations(t)
}

func TestService_ManualResolve_RequiresSnapshot(t *testing.T) {
	service := newTestService(t, new(MockRepository))

	_, err := service.ManualResolve(context.Background(), ManualResolveRequest{ConflictID: 5})
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestService_Ignore(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	mockRepo.On("Ignore", mock.Anything, int64(3), int64(42), (*string)(nil)).
		Return(&Conflict{ID: 3, Status: StatusIgnored}, nil)

	c, err := service.Ignore(context.Background(), 3, 42, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusIgnored, c.Status)
}

func TestService_AutoResolveAll_SkipsManual(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo,
		rule.Rule{EntityType: "Employee", Type: rule.TypeManual})

	now := time.Now()
	auto := testConflict(Snapshot{"price": 100.0}, Snapshot{"price": 120.0}, now, now)
	auto.ID = 1

	manual := testConflict(Snapshot{"salary": 1.0}, Snapshot{"salary": 2.0}, now, now)
	manual.ID = 2
	manual.EntityType = "Employee"

	mockRepo.On("ListPending", mock.Anything).Return([]*Conflict{auto, manual}, nil)
	mockRepo.On("Resolve", mock.Anything, int64(1), mock.Anything, audit.ActionAutoResolved).
		Return(&Conflict{ID: 1, Status: StatusResolved}, nil)

	resolved, err := service.AutoResolveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
	mockRepo.AssertNotCalled(t, "Resolve", mock.Anything, int64(2), mock.Anything, mock.Anything)
}

func TestService_AutoResolveAll_ContinuesAfterFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	first := testConflict(Snapshot{"a": 1.0}, Snapshot{"a": 2.0}, now, now)
	first.ID = 1
	second := testConflict(Snapshot{"b": 1.0}, Snapshot{"b": 2.0}, now, now)
	second.ID = 2

	mockRepo.On("ListPending", mock.Anything).Return([]*Conflict{first, second}, nil)
	mockRepo.On("Resolve", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(nil, errors.New("database error"))
	mockRepo.On("Resolve", mock.Anything, int64(2), mock.Anything, mock.Anything).
		Return(&Conflict{ID: 2, Status: StatusResolved}, nil)

	resolved, err := service.AutoResolveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
}

func TestService_BulkResolve_SkipsMissingAndTerminal(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	pending := testConflict(Snapshot{"price": 100.0}, Snapshot{"price": 120.0}, now, now)
	pending.ID = 1
	terminal := testConflict(Snapshot{"a": 1.0}, Snapshot{"a": 2.0}, now, now)
	terminal.ID = 2
	terminal.Status = StatusResolved

	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(pending, nil)
	mockRepo.On("GetByID", mock.Anything, int64(2)).Return(terminal, nil)
	mockRepo.On("GetByID", mock.Anything, int64(3)).Return(nil, ErrNotFound)
	mockRepo.On("Resolve", mock.Anything, int64(1), mock.MatchedBy(func(res Resolution) bool {
		return res.Type == rule.TypeRemoteWins && res.Snapshot["price"] == 120.0
	}), audit.ActionBulkResolved).
		Return(&Conflict{ID: 1, Status: StatusResolved}, nil)

	resolved, err := service.BulkResolve(context.Background(), BulkResolveRequest{
		ConflictIDs:    []int64{1, 2, 3},
		ResolutionType: rule.TypeRemoteWins,
		UserID:         42,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
	mockRepo.AssertNotCalled(t, "Resolve", mock.Anything, int64(2), mock.Anything, mock.Anything)
}

func TestService_BulkResolve_RejectsManualPolicy(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	now := time.Now()
	pending := testConflict(Snapshot{"a": 1.0}, Snapshot{"a": 2.0}, now, now)
	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(pending, nil)

	_, err := service.BulkResolve(context.Background(), BulkResolveRequest{
		ConflictIDs:    []int64{1},
		ResolutionType: rule.TypeManual,
	})
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestService_PurgeResolved(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo)

	boundary := time.Now().Add(-30 * 24 * time.Hour)
	mockRepo.On("PurgeTerminal", mock.Anything, boundary).Return(5, nil)

	purged, err := service.PurgeResolved(context.Background(), boundary)
	require.NoError(t, err)
	assert.Equal(t, 5, purged)
}
