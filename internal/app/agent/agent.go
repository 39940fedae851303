package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"storesync/internal/app/agent/config"
	"storesync/internal/domain/conflict"
	"storesync/internal/domain/rule"
)

// App — агент магазина: копит снимки сущностей в локальном outbox и
// гоняет их в центральную систему, где фиксируются конфликты.
type App struct {
	config  *config.Config
	log     *slog.Logger
	http    *httpClient
	storage *SQLiteStorage
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	app := &App{
		config:  cfg,
		log:     log,
		http:    httpCl,
		storage: storage,
	}

	if token, err := app.loadToken(); err == nil && token != "" {
		httpCl.SetToken(token)
	}

	return app, nil
}

func (a *App) Close() error {
	return a.storage.Close()
}

// CheckConnection проверяет доступность сервера
func (a *App) CheckConnection(ctx context.Context) error {
	return a.http.HealthCheck(ctx)
}

func (a *App) Register(ctx context.Context, login, password string) (int64, error) {
	return a.http.Register(ctx, login, password)
}

// Login аутентифицируется и сохраняет токен для последующих команд.
func (a *App) Login(ctx context.Context, login, password string) error {
	token, err := a.http.Login(ctx, login, password)
	if err != nil {
		return err
	}

	a.http.SetToken(token)
	if err := a.saveToken(token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

// Capture фиксирует снимок сущности в локальном outbox.
func (a *App) Capture(entityType, entityID string, snapshot map[string]any) error {
	if entityType == "" || entityID == "" {
		return fmt.Errorf("тип и идентификатор сущности обязательны")
	}
	if len(snapshot) == 0 {
		return fmt.Errorf("снимок не может быть пустым")
	}
	return a.storage.SaveSnapshot(entityType, entityID, snapshot, time.Now())
}

// Push отправляет накопленный outbox одним синк-батчем. Снимки
// помечаются отправленными только после ответа сервера.
func (a *App) Push(ctx context.Context) (*PushResult, error) {
	records, err := a.storage.PendingRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &PushResult{}, nil
	}

	batchID := fmt.Sprintf("%s-%s", a.config.StoreID, uuid.New().String())
	batch := conflict.DetectBatchRequest{
		SyncBatchID: batchID,
		Items:       make([]conflict.DetectItem, 0, len(records)),
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		batch.Items = append(batch.Items, conflict.DetectItem{
			EntityType:     rec.EntityType,
			EntityID:       rec.EntityID,
			LocalSnapshot:  rec.Snapshot,
			LocalTimestamp: rec.CapturedAt,
		})
		ids = append(ids, rec.ID)
	}

	resp, err := a.http.Detect(ctx, batch)
	if err != nil {
		return nil, err
	}

	if err := a.storage.MarkPushed(ids); err != nil {
		a.log.Warn("outbox не помечен отправленным", "error", err)
	}

	return &PushResult{
		BatchID:   batchID,
		Pushed:    len(records),
		Detected:  resp.Detected,
		InSync:    resp.InSync,
		Failed:    resp.Failed,
		Conflicts: resp.Conflicts,
		Errors:    resp.FailErrors,
	}, nil
}

func (a *App) ListConflicts(ctx context.Context, status string, limit, offset int) ([]conflict.Conflict, error) {
	return a.http.ListConflicts(ctx, status, limit, offset)
}

func (a *App) GetConflict(ctx context.Context, id int64) (*conflict.Conflict, error) {
	return a.http.GetConflict(ctx, id)
}

func (a *App) ConflictTrail(ctx context.Context, id int64) (*conflict.TrailResponse, error) {
	return a.http.Trail(ctx, id)
}

func (a *App) ResolveConflict(ctx context.Context, id int64) (*conflict.ResolveResponse, error) {
	return a.http.ResolveConflict(ctx, id)
}

func (a *App) IgnoreConflict(ctx context.Context, id int64, notes string) (*conflict.ResolveResponse, error) {
	return a.http.IgnoreConflict(ctx, id, notes)
}

func (a *App) BulkResolve(ctx context.Context, ids []int64, resolutionType, notes string) (*conflict.CountResponse, error) {
	return a.http.BulkResolve(ctx, ids, resolutionType, notes)
}

func (a *App) Purge(ctx context.Context, olderThan time.Time) (*conflict.CountResponse, error) {
	return a.http.Purge(ctx, olderThan)
}

func (a *App) ListRules(ctx context.Context) ([]rule.Rule, error) {
	return a.http.ListRules(ctx)
}

func (a *App) PutRule(ctx context.Context, entityType, property, resolutionType string) error {
	return a.http.PutRule(ctx, entityType, property, resolutionType)
}

func (a *App) DeleteRule(ctx context.Context, entityType, property string) (bool, error) {
	return a.http.DeleteRule(ctx, entityType, property)
}

func (a *App) ResetRules(ctx context.Context) error {
	return a.http.ResetRules(ctx)
}

func (a *App) saveToken(token string) error {
	return os.WriteFile(a.config.TokenPath, []byte(token), 0600)
}

func (a *App) loadToken() (string, error) {
	data, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
