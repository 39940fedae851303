//Прием синк-батчей от магазинов и фиксация конфликтов;
//разрешение конфликтов правилами, вручную и пакетно;
//настройка правил разрешения per-свойство и per-тип;
//аудит-след каждого перехода статуса.

//POST /user/register                  # Регистрация оператора (публичный)
//POST /user/login                     # Логин оператора (публичный)
//POST /api/sync/detect                # Прием синк-батча (auth)
//GET  /api/conflicts                  # Список конфликтов (auth)
//GET  /api/conflicts/stats            # Счетчики по статусам (auth)
//GET  /api/conflicts/{id}             # Один конфликт (auth)
//GET  /api/conflicts/{id}/audit       # Аудит-след (auth)
//POST /api/conflicts/{id}/resolve     # Разрешение по правилам (auth)
//POST /api/conflicts/{id}/manual      # Ручное разрешение (auth)
//POST /api/conflicts/{id}/ignore      # Игнорирование (auth)
//POST /api/conflicts/bulk-resolve     # Массовое разрешение (auth)
//POST /api/conflicts/auto-resolve     # Авторазрешение очереди (auth)
//POST /api/conflicts/purge            # Очистка терминальных (auth)
//GET  /api/rules                      # Список правил (auth)
//PUT  /api/rules                      # Создать/обновить правило (auth)
//DELETE /api/rules                    # Удалить правило (auth)
//POST /api/rules/reset                # Сбросить правила (auth)

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	conflictAPI "storesync/internal/app/server/api/http/conflict"
	healthAPI "storesync/internal/app/server/api/http/health"
	"storesync/internal/app/server/api/http/middleware"
	"storesync/internal/app/server/api/http/middleware/auth"
	"storesync/internal/app/server/api/http/middleware/logger"
	ruleAPI "storesync/internal/app/server/api/http/rule"
	syncAPI "storesync/internal/app/server/api/http/sync"
	userAPI "storesync/internal/app/server/api/http/user"
	"storesync/internal/domain/audit"
	"storesync/internal/domain/conflict"
	"storesync/internal/domain/rule"
	"storesync/internal/domain/session"
	"storesync/internal/domain/user"
	"storesync/internal/infrastructure/storage/postgres"
	"storesync/internal/utils/metrics"
)

type Handlers struct {
	Health   *healthAPI.Handler
	User     *userAPI.Handler
	Sync     *syncAPI.Handler
	Conflict *conflictAPI.Handler
	Rule     *ruleAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(storage *postgres.Storage, rules *rule.Store, m *metrics.Engine, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("StoreSync Conflict API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, rules, m, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Sync.SetupRoutes(API)
	h.Conflict.SetupRoutes(API)
	h.Rule.SetupRoutes(API)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func handlers(storage *postgres.Storage, rules *rule.Store, m *metrics.Engine, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage.Pool(), log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage.Pool(), log)
	userService := user.NewService(userRepo, user.NewPasswordValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	auditRepo := postgres.NewAuditRepository(storage.Pool(), log)
	auditService := audit.NewService(auditRepo, log)
	entityStore := postgres.NewEntityStore(storage.Pool(), log)
	conflictRepo := postgres.NewConflictRepository(storage.Pool(), log)
	resolver := conflict.NewResolver(rules, log)
	conflictService := conflict.NewService(conflictRepo, resolver, auditService, m, log)

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	syncHandler := syncAPI.NewHandler(conflictService, entityStore, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	conflictHandler := conflictAPI.NewHandler(conflictService, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	ruleHandler := ruleAPI.NewHandler(rules, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		User:     userHandler,
		Sync:     syncHandler,
		Conflict: conflictHandler,
		Rule:     ruleHandler,
	}
}
