package logger

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Logger — access-middleware: одна запись на запрос. Идентификатор huma-операции
// попадает в лог, чтобы запросы синк-агентов и операторской консоли различались
// без разбора пути.
type Logger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Logger {
	return &Logger{
		log: log.With(slog.String("component", "http_access")),
	}
}

// Middleware возвращает middleware функцию для huma с логированием запроса
func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		l.log.Info("request handled",
			slog.String("operation", ctx.Operation().OperationID),
			slog.String("method", ctx.Method()),
			slog.String("path", ctx.URL().Path),
			slog.Int("status", ctx.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", ctx.RemoteAddr()),
			slog.String("user_agent", ctx.Header("User-Agent")),
		)
	}
}
