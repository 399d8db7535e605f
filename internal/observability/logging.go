package observability

import (
	"context"
	"log/slog"
)

var logger = slog.Default()

// SetLogger replaces the logger used by RepoLogger and ServiceLogger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	table string
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

// LogWrite logs a successful create, update or delete at debug level.
func (l *RepoLogger) LogWrite(ctx context.Context, operation string, attrs ...any) {
	attrs = append([]any{
		slog.String("table", l.table),
		slog.String("operation", operation),
	}, attrs...)
	logger.DebugContext(ctx, "repository write", attrs...)
}

// LogError logs a repository failure.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	logger.ErrorContext(ctx, "repository error",
		slog.String("table", l.table),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// LogServiceCall logs a rejected or failed service call. Client errors are
// logged at info level, everything else at error level.
func LogServiceCall(ctx context.Context, service, method string, err error, attrs ...any) {
	attrs = append([]any{
		slog.String("service", service),
		slog.String("method", method),
		slog.String("outcome", Outcome(err)),
	}, attrs...)

	if err == nil {
		logger.InfoContext(ctx, "service call", attrs...)
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	if Outcome(err) == "error" {
		logger.ErrorContext(ctx, "service call failed", attrs...)
		return
	}
	logger.InfoContext(ctx, "service call rejected", attrs...)
}
