package middleware

import (
	"context"
	"log/slog"
	"time"

	"aptcatalog/internal/app/commands"
	"aptcatalog/internal/app/queries"
	"aptcatalog/internal/domain/shared/faults"
)

// CommandLogging records each dispatch with its outcome and duration.
func CommandLogging(logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		if logger == nil {
			return next
		}
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logOutcome(ctx, logger, "command", cmd.Key(), start, err)
			return res, err
		})
	}
}

// QueryLogging records each query at debug level, failures at warn or error.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if logger == nil {
			return next
		}
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			logOutcome(ctx, logger, "query", q.Key(), start, err)
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, kind, key string, start time.Time, err error) {
	attrs := []any{"kind", kind, "key", key, "duration", time.Since(start)}
	switch {
	case err == nil:
		logger.DebugContext(ctx, "bus message handled", attrs...)
	case faults.KindOf(err) == faults.KindStorage:
		logger.ErrorContext(ctx, "bus message failed", append(attrs, "error", err)...)
	default:
		logger.WarnContext(ctx, "bus message rejected", append(attrs, "error", err)...)
	}
}
