package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// queryLogger is a bun.QueryHook that writes every statement to zap.
type queryLogger struct {
	logger *zap.Logger
}

var _ bun.QueryHook = (*queryLogger)(nil)

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	fields := []zap.Field{
		zap.String("operation", event.Operation()),
		zap.Duration("duration", time.Since(event.StartTime)),
		zap.String("query", event.Query),
	}

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.logger.Warn("query failed", append(fields, zap.Error(event.Err))...)
		return
	}

	h.logger.Debug("query", fields...)
}
