package http

import (
	"context"
	"log/slog"

	"github.com/example/quebra-tigela/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	return logging.Component(ctx, fallback, "http", operation, append([]any{"handler", handlerName}, attrs...)...)
}
