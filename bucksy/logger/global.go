package logger

import (
	"log/slog"
	"time"
)

// Setup installs the handler as the process wide default logger.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(level)))
}

// LogQuery logs one repository operation; successes only at debug level.
func LogQuery(collection, op string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("collection", collection),
		slog.String("op", op),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Debug("Query executed", attrs...)
	}
}
