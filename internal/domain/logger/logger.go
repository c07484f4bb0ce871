package logger

import (
	"log/slog"
	"time"
)

// QueryLogger times a single store operation and logs its outcome.
type QueryLogger struct {
	Store     string
	Operation string
	Target    string
	StartTime time.Time
}

func NewQueryLogger(store, operation, target string) *QueryLogger {
	return &QueryLogger{
		Store:     store,
		Operation: operation,
		Target:    target,
		StartTime: time.Now(),
	}
}

// Log records the result. Successful queries are logged at debug level.
func (l *QueryLogger) Log(err error, affected int64, attrs ...any) {
	base := []any{
		slog.String("type", "db"),
		slog.String("store", l.Store),
		slog.String("operation", l.Operation),
		slog.String("target", l.Target),
		slog.Duration("took", time.Since(l.StartTime)),
	}

	if err != nil {
		slog.Error("Query failed", append(append(base, slog.Any("error", err)), attrs...)...)
		return
	}

	slog.Debug("Query executed", append(append(base, slog.Int64("affected", affected)), attrs...)...)
}
