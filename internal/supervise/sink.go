package supervise

import (
	"context"
	"log/slog"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// Sink receives every log record the supervisor drains from a worker.
// Multiple sinks may be attached; each one sees each record exactly once,
// in arrival order.
type Sink interface {
	Handle(ctx context.Context, rec model.LogRecord)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, rec model.LogRecord)

func (f SinkFunc) Handle(ctx context.Context, rec model.LogRecord) {
	f(ctx, rec)
}

// LoggerSink re-emits worker records into a slog logger, typically a fanout
// over the console handler and the timestamped log files.
type LoggerSink struct {
	logger *slog.Logger
}

func NewLoggerSink(logger *slog.Logger) LoggerSink {
	return LoggerSink{logger: logger}
}

func (s LoggerSink) Handle(ctx context.Context, rec model.LogRecord) {
	attrs := make([]slog.Attr, 0, len(rec.Attrs)+1)
	if rec.TaskID != "" {
		attrs = append(attrs, slog.String("task_id", rec.TaskID))
	}
	for k, v := range rec.Attrs {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.logger.LogAttrs(ctx, rec.Level, rec.Message, attrs...)
}
