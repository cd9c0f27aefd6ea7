package supervise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/convert"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// ConverterFactory builds the conversion capability for one task. The worker
// receives the whole engine configuration inside the task, so no config file
// is read on the worker side.
type ConverterFactory func(model.Task) convert.Converter

// RunWorker is the worker half of the engine: the body of the hidden
// _convert command. It decodes one task from in, routes all logging as slog
// JSON lines to errOut (the log channel), reports the engine PID once on out
// (the handle channel) and returns an error iff the conversion failed, which
// the command layer turns into a nonzero exit status.
func RunWorker(ctx context.Context, in io.Reader, out, errOut io.Writer, factory ConverterFactory) error {
	var task model.Task
	if err := json.NewDecoder(in).Decode(&task); err != nil {
		return fmt.Errorf("decoding task from stdin: %w", err)
	}

	handler := slog.NewJSONHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(handler).With("task_id", task.ID)
	// the converter logs through the default logger
	prev := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(prev)

	var once sync.Once
	enc := json.NewEncoder(out)
	report := func(pid int) {
		once.Do(func() {
			// best-effort: losing the report must not fail the task
			if err := enc.Encode(model.HandleReport{PID: pid}); err != nil {
				logger.WarnContext(ctx, "reporting engine pid failed", "error", err)
			}
		})
	}

	logger.InfoContext(ctx, "conversion started",
		"input", task.Input, "output", task.Output, "family", string(task.Family))

	if err := factory(task).Convert(ctx, task, report); err != nil {
		logger.ErrorContext(ctx, "conversion failed", "input", task.Input, "error", err.Error())
		return fmt.Errorf("converting %s: %w", task.Input, err)
	}

	logger.InfoContext(ctx, "conversion finished", "output", task.Output)
	return nil
}
