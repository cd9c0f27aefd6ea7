package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// TaskRunner supervises a single task to its terminal outcome. Satisfied by
// *supervise.Supervisor; an N-way pooled implementation could be dropped in
// here once the engine is proven safe to run concurrently.
type TaskRunner interface {
	Run(ctx context.Context, task model.Task) (model.Outcome, error)
}

// Options carries the prepare-for-print knobs. Zero value disables it.
type Options struct {
	PrepareForPrint bool
	InputRoot       string
	EnhancedRoot    string
}

// Runner dispatches tasks strictly sequentially and is the only writer of
// the aggregate: each task folds exactly one outcome, failures never abort
// the remaining tasks.
type Runner struct {
	sup  TaskRunner
	opts Options
}

func NewRunner(sup TaskRunner, opts Options) *Runner {
	return &Runner{sup: sup, opts: opts}
}

func (r *Runner) Run(ctx context.Context, tasks []model.Task) model.Aggregate {
	var agg model.Aggregate
	for i, task := range tasks {
		slog.InfoContext(ctx, "processing",
			"task_id", task.ID,
			"input", task.Input,
			"progress", fmt.Sprintf("%d/%d", i+1, len(tasks)))

		prepared, err := r.prepare(ctx, task)
		if err != nil {
			slog.ErrorContext(ctx, "prepare for print failed",
				"task_id", task.ID, "input", task.Input, "error", err)
			agg.Fold(task, model.Outcome{Kind: model.OutcomeFailure, ExitCode: -1})
			continue
		}

		outcome, err := r.sup.Run(ctx, prepared)
		if err != nil {
			slog.ErrorContext(ctx, "worker could not be started",
				"task_id", task.ID, "input", task.Input, "error", err)
			agg.Fold(task, model.Outcome{Kind: model.OutcomeFailure, ExitCode: -1})
			continue
		}

		switch outcome.Kind {
		case model.OutcomeSuccess:
			slog.InfoContext(ctx, "converted",
				"task_id", task.ID, "input", task.Input, "output", task.Output)
		default:
			slog.ErrorContext(ctx, "conversion did not succeed",
				"task_id", task.ID, "input", task.Input, "outcome", outcome.String())
		}
		agg.Fold(task, outcome)
	}
	return agg
}

// prepare copies an Excel input into the enhanced mirror and redirects the
// task there. Non-Excel families pass through untouched. The returned task
// is the one actually dispatched; the original stays immutable.
func (r *Runner) prepare(ctx context.Context, task model.Task) (model.Task, error) {
	if !r.opts.PrepareForPrint || task.Family != model.FamilyExcel {
		return task, nil
	}

	rel, err := filepath.Rel(r.opts.InputRoot, task.Input)
	if err != nil {
		return task, fmt.Errorf("relativizing %s: %w", task.Input, err)
	}
	dest := filepath.Join(r.opts.EnhancedRoot, rel)
	if err := copyFile(task.Input, dest); err != nil {
		return task, err
	}

	slog.DebugContext(ctx, "prepared for print", "task_id", task.ID, "copy", dest)
	task.Input = dest
	return task, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
