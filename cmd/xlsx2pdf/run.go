package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/batch"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/log"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/report"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/service"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/supervise"
)

func doRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	attrs := slog.Group("xlsx2pdf",
		slog.String("cmd", "run"),
		slog.Int("pid", os.Getpid()),
	)
	ctx = log.ContextAttrs(ctx, attrs)

	families, err := parseFamilies(flagFileTypes)
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating own binary: %w", err)
	}
	sup := supervise.New(exe, "_convert").
		WithSinks(supervise.NewLoggerSink(slog.Default()))

	runBatch := func(ctx context.Context) (model.Aggregate, error) {
		return runOnce(ctx, sup, families)
	}

	svc, err := service.New(config.Service, runBatch)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

// runOnce resolves the current input tree and converts it task by task,
// then renders and stores the summary.
func runOnce(ctx context.Context, sup batch.TaskRunner, families []model.Family) (model.Aggregate, error) {
	started := time.Now()

	tasks, err := batch.Resolve(ctx, config, families)
	if err != nil {
		return model.Aggregate{}, fmt.Errorf("resolving tasks: %w", err)
	}
	if len(tasks) == 0 {
		slog.InfoContext(ctx, "nothing to convert", "input", config.Input)
		return model.Aggregate{}, nil
	}
	slog.InfoContext(ctx, "batch resolved", "tasks", len(tasks), "input", config.Input)

	// resolved tasks carry absolute paths, the prepare roots must match
	inputRoot, err := filepath.Abs(config.Input)
	if err != nil {
		return model.Aggregate{}, fmt.Errorf("resolving input root: %w", err)
	}
	enhancedRoot, err := filepath.Abs(config.Excel.EnhancedDir)
	if err != nil {
		return model.Aggregate{}, fmt.Errorf("resolving enhanced dir: %w", err)
	}

	runner := batch.NewRunner(sup, batch.Options{
		PrepareForPrint: config.Excel.PrepareForPrint,
		InputRoot:       inputRoot,
		EnhancedRoot:    enhancedRoot,
	})
	agg := runner.Run(ctx, tasks)

	summary := report.Summary{
		Aggregate: agg,
		Languages: batch.Distribution(tasks),
		Started:   started,
		Elapsed:   time.Since(started),
	}
	if err := summary.Render(os.Stdout); err != nil {
		slog.WarnContext(ctx, "rendering summary failed", "error", err)
	}
	path, err := summary.Save(config.Logging.Folder)
	if err != nil {
		slog.WarnContext(ctx, "storing summary report failed", "error", err)
	} else {
		slog.InfoContext(ctx, "summary report saved", "path", path)
	}
	return agg, nil
}

func parseFamilies(names []string) ([]model.Family, error) {
	out := make([]model.Family, 0, len(names))
	for _, name := range names {
		if name == "all" {
			return nil, nil // nil means every supported family
		}
		f, err := model.ParseFamily(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
