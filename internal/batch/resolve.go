// Package batch turns discovered documents into tasks and drives them
// through the supervisor, one at a time.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/lang"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/parallel"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/walk"
)

// resolution parallelism; path work only, no conversion runs here
const resolveLimit = 4

// Resolve walks the input root and returns the fully resolved task list:
// absolute paths, per-family output suffix, optional language-suffixed
// output root, merged engine configuration and deadline. Tasks come back
// ordered by input path, so batches are reproducible.
func Resolve(ctx context.Context, cfg model.Config, families []model.Family) ([]model.Task, error) {
	inputRoot, err := filepath.Abs(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("resolving input root: %w", err)
	}
	outputRoot, err := filepath.Abs(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("resolving output root: %w", err)
	}

	opts := walk.Options{Families: families}
	if cfg.Excel.PrepareForPrint {
		enhancedRoot, err := filepath.Abs(cfg.Excel.EnhancedDir)
		if err != nil {
			return nil, fmt.Errorf("resolving enhanced dir: %w", err)
		}
		opts.ExcludeDirs = append(opts.ExcludeDirs, enhancedRoot)
	}

	classifier := lang.New(cfg.Language)

	resolveOne := func(_ context.Context, entry walk.Entry) (model.Task, error) {
		task := model.Task{
			ID:       uuid.NewString(),
			Input:    entry.Path,
			Family:   entry.Family,
			Deadline: cfg.Deadline(),
			Engine:   cfg.Engine,
		}

		root := outputRoot
		if classifier.Enabled() {
			task.Language = classifier.Classify(entry.Path)
			root = classifier.OutputRoot(outputRoot, task.Language)
		}
		task.Output = outputPath(entry.Path, inputRoot, root,
			cfg.Suffix(entry.Family), cfg.Language.KeepStructure)
		return task, nil
	}

	var tasks []model.Task
	mapper := parallel.NewMap(ctx, resolveLimit, resolveOne)
	for task, err := range mapper.Iter(walk.Files(ctx, inputRoot, opts)) {
		if err != nil {
			slog.WarnContext(ctx, "skipping input", "error", err)
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Input < tasks[j].Input })
	return tasks, nil
}

// outputPath mirrors the input tree below outputRoot and rewrites the
// filename to <stem><suffix>.pdf. With keepStructure off everything lands
// flat in outputRoot.
func outputPath(input, inputRoot, outputRoot, suffix string, keepStructure bool) string {
	rel := filepath.Base(input)
	if keepStructure {
		if r, err := filepath.Rel(inputRoot, input); err == nil {
			rel = r
		}
	}
	out := filepath.Join(outputRoot, rel)
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + suffix + ".pdf"
}

// Distribution counts resolved tasks per language code. Empty when
// classification is disabled.
func Distribution(tasks []model.Task) map[string]int {
	dist := make(map[string]int)
	for _, t := range tasks {
		if t.Language == "" {
			continue
		}
		dist[t.Language]++
	}
	return dist
}
