// Package walk discovers convertible Office documents under an input root.
package walk

import (
	"context"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// Entry is one discovered document.
type Entry struct {
	Path   string // absolute path
	Family model.Family
}

// Options narrows a walk. Zero value means all families, nothing excluded.
type Options struct {
	// Families to include; empty means every supported family.
	Families []model.Family
	// ExcludeDirs are absolute directory paths pruned from the walk,
	// typically the enhanced-files mirror living inside the input tree.
	ExcludeDirs []string
}

func (o Options) wants(f model.Family) bool {
	if len(o.Families) == 0 {
		return true
	}
	for _, want := range o.Families {
		if want == f {
			return true
		}
	}
	return false
}

// Files recursively walks root and yields every regular Office document
// matching the options. Hidden directories and Office owner lock files
// ("~$...") are skipped. The walk stops early when ctx is cancelled or the
// consumer breaks.
func Files(ctx context.Context, root string, opts Options) iter.Seq2[Entry, error] {
	excluded := make(map[string]struct{}, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		excluded[filepath.Clean(d)] = struct{}{}
	}

	return func(yield func(Entry, error) bool) {
		fn := func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if err != nil {
				if !yield(Entry{Path: path}, err) {
					return fs.SkipAll
				}
				return nil
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				if _, ok := excluded[filepath.Clean(path)]; ok {
					return fs.SkipDir
				}
				if strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}
			if strings.HasPrefix(d.Name(), "~$") {
				return nil
			}
			family := model.FamilyOf(path)
			if family == "" || !opts.wants(family) {
				return nil
			}

			if !yield(Entry{Path: path, Family: family}, nil) {
				return fs.SkipAll
			}
			return nil
		}
		_ = filepath.WalkDir(root, fn)
	}
}
