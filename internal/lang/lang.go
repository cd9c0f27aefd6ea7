// Package lang classifies documents by language using filename patterns and
// derives language-suffixed output roots, e.g. output-vi/ next to output/.
package lang

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
)

// Other is the catch-all language code for unmatched files.
const Other = "other"

// Classifier assigns a language code per file. Zero value is disabled and
// classifies everything as Other.
type Classifier struct {
	enabled  bool
	codes    []string // sorted, so overlapping patterns classify stably
	patterns map[string][]string
	format   string
}

func New(cfg model.Language) Classifier {
	return Classifier{
		enabled:  cfg.Enabled && cfg.Mode == model.LanguageModeFilename,
		codes:    slices.Sorted(maps.Keys(cfg.Patterns)),
		patterns: cfg.Patterns,
		format:   cfg.OutputFormat,
	}
}

func (c Classifier) Enabled() bool {
	return c.enabled
}

// Classify returns the language code for path. A pattern matches by
// substring on the filename. A language listing an empty pattern claims
// files matched by no other language's patterns.
func (c Classifier) Classify(path string) string {
	if !c.enabled {
		return Other
	}
	name := filepath.Base(path)

	for _, code := range c.codes {
		for _, p := range c.patterns[code] {
			if p != "" && strings.Contains(name, p) {
				return code
			}
		}
	}

	// fallback pass for languages accepting pattern-less files
	for _, code := range c.codes {
		for _, p := range c.patterns[code] {
			if p == "" {
				return code
			}
		}
	}
	return Other
}

// OutputRoot rewrites the base output directory for a language, replacing
// the final path element with the configured format ("output-{lang}").
func (c Classifier) OutputRoot(base, code string) string {
	if !c.enabled || c.format == "" {
		return base
	}
	dir := filepath.Dir(base)
	name := strings.ReplaceAll(c.format, "{lang}", code)
	return filepath.Join(dir, name)
}
