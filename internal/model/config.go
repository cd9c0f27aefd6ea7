package model

import (
	"io"
	"log/slog"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	_ "embed"
)

const (
	ServiceModeManual = "manual"
	ServiceModeTimer  = "timer"

	LanguageModeFilename = "filename"
)

//go:embed config.cue
var cueSource []byte

var (
	cueCtx *cue.Context
	schema cue.Value
)

func init() {
	if len(cueSource) == 0 {
		panic("variable cueSource is empty")
	}
	cueCtx = cuecontext.New()
	compiled := cueCtx.CompileBytes(cueSource)
	if compiled.Err() != nil {
		panic(compiled.Err())
	}
	if err := compiled.Validate(); err != nil {
		panic(err)
	}

	schema = compiled.LookupPath(cue.ParsePath("#Config"))
	if schema.Err() != nil {
		panic(schema.Err())
	}
}

// Config is the whole converter configuration. Zero values never appear in a
// loaded config: the CUE schema supplies a default for every field, so an
// empty YAML document decodes to DefaultConfig.
type Config struct {
	Version        int           `json:"version" yaml:"version"` // fixed 0 for now
	Input          string        `json:"input" yaml:"input"`
	Output         string        `json:"output" yaml:"output"`
	TimeoutMinutes int           `json:"timeout_minutes" yaml:"timeout_minutes"`
	Excel          ExcelOptions  `json:"excel" yaml:"excel"`
	Word           FamilyOptions `json:"word" yaml:"word"`
	PowerPoint     FamilyOptions `json:"powerpoint" yaml:"powerpoint"`
	Engine         Engine        `json:"engine" yaml:"engine"`
	Logging        Logging       `json:"logging" yaml:"logging"`
	Language       Language      `json:"language_classification" yaml:"language_classification"`
	Service        Service       `json:"service" yaml:"service"`
}

// Deadline is the per-task wall-clock budget.
func (c Config) Deadline() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// Suffix returns the output filename suffix for a document family.
func (c Config) Suffix(f Family) string {
	switch f {
	case FamilyWord:
		return c.Word.OutputSuffix
	case FamilyPowerPoint:
		return c.PowerPoint.OutputSuffix
	default:
		return c.Excel.OutputSuffix
	}
}

// ExcelOptions carries the Excel-only knobs on top of the common ones.
type ExcelOptions struct {
	OutputSuffix    string `json:"output_suffix" yaml:"output_suffix"`
	PrepareForPrint bool   `json:"prepare_for_print" yaml:"prepare_for_print"`
	EnhancedDir     string `json:"enhanced_dir" yaml:"enhanced_dir"`
}

type FamilyOptions struct {
	OutputSuffix string `json:"output_suffix" yaml:"output_suffix"`
}

// Engine describes the external conversion application. It travels inside
// every Task so the worker process needs no config file of its own.
type Engine struct {
	Binary string   `json:"binary" yaml:"binary"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty"`
}

type Logging struct {
	Folder    string `json:"logs_folder" yaml:"logs_folder"`
	LogFile   string `json:"log_file" yaml:"log_file"`
	ErrorFile string `json:"error_file" yaml:"error_file"`
	LogLevel  string `json:"log_level" yaml:"log_level"` // DEBUG | INFO | WARNING | ERROR
}

// Level maps the configured name onto a slog level, defaulting to info.
func (l Logging) Level() slog.Level {
	switch l.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Language configures filename-based language classification of inputs.
type Language struct {
	Enabled       bool                `json:"enabled" yaml:"enabled"`
	Mode          string              `json:"mode" yaml:"mode"` // only "filename"
	Patterns      map[string][]string `json:"filename_patterns,omitempty" yaml:"filename_patterns,omitempty"`
	OutputFormat  string              `json:"output_suffix_format" yaml:"output_suffix_format"`
	KeepStructure bool                `json:"keep_folder_structure" yaml:"keep_folder_structure"`
}

// Service selects between a single batch run and scheduled repetition.
type Service struct {
	Mode     string    `json:"mode" yaml:"mode"` // "manual" | "timer"
	Verbose  bool      `json:"verbose" yaml:"verbose"`
	Schedule *Schedule `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// Schedule is a tagged union: exactly one of Cron or Duration is set.
type Schedule struct {
	Cron     string `json:"cron,omitempty" yaml:"cron,omitempty"`
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// LoadConfig validates YAML from r against the CUE schema and decodes it.
func LoadConfig(r io.Reader) (Config, error) {
	yamlFile, err := yaml.Extract("config.yaml", r)
	if err != nil {
		return Config{}, err
	}
	yamlValue := cueCtx.BuildFile(yamlFile)

	unified := schema.Unify(yamlValue)
	if err := unified.Validate(
		cue.All(),          // all constraints
		cue.Concrete(true), // no incomplete values
	); err != nil {
		return Config{}, err
	}

	var out Config
	if err := unified.Decode(&out); err != nil {
		return Config{}, err
	}
	return out, nil
}

// DefaultConfig mirrors the schema defaults. Kept in sync by the config
// tests, which load an empty document and compare.
func DefaultConfig() Config {
	return Config{
		Version:        0,
		Input:          "./input",
		Output:         "./output",
		TimeoutMinutes: 45,
		Excel: ExcelOptions{
			OutputSuffix:    "_x",
			PrepareForPrint: true,
			EnhancedDir:     "enhanced_files",
		},
		Word:       FamilyOptions{OutputSuffix: "_d"},
		PowerPoint: FamilyOptions{OutputSuffix: "_p"},
		Engine: Engine{
			Binary: "soffice",
		},
		Logging: Logging{
			Folder:    "logs",
			LogFile:   "conversion.log",
			ErrorFile: "errors.log",
			LogLevel:  "INFO",
		},
		Language: Language{
			Enabled:       false,
			Mode:          LanguageModeFilename,
			OutputFormat:  "output-{lang}",
			KeepStructure: true,
		},
		Service: Service{
			Mode: ServiceModeManual,
		},
	}
}
