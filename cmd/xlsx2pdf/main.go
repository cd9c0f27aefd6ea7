package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/RadteamBaoDA/xlsx2pdf/internal/convert"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/log"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/model"
	"github.com/RadteamBaoDA/xlsx2pdf/internal/supervise"
	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"
)

var (
	userConfigPath string // /default/config/path/xlsx2pdf on given OS
	configPath     string // actual config file used (if loaded)
	config         model.Config

	flagConfigFilePath string   // value of --config flag
	flagVerbose        bool     // value of --verbose flag
	flagInput          string   // value of --input flag
	flagOutput         string   // value of --output flag
	flagFileTypes      []string // value of --file-types flag
)

func init() {
	d, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	userConfigPath = filepath.Join(d, "xlsx2pdf")
}

func main() {
	// root flags
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "Config file to load - default is xlsx2pdf.yaml in current directory or in "+userConfigPath)
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagInput, "input", "", "input directory, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "output directory, overrides the config file")
	rootCmd.PersistentFlags().StringSliceVar(&flagFileTypes, "file-types", nil, "document families to convert: excel, word, powerpoint (default all)")

	// never print messages
	rootCmd.SilenceErrors = true

	// parse or create a config, setup logging
	rootCmd.PersistentPreRunE = initConverter

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("xlsx2pdf failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "xlsx2pdf",
	Short:        "Batch converter of Office documents to PDF",
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run command reads the configuration and executes the conversion batch",
	RunE:  doRun,
}

var convertCmd = &cobra.Command{
	Use:    "_convert",
	Short:  "internal command",
	RunE:   doConvert,
	Hidden: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version provide version of a xlsx2pdf",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Println("xlsx2pdf: version info not available")
		}

		if configPath != "" {
			fmt.Printf("config:   %s\n", configPath)
		}
		fmt.Printf("xlsx2pdf: %s\n", info.Main.Version)
		fmt.Printf("go:       %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("commit:   %s\n", s.Value)
			case "vcs.time":
				fmt.Printf("date:     %s\n", s.Value)
			case "vcs.modified":
				fmt.Printf("dirty:    %s\n", s.Value)
			}
		}
		fmt.Println()
	},
}

func initConverter(cmd *cobra.Command, _ []string) error {
	// the worker gets its whole task on stdin and logs on stderr; the
	// harness config and log fanout stay out of its way
	if cmd.Name() == convertCmd.Name() {
		return nil
	}

	if envConfig, ok := os.LookupEnv("XLSX2PDFCONFIG"); ok {
		configPath = envConfig
	} else if flagConfigFilePath != "" {
		configPath = flagConfigFilePath
	} else {
		for _, d := range []string{userConfigPath, "."} {
			path := filepath.Join(d, "xlsx2pdf.yaml")
			if exists(path) {
				configPath = path
				break
			}
		}
	}

	// store default configuration
	if configPath == "" {
		config = model.DefaultConfig()
		configPath = filepath.Join(userConfigPath, "xlsx2pdf.yaml")
		err := os.MkdirAll(filepath.Dir(configPath), 0755)
		if err != nil {
			return fmt.Errorf("creating directory %s: %w", filepath.Dir(configPath), err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("creating file %s: %w", configPath, err)
		}
		defer func() {
			_ = f.Close()
		}()
		enc := yaml.NewEncoder(f)
		err = enc.Encode(config)
		if err != nil {
			return fmt.Errorf("storing configuration: %w", err)
		}
	} else {
		f, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("opening config file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		config, err = model.LoadConfig(f)
		if err != nil {
			for _, d := range model.CueErrDetails(err) {
				slog.Error(d.String())
			}
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	// flags have a precedence over the config file
	if flagVerbose {
		config.Service.Verbose = true
	}
	if flagInput != "" {
		config.Input = flagInput
	}
	if flagOutput != "" {
		config.Output = flagOutput
	}

	if err := initLogging(); err != nil {
		return err
	}

	slog.Debug("xlsx2pdf run", "configPath", configPath)
	slog.Debug("xlsx2pdf run", "config", config)
	return nil
}

// initLogging fans records out to stderr, the timestamped conversion log and
// the error-only log. File handler failures degrade to stderr-only logging.
func initLogging() error {
	level := config.Logging.Level()
	if config.Service.Verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			AddSource: false,
			Level:     level,
		}),
	}

	logHandler, _, err := log.NewFileHandler(config.Logging.Folder, config.Logging.LogFile, level)
	if err != nil {
		slog.Warn("conversion log unavailable", "error", err)
	} else {
		handlers = append(handlers, logHandler)
	}
	errHandler, _, err := log.NewFileHandler(config.Logging.Folder, config.Logging.ErrorFile, slog.LevelError)
	if err != nil {
		slog.Warn("error log unavailable", "error", err)
	} else {
		handlers = append(handlers, errHandler)
	}

	ctxHandler := log.NewContextHandler(log.NewFanout(handlers...))
	slog.SetDefault(slog.New(ctxHandler))
	return nil
}

func doConvert(cmd *cobra.Command, args []string) error {
	factory := func(task model.Task) convert.Converter {
		return convert.NewSoffice(task.Engine)
	}
	return supervise.RunWorker(cmd.Context(), os.Stdin, os.Stdout, os.Stderr, factory)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
