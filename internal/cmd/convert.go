package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harrison/csvconv/internal/config"
	"github.com/harrison/csvconv/internal/detect"
	"github.com/harrison/csvconv/internal/display"
	"github.com/harrison/csvconv/internal/history"
	"github.com/harrison/csvconv/internal/logger"
	"github.com/harrison/csvconv/internal/models"
	"github.com/harrison/csvconv/internal/pipeline"
	"github.com/spf13/cobra"
)

// newGuesser builds the encoding detector used by convert commands. The
// chardet detector is compiled in; tests swap this to stub detection or to
// drop the capability.
var newGuesser = func(minConfidence int) detect.EncodingGuesser {
	g := detect.NewChardetGuesser()
	g.MinConfidence = minConfidence
	return g
}

var profileHelp = map[string]string{
	models.ProfileCSV:    "Convert GB2312 encoded CSV files to UTF-8",
	models.ProfileConfig: "Convert UTF-8 encoded config files to GB2312",
}

// NewConvertCommand creates the subcommand that runs profile, e.g. "csvconv csv"
func NewConvertCommand(profile string) *cobra.Command {
	return newConvertCommand(profile+" <source_dir> <destination_dir>", profile)
}

// NewStandaloneCommand creates a root command that runs a single profile,
// used by the csv-converter and config-converter binaries.
func NewStandaloneCommand(name, profile string) *cobra.Command {
	cmd := newConvertCommand(name+" <source_dir> <destination_dir>", profile)
	cmd.Version = Version
	cmd.SilenceUsage = true
	return cmd
}

func newConvertCommand(use, profile string) *cobra.Command {
	short := profileHelp[profile]
	if short == "" {
		short = fmt.Sprintf("Convert files with the %q profile", profile)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Every file under source_dir with a matching extension (default .csv) is
written to the same relative path under destination_dir. Files whose
detected encoding is in the profile are re-encoded; all others are copied
byte for byte. The source tree is never modified.

Configuration is loaded from $CSVCONV_HOME/config.yaml (default
~/.csvconv/config.yaml) or --config. CLI flags override configuration
file settings.

Examples:
  csvconv csv ./tables ./tables-utf8
  csvconv config ./cfg ./cfg-gb2312 --ext .csv --ext .txt
  csvconv csv ./tables ./out --dry-run --verbose
  csvconv csv ./tables ./out --exclude-dir .svn --skip-hidden --max-depth 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, profile, args[0], args[1])
		},
	}

	cmd.Flags().String("config", "", "Path to config file, YAML or TOML (default: $CSVCONV_HOME/config.yaml)")
	cmd.Flags().StringSlice("ext", nil, "File extension to convert, repeatable (default .csv)")
	cmd.Flags().Bool("strict", false, "Fail files containing undecodable bytes instead of dropping them")
	cmd.Flags().Bool("dry-run", false, "Detect and report without writing anything")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for per-run log files")
	cmd.Flags().String("history-db", "", "SQLite database recording each run")
	cmd.Flags().StringSlice("accept", nil, "Override the encodings the profile converts, e.g. --accept gbk")
	cmd.Flags().String("pattern", "", "Only convert files whose name (without extension) matches this regex")
	cmd.Flags().StringSlice("exclude-dir", nil, "Directory name to skip, repeatable (e.g. .git)")
	cmd.Flags().Bool("skip-hidden", false, "Skip directories whose name starts with a dot")
	cmd.Flags().Int("max-depth", 0, "Limit recursion depth (0 = unlimited, 1 = source root only)")
	cmd.Flags().Int("min-confidence", detect.DefaultMinConfidence, "Ignore encoding guesses scored below this (0-100)")
	cmd.Flags().Bool("verbose", false, "Show detection and progress details (log level debug)")

	return cmd
}

// loadConfig loads --config if given, else the default config path
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(defaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, profileName, source, dest string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Build flag pointers for merge (only changed values)
	var decodeModePtr, logLevelPtr, logDirPtr, historyDBPtr *string
	var dryRunPtr *bool

	if cmd.Flags().Changed("strict") {
		strict, _ := cmd.Flags().GetBool("strict")
		mode := "lossy"
		if strict {
			mode = "strict"
		}
		decodeModePtr = &mode
	}
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &v
	}
	if cmd.Flags().Changed("log-dir") {
		v, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &v
	}
	if cmd.Flags().Changed("history-db") {
		v, _ := cmd.Flags().GetString("history-db")
		historyDBPtr = &v
	}
	if cmd.Flags().Changed("dry-run") {
		v, _ := cmd.Flags().GetBool("dry-run")
		dryRunPtr = &v
	}
	extensions, _ := cmd.Flags().GetStringSlice("ext")

	cfg.MergeWithFlags(extensions, decodeModePtr, logLevelPtr, logDirPtr, historyDBPtr, dryRunPtr)

	var patternPtr *string
	var skipHiddenPtr *bool
	var maxDepthPtr, minConfidencePtr *int
	if cmd.Flags().Changed("pattern") {
		v, _ := cmd.Flags().GetString("pattern")
		patternPtr = &v
	}
	if cmd.Flags().Changed("skip-hidden") {
		v, _ := cmd.Flags().GetBool("skip-hidden")
		skipHiddenPtr = &v
	}
	if cmd.Flags().Changed("max-depth") {
		v, _ := cmd.Flags().GetInt("max-depth")
		maxDepthPtr = &v
	}
	if cmd.Flags().Changed("min-confidence") {
		v, _ := cmd.Flags().GetInt("min-confidence")
		minConfidencePtr = &v
	}
	excludeDirs, _ := cmd.Flags().GetStringSlice("exclude-dir")

	cfg.MergeScanFlags(patternPtr, excludeDirs, skipHiddenPtr, maxDepthPtr, minConfidencePtr)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	profile, err := cfg.ResolveProfile(profileName)
	if err != nil {
		return err
	}
	if accept, _ := cmd.Flags().GetStringSlice("accept"); len(accept) > 0 {
		profile.Convertible = accept
	}

	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	loggers := []pipeline.Logger{consoleLog}

	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLoggerWithLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		loggers = append(loggers, fileLog)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := pipeline.Options{
		SourceRoot:  source,
		DestRoot:    dest,
		Profile:     profile,
		Extensions:  cfg.Extensions,
		Pattern:     cfg.Pattern,
		ExcludeDirs: cfg.ExcludeDirs,
		SkipHidden:  cfg.SkipHidden,
		MaxDepth:    cfg.MaxDepth,
		Mode:        cfg.Mode(),
		DryRun:      cfg.DryRun,
	}
	run, runErr := pipeline.Run(ctx, opts, pipeline.Deps{
		Guesser: newGuesser(cfg.MinConfidence),
		Logger:  &multiLogger{loggers: loggers},
	})
	if run == nil {
		return runErr
	}

	if cfg.HistoryDB != "" {
		if err := recordHistory(ctx, cfg.HistoryDB, run, consoleLog); err != nil {
			display.Warning{
				Title:   "Run history not recorded",
				Message: err.Error(),
			}.Display(cmd.ErrOrStderr())
		}
	}

	display.PrintSummary(cmd.OutOrStdout(), run)
	return runErr
}

func recordHistory(ctx context.Context, dbPath string, run *models.RunResult, log pipeline.Logger) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// Record even after Ctrl-C so the partial run is visible
	if err := store.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		return err
	}
	log.LogDebug(fmt.Sprintf("Recorded run %s in %s", run.RunID, store.Path()))
	return nil
}
