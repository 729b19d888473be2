// Package commands implements the CLI commands for iconvault.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/iconvault/iconvault/internal/archive"
	"github.com/iconvault/iconvault/internal/config"
	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/internal/logging"
	"github.com/iconvault/iconvault/internal/replacer"
	"github.com/iconvault/iconvault/internal/store"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// cfg is the loaded configuration, populated by initConfig.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("iconvault version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "iconvault",
	Short: "Transactional icon customization for folders, extensions, and shortcuts",
	Long: `iconvault replaces the icons of folders, file-type associations, and
shortcuts with full undo support.

Every change is recorded in a pending ledger holding the prior state of
everything touched. A run can roll its changes back exactly, newest first,
or commit them into a durable backup archive that can be inspected,
restored, and pruned later.`,
	Example: `  # Point a folder at a custom icon and commit the change
  iconvault apply folder ~/Projects --icon ~/icons/code.ico --commit

  # Apply a whole manifest, rolling back everything if any item fails
  iconvault batch icons.yaml --rollback-on-error

  # Inspect and prune the backup archive
  iconvault backup list
  iconvault backup prune --keep 5`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return iverrors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("ICONVAULT_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return iverrors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load and validation failures before any
// subcommand runs.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return iverrors.NewConfigError(configLoadErr)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		return iverrors.NewConfigError(errors.Wrapf(errs[0],
			"in %s", config.Path()))
	}

	return nil
}

// openArchive opens the backup archive at the configured root.
func openArchive() (*archive.Archive, error) {
	arch, err := archive.New(cfg.BackupDir)
	if err != nil {
		return nil, iverrors.NewSystemError(err, "check that the backup directory is writable")
	}
	return arch, nil
}

// newReplacer wires a Replacer from the loaded configuration.
func newReplacer(cmd *cobra.Command) (*replacer.Replacer, *archive.Archive, error) {
	kv, err := store.NewFileKV(cfg.StorePath)
	if err != nil {
		return nil, nil, iverrors.NewSystemError(err, "check that the store path is writable")
	}

	arch, err := openArchive()
	if err != nil {
		return nil, nil, err
	}

	r, err := replacer.New(kv, arch, cfg.StagingDir,
		replacer.WithLogger(logging.FromContext(cmd.Context())))
	if err != nil {
		return nil, nil, iverrors.NewSystemError(err, "check that the staging directory is writable")
	}
	return r, arch, nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var exitErr *iverrors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", exitErr.Suggestion)
	}
	return err
}
