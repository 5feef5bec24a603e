// Package cmd contains all CLI commands for suprss
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/config"
	"github.com/ElouanDeriaux/suprss/internal/output"
	"github.com/ElouanDeriaux/suprss/internal/session"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	colorMode string
	apiURL    string
	cfg       *config.Config
	cfgUsed   string
	logger    *slog.Logger
	version   = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "suprss",
	Short: "Command-line client for the SUPRSS feed reader",
	Long: `suprss talks to a SUPRSS server: shared collections of RSS feeds,
articles with read and favorite flags, a personal archive, and a chat per
collection.

Example usage:
  suprss login                          # Sign in (asks for the 2FA code if enabled)
  suprss collections list               # Show owned and shared collections
  suprss feeds add --collection 3 URL   # Subscribe a collection to a feed
  suprss articles list --feed 7 --read false
  suprss unread --watch                 # Poll unread chat messages`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the command tree, prints any error, and returns it so the
// caller can pick the exit code.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	cliErr := toCLIError(err)
	errPrinter().FormatError(cliErr)
	return cliErr
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .suprss.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print requested data and errors")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output (auto, always, never)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "SUPRSS API base URL (overrides api.base_url)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &output.CLIError{
			Summary:    err.Error(),
			Suggestion: fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
			ExitCode:   output.ExitUsageError,
		}
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	logger = newLogger("info", "text")

	if _, err := output.ParseColorMode(colorMode); err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}
	if verbose && quiet {
		return &output.CLIError{
			Summary:  "--verbose and --quiet cannot be used together",
			ExitCode: output.ExitUsageError,
		}
	}

	var err error
	cfg, cfgUsed, err = config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .suprss.yaml and SUPRSS_* variables, or use --config",
			ExitCode:   output.ExitConfigError,
		}
	}
	if apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(apiURL, "/")
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger = newLogger(level, cfg.Logging.Format)

	logger.Debug("configuration loaded",
		"config_file", cfgUsed,
		"api_base_url", cfg.API.BaseURL,
		"session_file", sessionPath(),
	)

	return nil
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newPrinter returns a printer on the command's writers
func newPrinter(cmd *cobra.Command) *output.Printer {
	mode, _ := output.ParseColorMode(colorMode)
	configColors := true
	if cfg != nil {
		configColors = cfg.Output.Colors
	}
	return output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: configColors,
		Quiet:        quiet,
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
	})
}

// errPrinter is used after the command returned, when only the root's
// writers are known.
func errPrinter() *output.Printer {
	return newPrinter(rootCmd)
}

func sessionPath() string {
	if cfg != nil && cfg.Session.File != "" {
		return cfg.Session.File
	}
	return session.DefaultPath()
}

func sessionStore() *session.Store {
	return session.NewStore(sessionPath())
}

// newAPIClient returns a client that reads the token from the session
// file and forgets it when the server rejects it.
func newAPIClient() *api.Client {
	store := sessionStore()
	return api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
		api.WithTokenSource(store),
		api.WithUnauthorizedHandler(func() {
			if err := store.Clear(); err != nil {
				logger.Warn("failed to clear session", "error", err)
				return
			}
			logger.Debug("session cleared after 401", "path", store.Path())
		}),
	)
}

// isTimeout reports whether err comes from a deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
