package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-classic-translate/internal/apierr"
	"github.com/alnah/go-classic-translate/internal/chapter"
	"github.com/alnah/go-classic-translate/internal/cli"
	"github.com/alnah/go-classic-translate/internal/config"
	"github.com/alnah/go-classic-translate/internal/document"
	"github.com/alnah/go-classic-translate/internal/lang"
	"github.com/alnah/go-classic-translate/internal/prompt"
	"github.com/alnah/go-classic-translate/internal/segment"
	"github.com/alnah/go-classic-translate/internal/token"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitGeneral     = 1
	ExitUsage       = 2
	ExitSetup       = 3
	ExitValidation  = 4
	ExitTranslation = 5
	ExitInterrupt   = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Create the CLI environment with production defaults.
	// Ctrl+C is owned by the translate command's interrupt handler, so the
	// first press stops after the current chapter instead of killing the run.
	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "classic-translate",
		Short:   "Translate long classical texts chapter by chapter",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.TranslateCmd(env))
	rootCmd.AddCommand(cli.PlanCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Graceful stop after a chapter, or abort on a second Ctrl+C.
	if errors.Is(err, cli.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3).
	if errors.Is(err, cli.ErrAPIKeyMissing) || errors.Is(err, cli.ErrInvalidProvider) ||
		errors.Is(err, token.ErrUnknownStrategy) || errors.Is(err, token.ErrTokenizerUnavailable) ||
		errors.Is(err, config.ErrInvalidFile) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4).
	if errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrInvalidFlag) ||
		errors.Is(err, cli.ErrNoChapters) || errors.Is(err, document.ErrUnsupportedFormat) ||
		errors.Is(err, document.ErrInvalidEncoding) || errors.Is(err, document.ErrEmpty) ||
		errors.Is(err, segment.ErrInvalidConfig) || errors.Is(err, chapter.ErrInvalidPattern) ||
		errors.Is(err, prompt.ErrUnknown) || errors.Is(err, lang.ErrInvalid) ||
		errors.Is(err, config.ErrUnknownKey) {
		return ExitValidation
	}

	// Translation errors (ExitTranslation = 5).
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrBadRequest) || errors.Is(err, apierr.ErrContextLength) ||
		errors.Is(err, apierr.ErrEmptyResponse) {
		return ExitTranslation
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
var cobraUsageErrorPatterns = []string{
	"required flag",          // Missing required flag
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"unknown command",        // Subcommand doesn't exist
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",      // Too few arguments
	"requires at most",       // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
