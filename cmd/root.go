// =============================================================================
// QRIS Dynamic Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (qris)
//   ├── convertCmd  (qris convert)
//   ├── merchantCmd (qris merchant)
//   ├── inspectCmd  (qris inspect)
//   ├── batchCmd    (qris batch)
//   ├── historyCmd  (qris history list|show|remove|clear|convert)
//   └── versionCmd  (qris version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/ginjaninja78/qris-dynamic/internal/config"
	"github.com/ginjaninja78/qris-dynamic/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging and extra output.
var verbose bool

// appConfig and logger are set by the root command before a subcommand runs.
var (
	appConfig *config.MainConfig
	logger    *slog.Logger
	closeLog  = func() error { return nil }
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "qris",
	Short: "QRIS Dynamic Converter - Turn static QRIS payloads into payloads with an amount",
	Long: `QRIS Dynamic Converter turns the static QRIS payload printed on a merchant's
QR sticker into a dynamic payload carrying a fixed transaction amount, so the
customer's wallet opens with the amount already filled in.

Key Features:
  - Exact EMVCo TLV handling and CRC-16/CCITT-FALSE checksums
  - Payload inspection with warnings for codes wallets may reject
  - QR image rendering
  - A short history of recently used static payloads
  - Concurrent batch conversion of CSV and XLSX files

Example Usage:
  qris convert --payload 000201... --amount 25000
  qris convert -p - -a "Rp 25.000" --png order.png < payload.txt
  qris inspect 000201...
  qris batch --dry-run`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, closer, err := logging.New(logging.Options{
			Level:   cfg.LogLevel,
			File:    cfg.LogFile,
			Verbose: verbose,
			Output:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}

		appConfig = cfg
		logger = log
		closeLog = closer
		logger.Debug("configuration loaded", "path", cfgFile)
		return nil
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file; defaults apply when it does not exist",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// readPayload returns the payload from a flag or positional argument. "-"
// reads it from standard input.
func readPayload(cmd *cobra.Command, value string) (string, error) {
	if value == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		value = string(data)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("a payload is required")
	}
	return value, nil
}

// payloadArg picks the payload from args or the --payload flag.
func payloadArg(cmd *cobra.Command, args []string, flagValue string) (string, error) {
	if len(args) > 0 {
		return readPayload(cmd, args[0])
	}
	return readPayload(cmd, flagValue)
}
