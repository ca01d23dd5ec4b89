package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/config"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

type rootFlags struct {
	configPath string
	debug      bool
	logFile    string
}

var rf rootFlags

// cfg is loaded before any subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:           "rsgbench",
	Short:         "rsgbench: Russian SuperGLUE benchmarking and evaluation harness",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(rf.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		debug := cfg.Log.Debug || rf.debug
		logFile := cfg.Log.File
		if cmd.Flags().Changed("log-file") {
			logFile = rf.logFile
		}
		return utils.InitLogger(debug, logFile)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()

	if err != nil && !isCleanExit(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// execute runs the root command and closes the log file whether or not the
// command failed.
func execute(ctx context.Context) error {
	defer utils.CloseLogger()
	return rootCmd.ExecuteContext(ctx)
}

// isCleanExit reports errors caused by the user interrupting the command or
// closing the reading end of stdout.
func isCleanExit(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, syscall.EPIPE)
}

// flagOr returns the flag value when the user set it, else the config value.
func flagOr[T any](cmd *cobra.Command, name string, flagValue, configValue T) T {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rf.configPath, "config", "", "config file (default ~/.config/rsgbench/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&rf.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rf.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(evalDirCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(watchCmd)
}
