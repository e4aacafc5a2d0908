package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hollowoak/cback/pkg/config"
	"github.com/hollowoak/cback/pkg/logging"
)

var (
	rootConfigPath string
	rootLogLevel   string
	rootQuiet      bool

	log *logrus.Logger
)

// NewRootCmd builds the cback command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cback",
		Short: "Backup orchestration tool",
		Long: `cback runs a fixed backup pipeline (collect, stage, store, purge) plus
meta-operations (rebuild, validate, initialize), optionally extended with
pluggable stages and fanned out to managed remote peers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := rootLogLevel
			if env := os.Getenv("CBACK_LOG_LEVEL"); level == "" && env != "" {
				level = env
			}
			if rootQuiet {
				level = "error"
			}
			log = logging.New(os.Stderr, level)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewPlanCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// configPath resolves the configuration file path: flag, then CBACK_CONFIG,
// then the system default.
func configPath() string {
	if rootConfigPath != "" {
		return rootConfigPath
	}
	if env := os.Getenv("CBACK_CONFIG"); env != "" {
		return env
	}
	return config.DefaultPath
}

// loadConfig reads the configuration the scheduling commands share.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath())
}

// stdoutIsTTY gates color and the interactive plan preview.
func stdoutIsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
