package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsheet/internal/buildinfo"
	"github.com/arcanaland/cardsheet/internal/config"
)

var (
	verbose    bool
	configPath string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardsheet",
	Short: "Lay out double-sided card sheets for duplex printing",
	Long: `Cardsheet turns a deck of cards into print-ready sheets. Every sheet holds a
fixed number of cards per side, and the back side is mirrored so that, once the
sheet is flipped on its short or long edge, each card back lands exactly behind
its front.`,
	Version:      buildinfo.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := newLogger(os.Stderr, level)
		cmd.SetContext(withLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	RootCmd.SetVersionTemplate(buildinfo.Template())
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cardsheet/config.toml)")
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// loadConfig loads the config selected by --config, or the default one
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfigFrom(configPath)
	}
	return config.LoadConfig()
}

// activeConfigPath returns the config file the current run uses
func activeConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetConfigFilePath()
}
