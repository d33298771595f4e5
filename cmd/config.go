package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsheet/internal/config"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage default layout and rendering settings",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config file initialized at:", activeConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", activeConfigPath())
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set [key] [value]",
	Short:     "Change one setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(activeConfigPath(), cfg); err != nil {
			return err
		}

		loggerFromContext(cmd.Context()).Debug("config updated", "key", args[0], "value", args[1])
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), activeConfigPath())
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
