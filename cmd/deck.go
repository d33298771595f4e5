package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsheet/internal/config"
	"github.com/arcanaland/cardsheet/internal/deck"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks in your deck library",
	Long: `Commands for managing the deck library. Decks in the library can be passed to
-i by name, without path or extension.`,
}

// deckListCmd represents the deck list command
var deckListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available decks in your deck library",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromContext(cmd.Context())
		out := cmd.OutOrStdout()
		libraryPath := config.GetDeckLibraryPath()

		// Check if deck library exists
		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			fmt.Fprintf(out, "Deck library at %s does not exist.\n", libraryPath)
			fmt.Fprintln(out, "Run 'cardsheet deck init' to create it.")
			return nil
		}

		resolved, err := filepath.EvalSymlinks(libraryPath)
		if err != nil {
			return fmt.Errorf("error resolving deck library: %w", err)
		}

		entries, err := os.ReadDir(resolved)
		if err != nil {
			return fmt.Errorf("error reading deck library: %w", err)
		}

		found := 0
		for _, entry := range entries {
			entryPath := filepath.Join(resolved, entry.Name())
			if _, err := deck.FormatFromPath(entryPath); err != nil {
				continue
			}

			d, err := deck.Load(entryPath)
			if err != nil {
				// Not a valid deck, skip
				logger.Debug("skipping deck", "file", entry.Name(), "err", err)
				continue
			}

			found++
			name := entry.Name()[:len(entry.Name())-len(filepath.Ext(entry.Name()))]
			fmt.Fprintf(out, "  %s %s\n", colorize.HiWhiteString(name),
				colorize.HiBlackString("(%s, %d cards)", d.Title, d.Len()))
		}

		if found == 0 {
			fmt.Fprintln(out, "No decks found in your deck library.")
			fmt.Fprintln(out, "You can add decks by copying them to:", resolved)
		}
		return nil
	},
}

// deckInitCmd represents the deck init command
var deckInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the deck library",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		libraryPath := config.GetDeckLibraryPath()

		// Create the deck library directory if it doesn't exist
		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			return fmt.Errorf("error creating deck library: %w", err)
		}

		fmt.Fprintln(out, "Deck library initialized at:", libraryPath)
		fmt.Fprintln(out, "You can now add decks (.json, .toml, .yaml) by copying them to this directory.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckInitCmd)
}
