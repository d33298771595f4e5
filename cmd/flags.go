package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsheet/internal/config"
	"github.com/arcanaland/cardsheet/internal/deck"
	"github.com/arcanaland/cardsheet/internal/layout"
)

// layoutFlags are the grid flags shared by render, layout and validate
type layoutFlags struct {
	perPage int
	perRow  int
	flip    string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.perPage, "per-page", layout.DefaultPerPage, "cards per sheet side")
	cmd.Flags().IntVar(&f.perRow, "per-row", layout.DefaultPerRow, "cards per row")
	cmd.Flags().StringVar(&f.flip, "flip", layout.ShortEdge.String(), "edge the sheet is flipped on: short-edge or long-edge")
}

// options merges the flags over the config; flags win when set explicitly
func (f *layoutFlags) options(cmd *cobra.Command, cfg *config.Config, logger *log.Logger) layout.Options {
	opts := cfg.Layout()
	flip := cfg.Flip

	if cmd.Flags().Changed("per-page") {
		opts.PerPage = f.perPage
	}
	if cmd.Flags().Changed("per-row") {
		opts.PerRow = f.perRow
	}
	if cmd.Flags().Changed("flip") {
		flip = f.flip
		opts.Flip = layout.ParseFlipMode(flip)
	}

	if !layout.IsKnownFlipMode(flip) {
		logger.Debug("unrecognized flip mode, using short-edge", "flip", flip)
	}
	return opts
}

// loadDeck resolves a deck name or path and loads it
func loadDeck(name string, logger *log.Logger) (*deck.Deck, error) {
	path, err := config.GetDeckPath(name)
	if err != nil {
		return nil, err
	}

	p := newProgress(logger)
	d, err := deck.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading deck: %w", err)
	}
	p.done("loaded deck", "path", path, "cards", d.Len())

	return d, nil
}
