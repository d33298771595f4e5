package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/cardsheet/internal/card"
	"github.com/arcanaland/cardsheet/internal/layout"
)

var (
	layoutOpts  layoutFlags
	layoutInput string
	layoutJSON  bool
)

// layoutCmd represents the layout command
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Preview how cards are placed on the front and back of each sheet",
	Long: `Layout prints the slot grid of every sheet: the front as it comes out of the
printer and the back as it must be printed so that flipping the sheet puts each
card back behind its front. Empty slots are shown as "·".

Examples:
  cardsheet layout -i kpi.json
  cardsheet layout -i kpi.json --flip long-edge
  cardsheet layout -i kpi.json --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromContext(cmd.Context())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := loadDeck(layoutInput, logger)
		if err != nil {
			return err
		}

		opts := layoutOpts.options(cmd, cfg, logger)
		pages, err := layout.Paginate(d.Cards, opts)
		if err != nil {
			return err
		}

		if layoutJSON {
			return writeLayoutJSON(cmd.OutOrStdout(), pages, opts)
		}

		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80 // Default if we can't get terminal width
		}
		printLayout(cmd.OutOrStdout(), pages, opts, width)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(layoutCmd)

	layoutCmd.Flags().StringVarP(&layoutInput, "input", "i", "", "deck file or deck library name")
	layoutCmd.Flags().BoolVar(&layoutJSON, "json", false, "print slot IDs as JSON")
	layoutOpts.register(layoutCmd)

	_ = layoutCmd.MarkFlagRequired("input")
}

type layoutSheet struct {
	Fronts []*string `json:"fronts"`
	Backs  []*string `json:"backs"`
}

type layoutDoc struct {
	PerPage int           `json:"per_page"`
	PerRow  int           `json:"per_row"`
	Flip    string        `json:"flip"`
	Sheets  []layoutSheet `json:"sheets"`
}

// writeLayoutJSON prints card IDs per slot, null for placeholders
func writeLayoutJSON(w io.Writer, pages []layout.Page[card.Card], opts layout.Options) error {
	doc := layoutDoc{
		PerPage: opts.PerPage,
		PerRow:  opts.PerRow,
		Flip:    opts.Flip.String(),
		Sheets:  make([]layoutSheet, 0, len(pages)),
	}
	for _, p := range pages {
		doc.Sheets = append(doc.Sheets, layoutSheet{Fronts: slotIDs(p.Fronts), Backs: slotIDs(p.Backs)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func slotIDs(slots []layout.Slot[card.Card]) []*string {
	ids := make([]*string, len(slots))
	for i, s := range slots {
		if c, ok := s.Card(); ok {
			id := c.ID
			ids[i] = &id
		}
	}
	return ids
}

// printLayout draws the front and back grids of each sheet side by side
func printLayout(w io.Writer, pages []layout.Page[card.Card], opts layout.Options, width int) {
	if len(pages) == 0 {
		fmt.Fprintln(w, "No cards in deck; nothing to lay out.")
		return
	}

	// Two grids of PerRow cells each, separated by a gutter
	gutter := 6
	cell := (width - gutter - 2) / (2 * opts.PerRow)
	cell = max(4, min(cell, 24))

	for i, p := range pages {
		fmt.Fprintln(w)
		fmt.Fprintln(w, colorize.CyanString("Sheet %d", i+1)+
			colorize.HiBlackString("  (%d cards, %s)", p.CardCount(), opts.Flip))

		header := pad("Front", cell*opts.PerRow) + strings.Repeat(" ", gutter) + "Back"
		fmt.Fprintln(w, "  "+colorize.HiWhiteString(header))

		fronts := p.Rows(layout.Front, opts.PerRow)
		backs := p.Rows(layout.Back, opts.PerRow)
		for r := range fronts {
			fmt.Fprint(w, "  ")
			for _, s := range fronts[r] {
				fmt.Fprint(w, formatCell(s, cell))
			}
			fmt.Fprint(w, strings.Repeat(" ", gutter))
			for _, s := range backs[r] {
				fmt.Fprint(w, formatCell(s, cell))
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
}

func formatCell(s layout.Slot[card.Card], width int) string {
	c, ok := s.Card()
	if !ok {
		return colorize.HiBlackString(pad("·", width))
	}
	label := c.Title
	if label == "" {
		label = c.ID
	}
	return colorize.HiWhiteString(pad(truncate(label, width-1), width))
}

// truncate shortens s to at most n runes, marking the cut with "…"
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// pad right-pads s with spaces to n runes
func pad(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}
