package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsheet/internal/render"
	"github.com/arcanaland/cardsheet/internal/sheet"
	"github.com/arcanaland/cardsheet/internal/templates"
)

var (
	renderLayout   layoutFlags
	renderInput    string
	renderPDF      string
	renderHTML     string
	renderTemplate string
	renderDocument string
	renderPaper    string
	renderPortrait bool
	renderMargin   string
	renderChrome   string
	renderTimeout  time.Duration
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a deck to printable HTML and/or PDF sheets",
	Long: `Render lays out a deck on double-sided sheets and writes the result as an
HTML document (for the browser) and/or a PDF (through headless Chromium).

The deck can be a JSON, TOML or YAML file, or the name of a deck in your deck
library (XDG_DATA_HOME/cardsheet/decks).

Examples:
  cardsheet render -i kpi.json -o kpi.pdf
  cardsheet render -i kpi.json -b kpi.html --flip long-edge
  cardsheet render -i kpi -o kpi.pdf -t assets/card-template.html --per-page 9 --per-row 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderPDF == "" && renderHTML == "" {
			return fmt.Errorf("specify at least one output: -o for PDF or -b for HTML (see -h)")
		}

		ctx := cmd.Context()
		logger := loggerFromContext(ctx)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := loadDeck(renderInput, logger)
		if err != nil {
			return err
		}

		set, err := loadTemplateSet(cmd, cfg.Template)
		if err != nil {
			return err
		}

		documentPath := cfg.DocumentTemplate
		if cmd.Flags().Changed("document") {
			documentPath = renderDocument
		}
		doc, err := templates.LoadDocument(documentPath)
		if err != nil {
			return err
		}

		page := sheet.PageSetup{Paper: cfg.Paper, Landscape: cfg.Landscape, Margin: cfg.Margin}
		if cmd.Flags().Changed("paper") {
			page.Paper = renderPaper
		}
		if cmd.Flags().Changed("portrait") {
			page.Landscape = !renderPortrait
		}
		if cmd.Flags().Changed("margin") {
			page.Margin = renderMargin
		}
		if err := page.Validate(); err != nil {
			return err
		}

		opts := sheet.Options{
			Layout: renderLayout.options(cmd, cfg, logger),
			Page:   page,
		}

		p := newProgress(logger)
		result, err := sheet.Build(ctx, d, set, doc, opts)
		if err != nil {
			return err
		}
		p.done("assembled document", "sheets", len(result.Pages), "flip", opts.Layout.Flip)

		if len(result.Pages) == 0 {
			logger.Warn("deck has no cards; the document has no sheets", "deck", d.Path)
		}

		if renderHTML != "" {
			path, err := writeOutput(renderHTML, result.HTML)
			if err != nil {
				return err
			}
			fmt.Println(colorize.GreenString("✅ HTML written: %s", path))
		}

		if renderPDF != "" {
			browser := cfg.Browser
			if cmd.Flags().Changed("chrome") {
				browser = renderChrome
			}
			r := render.New(browser)
			r.Timeout = renderTimeout

			p := newProgress(logger)
			pdf, err := r.PDF(ctx, result.HTML)
			if err != nil {
				return fmt.Errorf("error rendering PDF: %w", err)
			}
			p.done("rendered PDF", "bytes", len(pdf))

			path, err := writeOutput(renderPDF, pdf)
			if err != nil {
				return err
			}
			fmt.Println(colorize.GreenString("✅ PDF written: %s", path))
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "deck file or deck library name")
	renderCmd.Flags().StringVarP(&renderPDF, "output", "o", "", "write the PDF to this file")
	renderCmd.Flags().StringVarP(&renderHTML, "html", "b", "", "write the HTML document to this file")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "card template file (default: built-in)")
	renderCmd.Flags().StringVar(&renderDocument, "document", "", "document template file (default: built-in)")
	renderCmd.Flags().StringVar(&renderPaper, "paper", "A4", "paper size: A4, A3 or Letter")
	renderCmd.Flags().BoolVar(&renderPortrait, "portrait", false, "print in portrait orientation")
	renderCmd.Flags().StringVar(&renderMargin, "margin", "1cm", "page margin (CSS length)")
	renderCmd.Flags().StringVar(&renderChrome, "chrome", "", "headless Chromium executable (default: search PATH)")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", render.DefaultTimeout, "PDF conversion timeout")
	renderLayout.register(renderCmd)

	_ = renderCmd.MarkFlagRequired("input")
}

// loadTemplateSet loads the card templates from -t, the config, or the
// embedded defaults
func loadTemplateSet(cmd *cobra.Command, configured string) (*templates.Set, error) {
	path := configured
	if cmd.Flags().Changed("template") {
		path, _ = cmd.Flags().GetString("template")
	}
	if path == "" {
		return templates.Default(), nil
	}
	return templates.Load(path)
}

// writeOutput writes data to path and returns its absolute form
func writeOutput(path string, data []byte) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return "", fmt.Errorf("error writing %s: %w", abs, err)
	}
	return abs, nil
}
