// Package sheet assembles laid-out pages into a printable HTML document.
//
// Every slot is rendered to a fragment with the card templates, fragments
// are joined into a front and a back container per sheet, and the sheets
// are placed into the document template together with an @page rule that
// fixes paper size, orientation and margins.
package sheet

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arcanaland/cardsheet/internal/card"
	"github.com/arcanaland/cardsheet/internal/deck"
	"github.com/arcanaland/cardsheet/internal/layout"
	"github.com/arcanaland/cardsheet/internal/templates"
)

// Document template tokens.
const (
	TokenTitle     = "TITOLO_ESERCIZIO"
	TokenSubtitle  = "SOTTOTITOLO_ESERCIZIO"
	TokenSheets    = templates.SheetsToken
	TokenPageStyle = "PAGE_STYLE"
	TokenColumns   = "COLONNE"
	TokenFronts    = templates.FrontsToken
	TokenBacks     = templates.BacksToken
	TokenSheetNo   = "NUMERO_FOGLIO"
)

// Paper sizes accepted in a page setup.
var Papers = []string{"A4", "A3", "Letter"}

// PageSetup describes the physical page every sheet side is printed on.
type PageSetup struct {
	Paper     string
	Landscape bool
	Margin    string
}

// DefaultPageSetup is A4 landscape with 1cm margins.
func DefaultPageSetup() PageSetup {
	return PageSetup{Paper: "A4", Landscape: true, Margin: "1cm"}
}

// Validate checks the paper name.
func (p PageSetup) Validate() error {
	for _, name := range Papers {
		if strings.EqualFold(name, p.Paper) {
			return nil
		}
	}
	return fmt.Errorf("unsupported paper size %q (supported: %s)", p.Paper, strings.Join(Papers, ", "))
}

// CSS returns the @page rule for the setup.
func (p PageSetup) CSS() string {
	orientation := "portrait"
	if p.Landscape {
		orientation = "landscape"
	}
	margin := p.Margin
	if margin == "" {
		margin = "0"
	}
	return fmt.Sprintf("@page { size: %s %s; margin: %s; }", p.Paper, orientation, margin)
}

// Options control document assembly.
type Options struct {
	Layout layout.Options
	Page   PageSetup
}

// Result is the outcome of building a deck into a document.
type Result struct {
	Pages []layout.Page[card.Card]
	HTML  []byte
}

// Build paginates the deck and assembles the document.
func Build(ctx context.Context, d *deck.Deck, set *templates.Set, doc *templates.Document, opts Options) (*Result, error) {
	pages, err := layout.Paginate(d.Cards, opts.Layout)
	if err != nil {
		return nil, err
	}
	html, err := Assemble(ctx, d, pages, set, doc, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Pages: pages, HTML: html}, nil
}

// Assemble renders pages into a complete HTML document. Sheets are rendered
// concurrently; their order in the output follows the page order. The page
// template also receives every front and every back joined across sheets,
// for documents that lay all cards out in one place.
func Assemble(ctx context.Context, d *deck.Deck, pages []layout.Page[card.Card], set *templates.Set, doc *templates.Document, opts Options) ([]byte, error) {
	deckFields := templates.Fields(d.Fields())
	sheets := make([]string, len(pages))
	fronts := make([]string, len(pages))
	backs := make([]string, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fronts[i] = renderSide(set, layout.Front, page.Fronts, deckFields)
			backs[i] = renderSide(set, layout.Back, page.Backs, deckFields)
			sheets[i] = doc.Sheet.Execute(templates.Fields{
				TokenSheetNo: strconv.Itoa(i + 1),
				TokenFronts:  fronts[i],
				TokenBacks:   backs[i],
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble sheets: %w", err)
	}

	out := doc.Page.Execute(templates.Fields{
		TokenTitle:     d.Title,
		TokenSubtitle:  d.Subtitle,
		TokenPageStyle: opts.Page.CSS(),
		TokenColumns:   strconv.Itoa(opts.Layout.PerRow),
		TokenSheets:    strings.Join(sheets, "\n"),
		TokenFronts:    strings.Join(fronts, ""),
		TokenBacks:     strings.Join(backs, ""),
	})
	return []byte(out), nil
}

// RenderSlot renders one slot with the template of the given side.
// Placeholders render as PlaceholderMarkup.
func RenderSlot(set *templates.Set, side layout.Side, slot layout.Slot[card.Card], deckFields templates.Fields) string {
	c, ok := slot.Card()
	if !ok {
		return templates.PlaceholderMarkup
	}
	tpl := set.Front
	if side == layout.Back {
		tpl = set.Back
	}
	return tpl.Execute(deckFields.Merge(c.Fields()))
}

func renderSide(set *templates.Set, side layout.Side, slots []layout.Slot[card.Card], deckFields templates.Fields) string {
	var b strings.Builder
	for _, s := range slots {
		b.WriteString(RenderSlot(set, side, s, deckFields))
	}
	return b.String()
}
