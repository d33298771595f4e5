package sheet

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardsheet/internal/card"
	"github.com/arcanaland/cardsheet/internal/deck"
	"github.com/arcanaland/cardsheet/internal/layout"
	"github.com/arcanaland/cardsheet/internal/templates"
)

func testDeck(n int) *deck.Deck {
	f := deck.File{Title: "KPI", Subtitle: "Workshop", Icon: "📊"}
	for i := 1; i <= n; i++ {
		f.Cards = append(f.Cards, card.Card{ID: fmt.Sprintf("C%d", i), Title: fmt.Sprintf("Card %d", i)})
	}
	return f.Deck()
}

func testSet(t *testing.T) *templates.Set {
	t.Helper()
	set, err := templates.ParseSet(`<template id="card-front">[F:{{id}}]</template><template id="card-back">[B:{{id}}{{icona_esercizio}}]</template>`)
	require.NoError(t, err)
	return set
}

func testDocument() *templates.Document {
	return &templates.Document{
		Page:  templates.Parse("<style>{{PAGE_STYLE}}</style><h1>{{TITOLO_ESERCIZIO}}</h1><cols>{{COLONNE}}</cols>{{FOGLI}}"),
		Sheet: templates.Parse("<sheet n={{NUMERO_FOGLIO}}><front>{{FRONTE_CARTE}}</front><back>{{RETRO_CARTE}}</back></sheet>"),
	}
}

var slotPattern = regexp.MustCompile(`\[(F|B):(C\d+)(?:📊)?\]|<div class="playing-card placeholder"></div>`)

// slotIDs extracts the card IDs of a rendered container, "P" for placeholders.
func slotIDs(fragment string) []string {
	var out []string
	for _, m := range slotPattern.FindAllStringSubmatch(fragment, -1) {
		if m[2] == "" {
			out = append(out, "P")
		} else {
			out = append(out, m[2])
		}
	}
	return out
}

func between(s, open, close string) []string {
	var out []string
	for {
		i := strings.Index(s, open)
		if i < 0 {
			return out
		}
		s = s[i+len(open):]
		j := strings.Index(s, close)
		out = append(out, s[:j])
		s = s[j+len(close):]
	}
}

func TestBuildOrdersSheets(t *testing.T) {
	opts := Options{Layout: layout.DefaultOptions(), Page: DefaultPageSetup()}
	res, err := Build(context.Background(), testDeck(10), testSet(t), testDocument(), opts)
	require.NoError(t, err)
	require.Len(t, res.Pages, 2)

	html := string(res.HTML)
	assert.Contains(t, html, "<h1>KPI</h1>")
	assert.Contains(t, html, "<cols>4</cols>")
	assert.Contains(t, html, "@page { size: A4 landscape; margin: 1cm; }")
	assert.Less(t, strings.Index(html, "<sheet n=1>"), strings.Index(html, "<sheet n=2>"))

	fronts := between(html, "<front>", "</front>")
	backs := between(html, "<back>", "</back>")
	require.Len(t, fronts, 2)
	require.Len(t, backs, 2)

	assert.Equal(t, []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8"}, slotIDs(fronts[0]))
	assert.Equal(t, []string{"C4", "C3", "C2", "C1", "C8", "C7", "C6", "C5"}, slotIDs(backs[0]))
	assert.Equal(t, []string{"C9", "C10", "P", "P", "P", "P", "P", "P"}, slotIDs(fronts[1]))
	assert.Equal(t, []string{"P", "P", "C10", "C9", "P", "P", "P", "P"}, slotIDs(backs[1]))
	assert.Contains(t, backs[1], "[B:C10📊]")
}

func TestBuildEmptyDeck(t *testing.T) {
	res, err := Build(context.Background(), testDeck(0), testSet(t), testDocument(), Options{Layout: layout.DefaultOptions()})
	require.NoError(t, err)
	assert.Empty(t, res.Pages)
	assert.NotContains(t, string(res.HTML), "<sheet")
}

func TestBuildInvalidLayout(t *testing.T) {
	_, err := Build(context.Background(), testDeck(3), testSet(t), testDocument(), Options{Layout: layout.Options{PerPage: 8, PerRow: 3}})
	assert.ErrorIs(t, err, layout.ErrInvalidParameter)
}

func TestAssembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := testDeck(20)
	pages, err := layout.Paginate(d.Cards, layout.DefaultOptions())
	require.NoError(t, err)

	_, err = Assemble(ctx, d, pages, testSet(t), testDocument(), Options{Layout: layout.DefaultOptions()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderSlot(t *testing.T) {
	set := testSet(t)
	fields := templates.Fields{"icona_esercizio": "?"}

	assert.Equal(t, templates.PlaceholderMarkup, RenderSlot(set, layout.Front, layout.Placeholder[card.Card](), fields))
	assert.Equal(t, templates.PlaceholderMarkup, RenderSlot(set, layout.Back, layout.Placeholder[card.Card](), fields))

	slot := layout.CardSlot(card.Card{ID: "C7"})
	assert.Equal(t, "[F:C7]", RenderSlot(set, layout.Front, slot, fields))
	assert.Equal(t, "[B:C7?]", RenderSlot(set, layout.Back, slot, fields))
}

func TestDefaultTemplatesEndToEnd(t *testing.T) {
	opts := Options{Layout: layout.Options{PerPage: 8, PerRow: 4, Flip: layout.LongEdge}, Page: DefaultPageSetup()}
	res, err := Build(context.Background(), testDeck(3), templates.Default(), templates.DefaultDocument(), opts)
	require.NoError(t, err)

	html := string(res.HTML)
	assert.Contains(t, html, "<title>KPI</title>")
	assert.Contains(t, html, "Card 1")
	assert.Contains(t, html, "repeat(4, 63mm)")
	assert.Equal(t, 10, strings.Count(html, templates.PlaceholderMarkup))
	assert.NotContains(t, html, "{{")
	assert.Contains(t, html, "print-color-adjust: exact;")
	assert.Contains(t, html, "-webkit-print-color-adjust: exact;")
}

func TestBuildSingleSheetDocument(t *testing.T) {
	doc := &templates.Document{
		Page:  templates.Parse(`<h1>{{TITOLO_ESERCIZIO}}</h1><fronts>{{FRONTE_CARTE}}</fronts><backs>{{RETRO_CARTE}}</backs>`),
		Sheet: templates.DefaultDocument().Sheet,
	}
	require.True(t, doc.SingleSheet())

	opts := Options{Layout: layout.Options{PerPage: 2, PerRow: 2, Flip: layout.ShortEdge}, Page: DefaultPageSetup()}
	res, err := Build(context.Background(), testDeck(3), testSet(t), doc, opts)
	require.NoError(t, err)

	html := string(res.HTML)
	assert.Contains(t, html, "<h1>KPI</h1>")
	assert.Equal(t, []string{"C1", "C2", "C3", "P"}, slotIDs(between(html, "<fronts>", "</fronts>")[0]))
	assert.Equal(t, []string{"C2", "C1", "P", "C3"}, slotIDs(between(html, "<backs>", "</backs>")[0]))
}

func TestPageSetup(t *testing.T) {
	tests := []struct {
		setup   PageSetup
		css     string
		wantErr bool
	}{
		{DefaultPageSetup(), "@page { size: A4 landscape; margin: 1cm; }", false},
		{PageSetup{Paper: "Letter", Margin: "0.5in"}, "@page { size: Letter portrait; margin: 0.5in; }", false},
		{PageSetup{Paper: "a3", Landscape: true}, "@page { size: a3 landscape; margin: 0; }", false},
		{PageSetup{Paper: "B5"}, "@page { size: B5 portrait; margin: 0; }", true},
	}
	for _, tt := range tests {
		t.Run(tt.setup.Paper, func(t *testing.T) {
			assert.Equal(t, tt.css, tt.setup.CSS())
			if tt.wantErr {
				assert.Error(t, tt.setup.Validate())
			} else {
				assert.NoError(t, tt.setup.Validate())
			}
		})
	}
}
