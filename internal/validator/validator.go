package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arcanaland/cardsheet/internal/card"
	"github.com/arcanaland/cardsheet/internal/deck"
	"github.com/arcanaland/cardsheet/internal/layout"
	"github.com/arcanaland/cardsheet/internal/templates"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// OK reports whether validation found no errors
func (r ValidationResults) OK() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	DeckPath     string
	TemplatePath string // Empty checks the embedded templates
	DocumentPath string // Empty checks the embedded document template
	Layout       layout.Options
	Results      ValidationResults

	deck *deck.Deck
	set  *templates.Set
}

func NewValidator(deckPath, templatePath string, opts layout.Options) *Validator {
	return &Validator{
		DeckPath:     deckPath,
		TemplatePath: templatePath,
		Layout:       opts,
		Results:      ValidationResults{},
	}
}

// Validate runs every check. It only returns an error when the deck itself
// cannot be read; everything else is reported through the results.
func (v *Validator) Validate() (ValidationResults, error) {
	d, err := deck.Load(v.DeckPath)
	if err != nil {
		return v.Results, err
	}
	v.deck = d

	v.validateLayout()
	v.validateDeckInfo()
	v.validateCards()
	v.validateTemplate()
	v.validateDocument()
	v.validateTokens()

	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

// validateLayout checks the grid parameters and reports partial sheets
func (v *Validator) validateLayout() {
	if err := v.Layout.Validate(); err != nil {
		v.errorf("%v", err)
		return
	}

	n := v.deck.Len()
	if rest := n % v.Layout.PerPage; n > 0 && rest != 0 {
		v.warnf("last sheet holds %d of %d cards; %d slots will be left empty",
			rest, v.Layout.PerPage, v.Layout.PerPage-rest)
	}
}

// validateDeckInfo checks deck-level fields
func (v *Validator) validateDeckInfo() {
	if strings.TrimSpace(v.deck.Title) == "" {
		v.warnf("deck has no title (titolo)")
	}
	if v.deck.Len() == 0 {
		v.warnf("deck has no cards; nothing will be printed")
	}
}

// validateCards checks every card record
func (v *Validator) validateCards() {
	seen := make(map[string]int)
	for i, c := range v.deck.Cards {
		pos := i + 1
		if first, ok := seen[c.ID]; ok {
			v.errorf("card %d has the same id %q as card %d", pos, c.ID, first)
		} else {
			seen[c.ID] = pos
		}

		if strings.TrimSpace(c.Title) == "" {
			v.warnf("card %d (%s) has no title (titolo)", pos, c.ID)
		}
	}
}

// validateTemplate checks that the card template has both blocks
func (v *Validator) validateTemplate() {
	if v.TemplatePath == "" {
		v.set = templates.Default()
		return
	}

	set, err := templates.Load(v.TemplatePath)
	if err != nil {
		v.errorf("template: %v", err)
		return
	}
	v.set = set

	if len(set.Front.Tokens()) == 0 {
		v.warnf("card-front template has no {{tokens}}; every front will look the same")
	}
}

// validateDocument checks that the document template has somewhere to put
// the cards
func (v *Validator) validateDocument() {
	if v.DocumentPath == "" {
		return
	}

	doc, err := templates.LoadDocument(v.DocumentPath)
	if err != nil {
		v.errorf("document template: %v", err)
		return
	}

	if doc.SingleSheet() && v.deck.Len() > v.Layout.PerPage {
		v.warnf("document template has no {{%s}}; all %d cards share one front and one back container",
			templates.SheetsToken, v.deck.Len())
	}
}

// validateTokens reports template tokens that no card or deck field fills
func (v *Validator) validateTokens() {
	if v.set == nil {
		return
	}

	known := append(card.FieldNames(), deck.FieldIcon, deck.FieldTitle)
	for _, tok := range v.set.Tokens() {
		if !slices.Contains(known, tok) {
			v.warnf("template token {{%s}} is not a card field and will render blank", tok)
		}
	}
}
