// Package templates loads card and document templates and fills their
// {{token}} markers from typed field maps.
//
// A card template file carries two blocks:
//
//	<template id="card-front">...</template>
//	<template id="card-back">...</template>
//
// Tokens without a value render as the empty string.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
)

// Block identifiers inside a card template file.
const (
	FrontBlockID = "card-front"
	BackBlockID  = "card-back"
	SheetBlockID = "sheet"
)

// Document tokens that carry card markup.
const (
	SheetsToken = "FOGLI"
	FrontsToken = "FRONTE_CARTE"
	BacksToken  = "RETRO_CARTE"
)

// PlaceholderMarkup is emitted for empty slots on either side of a sheet.
const PlaceholderMarkup = `<div class="playing-card placeholder"></div>`

// ErrMissingTemplate is returned when a template file lacks a block or has
// nowhere to put the cards.
var ErrMissingTemplate = errors.New("missing template block")

//go:embed assets/*.html
var assets embed.FS

var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Fields maps token names to substitution values.
type Fields map[string]string

// Merge returns a new map holding f overlaid by each of others in order.
func (f Fields) Merge(others ...map[string]string) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Template is a markup fragment with {{token}} markers.
type Template struct {
	text   string
	tokens []string
}

// Parse scans text for tokens. It never fails: text without tokens is a
// valid, constant template.
func Parse(text string) *Template {
	t := &Template{text: text}
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			t.tokens = append(t.tokens, m[1])
		}
	}
	return t
}

// Execute substitutes every token with its value from fields. Values are
// inserted verbatim and are not scanned for further tokens.
func (t *Template) Execute(fields Fields) string {
	if len(t.tokens) == 0 {
		return t.text
	}
	return tokenPattern.ReplaceAllStringFunc(t.text, func(tok string) string {
		name := tokenPattern.FindStringSubmatch(tok)[1]
		return fields[name]
	})
}

// Tokens lists the distinct token names in order of first appearance.
func (t *Template) Tokens() []string {
	return append([]string(nil), t.tokens...)
}

// String returns the raw template text.
func (t *Template) String() string { return t.text }

// Set holds the front and back card templates.
type Set struct {
	Front *Template
	Back  *Template
	Path  string // Empty for the embedded defaults
}

// Load reads a card template file from disk.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading template: %w", err)
	}
	s, err := ParseSet(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Default returns the embedded card templates.
func Default() *Set {
	s, err := ParseSet(mustAsset("card-template.html"))
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSet extracts the card-front and card-back blocks from markup.
func ParseSet(markup string) (*Set, error) {
	front, ok := ExtractBlock(markup, FrontBlockID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, FrontBlockID)
	}
	back, ok := ExtractBlock(markup, BackBlockID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, BackBlockID)
	}
	return &Set{Front: Parse(front), Back: Parse(back)}, nil
}

// Tokens lists the distinct tokens used by either card template.
func (s *Set) Tokens() []string {
	tokens := s.Front.Tokens()
	for _, tok := range s.Back.Tokens() {
		if !slices.Contains(tokens, tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// ExtractBlock returns the content of the first <template id="id"> element.
func ExtractBlock(markup, id string) (string, bool) {
	inner, _, ok := cutBlock(markup, id)
	return inner, ok
}

// cutBlock returns the content of the first <template id="id"> element and
// the markup with that element removed.
func cutBlock(markup, id string) (inner, rest string, ok bool) {
	re := regexp.MustCompile(`(?s)<template\s+id=["']` + regexp.QuoteMeta(id) + `["']\s*>(.*?)</template>`)
	loc := re.FindStringSubmatchIndex(markup)
	if loc == nil {
		return "", markup, false
	}
	return markup[loc[2]:loc[3]], markup[:loc[0]] + markup[loc[1]:], true
}

// Document is the page-level markup wrapping all sheets.
type Document struct {
	Page  *Template // Whole document; receives the joined sheets
	Sheet *Template // One physical sheet; receives its front and back fragments
}

// SingleSheet reports whether the page places every front and every back
// directly, through FRONTE_CARTE and RETRO_CARTE, instead of one sheet
// template per page.
func (d *Document) SingleSheet() bool {
	tokens := d.Page.Tokens()
	if slices.Contains(tokens, SheetsToken) {
		return false
	}
	return slices.Contains(tokens, FrontsToken) || slices.Contains(tokens, BacksToken)
}

// DefaultDocument returns the embedded document and sheet templates.
func DefaultDocument() *Document {
	return &Document{
		Page:  Parse(mustAsset("document.html")),
		Sheet: Parse(mustAsset("sheet.html")),
	}
}

// LoadDocument reads a custom document template. A <template id="sheet">
// block in the file replaces the embedded sheet template. A page without
// FOGLI may take FRONTE_CARTE and RETRO_CARTE itself; a page with none of
// the three is rejected. An empty path yields the defaults.
func LoadDocument(path string) (*Document, error) {
	doc := DefaultDocument()
	if path == "" {
		return doc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading document template: %w", err)
	}
	markup := string(data)
	if sheet, rest, ok := cutBlock(markup, SheetBlockID); ok {
		doc.Sheet = Parse(sheet)
		markup = rest
	}
	doc.Page = Parse(markup)

	tokens := doc.Page.Tokens()
	if !slices.Contains(tokens, SheetsToken) && !doc.SingleSheet() {
		return nil, fmt.Errorf("%s: %w: page has no {{%s}}, {{%s}} or {{%s}}",
			path, ErrMissingTemplate, SheetsToken, FrontsToken, BacksToken)
	}
	return doc, nil
}

func mustAsset(name string) string {
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		panic(fmt.Sprintf("templates: embedded asset %s: %v", name, err))
	}
	return string(data)
}
