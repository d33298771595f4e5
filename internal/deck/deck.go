package deck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/cardsheet/internal/card"
)

// DefaultIcon is shown on card backs when the deck sets no icon.
const DefaultIcon = "❓"

// Supported deck file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Deck-level template fields.
const (
	FieldIcon  = "icona_esercizio"
	FieldTitle = "titolo_esercizio"
)

// ErrUnsupportedFormat is returned for deck files of an unknown type.
var ErrUnsupportedFormat = errors.New("unsupported deck format")

// idNamespace seeds the name-based IDs of cards that come without one.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://arcanaland.org/cardsheet/card"))

// Deck represents an ordered set of cards to lay out
type Deck struct {
	Title    string
	Subtitle string
	Icon     string // Shown on every card back
	Path     string

	Cards []card.Card
}

// File is the on-disk representation of a deck
type File struct {
	Title    string      `json:"titolo" toml:"titolo" yaml:"titolo"`
	Subtitle string      `json:"sottotitolo" toml:"sottotitolo" yaml:"sottotitolo"`
	Icon     string      `json:"icona_esercizio" toml:"icona_esercizio" yaml:"icona_esercizio"`
	Cards    []card.Card `json:"carte" toml:"carte" yaml:"carte"`
}

// Load reads a deck from a JSON, TOML or YAML file
func Load(path string) (*Deck, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading deck: %w", err)
	}

	d, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filepath.Base(path), err)
	}
	d.Path = path

	return d, nil
}

// FormatFromPath infers the deck format from a file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Parse decodes a deck in the given format
func Parse(r io.Reader, format string) (*Deck, error) {
	var f File

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&f); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return f.Deck(), nil
}

// Deck converts the file representation into a Deck, filling defaults
func (f File) Deck() *Deck {
	d := &Deck{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Icon:     f.Icon,
		Cards:    make([]card.Card, len(f.Cards)),
	}
	if d.Icon == "" {
		d.Icon = DefaultIcon
	}

	copy(d.Cards, f.Cards)
	for i := range d.Cards {
		if d.Cards[i].ID == "" {
			d.Cards[i].ID = generateID(f.Title, i)
		}
	}

	return d
}

// Fields returns the deck-level values available to templates
func (d *Deck) Fields() map[string]string {
	return map[string]string{
		FieldIcon:  d.Icon,
		FieldTitle: d.Title,
	}
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	return len(d.Cards)
}

// generateID derives a stable card ID from the deck title and card position
func generateID(title string, index int) string {
	return uuid.NewSHA1(idNamespace, []byte(title+"#"+strconv.Itoa(index))).String()
}
