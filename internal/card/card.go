package card

// Field names understood by card templates.
const (
	FieldID     = "id"
	FieldTitle  = "titolo"
	FieldIcon   = "icona"
	FieldEmoji  = "emoji"
	FieldType   = "tipo"
	FieldText   = "testo"
	FieldFlavor = "flavor"
	FieldClass  = "classe"
)

// Card represents a single printable card
type Card struct {
	ID     string `json:"id,omitempty" toml:"id" yaml:"id,omitempty"`             // Stable identity, generated when the deck omits it
	Title  string `json:"titolo" toml:"titolo" yaml:"titolo"`                     // Card title
	Icon   string `json:"icona,omitempty" toml:"icona" yaml:"icona,omitempty"`    // Icon name or glyph
	Emoji  string `json:"emoji,omitempty" toml:"emoji" yaml:"emoji,omitempty"`    // Decorative emoji
	Type   string `json:"tipo,omitempty" toml:"tipo" yaml:"tipo,omitempty"`       // Card category shown on the front
	Text   string `json:"testo,omitempty" toml:"testo" yaml:"testo,omitempty"`    // Body text
	Flavor string `json:"flavor,omitempty" toml:"flavor" yaml:"flavor,omitempty"` // Flavor text
	Class  string `json:"classe,omitempty" toml:"classe" yaml:"classe,omitempty"` // CSS class shared by front and back
}

// Fields returns the template substitution values of the card.
func (c Card) Fields() map[string]string {
	return map[string]string{
		FieldID:     c.ID,
		FieldTitle:  c.Title,
		FieldIcon:   c.Icon,
		FieldEmoji:  c.Emoji,
		FieldType:   c.Type,
		FieldText:   c.Text,
		FieldFlavor: c.Flavor,
		FieldClass:  c.Class,
	}
}

// FieldNames lists every field a card can provide to a template.
func FieldNames() []string {
	return []string{FieldID, FieldTitle, FieldIcon, FieldEmoji, FieldType, FieldText, FieldFlavor, FieldClass}
}
