// Package layout computes print-ready slot orderings for double-sided card
// sheets.
//
// A deck is split into sheets of a fixed capacity. Each sheet has a front
// sequence (cards in deck order, padded with placeholders) and a back
// sequence derived from the front so that, once the sheet is flipped along
// the chosen edge and printed back-to-back, every card back lands behind its
// front.
//
// The package is pure: it performs no I/O, keeps no state between calls and
// is safe for concurrent use.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultPerPage is the number of card slots on one side of a sheet.
	DefaultPerPage = 8

	// DefaultPerRow is the number of card slots in one row of a sheet.
	DefaultPerRow = 4
)

// ErrInvalidParameter is returned when the page capacity or row width
// cannot describe a grid.
var ErrInvalidParameter = errors.New("invalid layout parameter")

// FlipMode is the physical edge a sheet is turned over on for duplex printing.
type FlipMode int

const (
	// ShortEdge flips the sheet around its short edge: columns invert, rows
	// keep their vertical position.
	ShortEdge FlipMode = iota

	// LongEdge flips the sheet around its long edge: rows invert, each row
	// keeps its horizontal order.
	LongEdge
)

// String returns the canonical name of the mode.
func (m FlipMode) String() string {
	if m == LongEdge {
		return "long-edge"
	}
	return "short-edge"
}

// ParseFlipMode maps a mode name to a FlipMode. Matching ignores case only.
// Anything that is not "long-edge" yields ShortEdge.
func ParseFlipMode(s string) FlipMode {
	if strings.EqualFold(s, LongEdge.String()) {
		return LongEdge
	}
	return ShortEdge
}

// IsKnownFlipMode reports whether s names one of the two flip modes.
func IsKnownFlipMode(s string) bool {
	return strings.EqualFold(s, ShortEdge.String()) || strings.EqualFold(s, LongEdge.String())
}

// Options are the grid parameters of a sheet.
type Options struct {
	PerPage int
	PerRow  int
	Flip    FlipMode
}

// DefaultOptions returns an 8-slot, 4-column, short-edge layout.
func DefaultOptions() Options {
	return Options{PerPage: DefaultPerPage, PerRow: DefaultPerRow, Flip: ShortEdge}
}

// Validate checks that the options describe a whole number of full rows.
func (o Options) Validate() error {
	if o.PerPage <= 0 {
		return fmt.Errorf("%w: page capacity must be positive, got %d", ErrInvalidParameter, o.PerPage)
	}
	if o.PerRow <= 0 {
		return fmt.Errorf("%w: row width must be positive, got %d", ErrInvalidParameter, o.PerRow)
	}
	if o.PerPage%o.PerRow != 0 {
		return fmt.Errorf("%w: row width %d does not divide page capacity %d", ErrInvalidParameter, o.PerRow, o.PerPage)
	}
	return nil
}

// Rows returns the number of rows on one side of a sheet.
func (o Options) Rows() int {
	if o.PerRow <= 0 {
		return 0
	}
	return o.PerPage / o.PerRow
}

// Slot is a position on one side of a sheet. It either holds a card or is
// an empty placeholder. The zero value is a placeholder.
type Slot[T any] struct {
	card   T
	filled bool
}

// CardSlot returns a slot holding c.
func CardSlot[T any](c T) Slot[T] {
	return Slot[T]{card: c, filled: true}
}

// Placeholder returns an empty slot.
func Placeholder[T any]() Slot[T] {
	return Slot[T]{}
}

// IsPlaceholder reports whether the slot is empty.
func (s Slot[T]) IsPlaceholder() bool { return !s.filled }

// Card returns the card held by the slot, and false for a placeholder.
func (s Slot[T]) Card() (T, bool) { return s.card, s.filled }

// Side selects the printed face of a sheet.
type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "back"
	}
	return "front"
}

// Page is one physical sheet. Fronts and Backs always have the page
// capacity as length, and Backs is a permutation of Fronts.
type Page[T any] struct {
	Fronts []Slot[T]
	Backs  []Slot[T]
}

// Slots returns the sequence printed on the given side.
func (p Page[T]) Slots(side Side) []Slot[T] {
	if side == Back {
		return p.Backs
	}
	return p.Fronts
}

// Rows splits one side of the page into rows of width slots.
func (p Page[T]) Rows(side Side, width int) [][]Slot[T] {
	return splitRows(p.Slots(side), width)
}

// CardCount returns the number of non-placeholder slots on the page.
func (p Page[T]) CardCount() int {
	n := 0
	for _, s := range p.Fronts {
		if s.filled {
			n++
		}
	}
	return n
}

// Paginate partitions cards into sheets and derives the back side of each.
//
// Pages are emitted in deck order; an empty deck yields no pages. The last
// page is padded with placeholders at the tail, and its back is derived from
// the full padded grid.
func Paginate[T any](cards []T, opts Options) ([]Page[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	pages := make([]Page[T], 0, (len(cards)+opts.PerPage-1)/opts.PerPage)
	for start := 0; start < len(cards); start += opts.PerPage {
		end := min(start+opts.PerPage, len(cards))

		fronts := make([]Slot[T], opts.PerPage)
		for i, c := range cards[start:end] {
			fronts[i] = CardSlot(c)
		}

		pages = append(pages, Page[T]{
			Fronts: fronts,
			Backs:  mirror(fronts, opts.PerRow, opts.Flip),
		})
	}
	return pages, nil
}

// mirror derives the back sequence of a full front sequence.
func mirror[T any](fronts []Slot[T], width int, mode FlipMode) []Slot[T] {
	rows := splitRows(fronts, width)
	backs := make([]Slot[T], 0, len(fronts))

	switch mode {
	case LongEdge:
		for r := len(rows) - 1; r >= 0; r-- {
			backs = append(backs, rows[r]...)
		}
	default:
		for _, row := range rows {
			for i := len(row) - 1; i >= 0; i-- {
				backs = append(backs, row[i])
			}
		}
	}
	return backs
}

func splitRows[T any](slots []Slot[T], width int) [][]Slot[T] {
	if width <= 0 {
		return nil
	}
	rows := make([][]Slot[T], 0, (len(slots)+width-1)/width)
	for i := 0; i < len(slots); i += width {
		rows = append(rows, slots[i:min(i+width, len(slots))])
	}
	return rows
}
