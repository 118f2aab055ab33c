package style

import (
	"strings"

	"github.com/lexeis/stephanos/core/errors"
)

// PunctPolicy selects how much punctuation survives rendering.
type PunctPolicy string

// Punctuation policies.
const (
	PunctAll     PunctPolicy = "all"
	PunctMinimal PunctPolicy = "minimal"
	PunctNone    PunctPolicy = "none"
)

// CitationMode selects where citation markers appear in the output.
type CitationMode string

// Citation modes.
const (
	CitationsInline CitationMode = "inline"
	CitationsMargin CitationMode = "margin"
	CitationsNone   CitationMode = "none"
)

// Layout selects the final output arrangement.
type Layout string

// Layouts.
const (
	LayoutLinear Layout = "linear"
	LayoutMargin Layout = "margin"
)

// Spec is one rendering style: a fixed bundle of text policies. Specs are
// package constants, never constructed at runtime; callers may copy one to
// override the width.
type Spec struct {
	// ID is the single-letter identifier (A, B, C, D, E, S).
	ID string

	// Name is the long-form identifier (e.g. "full_modern").
	Name string

	// Description is a one-line summary for style listings.
	Description string

	// Punctuation selects the punctuation-retention policy.
	Punctuation PunctPolicy

	// Labels shows speaker labels where the segmenter attached them.
	Labels bool

	// Citations selects citation marker placement.
	Citations CitationMode

	// UpperStrip uppercases text and strips diacritics.
	UpperStrip bool

	// RemoveSpaces removes inter-word spacing (scriptio continua).
	RemoveSpaces bool

	// Paragraphs keeps paragraph breaks as blank-line block boundaries.
	Paragraphs bool

	// NormalizeDashes replaces em-dashes with spaces.
	NormalizeDashes bool

	// Headers renders the work title and per-book header blocks.
	Headers bool

	// Width is the wrap column. Zero or negative disables wrapping.
	Width int

	// Layout selects linear or margin arrangement.
	Layout Layout

	// RequiresLetters restricts the style to works with letter-level
	// sub-page citation.
	RequiresLetters bool
}

// The six rendering styles.
var (
	FullModern = Spec{
		ID:          "A",
		Name:        "full_modern",
		Description: "Full punctuation, speaker labels, inline citations, paragraphs, book headers",
		Punctuation: PunctAll,
		Labels:      true,
		Citations:   CitationsInline,
		Paragraphs:  true,
		Headers:     true,
		Width:       79,
		Layout:      LayoutLinear,
	}

	MinimalPunctuation = Spec{
		ID:              "B",
		Name:            "minimal_punctuation",
		Description:     "Commas stripped and em-dashes normalized, labels and citations kept",
		Punctuation:     PunctMinimal,
		Labels:          true,
		Citations:       CitationsInline,
		Paragraphs:      true,
		NormalizeDashes: true,
		Width:           79,
		Layout:          LayoutLinear,
	}

	NoPunctuation = Spec{
		ID:              "C",
		Name:            "no_punctuation",
		Description:     "All punctuation stripped, labels and citations kept",
		Punctuation:     PunctNone,
		Labels:          true,
		Citations:       CitationsInline,
		Paragraphs:      true,
		NormalizeDashes: true,
		Width:           79,
		Layout:          LayoutLinear,
	}

	NoPunctuationNoLabels = Spec{
		ID:              "D",
		Name:            "no_punctuation_no_labels",
		Description:     "Continuous flow without punctuation or labels, citations kept",
		Punctuation:     PunctNone,
		Citations:       CitationsInline,
		NormalizeDashes: true,
		Width:           79,
		Layout:          LayoutLinear,
	}

	ScriptioContinua = Spec{
		ID:              "E",
		Name:            "scriptio_continua",
		Description:     "Uppercase, diacritic-free, unspaced letter runs",
		Punctuation:     PunctNone,
		Citations:       CitationsNone,
		UpperStrip:      true,
		RemoveSpaces:    true,
		NormalizeDashes: true,
		Width:           79,
		Layout:          LayoutLinear,
	}

	StephanusLayout = Spec{
		ID:              "S",
		Name:            "stephanus_layout",
		Description:     "Two-column page layout with right-aligned margin citations",
		Punctuation:     PunctAll,
		Citations:       CitationsMargin,
		NormalizeDashes: true,
		Width:           40,
		Layout:          LayoutMargin,
		RequiresLetters: true,
	}
)

// styles lists every Spec in presentation order.
var styles = []Spec{
	FullModern,
	MinimalPunctuation,
	NoPunctuation,
	NoPunctuationNoLabels,
	ScriptioContinua,
	StephanusLayout,
}

// Styles returns all specs in presentation order.
func Styles() []Spec {
	out := make([]Spec, len(styles))
	copy(out, styles)
	return out
}

// ValidNames returns the accepted style identifiers.
func ValidNames() []string {
	names := make([]string, 0, len(styles))
	for _, s := range styles {
		names = append(names, s.ID)
	}
	return names
}

// ParseStyle resolves a selector to a Spec. Both the letter form ("A")
// and the long form ("full_modern") are accepted, case-insensitively.
func ParseStyle(selector string) (Spec, error) {
	for _, s := range styles {
		if strings.EqualFold(selector, s.ID) || strings.EqualFold(selector, s.Name) {
			return s, nil
		}
	}
	return Spec{}, errors.NewUnknownStyle(selector, ValidNames())
}

// WithWidth returns a copy of the spec wrapping at the given column.
// Zero or negative disables wrapping.
func (s Spec) WithWidth(width int) Spec {
	s.Width = width
	return s
}
