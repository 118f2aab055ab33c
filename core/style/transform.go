package style

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// allPunct is the full punctuation set stripped by the no-punctuation
// policy. Perseus editions use curly quotes and the modifier apostrophe,
// never ASCII quotes. Both codepoints in use for the ano teleia and the
// Greek question mark are covered.
var allPunct = map[rune]bool{
	'.':      true,
	',':      true,
	';':      true,
	';': true, // Greek question mark, canonically a semicolon
	'·':      true,
	'·': true, // Greek ano teleia, canonically a middle dot
	'?':      true,
	'!':      true,
	'(':      true,
	')':      true,
	'[':      true,
	']':      true,
	'“':      true,
	'”':      true,
	'‘':      true,
	'’':      true,
	'ʼ':      true,
	'—':      true,
	'-':      true,
}

// minimalPunct is the set stripped by the minimal policy.
var minimalPunct = map[rune]bool{
	',': true,
}

// transformText applies the per-chunk text policies of a spec: dash
// normalization, then punctuation stripping, re-collapsing whitespace
// afterwards.
func transformText(text string, spec Spec) string {
	if text == "" {
		return ""
	}
	if spec.NormalizeDashes {
		text = normalizeDashes(text)
	}
	switch spec.Punctuation {
	case PunctMinimal:
		text = stripRunes(text, minimalPunct)
	case PunctNone:
		text = stripRunes(text, allPunct)
	}
	return strings.Join(strings.Fields(text), " ")
}

// normalizeDashes replaces em-dashes with spaces and collapses the
// resulting whitespace runs.
func normalizeDashes(text string) string {
	text = strings.ReplaceAll(text, "—", " ")
	return strings.Join(strings.Fields(text), " ")
}

func stripRunes(text string, set map[rune]bool) string {
	return strings.Map(func(r rune) rune {
		if set[r] {
			return -1
		}
		return r
	}, text)
}

// removeSpaces deletes all inter-word spacing.
func removeSpaces(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// StripDiacritics removes combining marks after canonical decomposition
// and recomposes the result. Polytonic Greek reduces to its base letters,
// including the iota subscript.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// UpperStrip uppercases s after stripping diacritics. Stripping first
// keeps the simple case mapping total: every bare Greek letter has an
// uppercase form, while precomposed accent-plus-iota-subscript letters do
// not.
func UpperStrip(s string) string {
	return strings.ToUpper(StripDiacritics(s))
}

// greekNumerals maps book numbers 1..20 to their Greek numeral form.
var greekNumerals = []string{
	"", "Α", "Β", "Γ", "Δ", "Ε", "ΣΤ", "Ζ", "Η", "Θ", "Ι",
	"ΙΑ", "ΙΒ", "ΙΓ", "ΙΔ", "ΙΕ", "ΙΣΤ", "ΙΖ", "ΙΗ", "ΙΘ", "Κ",
}

// greekNumeral renders a numeric book identifier as a Greek numeral.
// Non-numeric and out-of-table identifiers pass through unchanged.
func greekNumeral(book string) string {
	n, err := strconv.Atoi(book)
	if err != nil || n < 1 || n >= len(greekNumerals) {
		return book
	}
	return greekNumerals[n]
}
