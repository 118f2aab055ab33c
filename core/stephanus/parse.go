package stephanus

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/lexeis/stephanos/core/errors"
)

// selectorGrammar is the participle grammar for one range selector element.
// Examples: "327", "327a", "327a-328c", "327-329", "327a-c"
//
//nolint:govet // participle grammar tags are not standard struct tags
type selectorGrammar struct {
	Start citePart  `@@`
	End   *citePart `( "-" @@ )?`
}

// citePart matches PAGE[LETTER] where PAGE is digits or a lowercase word
// (non-numeric page tokens such as roman numerals).
//
//nolint:govet // participle grammar tags are not standard struct tags
type citePart struct {
	Page    string `( @Int`
	Letters string `  @Letters? )`
	Word    string `| @Letters`
}

// selectorLexer tokenizes range selectors. Letters is a run so that
// alphabetic page tokens lex as one token; single-letter runs double as
// sub-page letters.
var selectorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Letters", Pattern: `[a-z]+`},
	{Name: "Hyphen", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var selectorParser = participle.MustBuild[selectorGrammar](
	participle.Lexer(selectorLexer),
	participle.Elide("Whitespace"),
)

// ParseRanges parses a comma-separated range selector into one Range per
// element, preserving order and duplicates. Each element matches
// PAGE[LETTER]["-"PAGE[LETTER]]; whitespace around commas and hyphens is
// ignored. A bare-page element or range end covers the whole page. A
// single-letter range end is shorthand for that letter on the start page
// ("327a-c" means "327a-327c"). Anything else fails with a
// RangeSyntaxError naming the offending element.
func ParseRanges(selector string) ([]Range, error) {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return nil, errors.NewRangeSyntax(selector, "", "empty selector")
	}

	parts := strings.Split(trimmed, ",")
	ranges := make([]Range, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return nil, errors.NewRangeSyntax(selector, part, "empty range element")
		}
		if strings.Count(token, "-") > 1 {
			return nil, errors.NewRangeSyntax(selector, token, "more than one hyphen")
		}
		r, err := parseElement(selector, token)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseElement(selector, token string) (Range, error) {
	parsed, err := selectorParser.ParseString("", token)
	if err != nil {
		return Range{}, &errors.RangeSyntaxError{
			Selector: selector,
			Token:    token,
			Reason:   "expected PAGE[LETTER] or PAGE[LETTER]-PAGE[LETTER]",
			Err:      err,
		}
	}

	start, err := citeFromPart(selector, token, parsed.Start)
	if err != nil {
		return Range{}, err
	}

	if parsed.End == nil {
		if start.Letter != "" {
			return Range{Start: start, End: start}, nil
		}
		lo, hi := wholePage(start.Page)
		return Range{Start: lo, End: hi}, nil
	}

	end, err := endFromPart(selector, token, start, *parsed.End)
	if err != nil {
		return Range{}, err
	}
	if Compare(start, end) > 0 {
		return Range{}, errors.NewRangeSyntax(selector, token, "range start exceeds range end")
	}
	return Range{Start: start, End: end}, nil
}

func citeFromPart(selector, token string, part citePart) (Citation, error) {
	if part.Word != "" {
		return Citation{Page: part.Word}, nil
	}
	if len(part.Letters) > 1 {
		return Citation{}, errors.NewRangeSyntax(selector, token, "sub-page reference must be a single letter")
	}
	return Citation{Page: part.Page, Letter: part.Letters}, nil
}

func endFromPart(selector, token string, start Citation, part citePart) (Citation, error) {
	// Single-letter end: a sub-page letter on the start page.
	if part.Word != "" && len(part.Word) == 1 {
		return Citation{Page: start.Page, Letter: part.Word}, nil
	}

	end, err := citeFromPart(selector, token, part)
	if err != nil {
		return Citation{}, err
	}
	if end.Letter == "" {
		// Bare-page end covers the whole end page.
		end.Letter = LetterMax
	}
	return end, nil
}
