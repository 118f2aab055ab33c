// Package stephanus models Stephanus-style citations: a page token, an
// optional sub-page letter, and an optional book identifier. It provides the
// total ordering used to keep extracted text in citation order and the range
// selectors used to address sub-ranges of a work.
package stephanus

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/lexeis/stephanos/core/errors"
)

// LetterMax is the open-ended upper bound used when a range names a whole
// page. It sorts after every lowercase sub-page letter and is never printed.
const LetterMax = "~"

// Citation is a position reference within a work.
type Citation struct {
	// Page is the page token (e.g., "327"). Usually numeric, but
	// non-numeric tokens are allowed and compared lexicographically.
	Page string `json:"page"`

	// Letter is the sub-page letter ("a".."e" in Stephanus editions),
	// empty when the citation addresses a whole page.
	Letter string `json:"letter,omitempty"`

	// Book is the book identifier for multi-book works, stamped by the
	// segmenter from the ambient book context.
	Book string `json:"book,omitempty"`
}

// ParseCitation parses a raw marker token such as "327", "327a", or "1012b".
// A trailing single lowercase letter after digits is the sub-page letter;
// any other all-alphanumeric token is a bare page.
func ParseCitation(token string) (Citation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Citation{}, &errors.ValidationError{
			Field:   "citation",
			Value:   token,
			Message: "empty citation token",
		}
	}
	for _, r := range token {
		if !unicode.IsDigit(r) && !unicode.IsLower(r) {
			return Citation{}, &errors.ValidationError{
				Field:   "citation",
				Value:   token,
				Message: "citation tokens are lowercase alphanumeric",
			}
		}
	}

	last := token[len(token)-1]
	rest := token[:len(token)-1]
	if last >= 'a' && last <= 'z' && rest != "" && allDigits(rest) {
		return Citation{Page: rest, Letter: string(last)}, nil
	}
	return Citation{Page: token}, nil
}

// String returns the canonical token form (page plus letter, book omitted).
func (c Citation) String() string {
	return c.Page + c.Letter
}

// IsZero reports whether the citation is empty.
func (c Citation) IsZero() bool {
	return c.Page == "" && c.Letter == "" && c.Book == ""
}

// Compare orders two citations: book first (only when both sides carry
// one), then page (numeric when both tokens are numeric), then letter
// (absence sorts before presence, letters lexicographically).
func Compare(a, b Citation) int {
	if a.Book != "" && b.Book != "" {
		if cmp := compareTokens(a.Book, b.Book); cmp != 0 {
			return cmp
		}
	}
	if cmp := compareTokens(a.Page, b.Page); cmp != 0 {
		return cmp
	}
	return compareLetters(a.Letter, b.Letter)
}

// compareTokens compares page or book tokens numerically when both are
// all-digit, lexicographically otherwise.
func compareTokens(a, b string) int {
	if allDigits(a) && allDigits(b) {
		an, aerr := strconv.Atoi(a)
		bn, berr := strconv.Atoi(b)
		if aerr == nil && berr == nil {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a, b)
}

func compareLetters(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
