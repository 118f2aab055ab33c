package stephanus

// Range is an inclusive span of citations, optionally scoped to a book.
// Ranges are produced by ParseRanges or constructed programmatically;
// Start <= End always holds for parsed ranges.
type Range struct {
	Start Citation `json:"start"`
	End   Citation `json:"end"`

	// Book restricts the range to one book when non-empty. Selector
	// strings never set it; anthology callers may.
	Book string `json:"book,omitempty"`
}

// Contains reports whether c falls inside the range. When the range is
// book-scoped, c must carry a matching book (the segmenter stamps the
// ambient book on every citation it emits).
func (r Range) Contains(c Citation) bool {
	if r.Book != "" && compareTokens(r.Book, c.Book) != 0 {
		return false
	}
	return Compare(r.Start, c) <= 0 && Compare(c, r.End) <= 0
}

// String renders the range in selector form ("327", "327a-328c").
func (r Range) String() string {
	start := r.Start.String()
	end := r.End.String()
	if r.End.Letter == LetterMax {
		end = r.End.Page
	}
	if start == end {
		return start
	}
	return start + "-" + end
}

// wholePage builds the range covering every sub-page letter of one page.
func wholePage(page string) (Citation, Citation) {
	return Citation{Page: page}, Citation{Page: page, Letter: LetterMax}
}
