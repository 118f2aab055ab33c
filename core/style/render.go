// Package style renders segment sequences as styled plain text. Six fixed
// styles share one linear pipeline parameterized by the Spec fields, with
// the two-column Stephanus layout as a separate final-stage arrangement.
package style

import (
	"strings"

	"github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/segment"
	"github.com/lexeis/stephanos/core/stephanus"
)

// Render produces the final text for a segment sequence under one style.
// Rendering is pure and deterministic: identical inputs yield identical
// output, and a failed render returns no partial text.
func Render(segments []segment.Segment, meta segment.Meta, spec Spec) (string, error) {
	if spec.RequiresLetters && !meta.LetterCitations {
		return "", errors.NewStyleEligibility(spec.ID, "letter-level citation support")
	}
	if len(segments) == 0 {
		return "", nil
	}
	if spec.Layout == LayoutMargin {
		return renderMargin(segments, spec), nil
	}
	return renderLinear(segments, meta, spec), nil
}

// citationDisplay is the page-context display rule shared by inline and
// margin citations: the first marker shown for a page carries the page
// token (page alone when the page is entered at "a", page plus letter
// otherwise), later markers on the same page show the letter alone.
func citationDisplay(c stephanus.Citation, lastPage string) string {
	switch {
	case c.Letter == "":
		return c.Page
	case c.Page == lastPage:
		return c.Letter
	case c.Letter == "a":
		return c.Page
	default:
		return c.Page + c.Letter
	}
}

// linearState folds one pass over the segments into visual blocks.
type linearState struct {
	spec   Spec
	title  string
	blocks []string
	chunks []string
	page   string
	book   string
}

func renderLinear(segments []segment.Segment, meta segment.Meta, spec Spec) string {
	st := &linearState{spec: spec, title: meta.Title}
	if spec.Headers && meta.Title != "" {
		st.blocks = append(st.blocks, UpperStrip(meta.Title))
	}

	for _, seg := range segments {
		if spec.Headers && seg.Book != "" && seg.Book != st.book {
			st.flushBlock()
			st.blocks = append(st.blocks, st.bookHeader(seg.Book))
			st.book = seg.Book
		}
		if spec.Paragraphs && seg.ParagraphStart {
			st.flushBlock()
		}

		var parts []string
		if spec.Citations == CitationsInline {
			if c, ok := seg.FirstCitation(); ok {
				parts = append(parts, "["+st.display(c)+"]")
			}
		}
		if spec.Labels && seg.Label != "" {
			parts = append(parts, seg.Label)
		}
		if text := transformText(seg.Text, spec); text != "" {
			parts = append(parts, text)
		}
		if len(parts) > 0 {
			st.chunks = append(st.chunks, strings.Join(parts, " "))
		}
	}
	st.flushBlock()

	return strings.Join(st.blocks, "\n\n")
}

// display advances the citation fold and returns the display form.
func (st *linearState) display(c stephanus.Citation) string {
	d := citationDisplay(c, st.page)
	st.page = c.Page
	return d
}

// flushBlock closes the open block: the accumulated chunks become one
// wrapped run of lines. Scriptio continua blocks drop spacing, uppercase,
// strip diacritics, and hard-wrap, since no word boundaries remain.
func (st *linearState) flushBlock() {
	if len(st.chunks) == 0 {
		return
	}
	text := strings.Join(st.chunks, " ")
	st.chunks = nil

	if st.spec.RemoveSpaces {
		text = removeSpaces(text)
	}
	if st.spec.UpperStrip {
		text = UpperStrip(text)
	}

	var lines []string
	if st.spec.RemoveSpaces {
		lines = HardWrap(text, st.spec.Width)
	} else {
		lines = Wrap(text, st.spec.Width)
	}
	if len(lines) == 0 {
		return
	}
	st.blocks = append(st.blocks, strings.Join(lines, "\n"))
}

// bookHeader renders the header block for one book: the diacritic-stripped
// uppercase title plus the book's Greek numeral.
func (st *linearState) bookHeader(book string) string {
	numeral := greekNumeral(book)
	if st.title == "" {
		return numeral
	}
	return UpperStrip(st.title) + " " + numeral
}
