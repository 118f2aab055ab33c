package segment

import (
	"strings"

	"github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/stephanus"
)

// Segment is the atomic unit of extracted text. Segments are produced in
// document order and treated as immutable once emitted; Filter selects
// sub-sequences without mutating them.
type Segment struct {
	// Text is the whitespace-normalized content run. Empty only for
	// marker-only Segments, which preserve a citation boundary that no
	// text follows before the next boundary.
	Text string `json:"text"`

	// Speaker identifies the dialogue turn this Segment belongs to.
	Speaker string `json:"speaker,omitempty"`

	// Label is the short speaker form (e.g. "ΣΩ."), attached only when
	// the speaker differs from the previously emitted Segment's.
	Label string `json:"label,omitempty"`

	// Citations are the markers that begin within this Segment. The
	// segmenter emits at most one per Segment.
	Citations []stephanus.Citation `json:"citations,omitempty"`

	// ParagraphStart marks the first Segment of a paragraph.
	ParagraphStart bool `json:"paragraph_start,omitempty"`

	// Book is the ambient book identifier, when the work has books.
	Book string `json:"book,omitempty"`
}

// FirstCitation returns the Segment's first marker, if any.
func (s Segment) FirstCitation() (stephanus.Citation, bool) {
	if len(s.Citations) == 0 {
		return stephanus.Citation{}, false
	}
	return s.Citations[0], true
}

// Meta is the document metadata consumed by the renderer. It is supplied
// by the document parser, not derived from Segments.
type Meta struct {
	// Title is the work title in its local script.
	Title string `json:"title,omitempty"`

	// TitleEn is the romanized or translated title.
	TitleEn string `json:"title_en,omitempty"`

	// MultiBook reports whether the work is divided into books.
	MultiBook bool `json:"multi_book,omitempty"`

	// LetterCitations reports whether the work carries letter-level
	// sub-page citation. Required by the margin layout style.
	LetterCitations bool `json:"letter_citations,omitempty"`
}

// segmenter is the fold state for one pass over an event stream.
type segmenter struct {
	segments []Segment

	// Candidate Segment under construction.
	text      []string
	citations []stephanus.Citation

	// Ambient context stamped on Segments at flush time.
	speaker string
	book    string

	// Deferred state consumed by the next emitted Segment.
	pendingLabel     string
	pendingParagraph bool

	lastSpeaker string
	emittedText bool
}

// SegmentEvents folds an ordered event stream into Segments. The source
// string identifies the document in the empty-extraction error returned
// when no event contributes text.
//
// Marker events always terminate the candidate Segment, so consecutive
// markers never collapse into one Segment. SpeakerChange and
// ParagraphBreak terminate only text-bearing candidates, letting a marker
// that opens a turn or paragraph stay attached to the text that follows
// it. Candidates holding neither text nor a citation are dropped.
func SegmentEvents(source string, events []Event) ([]Segment, error) {
	fold := &segmenter{}
	for _, ev := range events {
		switch ev.Kind {
		case EventText:
			fold.addText(ev.Text)
		case EventMarker:
			fold.flush()
			fold.citations = append(fold.citations, stephanus.Citation{
				Page:   ev.Page,
				Letter: ev.Letter,
				Book:   fold.book,
			})
		case EventSpeakerChange:
			if fold.hasText() {
				fold.flush()
			}
			fold.speaker = ev.Speaker
			fold.pendingLabel = ev.Label
		case EventParagraphBreak:
			if fold.hasText() {
				fold.flush()
			}
			fold.pendingParagraph = true
		case EventBookBoundary:
			fold.flush()
			fold.book = ev.Book
		}
	}
	fold.flush()

	if !fold.emittedText {
		return nil, errors.NewEmptyExtraction(source, "no text-bearing segments")
	}
	return fold.segments, nil
}

// addText normalizes a content run and appends it to the candidate.
// Internal whitespace runs collapse to single spaces; runs that are
// entirely whitespace are ignored.
func (s *segmenter) addText(run string) {
	run = strings.Join(strings.Fields(run), " ")
	if run == "" {
		return
	}
	s.text = append(s.text, run)
}

func (s *segmenter) hasText() bool {
	return len(s.text) > 0
}

// flush emits the candidate Segment if it holds text or a citation.
// Deferred label and paragraph state survive an empty flush and attach to
// the next Segment actually emitted.
func (s *segmenter) flush() {
	if !s.hasText() && len(s.citations) == 0 {
		return
	}
	seg := Segment{
		Text:           strings.Join(s.text, " "),
		Speaker:        s.speaker,
		Citations:      s.citations,
		ParagraphStart: s.pendingParagraph,
		Book:           s.book,
	}
	if s.pendingLabel != "" && seg.Speaker != s.lastSpeaker {
		seg.Label = s.pendingLabel
	}
	s.pendingLabel = ""
	s.pendingParagraph = false
	s.lastSpeaker = seg.Speaker
	if seg.Text != "" {
		s.emittedText = true
	}
	s.segments = append(s.segments, seg)
	s.text = nil
	s.citations = nil
}
