// Package segment turns a linear stream of document events into ordered,
// citation-addressed text Segments, and filters Segment sequences by
// Stephanus citation ranges.
//
// # Event Stream
//
// A document parser (see internal/tei) linearizes its source into five
// event kinds:
//
//   - Text: a run of content text
//   - Marker: a Stephanus citation boundary (page, optional letter)
//   - SpeakerChange: a new dialogue turn (speaker identity, display label)
//   - ParagraphBreak: a paragraph boundary
//   - BookBoundary: entry into a new book division
//
// # Segmentation
//
// SegmentEvents folds the stream into Segments. Every Marker event starts
// a new Segment, so citation boundaries never merge: two adjacent markers
// with no text between them produce two Segments, the first carrying only
// its citation. Speaker labels attach to the next emitted Segment, and only
// when its speaker differs from the previously emitted Segment's speaker.
// Segments inherit the ambient book set by the last BookBoundary.
//
// # Filtering
//
// Filter selects the sub-sequence of Segments whose citation falls inside
// any of the given ranges. A Segment without a marker of its own inherits
// the citation context of the most recent marker before it, so continuation
// text stays attached to its page.
//
// # Example
//
//	events := []segment.Event{
//	    segment.SpeakerEvent("Σωκράτης", "ΣΩ."),
//	    segment.MarkerEvent("327", "a"),
//	    segment.TextEvent("κατέβην χθὲς εἰς Πειραιᾶ"),
//	}
//	segs, err := segment.SegmentEvents("tlg0059.tlg030", events)
package segment
