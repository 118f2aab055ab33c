package segment

import (
	"github.com/lexeis/stephanos/core/stephanus"
)

// Filter returns the Segments whose citation falls inside any of the
// given ranges, preserving order and emitting each Segment at most once.
//
// A Segment without a marker of its own inherits the ambient citation,
// the last marker of the most recent marker-bearing Segment before it,
// resolved against the ambient book. Segments before the first marker
// have no citation context and match nothing. A range that selects no
// Segment contributes nothing; callers decide whether an empty result is
// an error.
func Filter(segments []Segment, ranges []stephanus.Range) []Segment {
	var out []Segment
	var ambient stephanus.Citation
	haveAmbient := false
	ambientBook := ""

	for _, seg := range segments {
		if seg.Book != "" {
			ambientBook = seg.Book
		}

		var candidates []stephanus.Citation
		switch {
		case len(seg.Citations) > 0:
			candidates = seg.Citations
			ambient = seg.Citations[len(seg.Citations)-1]
			haveAmbient = true
		case haveAmbient:
			inherited := ambient
			inherited.Book = ambientBook
			candidates = []stephanus.Citation{inherited}
		}

		if matchAny(candidates, ranges) {
			out = append(out, seg)
		}
	}
	return out
}

func matchAny(citations []stephanus.Citation, ranges []stephanus.Range) bool {
	for _, c := range citations {
		for _, r := range ranges {
			if r.Contains(c) {
				return true
			}
		}
	}
	return false
}
