package style

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lexeis/stephanos/core/segment"
)

// marginWidth is the fixed citation column of the Stephanus layout. One
// space separates it from the text column.
const marginWidth = 6

// renderMargin arranges segments in the historical two-column page shape:
// text accumulates until the next marker-bearing segment, then flushes as
// a wrapped run whose first physical line carries the pending citation
// right-aligned in the margin. Continuation lines carry blank margin.
// Labels, paragraphs, and headers are never printed.
func renderMargin(segments []segment.Segment, spec Spec) string {
	var lines []string
	var chunks []string
	marker := ""
	page := ""

	flush := func() {
		if len(chunks) == 0 {
			return
		}
		text := strings.Join(chunks, " ")
		chunks = nil
		for i, line := range Wrap(text, spec.Width) {
			if i == 0 && marker != "" {
				lines = append(lines, runewidth.FillLeft(marker, marginWidth)+" "+line)
			} else {
				lines = append(lines, strings.Repeat(" ", marginWidth)+" "+line)
			}
		}
		marker = ""
	}

	for _, seg := range segments {
		if c, ok := seg.FirstCitation(); ok {
			flush()
			marker = "[" + citationDisplay(c, page) + "]"
			page = c.Page
		}
		if text := transformText(seg.Text, spec); text != "" {
			chunks = append(chunks, text)
		}
	}
	flush()

	return strings.Join(lines, "\n")
}
