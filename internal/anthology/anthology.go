// Package anthology extracts discontinuous passages from several works
// and composes them into one document.
//
// A passage spec pairs a work name with a range selector list, written
// WORK:RANGES on the command line ("republic:327a-328c"). Each range
// becomes one block carrying the work titles and its filtered
// segments; Compose renders the blocks under a shared style, each
// under a header line naming the work and range.
package anthology

import (
	"strings"

	"github.com/mattn/go-runewidth"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/segment"
	"github.com/lexeis/stephanos/core/stephanus"
	"github.com/lexeis/stephanos/core/style"
	"github.com/lexeis/stephanos/internal/catalog"
	"github.com/lexeis/stephanos/internal/resolver"
	"github.com/lexeis/stephanos/internal/tei"
)

// DefaultHeaderWidth is the dashed-rule width under block headers.
const DefaultHeaderWidth = 79

// PassageSpec names a work and the ranges to pull from it.
type PassageSpec struct {
	Work   string
	Ranges []stephanus.Range
}

// Block is one extracted passage ready for composition.
type Block struct {
	WorkID       string
	TitleEn      string
	TitleGr      string
	RangeDisplay string
	// Book is set when every segment of the block belongs to the same
	// book, and shows up in the header as book.range.
	Book     string
	Segments []segment.Segment
	Meta     segment.Meta
}

// Header renders the block's title line over a dashed rule. The rule
// is at least width columns and never shorter than the title line.
func (b Block) Header(width int) string {
	rangePart := b.RangeDisplay
	if b.Book != "" {
		rangePart = b.Book + "." + rangePart
	}

	line := b.TitleEn
	if b.TitleGr != "" {
		line += " (" + b.TitleGr + ")"
	}
	line += " " + rangePart

	ruleWidth := width
	if w := runewidth.StringWidth(line); w > ruleWidth {
		ruleWidth = w
	}
	return line + "\n" + strings.Repeat("-", ruleWidth)
}

// ParseSpec parses a WORK:RANGES passage argument.
func ParseSpec(raw string) (PassageSpec, error) {
	idx := strings.Index(raw, ":")
	if idx <= 0 || idx == len(raw)-1 {
		return PassageSpec{}, coreerrors.NewValidation("passage",
			"passage must look like WORK:RANGES, e.g. republic:327a-328c")
	}

	work := strings.TrimSpace(raw[:idx])
	if work == "" {
		return PassageSpec{}, coreerrors.NewValidation("passage",
			"passage must name a work before the colon")
	}

	ranges, err := stephanus.ParseRanges(raw[idx+1:])
	if err != nil {
		return PassageSpec{}, err
	}
	return PassageSpec{Work: work, Ranges: ranges}, nil
}

// Extractor runs the extraction pipeline for passage specs.
type Extractor struct {
	Catalog  *catalog.Catalog
	Resolver *resolver.Resolver
}

// Extract resolves each spec's work, segments its edition once, and
// filters out one block per range, in spec order. A range that matches
// nothing is an empty-extraction error naming the work and range.
func (e *Extractor) Extract(specs []PassageSpec) ([]Block, error) {
	var blocks []Block

	for _, spec := range specs {
		workID, err := e.Resolver.Resolve(spec.Work)
		if err != nil {
			return nil, err
		}
		work, err := e.Catalog.ResolveWork(workID)
		if err != nil {
			return nil, err
		}

		doc, err := tei.Open(work.Path)
		if err != nil {
			return nil, err
		}
		meta := doc.Meta()
		events, err := doc.Events()
		if err != nil {
			return nil, err
		}
		segments, err := segment.SegmentEvents(workID, events)
		if err != nil {
			return nil, err
		}

		titleEn := work.TitleEn
		if titleEn == "" {
			titleEn = meta.TitleEn
		}
		titleGr := work.TitleGrc
		if titleGr == "" {
			titleGr = meta.Title
		}

		for _, r := range spec.Ranges {
			filtered := segment.Filter(segments, []stephanus.Range{r})
			if len(filtered) == 0 {
				emptyErr := coreerrors.NewEmptyExtraction(workID,
					"range "+r.String()+" matched no text")
				return nil, emptyErr
			}

			blocks = append(blocks, Block{
				WorkID:       workID,
				TitleEn:      titleEn,
				TitleGr:      titleGr,
				RangeDisplay: r.String(),
				Book:         uniformBook(filtered),
				Segments:     filtered,
				Meta:         meta.Render(),
			})
		}
	}

	return blocks, nil
}

// uniformBook reports the shared book of the segments, or "" when they
// span books or carry none.
func uniformBook(segments []segment.Segment) string {
	book := ""
	for _, seg := range segments {
		if seg.Book == "" {
			continue
		}
		if book == "" {
			book = seg.Book
			continue
		}
		if seg.Book != book {
			return ""
		}
	}
	return book
}

// Compose renders the blocks under one style, each beneath its header,
// separated by blank lines. Styles without a linear spaced layout
// cannot carry per-block headers and are rejected.
func Compose(blocks []Block, sp style.Spec, width int) (string, error) {
	if sp.ID == style.ScriptioContinua.ID || sp.ID == style.StephanusLayout.ID {
		return "", coreerrors.NewStyleEligibility(sp.ID,
			"anthology composition needs a linear layout with word spacing")
	}
	if width <= 0 {
		width = DefaultHeaderWidth
	}

	// The block header already names the work and book, so the
	// style's own title and book headers are suppressed.
	blockSpec := sp
	blockSpec.Headers = false

	var parts []string
	for _, block := range blocks {
		body, err := style.Render(block.Segments, block.Meta, blockSpec)
		if err != nil {
			return "", err
		}
		parts = append(parts, block.Header(width)+"\n"+body)
	}
	return strings.Join(parts, "\n\n"), nil
}
