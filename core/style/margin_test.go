package style

import (
	"strings"
	"testing"

	"github.com/lexeis/stephanos/core/segment"
	"github.com/lexeis/stephanos/core/stephanus"
)

func letterMeta() segment.Meta {
	return segment.Meta{Title: "Πολιτεία", LetterCitations: true}
}

func TestRenderMarginLayout(t *testing.T) {
	segs := []segment.Segment{
		{
			Text:      "κατέβην χθὲς εἰς Πειραιᾶ μετὰ Γλαύκωνος τοῦ Ἀρίστωνος,",
			Label:     "ΣΩ.",
			Citations: []stephanus.Citation{{Page: "327", Letter: "a"}},
		},
		{
			Text:      "προσευξόμενός τε τῇ θεῷ.",
			Citations: []stephanus.Citation{{Page: "327", Letter: "b"}},
		},
	}

	got, err := Render(segs, letterMeta(), StephanusLayout)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := strings.Join([]string{
		" [327] κατέβην χθὲς εἰς Πειραιᾶ μετὰ Γλαύκωνος",
		"       τοῦ Ἀρίστωνος,",
		"   [b] προσευξόμενός τε τῇ θεῷ.",
	}, "\n")
	if got != want {
		t.Errorf("Render() = \n%s\nwant\n%s", got, want)
	}

	// Margin styles never print labels or the title.
	if strings.Contains(got, "ΣΩ.") || strings.Contains(got, "ΠΟΛΙΤΕΙΑ") {
		t.Errorf("Render() = %q, want no labels or title", got)
	}
}

func TestRenderMarginBeforeFirstMarker(t *testing.T) {
	segs := []segment.Segment{
		{Text: "πρόλογος."},
		{Text: "λόγος.", Citations: []stephanus.Citation{{Page: "10", Letter: "b"}}},
	}

	got, err := Render(segs, letterMeta(), StephanusLayout)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "       πρόλογος.\n [10b] λόγος."
	if got != want {
		t.Errorf("Render() = \n%s\nwant\n%s", got, want)
	}
}

func TestRenderMarginPageContext(t *testing.T) {
	// The margin uses the same page-context display rule as inline
	// citations: page token on page entry, letter alone within a page.
	segs := []segment.Segment{
		{Text: "ἓν", Citations: []stephanus.Citation{{Page: "327", Letter: "a"}}},
		{Text: "δύο", Citations: []stephanus.Citation{{Page: "327", Letter: "b"}}},
		{Text: "τρία", Citations: []stephanus.Citation{{Page: "328", Letter: "a"}}},
	}

	got, err := Render(segs, letterMeta(), StephanusLayout)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := strings.Join([]string{
		" [327] ἓν",
		"   [b] δύο",
		" [328] τρία",
	}, "\n")
	if got != want {
		t.Errorf("Render() = \n%s\nwant\n%s", got, want)
	}
}

func TestRenderMarginNormalizesDashes(t *testing.T) {
	segs := []segment.Segment{
		{Text: "ἦ δ᾽ ὅς — καλῶς,", Citations: []stephanus.Citation{{Page: "5", Letter: "c"}}},
	}

	got, err := Render(segs, letterMeta(), StephanusLayout)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "  [5c] ἦ δ᾽ ὅς καλῶς,"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
