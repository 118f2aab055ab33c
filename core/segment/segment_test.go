package segment

import (
	"errors"
	"reflect"
	"testing"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/stephanus"
)

func cite(page, letter string) stephanus.Citation {
	return stephanus.Citation{Page: page, Letter: letter}
}

func TestSegmentEventsDialogue(t *testing.T) {
	events := []Event{
		SpeakerEvent("Σωκράτης", "ΣΩ."),
		MarkerEvent("327", "a"),
		TextEvent("κατέβην χθὲς εἰς Πειραιᾶ μετὰ Γλαύκωνος τοῦ Ἀρίστωνος"),
		MarkerEvent("327", "b"),
		TextEvent("προσευξόμενός τε τῇ θεῷ καὶ ἅμα τὴν ἑορτὴν βουλόμενος θεάσασθαι"),
		SpeakerEvent("Πολέμαρχος", "ΠΟΛ."),
		TextEvent("ὦ Σώκρατες, δοκεῖτέ μοι πρὸς ἄστυ ὡρμῆσθαι ὡς ἀπιόντες."),
	}

	segs, err := SegmentEvents("republic", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}

	expected := []Segment{
		{
			Text:      "κατέβην χθὲς εἰς Πειραιᾶ μετὰ Γλαύκωνος τοῦ Ἀρίστωνος",
			Speaker:   "Σωκράτης",
			Label:     "ΣΩ.",
			Citations: []stephanus.Citation{cite("327", "a")},
		},
		{
			Text:      "προσευξόμενός τε τῇ θεῷ καὶ ἅμα τὴν ἑορτὴν βουλόμενος θεάσασθαι",
			Speaker:   "Σωκράτης",
			Citations: []stephanus.Citation{cite("327", "b")},
		},
		{
			Text:    "ὦ Σώκρατες, δοκεῖτέ μοι πρὸς ἄστυ ὡρμῆσθαι ὡς ἀπιόντες.",
			Speaker: "Πολέμαρχος",
			Label:   "ΠΟΛ.",
		},
	}

	if !reflect.DeepEqual(segs, expected) {
		t.Errorf("SegmentEvents() = %+v, want %+v", segs, expected)
	}
}

func TestSegmentEventsAdjacentMarkers(t *testing.T) {
	// Two markers with no text between them must produce two Segments,
	// the first marker-only. Collapsing them loses a citation boundary.
	events := []Event{
		MarkerEvent("327", "a"),
		MarkerEvent("327", "b"),
		TextEvent("ἔδοξέ μοι"),
	}

	segs, err := SegmentEvents("republic", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("SegmentEvents() produced %d segments, want 2", len(segs))
	}
	if segs[0].Text != "" {
		t.Errorf("segments[0].Text = %q, want empty", segs[0].Text)
	}
	if got, want := segs[0].Citations, []stephanus.Citation{cite("327", "a")}; !reflect.DeepEqual(got, want) {
		t.Errorf("segments[0].Citations = %v, want %v", got, want)
	}
	if segs[1].Text != "ἔδοξέ μοι" {
		t.Errorf("segments[1].Text = %q, want %q", segs[1].Text, "ἔδοξέ μοι")
	}
	if got, want := segs[1].Citations, []stephanus.Citation{cite("327", "b")}; !reflect.DeepEqual(got, want) {
		t.Errorf("segments[1].Citations = %v, want %v", got, want)
	}
}

func TestSegmentEventsTrailingMarkerKept(t *testing.T) {
	events := []Event{
		MarkerEvent("17", "a"),
		TextEvent("ἀρχὴ τοῦ λόγου"),
		MarkerEvent("17", "b"),
	}

	segs, err := SegmentEvents("doc", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("SegmentEvents() produced %d segments, want 2", len(segs))
	}
	if segs[1].Text != "" || len(segs[1].Citations) != 1 {
		t.Errorf("trailing marker segment = %+v, want marker-only", segs[1])
	}
}

func TestSegmentEventsLabelOnlyOnSpeakerChange(t *testing.T) {
	// The label attaches once per turn. A repeated speaker_change for the
	// same speaker must not re-attach it.
	events := []Event{
		SpeakerEvent("Σωκράτης", "ΣΩ."),
		TextEvent("πρῶτον μέν"),
		SpeakerEvent("Σωκράτης", "ΣΩ."),
		TextEvent("ἔπειτα δέ"),
		SpeakerEvent("Θεαίτητος", "ΘΕΑΙ."),
		TextEvent("πάνυ γε."),
	}

	segs, err := SegmentEvents("theaetetus", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("SegmentEvents() produced %d segments, want 3", len(segs))
	}
	labels := []string{segs[0].Label, segs[1].Label, segs[2].Label}
	want := []string{"ΣΩ.", "", "ΘΕΑΙ."}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %q, want %q", labels, want)
	}
}

func TestSegmentEventsLabelSurvivesInterveningMarker(t *testing.T) {
	// A marker that opens a turn stays with the turn's text, and the
	// turn label lands on that same Segment.
	events := []Event{
		SpeakerEvent("Σωκράτης", "ΣΩ."),
		TextEvent("τί φῄς;"),
		SpeakerEvent("Θεαίτητος", "ΘΕΑΙ."),
		MarkerEvent("143", "e"),
		TextEvent("οὕτω λέγω."),
	}

	segs, err := SegmentEvents("theaetetus", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("SegmentEvents() produced %d segments, want 2", len(segs))
	}
	if segs[1].Label != "ΘΕΑΙ." {
		t.Errorf("segments[1].Label = %q, want %q", segs[1].Label, "ΘΕΑΙ.")
	}
	if segs[1].Speaker != "Θεαίτητος" {
		t.Errorf("segments[1].Speaker = %q, want %q", segs[1].Speaker, "Θεαίτητος")
	}
	if got, want := segs[1].Citations, []stephanus.Citation{cite("143", "e")}; !reflect.DeepEqual(got, want) {
		t.Errorf("segments[1].Citations = %v, want %v", got, want)
	}
}

func TestSegmentEventsParagraphStart(t *testing.T) {
	events := []Event{
		ParagraphEvent(),
		MarkerEvent("17", "a"),
		TextEvent("πρῶτος λόγος."),
		ParagraphEvent(),
		TextEvent("δεύτερος λόγος."),
	}

	segs, err := SegmentEvents("doc", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("SegmentEvents() produced %d segments, want 2", len(segs))
	}
	if !segs[0].ParagraphStart {
		t.Error("segments[0].ParagraphStart = false, want true")
	}
	if !segs[1].ParagraphStart {
		t.Error("segments[1].ParagraphStart = false, want true")
	}
	if len(segs[0].Citations) != 1 {
		t.Errorf("segments[0].Citations = %v, want the opening marker", segs[0].Citations)
	}
}

func TestSegmentEventsBookBoundary(t *testing.T) {
	events := []Event{
		BookEvent("1"),
		MarkerEvent("327", "a"),
		TextEvent("κατέβην χθὲς εἰς Πειραιᾶ"),
		BookEvent("2"),
		MarkerEvent("357", "a"),
		TextEvent("ἐγὼ μὲν οὖν ταῦτα εἰπών"),
	}

	segs, err := SegmentEvents("republic", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("SegmentEvents() produced %d segments, want 2", len(segs))
	}
	if segs[0].Book != "1" || segs[1].Book != "2" {
		t.Errorf("books = %q, %q, want 1, 2", segs[0].Book, segs[1].Book)
	}
	if segs[0].Citations[0].Book != "1" {
		t.Errorf("segments[0] citation book = %q, want 1", segs[0].Citations[0].Book)
	}
	if segs[1].Citations[0].Book != "2" {
		t.Errorf("segments[1] citation book = %q, want 2", segs[1].Citations[0].Book)
	}
}

func TestSegmentEventsWhitespaceNormalization(t *testing.T) {
	events := []Event{
		TextEvent("  κατέβην\n\tχθὲς "),
		TextEvent("εἰς   Πειραιᾶ"),
	}

	segs, err := SegmentEvents("doc", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("SegmentEvents() produced %d segments, want 1", len(segs))
	}
	if got, want := segs[0].Text, "κατέβην χθὲς εἰς Πειραιᾶ"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestSegmentEventsEmptyExtraction(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
	}{
		{name: "no events", events: nil},
		{name: "whitespace only", events: []Event{TextEvent("   \n\t ")}},
		{
			name: "markers without text",
			events: []Event{
				MarkerEvent("327", "a"),
				MarkerEvent("327", "b"),
			},
		},
		{
			name: "structure without text",
			events: []Event{
				BookEvent("1"),
				SpeakerEvent("Σωκράτης", "ΣΩ."),
				ParagraphEvent(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SegmentEvents("tlg0059.tlg030", tt.events)
			if err == nil {
				t.Fatal("SegmentEvents() = nil error, want empty extraction")
			}
			if !errors.Is(err, coreerrors.ErrEmptyExtraction) {
				t.Errorf("error = %v, want ErrEmptyExtraction", err)
			}
			var extractErr *coreerrors.EmptyExtractionError
			if !errors.As(err, &extractErr) {
				t.Fatalf("error = %T, want *EmptyExtractionError", err)
			}
			if extractErr.Source != "tlg0059.tlg030" {
				t.Errorf("Source = %q, want %q", extractErr.Source, "tlg0059.tlg030")
			}
		})
	}
}

func TestSegmentEventsDroppedCandidates(t *testing.T) {
	// Structure events around empty text must not leak zero-value
	// Segments into the output.
	events := []Event{
		SpeakerEvent("Σωκράτης", "ΣΩ."),
		TextEvent(" "),
		ParagraphEvent(),
		TextEvent("μόνος λόγος."),
	}

	segs, err := SegmentEvents("doc", events)
	if err != nil {
		t.Fatalf("SegmentEvents() error: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("SegmentEvents() produced %d segments, want 1", len(segs))
	}
	if segs[0].Text != "μόνος λόγος." || segs[0].Label != "ΣΩ." || !segs[0].ParagraphStart {
		t.Errorf("segment = %+v, want labeled paragraph start", segs[0])
	}
}
