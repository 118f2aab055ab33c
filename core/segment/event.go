package segment

// EventKind identifies one kind of document event.
type EventKind string

// Event kind constants.
const (
	EventText           EventKind = "text"
	EventMarker         EventKind = "marker"
	EventSpeakerChange  EventKind = "speaker_change"
	EventParagraphBreak EventKind = "paragraph_break"
	EventBookBoundary   EventKind = "book_boundary"
)

// Event is one element of the linearized document stream. Kind selects
// which of the remaining fields are meaningful.
type Event struct {
	// Kind identifies the event.
	Kind EventKind

	// Text is the content run for EventText.
	Text string

	// Page and Letter locate a citation marker for EventMarker.
	Page   string
	Letter string

	// Speaker and Label describe a dialogue turn for EventSpeakerChange.
	Speaker string
	Label   string

	// Book is the book identifier for EventBookBoundary.
	Book string
}

// TextEvent returns a content text event.
func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

// MarkerEvent returns a citation marker event. Letter may be empty for a
// bare page marker.
func MarkerEvent(page, letter string) Event {
	return Event{Kind: EventMarker, Page: page, Letter: letter}
}

// SpeakerEvent returns a dialogue turn event. Label is the short form
// shown when the speaker changes (e.g. "ΣΩ.").
func SpeakerEvent(speaker, label string) Event {
	return Event{Kind: EventSpeakerChange, Speaker: speaker, Label: label}
}

// ParagraphEvent returns a paragraph boundary event.
func ParagraphEvent() Event {
	return Event{Kind: EventParagraphBreak}
}

// BookEvent returns a book boundary event.
func BookEvent(id string) Event {
	return Event{Kind: EventBookBoundary, Book: id}
}
