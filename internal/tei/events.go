package tei

import (
	"strings"

	"github.com/lexeis/stephanos/core/segment"
	"github.com/lexeis/stephanos/core/stephanus"
	"github.com/lexeis/stephanos/core/xml"
	"github.com/lexeis/stephanos/internal/logging"
)

// Events linearizes the edition body into the document event stream.
//
// Dialogue editions (any said element present) emit speaker changes
// with their labels; prose editions emit paragraph breaks per p. When
// the edition carries section or stephpage milestones those become the
// citation markers; editions without milestones fall back to the n
// attribute of their section divs.
func (d *Document) Events() ([]segment.Event, error) {
	lin := &linearizer{
		path:          d.path,
		dialogue:      d.hasSaid(),
		useMilestones: len(d.sectionMilestones()) > 0,
	}
	lin.walkChildren(d.body)
	lin.flushPending()
	lin.trimStrayGamma()
	return lin.events, nil
}

// linearizer walks the body tree in document order and accumulates
// events. A bare page milestone is held back one step so that the
// common page-break-plus-first-section pair collapses into a single
// letter-a marker.
type linearizer struct {
	events        []segment.Event
	path          string
	dialogue      bool
	useMilestones bool
	pendingPage   string
}

func (l *linearizer) walkChildren(n *xml.Node) {
	for _, child := range n.ChildNodes() {
		l.walk(child)
	}
}

func (l *linearizer) walk(n *xml.Node) {
	switch n.Kind() {
	case xml.KindText:
		l.text(n.Text())
	case xml.KindElement:
		l.element(n)
	}
}

func (l *linearizer) element(n *xml.Node) {
	switch n.Name() {
	case "div":
		l.div(n)
	case "said":
		l.said(n)
	case "p":
		l.events = append(l.events, segment.ParagraphEvent())
		l.walkChildren(n)
	case "milestone":
		l.milestone(n)
	case "label", "speaker":
		// Consumed as the speaker label, never as text.
	case "note", "head", "bibl":
		// Editorial apparatus.
	default:
		l.walkChildren(n)
	}
}

func (l *linearizer) div(n *xml.Node) {
	switch n.Attr("subtype") {
	case "book":
		if num := strings.TrimSpace(n.Attr("n")); num != "" {
			l.flushPending()
			l.events = append(l.events, segment.BookEvent(num))
		}
	case "section", "chapter":
		if !l.useMilestones {
			num := strings.TrimSpace(n.Attr("n"))
			if cit, err := stephanus.ParseCitation(num); err == nil {
				l.flushPending()
				l.events = append(l.events, segment.MarkerEvent(cit.Page, cit.Letter))
			} else if num != "" {
				logging.ParseWarning(l.path, "unparseable section number "+num)
			}
		}
	}
	l.walkChildren(n)
}

func (l *linearizer) said(n *xml.Node) {
	speaker := speakerRef(n.Attr("who"))
	label := ""
	if labelNode, _ := n.XPathFirst("./label"); labelNode != nil {
		label = strings.Join(strings.Fields(labelNode.Text()), " ")
	}

	l.events = append(l.events, segment.ParagraphEvent())
	if l.dialogue {
		l.events = append(l.events, segment.SpeakerEvent(speaker, label))
	}
	l.walkChildren(n)
}

// speakerRef strips the local-reference hash from a who attribute and
// keeps the first reference when several are listed.
func speakerRef(who string) string {
	fields := strings.Fields(who)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[0], "#")
}

func (l *linearizer) milestone(n *xml.Node) {
	unit := n.Attr("unit")

	if unit == "para" && n.Attr("ed") == "P" {
		l.flushPending()
		l.events = append(l.events, segment.ParagraphEvent())
		return
	}
	if unit != "section" && unit != "stephpage" {
		return
	}

	num := strings.TrimSpace(n.Attr("n"))
	cit, err := stephanus.ParseCitation(num)
	if err != nil {
		logging.ParseWarning(l.path, "unparseable milestone "+num)
		return
	}

	if l.pendingPage != "" {
		if cit.Page == l.pendingPage && cit.Letter == "a" {
			// Page break followed by its first section: one marker.
			l.events = append(l.events, segment.MarkerEvent(cit.Page, "a"))
			l.pendingPage = ""
			return
		}
		l.flushPending()
	}

	if cit.Letter == "" {
		l.pendingPage = cit.Page
		return
	}
	l.events = append(l.events, segment.MarkerEvent(cit.Page, cit.Letter))
}

func (l *linearizer) text(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	l.flushPending()
	l.events = append(l.events, segment.TextEvent(s))
}

func (l *linearizer) flushPending() {
	if l.pendingPage == "" {
		return
	}
	l.events = append(l.events, segment.MarkerEvent(l.pendingPage, ""))
	l.pendingPage = ""
}

// trimStrayGamma drops a lone gamma at the very end of the text, an
// OCR artifact some Perseus editions carry after the final sentence.
func (l *linearizer) trimStrayGamma() {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Kind != segment.EventText {
			continue
		}
		fields := strings.Fields(l.events[i].Text)
		if len(fields) > 0 && fields[len(fields)-1] == "γ" {
			logging.ParseWarning(l.path, "stray trailing letter")
			fields = fields[:len(fields)-1]
			if len(fields) == 0 {
				l.events = append(l.events[:i], l.events[i+1:]...)
			} else {
				l.events[i].Text = strings.Join(fields, " ")
			}
		}
		return
	}
}
