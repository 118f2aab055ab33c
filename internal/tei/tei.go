// Package tei reads TEI editions and linearizes them into document
// events for segmentation.
//
// Editions come from Perseus-style CTS corpora either as plain XML or
// xz-compressed XML. Open handles both, validates the text/body
// structure, and exposes header metadata and the event stream.
package tei

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/segment"
	"github.com/lexeis/stephanos/core/stephanus"
	"github.com/lexeis/stephanos/core/xml"
)

// Document is an opened TEI edition.
type Document struct {
	doc  *xml.Document
	body *xml.Node
	path string
}

// Meta describes one edition from its header and filename.
type Meta struct {
	// Title is the main-language title from the titleStmt, normally
	// the Greek one.
	Title string
	// TitleEn is the romanized or translated title when the header
	// carries one.
	TitleEn string
	// AuthorID is the catalog author token from the filename, such as
	// "tlg0059".
	AuthorID string
	// WorkID is the catalog work token, such as "tlg0059.tlg030".
	WorkID string
	// MultiBook reports whether the edition has more than one book
	// division.
	MultiBook bool
	// LetterCitations reports whether any citation marker carries a
	// letter subdivision.
	LetterCitations bool
}

// Render converts the edition metadata into the form the renderer
// consumes.
func (m Meta) Render() segment.Meta {
	return segment.Meta{
		Title:           m.Title,
		TitleEn:         m.TitleEn,
		MultiBook:       m.MultiBook,
		LetterCitations: m.LetterCitations,
	}
}

// Open reads a TEI edition from path. Files ending in .xz are
// decompressed transparently. The document must contain a text element
// with a body, otherwise a parse error is returned.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, coreerrors.NewIO("open", path, err)
	}
	defer f.Close()

	var doc *xml.Document
	if strings.HasSuffix(path, ".xz") {
		r, err := xz.NewReader(f)
		if err != nil {
			return nil, coreerrors.NewIO("decompress", path, err)
		}
		doc, err = xml.ParseReader(r)
		if err != nil {
			return nil, coreerrors.NewParse("tei", path, err.Error())
		}
	} else {
		doc, err = xml.ParseReader(f)
		if err != nil {
			return nil, coreerrors.NewParse("tei", path, err.Error())
		}
	}

	body, err := doc.XPathFirst("//text/body")
	if err != nil {
		return nil, coreerrors.NewParse("tei", path, err.Error())
	}
	if body == nil {
		return nil, coreerrors.NewParse("tei", path, "missing text/body structure")
	}

	return &Document{doc: doc, body: body, path: path}, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Meta extracts header metadata and filename identifiers.
func (d *Document) Meta() Meta {
	meta := Meta{}

	titles, _ := d.doc.XPath("//teiHeader//titleStmt/title")
	for _, title := range titles {
		text := strings.Join(strings.Fields(title.Text()), " ")
		if text == "" {
			continue
		}
		switch title.Attr("lang") {
		case "grc":
			if meta.Title == "" {
				meta.Title = text
			}
		case "eng", "en", "lat":
			if meta.TitleEn == "" {
				meta.TitleEn = text
			}
		default:
			if meta.Title == "" {
				meta.Title = text
			}
		}
	}

	meta.AuthorID, meta.WorkID = identifiersFromPath(d.path)
	meta.MultiBook = len(d.bookDivs()) > 1
	meta.LetterCitations = d.hasLetterCitations()

	return meta
}

// identifiersFromPath derives catalog tokens from a CTS edition
// filename such as tlg0059.tlg030.perseus-grc2.xml.
func identifiersFromPath(path string) (authorID, workID string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".xz")
	base = strings.TrimSuffix(base, ".xml")

	parts := strings.Split(base, ".")
	if len(parts) < 2 {
		return "", ""
	}
	if !strings.HasPrefix(parts[0], "tlg") && !strings.HasPrefix(parts[0], "phi") {
		return "", ""
	}
	return parts[0], parts[0] + "." + parts[1]
}

func (d *Document) bookDivs() []*xml.Node {
	divs, _ := d.body.XPath(".//div[@type='textpart'][@subtype='book']")
	return divs
}

func (d *Document) hasSaid() bool {
	node, _ := d.body.XPathFirst(".//said")
	return node != nil
}

func (d *Document) sectionMilestones() []*xml.Node {
	nodes, _ := d.body.XPath(".//milestone[@unit='section' or @unit='stephpage']")
	return nodes
}

func (d *Document) hasLetterCitations() bool {
	for _, node := range d.sectionMilestones() {
		cit, err := stephanus.ParseCitation(strings.TrimSpace(node.Attr("n")))
		if err != nil {
			continue
		}
		if cit.Letter != "" {
			return true
		}
	}
	return false
}
