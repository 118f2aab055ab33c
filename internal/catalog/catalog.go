// Package catalog scans Perseus-style CTS corpora and answers author,
// work, and edition-file lookups.
//
// A corpus root holds one directory per author (tlg0059), each with a
// __cts__.xml metadata file and one directory per work (tlg030), which
// in turn holds work metadata and the edition files. Scanning reads
// only the metadata files; edition XML is opened lazily, by
// ResolveWork callers or PageRange.
//
// Scan results are cached in a SQLite index under the user cache
// directory, fingerprinted with a blake3 digest over the metadata set
// so that any corpus change rebuilds the index.
package catalog

import (
	"sort"
	"strings"
	"time"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/segment"
	"github.com/lexeis/stephanos/internal/logging"
	"github.com/lexeis/stephanos/internal/tei"
)

// Author is one author group in the corpus.
type Author struct {
	ID      string `json:"id"`
	NameEn  string `json:"name_en"`
	NameGrc string `json:"name_grc,omitempty"`
}

// Work is one work of an author, with its Greek edition file when the
// corpus carries one.
type Work struct {
	AuthorID string `json:"author_id"`
	WorkID   string `json:"work_id"`
	TitleEn  string `json:"title_en"`
	TitleGrc string `json:"title_grc,omitempty"`
	Path     string `json:"path,omitempty"`
}

// Match pairs an author with one of their works in search results.
type Match struct {
	Author Author
	Work   Work
}

// Catalog is a scanned corpus.
type Catalog struct {
	root    string
	authors []Author
	works   map[string][]Work
}

// ScanOptions controls how Scan uses the index.
type ScanOptions struct {
	// NoIndex bypasses the SQLite index entirely.
	NoIndex bool
	// IndexPath overrides the index location. Empty means the default
	// under the user cache directory.
	IndexPath string
}

// Scan reads the corpus under root. With the index enabled a scan
// whose metadata digest matches the stored one is served from SQLite
// without touching the per-work files again.
func Scan(root string, opts ScanOptions) (*Catalog, error) {
	start := time.Now()

	digest, err := fingerprint(root)
	if err != nil {
		return nil, err
	}

	indexPath := opts.IndexPath
	if indexPath == "" {
		indexPath = defaultIndexPath()
	}
	useIndex := !opts.NoIndex && indexPath != ""

	if useIndex {
		if cat, ok := loadIndex(indexPath, root, digest); ok {
			logging.IndexEvent("hit", indexPath, "root", root)
			return cat, nil
		}
	}

	cat := &Catalog{root: root, works: map[string][]Work{}}
	if err := cat.scanTree(); err != nil {
		return nil, err
	}

	if useIndex {
		if err := saveIndex(indexPath, root, digest, cat); err != nil {
			logging.Warn("catalog index save failed", "path", indexPath, "error", err)
		} else {
			logging.IndexEvent("rebuild", indexPath, "root", root)
		}
	} else {
		logging.IndexEvent("bypass", indexPath, "root", root)
	}

	logging.CatalogScan(root, len(cat.authors), cat.workCount(), time.Since(start))
	return cat, nil
}

// Root returns the corpus root the catalog was scanned from.
func (c *Catalog) Root() string {
	return c.root
}

func (c *Catalog) workCount() int {
	n := 0
	for _, works := range c.works {
		n += len(works)
	}
	return n
}

// ListAuthors returns all authors sorted by ID.
func (c *Catalog) ListAuthors() []Author {
	out := make([]Author, len(c.authors))
	copy(out, c.authors)
	return out
}

// AllWorks returns every work in the catalog, grouped by author in
// author order.
func (c *Catalog) AllWorks() []Work {
	var out []Work
	for _, author := range c.authors {
		out = append(out, c.works[author.ID]...)
	}
	return out
}

// ListWorks returns the works of one author sorted by work ID. An
// unknown author is a not-found error.
func (c *Catalog) ListWorks(authorID string) ([]Work, error) {
	works, ok := c.works[authorID]
	if !ok {
		err := coreerrors.NewNotFound("author", authorID)
		err.Hint = "run 'stephanos catalog authors' to list known authors"
		return nil, err
	}
	out := make([]Work, len(works))
	copy(out, works)
	return out, nil
}

// ResolveWork resolves a full work ID such as "tlg0059.tlg030" to its
// catalog entry carrying the Greek edition path.
func (c *Catalog) ResolveWork(workID string) (Work, error) {
	parts := strings.Split(workID, ".")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "tlg") || !strings.HasPrefix(parts[1], "tlg") {
		return Work{}, coreerrors.NewValidation("work",
			"work ID must look like tlg0059.tlg030")
	}

	authorID := parts[0]
	works, ok := c.works[authorID]
	if !ok {
		err := coreerrors.NewNotFound("author", authorID)
		err.Hint = "run 'stephanos catalog authors' to list known authors"
		return Work{}, err
	}

	for _, work := range works {
		if work.WorkID != workID {
			continue
		}
		if work.Path == "" {
			err := coreerrors.NewNotFound("work", workID)
			err.Hint = "work is cataloged but has no Greek edition file"
			return Work{}, err
		}
		return work, nil
	}

	err := coreerrors.NewNotFound("work", workID)
	err.Hint = "author " + authorID + " has: " + workList(works)
	return Work{}, err
}

// workList formats the available work IDs for a not-found hint,
// truncated past ten entries.
func workList(works []Work) string {
	ids := make([]string, 0, len(works))
	for _, work := range works {
		ids = append(ids, work.WorkID)
	}
	if len(ids) > 10 {
		ids = append(ids[:10], "...")
	}
	return strings.Join(ids, ", ")
}

// Search returns author/work pairs whose names or titles contain the
// query, case-insensitively.
func (c *Catalog) Search(query string) []Match {
	query = strings.ToLower(query)
	var matches []Match

	for _, author := range c.authors {
		authorHit := strings.Contains(strings.ToLower(author.NameEn), query) ||
			strings.Contains(strings.ToLower(author.NameGrc), query)

		for _, work := range c.works[author.ID] {
			workHit := strings.Contains(strings.ToLower(work.TitleEn), query) ||
				strings.Contains(strings.ToLower(work.TitleGrc), query)
			if authorHit || workHit {
				matches = append(matches, Match{Author: author, Work: work})
			}
		}
	}
	return matches
}

// PageRange opens a work's edition and reports its first and last
// citation markers. Works without markers return empty strings.
func (c *Catalog) PageRange(work Work) (first, last string, err error) {
	if work.Path == "" {
		nf := coreerrors.NewNotFound("edition", work.WorkID)
		nf.Hint = "work has no Greek edition file"
		return "", "", nf
	}

	doc, err := tei.Open(work.Path)
	if err != nil {
		return "", "", err
	}
	events, err := doc.Events()
	if err != nil {
		return "", "", err
	}

	for _, ev := range events {
		if ev.Kind != segment.EventMarker {
			continue
		}
		marker := ev.Page + ev.Letter
		if first == "" {
			first = marker
		}
		last = marker
	}
	return first, last, nil
}

func sortAuthors(authors []Author) {
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
}

func sortWorks(works []Work) {
	sort.Slice(works, func(i, j int) bool { return works[i].WorkID < works[j].WorkID })
}
