package catalog

import (
	"os"
	"path/filepath"
	"strings"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/xml"
	"github.com/lexeis/stephanos/internal/logging"
)

const ctsFileName = "__cts__.xml"

// scanTree walks the corpus directory tree, reading author and work
// metadata. Malformed metadata skips the entry with a warning rather
// than failing the whole scan.
func (c *Catalog) scanTree() error {
	if _, err := os.Stat(c.root); err != nil {
		return coreerrors.NewIO("scan", c.root, err)
	}

	authorDirs, err := filepath.Glob(filepath.Join(c.root, "tlg*"))
	if err != nil {
		return coreerrors.NewIO("scan", c.root, err)
	}

	for _, authorDir := range authorDirs {
		info, err := os.Stat(authorDir)
		if err != nil || !info.IsDir() {
			continue
		}

		author, ok := readAuthorCTS(filepath.Join(authorDir, ctsFileName))
		if !ok {
			continue
		}
		author.ID = filepath.Base(authorDir)

		c.authors = append(c.authors, author)
		c.works[author.ID] = c.scanWorks(authorDir, author.ID)
	}

	sortAuthors(c.authors)
	return nil
}

func (c *Catalog) scanWorks(authorDir, authorID string) []Work {
	var works []Work

	workDirs, err := filepath.Glob(filepath.Join(authorDir, "tlg*"))
	if err != nil {
		return nil
	}

	for _, workDir := range workDirs {
		info, err := os.Stat(workDir)
		if err != nil || !info.IsDir() {
			continue
		}

		work, ok := readWorkCTS(filepath.Join(workDir, ctsFileName))
		if !ok {
			continue
		}
		work.AuthorID = authorID
		work.WorkID = authorID + "." + filepath.Base(workDir)
		work.Path = greekEdition(workDir)

		works = append(works, work)
	}

	sortWorks(works)
	return works
}

// readAuthorCTS extracts the author names from a textgroup metadata
// file. English (or Latin) names take the en slot, Greek the grc slot;
// a nameless group is skipped.
func readAuthorCTS(path string) (Author, bool) {
	doc, ok := parseCTS(path)
	if !ok {
		return Author{}, false
	}

	var author Author
	groupnames, _ := doc.XPath("//ti:groupname")
	for _, name := range groupnames {
		text := strings.TrimSpace(name.Text())
		if text == "" {
			continue
		}
		switch name.Attr("lang") {
		case "en", "eng", "lat":
			if author.NameEn == "" {
				author.NameEn = text
			}
		case "grc":
			author.NameGrc = text
		case "":
			if author.NameEn == "" {
				author.NameEn = text
			}
		}
	}

	if author.NameEn == "" {
		return Author{}, false
	}
	return author, true
}

// readWorkCTS extracts the work titles from a work metadata file. The
// English title comes from ti:title, the Greek one from the edition
// label; a work without an English title is skipped.
func readWorkCTS(path string) (Work, bool) {
	doc, ok := parseCTS(path)
	if !ok {
		return Work{}, false
	}

	var work Work
	titles, _ := doc.XPath("//ti:title")
	for _, title := range titles {
		text := strings.TrimSpace(title.Text())
		if text == "" {
			continue
		}
		if lang := title.Attr("lang"); lang == "eng" || lang == "lat" {
			work.TitleEn = text
			break
		}
	}

	labels, _ := doc.XPath("//ti:edition/ti:label")
	for _, label := range labels {
		text := strings.TrimSpace(label.Text())
		if text == "" {
			continue
		}
		if label.Attr("lang") == "grc" {
			work.TitleGrc = text
			break
		}
	}

	if work.TitleEn == "" {
		return Work{}, false
	}
	return work, true
}

func parseCTS(path string) (*xml.Document, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	doc, err := xml.Parse(data)
	if err != nil {
		logging.ParseWarning(path, "malformed CTS metadata: "+err.Error())
		return nil, false
	}
	return doc, true
}

// greekEdition finds the Greek edition file in a work directory,
// preferring the first in name order. Editions may be stored
// xz-compressed.
func greekEdition(workDir string) string {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.Contains(name, ".perseus-grc") {
			continue
		}
		if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".xml.xz") {
			return filepath.Join(workDir, name)
		}
	}
	return ""
}
