package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coreerrors "github.com/lexeis/stephanos/core/errors"
)

const platoCTS = `<ti:textgroup xmlns:ti="http://chs.harvard.edu/xmlns/cts" urn="urn:cts:greekLit:tlg0059">
<ti:groupname xml:lang="eng">Plato</ti:groupname>
<ti:groupname xml:lang="grc">Πλάτων</ti:groupname>
</ti:textgroup>`

const xenophonCTS = `<ti:textgroup xmlns:ti="http://chs.harvard.edu/xmlns/cts" urn="urn:cts:greekLit:tlg0032">
<ti:groupname xml:lang="eng">Xenophon</ti:groupname>
</ti:textgroup>`

const republicCTS = `<ti:work xmlns:ti="http://chs.harvard.edu/xmlns/cts" urn="urn:cts:greekLit:tlg0059.tlg030">
<ti:title xml:lang="eng">Republic</ti:title>
<ti:edition urn="urn:cts:greekLit:tlg0059.tlg030.perseus-grc2">
<ti:label xml:lang="grc">Πολιτεία</ti:label>
</ti:edition>
</ti:work>`

const theaetetusCTS = `<ti:work xmlns:ti="http://chs.harvard.edu/xmlns/cts" urn="urn:cts:greekLit:tlg0059.tlg006">
<ti:title xml:lang="eng">Theaetetus</ti:title>
</ti:work>`

const anabasisCTS = `<ti:work xmlns:ti="http://chs.harvard.edu/xmlns/cts" urn="urn:cts:greekLit:tlg0032.tlg006">
<ti:title xml:lang="eng">Anabasis</ti:title>
</ti:work>`

const republicEdition = `<TEI xmlns="http://www.tei-c.org/ns/1.0"><text><body>
<milestone unit="stephpage" n="327"/><milestone unit="section" n="327a"/>
<p>κατέβην χθὲς εἰς Πειραιᾶ <milestone unit="section" n="327b"/>μετὰ Γλαύκωνος.</p>
</body></text></TEI>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// buildCorpus lays out a two-author corpus: Plato with the Republic
// (edition present) and the Theaetetus (metadata only), Xenophon with
// the Anabasis, plus a directory without metadata that must be
// skipped.
func buildCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "tlg0059", "__cts__.xml"), platoCTS)
	writeFile(t, filepath.Join(root, "tlg0059", "tlg030", "__cts__.xml"), republicCTS)
	writeFile(t, filepath.Join(root, "tlg0059", "tlg030", "tlg0059.tlg030.perseus-grc2.xml"), republicEdition)
	writeFile(t, filepath.Join(root, "tlg0059", "tlg006", "__cts__.xml"), theaetetusCTS)

	writeFile(t, filepath.Join(root, "tlg0032", "__cts__.xml"), xenophonCTS)
	writeFile(t, filepath.Join(root, "tlg0032", "tlg006", "__cts__.xml"), anabasisCTS)
	writeFile(t, filepath.Join(root, "tlg0032", "tlg006", "tlg0032.tlg006.perseus-grc2.xml"), republicEdition)

	if err := os.MkdirAll(filepath.Join(root, "tlg9999"), 0o755); err != nil {
		t.Fatalf("failed to create empty author dir: %v", err)
	}

	return root
}

func scanNoIndex(t *testing.T, root string) *Catalog {
	t.Helper()
	cat, err := Scan(root, ScanOptions{NoIndex: true})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return cat
}

func TestScanListAuthors(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	authors := cat.ListAuthors()
	if len(authors) != 2 {
		t.Fatalf("got %d authors, want 2", len(authors))
	}
	if authors[0].ID != "tlg0032" || authors[1].ID != "tlg0059" {
		t.Errorf("author order = [%s %s], want sorted by ID", authors[0].ID, authors[1].ID)
	}
	if authors[1].NameEn != "Plato" {
		t.Errorf("NameEn = %q, want %q", authors[1].NameEn, "Plato")
	}
	if authors[1].NameGrc != "Πλάτων" {
		t.Errorf("NameGrc = %q, want %q", authors[1].NameGrc, "Πλάτων")
	}
	if authors[0].NameGrc != "" {
		t.Errorf("Xenophon NameGrc = %q, want empty", authors[0].NameGrc)
	}
}

func TestListWorks(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	works, err := cat.ListWorks("tlg0059")
	if err != nil {
		t.Fatalf("ListWorks failed: %v", err)
	}
	if len(works) != 2 {
		t.Fatalf("got %d works, want 2", len(works))
	}
	if works[0].WorkID != "tlg0059.tlg006" || works[1].WorkID != "tlg0059.tlg030" {
		t.Errorf("work order = [%s %s], want sorted by ID", works[0].WorkID, works[1].WorkID)
	}
	if works[1].TitleEn != "Republic" || works[1].TitleGrc != "Πολιτεία" {
		t.Errorf("Republic titles = (%q, %q)", works[1].TitleEn, works[1].TitleGrc)
	}
	if works[1].Path == "" {
		t.Error("Republic should have an edition path")
	}
	if works[0].Path != "" {
		t.Errorf("Theaetetus path = %q, want empty", works[0].Path)
	}
}

func TestListWorksUnknownAuthor(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	_, err := cat.ListWorks("tlg0001")
	if !errors.Is(err, coreerrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestResolveWork(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	work, err := cat.ResolveWork("tlg0059.tlg030")
	if err != nil {
		t.Fatalf("ResolveWork failed: %v", err)
	}
	if work.TitleEn != "Republic" {
		t.Errorf("TitleEn = %q, want Republic", work.TitleEn)
	}
	if !strings.HasSuffix(work.Path, "tlg0059.tlg030.perseus-grc2.xml") {
		t.Errorf("Path = %q, want the Greek edition", work.Path)
	}
}

func TestResolveWorkErrors(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	t.Run("bad format", func(t *testing.T) {
		_, err := cat.ResolveWork("republic")
		if !errors.Is(err, coreerrors.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := cat.ResolveWork("tlg0001.tlg001")
		if !errors.Is(err, coreerrors.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown work lists alternatives", func(t *testing.T) {
		_, err := cat.ResolveWork("tlg0059.tlg999")
		var nfErr *coreerrors.NotFoundError
		if !errors.As(err, &nfErr) {
			t.Fatalf("error = %v, want NotFoundError", err)
		}
		if !strings.Contains(nfErr.Hint, "tlg0059.tlg030") {
			t.Errorf("Hint = %q, want it to list available works", nfErr.Hint)
		}
	})

	t.Run("no edition file", func(t *testing.T) {
		_, err := cat.ResolveWork("tlg0059.tlg006")
		var nfErr *coreerrors.NotFoundError
		if !errors.As(err, &nfErr) {
			t.Fatalf("error = %v, want NotFoundError", err)
		}
		if !strings.Contains(nfErr.Hint, "no Greek edition") {
			t.Errorf("Hint = %q, want edition hint", nfErr.Hint)
		}
	})
}

func TestSearch(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	matches := cat.Search("repub")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Work.WorkID != "tlg0059.tlg030" {
		t.Errorf("match = %s, want the Republic", matches[0].Work.WorkID)
	}

	// An author-name hit returns all of that author's works.
	matches = cat.Search("πλάτων")
	if len(matches) != 2 {
		t.Fatalf("got %d matches for author name, want 2", len(matches))
	}

	if got := cat.Search("nonesuch"); len(got) != 0 {
		t.Errorf("got %d matches for nonesuch, want 0", len(got))
	}
}

func TestPageRange(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	work, err := cat.ResolveWork("tlg0059.tlg030")
	if err != nil {
		t.Fatalf("ResolveWork failed: %v", err)
	}

	first, last, err := cat.PageRange(work)
	if err != nil {
		t.Fatalf("PageRange failed: %v", err)
	}
	if first != "327a" {
		t.Errorf("first = %q, want %q", first, "327a")
	}
	if last != "327b" {
		t.Errorf("last = %q, want %q", last, "327b")
	}
}

func TestPageRangeNoEdition(t *testing.T) {
	cat := scanNoIndex(t, buildCorpus(t))

	works, err := cat.ListWorks("tlg0059")
	if err != nil {
		t.Fatalf("ListWorks failed: %v", err)
	}
	_, _, err = cat.PageRange(works[0])
	if !errors.Is(err, coreerrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "absent"), ScanOptions{NoIndex: true})
	if err == nil {
		t.Fatal("Scan should fail for a missing root")
	}
	var ioErr *coreerrors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("error = %v, want IOError", err)
	}
}

func TestScanSkipsMalformedMetadata(t *testing.T) {
	root := buildCorpus(t)
	writeFile(t, filepath.Join(root, "tlg0086", "__cts__.xml"), "<ti:textgroup")

	cat := scanNoIndex(t, root)
	if len(cat.ListAuthors()) != 2 {
		t.Errorf("got %d authors, want malformed one skipped", len(cat.ListAuthors()))
	}
}

func TestScanIndexRoundTrip(t *testing.T) {
	root := buildCorpus(t)
	indexPath := filepath.Join(t.TempDir(), "catalog.db")
	opts := ScanOptions{IndexPath: indexPath}

	first, err := Scan(root, opts)
	if err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}
	if _, err := os.Stat(indexPath); err != nil {
		t.Fatalf("index file not written: %v", err)
	}

	// Remove the edition file. The metadata digest is unchanged, so a
	// second scan must come from the index and still carry the path.
	work, err := first.ResolveWork("tlg0059.tlg030")
	if err != nil {
		t.Fatalf("ResolveWork failed: %v", err)
	}
	if err := os.Remove(work.Path); err != nil {
		t.Fatalf("failed to remove edition: %v", err)
	}

	second, err := Scan(root, opts)
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}
	cached, err := second.ResolveWork("tlg0059.tlg030")
	if err != nil {
		t.Fatalf("ResolveWork after cache load failed: %v", err)
	}
	if cached.Path != work.Path {
		t.Errorf("cached path = %q, want %q from index", cached.Path, work.Path)
	}
	if cached.TitleGrc != "Πολιτεία" {
		t.Errorf("cached TitleGrc = %q", cached.TitleGrc)
	}
}

func TestScanIndexInvalidation(t *testing.T) {
	root := buildCorpus(t)
	indexPath := filepath.Join(t.TempDir(), "catalog.db")
	opts := ScanOptions{IndexPath: indexPath}

	if _, err := Scan(root, opts); err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}

	// Editing work metadata changes the digest and forces a rescan.
	edited := strings.Replace(republicCTS, "Republic", "The Republic", 1)
	writeFile(t, filepath.Join(root, "tlg0059", "tlg030", "__cts__.xml"), edited)

	cat, err := Scan(root, opts)
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}
	work, err := cat.ResolveWork("tlg0059.tlg030")
	if err != nil {
		t.Fatalf("ResolveWork failed: %v", err)
	}
	if work.TitleEn != "The Republic" {
		t.Errorf("TitleEn = %q, want rescan to pick up %q", work.TitleEn, "The Republic")
	}
}
