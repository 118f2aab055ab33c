// Command stephanos extracts plain-text renderings from TEI editions of
// Stephanus-paginated Greek texts. It resolves works through the corpus
// catalog, filters them by citation range, renders one of six styles,
// and writes text, JSON, or JSON Lines output.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/segment"
	"github.com/lexeis/stephanos/core/sqlite"
	"github.com/lexeis/stephanos/core/stephanus"
	"github.com/lexeis/stephanos/core/style"
	"github.com/lexeis/stephanos/internal/anthology"
	"github.com/lexeis/stephanos/internal/catalog"
	"github.com/lexeis/stephanos/internal/config"
	"github.com/lexeis/stephanos/internal/logging"
	"github.com/lexeis/stephanos/internal/resolver"
	"github.com/lexeis/stephanos/internal/tei"
	"github.com/lexeis/stephanos/internal/writers"
)

// Build metadata, overridden at link time.
var (
	version = "0.4.0"
	commit  = "none"
)

// CLI defines the command-line interface for stephanos.
var CLI struct {
	// Global flags
	Verbose bool   `help:"Enable debug logging" short:"v"`
	Corpus  string `help:"Named corpus from the configuration" name:"corpus"`
	NoIndex bool   `help:"Bypass the catalog index and rescan the corpus" name:"no-index"`

	Extract   ExtractCmd   `cmd:"" help:"Extract styled text from a work or TEI file"`
	Anthology AnthologyCmd `cmd:"" help:"Compose passages from several works into one document"`
	Catalog   CatalogGroup `cmd:"" help:"Corpus catalog listings and lookups"`
	Styles    StylesCmd    `cmd:"" help:"List the rendering styles"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// CatalogGroup contains corpus catalog operations.
type CatalogGroup struct {
	Authors AuthorsCmd `cmd:"" help:"List authors in the corpus"`
	Works   WorksCmd   `cmd:"" help:"List works of one author, or all with --all"`
	Search  SearchCmd  `cmd:"" help:"Search works by title or author name"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a name or alias to its edition"`
}

// openCatalog scans the configured corpus and builds the alias
// resolver over it.
func openCatalog() (*catalog.Catalog, *resolver.Resolver, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	root, err := cfg.CorpusRoot(CLI.Corpus)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Scan(root, catalog.ScanOptions{NoIndex: CLI.NoIndex})
	if err != nil {
		return nil, nil, err
	}
	return cat, resolver.LoadDefault(cat.AllWorks()), nil
}

// ExtractCmd extracts one work as styled text.
type ExtractCmd struct {
	Work   string `arg:"" help:"Work name, alias, TLG identifier, or TEI file path"`
	Range  string `help:"Stephanus range selector (e.g. 327a-328c)" short:"r"`
	Style  string `help:"Rendering style, letter or long name" short:"s" default:"A"`
	Output string `help:"Output file path; '-' writes to stdout" short:"o" type:"path"`
	Stdout bool   `help:"Write to stdout instead of a file"`
	JSON   bool   `help:"Emit the extraction document as JSON" name:"json"`
	JSONL  bool   `help:"Emit one segment per line as JSON Lines" name:"jsonl"`
	Wrap   string `help:"Wrap column for linear styles, or 'off'"`
}

func (c *ExtractCmd) Run() error {
	start := time.Now()
	runID := logging.NewRunID()

	if c.JSON && c.JSONL {
		return coreerrors.NewValidation("format", "choose one of --json or --jsonl")
	}
	sp, err := style.ParseStyle(c.Style)
	if err != nil {
		return err
	}
	sp, err = applyWrap(sp, c.Wrap)
	if err != nil {
		return err
	}

	var ranges []stephanus.Range
	if c.Range != "" {
		ranges, err = stephanus.ParseRanges(c.Range)
		if err != nil {
			return err
		}
	}

	cat, work, path, err := c.locateEdition()
	if err != nil {
		return err
	}

	doc, err := tei.Open(path)
	if err != nil {
		return err
	}
	teiMeta := doc.Meta()
	events, err := doc.Events()
	if err != nil {
		return err
	}

	workID := work.WorkID
	if workID == "" {
		workID = teiMeta.WorkID
	}
	if workID == "" {
		workID = c.Work
	}

	segments, err := segment.SegmentEvents(workID, events)
	if err != nil {
		return err
	}
	if len(ranges) > 0 {
		segments = segment.Filter(segments, ranges)
		if len(segments) == 0 {
			return coreerrors.NewEmptyExtraction(workID, "range "+c.Range+" matched no text")
		}
	}

	// Catalog titles outrank header titles when both are known.
	renderMeta := teiMeta.Render()
	if work.TitleGrc != "" {
		renderMeta.Title = work.TitleGrc
	}
	if work.TitleEn != "" {
		renderMeta.TitleEn = work.TitleEn
	}

	dest := c.Output
	if c.Stdout {
		dest = "-"
	}
	if dest == "" && !c.JSON && !c.JSONL {
		dest = writers.DefaultTextPath(path, sp.ID)
	}
	if cat != nil && dest != "" && dest != "-" && insideDir(cat.Root(), dest) {
		logging.Warn("output path is inside the corpus tree, consider --output", "path", dest)
	}

	var written string
	switch {
	case c.JSON:
		meta := writers.NewMetadata(workID, renderMeta.Title, renderMeta.TitleEn, sp.ID, c.Range)
		w := &writers.JSONWriter{Path: dest}
		written, err = w.Write(meta, segments)
	case c.JSONL:
		w := &writers.JSONLWriter{Path: dest}
		written, err = w.Write(segments)
	default:
		var text string
		text, err = style.Render(segments, renderMeta, sp)
		if err != nil {
			return err
		}
		w := &writers.TextWriter{Path: dest}
		written, err = w.Write(text)
	}
	if err != nil {
		return err
	}

	logging.Extraction(workID, sp.ID, len(segments), time.Since(start), "run_id", runID)
	if written != "" {
		fmt.Printf("Successfully created: %s\n", written)
	}
	return nil
}

// locateEdition resolves the extract argument to an edition file. Work
// names go through the alias resolver and the catalog; an existing
// file path is taken as the edition itself and needs no corpus.
func (c *ExtractCmd) locateEdition() (*catalog.Catalog, catalog.Work, string, error) {
	if isFilePath(c.Work) {
		return nil, catalog.Work{}, c.Work, nil
	}
	cat, res, err := openCatalog()
	if err != nil {
		return nil, catalog.Work{}, "", err
	}
	workID, err := res.Resolve(c.Work)
	if err != nil {
		return nil, catalog.Work{}, "", err
	}
	work, err := cat.ResolveWork(workID)
	if err != nil {
		return nil, catalog.Work{}, "", err
	}
	return cat, work, work.Path, nil
}

// AnthologyCmd composes passages from several works into one document.
type AnthologyCmd struct {
	Passages []string `arg:"" help:"Passage specs, WORK:RANGES (e.g. republic:327a-328c)"`
	Style    string   `help:"Rendering style, letter or long name" short:"s" default:"A"`
	Output   string   `help:"Output file path; default writes to stdout" short:"o" type:"path"`
	Width    int      `help:"Header rule width" default:"79"`
}

func (c *AnthologyCmd) Run() error {
	sp, err := style.ParseStyle(c.Style)
	if err != nil {
		return err
	}

	specs := make([]anthology.PassageSpec, 0, len(c.Passages))
	for _, raw := range c.Passages {
		ps, err := anthology.ParseSpec(raw)
		if err != nil {
			return err
		}
		specs = append(specs, ps)
	}

	cat, res, err := openCatalog()
	if err != nil {
		return err
	}
	ex := &anthology.Extractor{Catalog: cat, Resolver: res}
	blocks, err := ex.Extract(specs)
	if err != nil {
		return err
	}
	text, err := anthology.Compose(blocks, sp, c.Width)
	if err != nil {
		return err
	}

	w := &writers.TextWriter{Path: c.Output}
	written, err := w.Write(text)
	if err != nil {
		return err
	}
	if written != "" {
		fmt.Printf("Successfully created: %s\n", written)
	}
	return nil
}

// AuthorsCmd lists the authors of the corpus.
type AuthorsCmd struct {
	Filter string `help:"Case-insensitive substring filter"`
}

func (c *AuthorsCmd) Run() error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}

	authors := cat.ListAuthors()
	if c.Filter != "" {
		q := strings.ToLower(c.Filter)
		var kept []catalog.Author
		for _, a := range authors {
			if strings.Contains(strings.ToLower(a.NameEn), q) ||
				strings.Contains(strings.ToLower(a.NameGrc), q) ||
				strings.Contains(strings.ToLower(a.ID), q) {
				kept = append(kept, a)
			}
		}
		authors = kept
	}

	if len(authors) == 0 {
		fmt.Println("No authors found.")
		return nil
	}
	fmt.Printf("Found %d authors:\n\n", len(authors))
	for _, a := range authors {
		fmt.Println(formatAuthor(a))
	}
	return nil
}

// WorksCmd lists the works of one author, or of every author.
type WorksCmd struct {
	Author string `arg:"" optional:"" help:"Author identifier (e.g. tlg0059)"`
	All    bool   `help:"List works of every author"`
}

func (c *WorksCmd) Run() error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}

	if c.All {
		authors := cat.ListAuthors()
		total := 0
		for _, a := range authors {
			works, err := cat.ListWorks(a.ID)
			if err != nil || len(works) == 0 {
				continue
			}
			fmt.Printf("%s\n\n", formatAuthor(a))
			for _, w := range works {
				fmt.Println(formatWork(cat, w))
			}
			fmt.Println()
			total += len(works)
		}
		fmt.Printf("Total: %d authors, %d works\n", len(authors), total)
		return nil
	}

	if c.Author == "" {
		return coreerrors.NewValidation("author", "name an author or pass --all")
	}
	works, err := cat.ListWorks(c.Author)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d works:\n\n", len(works))
	for _, w := range works {
		fmt.Println(formatWork(cat, w))
	}
	return nil
}

// SearchCmd searches works by title or author name.
type SearchCmd struct {
	Query string `arg:"" help:"Case-insensitive title or author query"`
}

func (c *SearchCmd) Run() error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}

	matches := cat.Search(c.Query)
	if len(matches) == 0 {
		fmt.Printf("No results found for %q.\n", c.Query)
		return nil
	}
	fmt.Printf("Found %d matches for %q:\n\n", len(matches), c.Query)
	lastAuthor := ""
	for _, m := range matches {
		if m.Author.ID != lastAuthor {
			fmt.Println(formatAuthor(m.Author))
			lastAuthor = m.Author.ID
		}
		fmt.Printf("  %s\n", formatWork(cat, m.Work))
	}
	return nil
}

// ResolveCmd resolves a work name or alias to its catalog entry.
type ResolveCmd struct {
	Name string `arg:"" help:"Work name, alias, or TLG identifier"`
}

func (c *ResolveCmd) Run() error {
	cat, res, err := openCatalog()
	if err != nil {
		return err
	}

	workID, err := res.Resolve(c.Name)
	if err != nil {
		return err
	}
	work, err := cat.ResolveWork(workID)
	if err != nil {
		return err
	}

	fmt.Printf("%s resolves to %s\n", c.Name, work.WorkID)
	fmt.Printf("  Title: %s", work.TitleEn)
	if work.TitleGrc != "" {
		fmt.Printf(" (%s)", work.TitleGrc)
	}
	fmt.Println()
	fmt.Printf("  Edition: %s\n", work.Path)
	return nil
}

// StylesCmd lists the rendering styles.
type StylesCmd struct{}

func (c *StylesCmd) Run() error {
	fmt.Println("Rendering styles:")
	fmt.Println()
	for _, sp := range style.Styles() {
		fmt.Printf("  %s  %-26s %s\n", sp.ID, sp.Name, sp.Description)
	}
	return nil
}

// VersionCmd prints version and driver information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("stephanos version %s (commit %s)\n", version, commit)
	info := sqlite.GetInfo()
	fmt.Printf("sqlite driver: %s [%s] %s\n", info.DriverName, info.DriverType, info.Package)
	return nil
}

// Helper functions

// applyWrap overrides the style's wrap column from the --wrap flag.
// "off", "none", and "0" disable wrapping entirely.
func applyWrap(sp style.Spec, wrap string) (style.Spec, error) {
	switch strings.ToLower(wrap) {
	case "":
		return sp, nil
	case "off", "none":
		return sp.WithWidth(0), nil
	}
	n, err := strconv.Atoi(wrap)
	if err != nil || n < 0 {
		return sp, coreerrors.NewValidation("wrap", "wrap takes a column count or 'off'")
	}
	return sp.WithWidth(n), nil
}

// isFilePath reports whether the extract argument names a TEI file on
// disk rather than a catalog work.
func isFilePath(arg string) bool {
	if !strings.ContainsRune(arg, filepath.Separator) &&
		!strings.HasSuffix(arg, ".xml") && !strings.HasSuffix(arg, ".xz") {
		return false
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

// insideDir reports whether path sits inside dir.
func insideDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("stephanos"),
		kong.Description("Stephanus-paginated Greek text extraction and styling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if CLI.Verbose {
		logging.InitLogger(logging.LevelDebug, logging.FormatText)
	}
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
