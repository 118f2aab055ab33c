package catalog

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/sqlite"
	"github.com/lexeis/stephanos/internal/logging"
)

// indexSchema holds both catalog tables plus the per-root digest row
// guarding them. One index file serves any number of corpus roots.
const indexSchema = `
CREATE TABLE IF NOT EXISTS corpora (
	root       TEXT PRIMARY KEY,
	digest     TEXT NOT NULL,
	scanned_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS authors (
	root     TEXT NOT NULL,
	id       TEXT NOT NULL,
	name_en  TEXT NOT NULL,
	name_grc TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (root, id)
);
CREATE TABLE IF NOT EXISTS works (
	root      TEXT NOT NULL,
	author_id TEXT NOT NULL,
	work_id   TEXT NOT NULL,
	title_en  TEXT NOT NULL,
	title_grc TEXT NOT NULL DEFAULT '',
	path      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (root, work_id)
);
`

func defaultIndexPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "stephanos", "catalog.db")
}

// fingerprint digests every CTS metadata file under root, in path
// order, so that adding, removing, or editing metadata invalidates the
// index.
func fingerprint(root string) (string, error) {
	if _, err := os.Stat(root); err != nil {
		return "", coreerrors.NewIO("scan", root, err)
	}

	var ctsPaths []string
	authorDirs, err := filepath.Glob(filepath.Join(root, "tlg*"))
	if err != nil {
		return "", coreerrors.NewIO("scan", root, err)
	}
	for _, authorDir := range authorDirs {
		candidate := filepath.Join(authorDir, ctsFileName)
		if _, err := os.Stat(candidate); err == nil {
			ctsPaths = append(ctsPaths, candidate)
		}
		workDirs, err := filepath.Glob(filepath.Join(authorDir, "tlg*"))
		if err != nil {
			continue
		}
		for _, workDir := range workDirs {
			candidate := filepath.Join(workDir, ctsFileName)
			if _, err := os.Stat(candidate); err == nil {
				ctsPaths = append(ctsPaths, candidate)
			}
		}
	}

	h := blake3.New()
	for _, path := range ctsPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", coreerrors.NewIO("read", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		h.Write([]byte(rel))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadIndex returns the cached catalog for root when the stored digest
// matches the current one.
func loadIndex(path, root, digest string) (*Catalog, bool) {
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, false
	}
	defer db.Close()

	var stored string
	err = db.QueryRow(`SELECT digest FROM corpora WHERE root = ?`, root).Scan(&stored)
	if err != nil {
		return nil, false
	}
	if stored != digest {
		logging.IndexEvent("stale", path, "root", root)
		return nil, false
	}

	cat := &Catalog{root: root, works: map[string][]Work{}}

	rows, err := db.Query(`SELECT id, name_en, name_grc FROM authors WHERE root = ? ORDER BY id`, root)
	if err != nil {
		return nil, false
	}
	defer rows.Close()
	for rows.Next() {
		var author Author
		if err := rows.Scan(&author.ID, &author.NameEn, &author.NameGrc); err != nil {
			return nil, false
		}
		cat.authors = append(cat.authors, author)
	}
	if rows.Err() != nil {
		return nil, false
	}

	workRows, err := db.Query(
		`SELECT author_id, work_id, title_en, title_grc, path FROM works WHERE root = ? ORDER BY work_id`, root)
	if err != nil {
		return nil, false
	}
	defer workRows.Close()
	for workRows.Next() {
		var work Work
		if err := workRows.Scan(&work.AuthorID, &work.WorkID, &work.TitleEn, &work.TitleGrc, &work.Path); err != nil {
			return nil, false
		}
		cat.works[work.AuthorID] = append(cat.works[work.AuthorID], work)
	}
	if workRows.Err() != nil {
		return nil, false
	}

	return cat, true
}

// saveIndex replaces the cached rows for root in one transaction.
func saveIndex(path, root, digest string, cat *Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return coreerrors.NewIO("mkdir", filepath.Dir(path), err)
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(indexSchema); err != nil {
		return coreerrors.Wrap(err, "creating catalog index schema")
	}

	tx, err := db.Begin()
	if err != nil {
		return coreerrors.Wrap(err, "starting index transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM authors WHERE root = ?`, root); err != nil {
		return coreerrors.Wrap(err, "clearing stale authors")
	}
	if _, err := tx.Exec(`DELETE FROM works WHERE root = ?`, root); err != nil {
		return coreerrors.Wrap(err, "clearing stale works")
	}

	for _, author := range cat.authors {
		if _, err := tx.Exec(
			`INSERT INTO authors (root, id, name_en, name_grc) VALUES (?, ?, ?, ?)`,
			root, author.ID, author.NameEn, author.NameGrc); err != nil {
			return coreerrors.Wrap(err, "inserting author")
		}
	}
	for _, works := range cat.works {
		for _, work := range works {
			if _, err := tx.Exec(
				`INSERT INTO works (root, author_id, work_id, title_en, title_grc, path)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				root, work.AuthorID, work.WorkID, work.TitleEn, work.TitleGrc, work.Path); err != nil {
				return coreerrors.Wrap(err, "inserting work")
			}
		}
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO corpora (root, digest, scanned_at) VALUES (?, ?, ?)`,
		root, digest, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return coreerrors.Wrap(err, "recording corpus digest")
	}

	return tx.Commit()
}
