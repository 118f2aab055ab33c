// Package resolver maps human-readable work names to catalog work IDs.
//
// Built-in aliases come from the catalog itself: the lowercased English
// and Greek titles of every work. Users layer their own aliases on top
// through ~/.stephanos/aliases.yaml, and projects through
// .stephanos/aliases.yaml, the project file winning. A name that is
// already a work ID passes through untouched.
package resolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/internal/catalog"
	"github.com/lexeis/stephanos/internal/logging"
)

const (
	aliasDir  = ".stephanos"
	aliasFile = "aliases.yaml"
)

// Resolver holds the merged alias table.
type Resolver struct {
	aliases map[string]string
}

// aliasConfig is the YAML shape of an alias file.
type aliasConfig struct {
	Aliases map[string]string `yaml:"aliases"`
}

// New builds a resolver whose built-in aliases are the lowercased work
// titles.
func New(works []catalog.Work) *Resolver {
	r := &Resolver{aliases: map[string]string{}}
	for _, work := range works {
		if work.TitleEn != "" {
			r.aliases[strings.ToLower(work.TitleEn)] = work.WorkID
		}
		if work.TitleGrc != "" {
			r.aliases[strings.ToLower(work.TitleGrc)] = work.WorkID
		}
	}
	return r
}

// LoadDefault builds a resolver from the catalog and layers the user
// and project alias files on top. Unreadable alias files are skipped
// with a warning; a typo in an alias file should not take the whole
// tool down.
func LoadDefault(works []catalog.Work) *Resolver {
	r := New(works)

	if home, err := os.UserHomeDir(); err == nil {
		if err := r.LoadAliasFile(filepath.Join(home, aliasDir, aliasFile)); err != nil {
			logging.Warn("skipping user aliases", "error", err)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		if err := r.LoadAliasFile(filepath.Join(cwd, aliasDir, aliasFile)); err != nil {
			logging.Warn("skipping project aliases", "error", err)
		}
	}
	return r
}

// LoadAliasFile merges one YAML alias file into the table. Later loads
// override earlier entries. A missing file is not an error.
func (r *Resolver) LoadAliasFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return coreerrors.NewIO("read", path, err)
	}

	var cfg aliasConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return coreerrors.NewParse("yaml", path, err.Error())
	}

	for alias, workID := range cfg.Aliases {
		r.aliases[strings.ToLower(alias)] = workID
	}
	return nil
}

// Resolve turns a work name into a work ID. IDs pass through; other
// names are looked up case-insensitively in the alias table.
func (r *Resolver) Resolve(name string) (string, error) {
	if isWorkID(name) {
		return name, nil
	}

	if workID, ok := r.aliases[strings.ToLower(name)]; ok {
		return workID, nil
	}

	err := coreerrors.NewNotFound("work", name)
	if known := r.Aliases(); len(known) > 0 {
		err.Hint = "known names include: " + sampleAliases(known)
	} else {
		err.Hint = "use the full work ID, e.g. tlg0059.tlg030"
	}
	return "", err
}

// Aliases returns the alias names in sorted order.
func (r *Resolver) Aliases() []string {
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sampleAliases(names []string) string {
	if len(names) > 8 {
		names = append(names[:8], "...")
	}
	return strings.Join(names, ", ")
}

func isWorkID(name string) bool {
	parts := strings.Split(name, ".")
	if len(parts) != 2 {
		return false
	}
	return strings.HasPrefix(parts[0], "tlg") && strings.HasPrefix(parts[1], "tlg")
}
