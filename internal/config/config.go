// Package config resolves where the text corpus lives.
//
// Resolution order for the corpus root: an explicit corpus name given
// on the command line, the STEPHANOS_CORPUS_PATH environment variable,
// the configured default corpus, then the built-in default path.
// Configuration files are YAML, read from the project directory
// (.stephanos/config.yaml) and the user's home directory
// (~/.stephanos/config.yaml), with project settings winning.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	coreerrors "github.com/lexeis/stephanos/core/errors"
)

const (
	// EnvCorpusPath overrides the corpus root when set.
	EnvCorpusPath = "STEPHANOS_CORPUS_PATH"

	// DefaultCorpusPath is used when nothing else is configured.
	DefaultCorpusPath = "canonical-greekLit/data"

	configDir  = ".stephanos"
	configFile = "config.yaml"
)

// Corpus is one named corpus entry.
type Corpus struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
}

// Config is the merged configuration from user and project scope.
type Config struct {
	DefaultCorpus string            `yaml:"default_corpus,omitempty"`
	Corpora       map[string]Corpus `yaml:"corpora,omitempty"`
}

// Load reads and merges configuration from the user's home directory
// and the current working directory.
func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	project, _ := os.Getwd()
	return LoadFrom(project, home)
}

// LoadFrom reads and merges configuration from explicit directories.
// Missing files are fine; malformed files are parse errors.
func LoadFrom(projectDir, homeDir string) (*Config, error) {
	cfg := &Config{Corpora: map[string]Corpus{}}

	if homeDir != "" {
		if err := cfg.mergeFile(filepath.Join(homeDir, configDir, configFile)); err != nil {
			return nil, err
		}
	}
	if projectDir != "" {
		if err := cfg.mergeFile(filepath.Join(projectDir, configDir, configFile)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return coreerrors.NewIO("read", path, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return coreerrors.NewParse("yaml", path, err.Error())
	}

	if loaded.DefaultCorpus != "" {
		c.DefaultCorpus = loaded.DefaultCorpus
	}
	for name, corpus := range loaded.Corpora {
		c.Corpora[name] = corpus
	}
	return nil
}

// CorpusNames returns the configured corpus names in sorted order.
func (c *Config) CorpusNames() []string {
	names := make([]string, 0, len(c.Corpora))
	for name := range c.Corpora {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CorpusRoot resolves the corpus root directory. A non-empty name
// selects a configured corpus by name and fails with a not-found error
// listing the known names when absent.
func (c *Config) CorpusRoot(name string) (string, error) {
	if name != "" {
		corpus, ok := c.Corpora[name]
		if !ok {
			err := coreerrors.NewNotFound("corpus", name)
			if names := c.CorpusNames(); len(names) > 0 {
				err.Hint = "configured corpora: " + strings.Join(names, ", ")
			}
			return "", err
		}
		return corpus.Path, nil
	}

	if path := os.Getenv(EnvCorpusPath); path != "" {
		return path, nil
	}

	if c.DefaultCorpus != "" {
		corpus, ok := c.Corpora[c.DefaultCorpus]
		if !ok {
			err := coreerrors.NewNotFound("corpus", c.DefaultCorpus)
			err.Hint = "default_corpus names a corpus that is not configured"
			return "", err
		}
		return corpus.Path, nil
	}

	return DefaultCorpusPath, nil
}
