package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/timex/internal/expr"
)

// Resource directories and file name prefixes inside a corpus.
const (
	PatternDir       = "repattern"
	NormalizationDir = "normalization"
	RuleDir          = "rules"

	filePrefix = "resources_"
	fileSuffix = ".txt"
	ruleSuffix = "rules"
)

// RuleFile is one rules resource, not yet compiled.
type RuleFile struct {
	// Name is the resource name, such as "daterules".
	Name string

	// Kind is Name without its "rules" suffix, upper-cased.
	Kind string

	Path  string
	Lines []Line
}

// Corpus is a loaded rule corpus.
type Corpus struct {
	Manifest Manifest

	// Patterns maps a shared pattern name to its joined alternatives.
	Patterns map[string]string

	Tables expr.Tables

	// Rules holds the rule files in name order.
	Rules []RuleFile
}

// Pattern returns the shared pattern called name.
func (c *Corpus) Pattern(name string) (string, bool) {
	p, ok := c.Patterns[name]
	return p, ok
}

// Option configures Load.
type Option func(*loader)

// WithLogger sets the logger for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(ld *loader) {
		ld.logger = l
	}
}

// WithLanguage sets the language recorded when the corpus has no
// manifest.
func WithLanguage(lang string) Option {
	return func(ld *loader) {
		ld.language = lang
	}
}

type loader struct {
	fsys     fs.FS
	logger   *slog.Logger
	language string
}

// LoadDir loads the corpus rooted at dir.
func LoadDir(dir string, opts ...Option) (*Corpus, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: err.Error()}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: "not a directory"}
	}
	opts = append([]Option{WithLanguage(filepath.Base(filepath.Clean(dir)))}, opts...)
	return Load(os.DirFS(dir), opts...)
}

// Load loads a corpus from the root of fsys.
func Load(fsys fs.FS, opts ...Option) (*Corpus, error) {
	ld := &loader{fsys: fsys, logger: slog.Default(), language: "default"}
	for _, opt := range opts {
		opt(ld)
	}

	c := &Corpus{Patterns: map[string]string{}, Tables: expr.Tables{}}

	manifest, err := ld.manifest()
	if err != nil {
		return nil, err
	}
	c.Manifest = manifest

	err = ld.each(PatternDir, func(name, p string, lines []Line) error {
		c.Patterns[name] = parsePattern(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = ld.each(NormalizationDir, func(name, p string, lines []Line) error {
		c.Tables.Add(expr.NewTable(name, parseNormalization(ld.logger, p, lines)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = ld.each(RuleDir, func(name, p string, lines []Line) error {
		if !strings.HasSuffix(name, ruleSuffix) {
			ld.logger.Warn("skipping rule resource whose name does not end in 'rules'", "path", p)
			return nil
		}
		c.Rules = append(c.Rules, RuleFile{
			Name:  name,
			Kind:  strings.ToUpper(strings.TrimSuffix(name, ruleSuffix)),
			Path:  p,
			Lines: lines,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(c.Rules) == 0 {
		return nil, &LoadError{Code: ErrCodeNoRules, Path: RuleDir, Message: "no rule files found"}
	}

	ld.logger.Info("loaded corpus",
		"language", c.Manifest.Language,
		"patterns", len(c.Patterns),
		"tables", len(c.Tables),
		"rule_files", len(c.Rules))
	return c, nil
}

func (ld *loader) manifest() (Manifest, error) {
	src, err := fs.ReadFile(ld.fsys, ManifestFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		src = nil
	case err != nil:
		return Manifest{}, &LoadError{Code: ErrCodeUnreadable, Path: ManifestFile, Message: err.Error()}
	}
	m, err := decodeManifest(src, ld.language)
	if err != nil {
		return Manifest{}, &LoadError{Code: ErrCodeManifest, Path: ManifestFile, Message: err.Error()}
	}
	return m, nil
}

// each calls fn for every resources_<dir>_<name>.txt file in dir, in
// name order. A missing directory has no resources.
func (ld *loader) each(dir string, fn func(name, path string, lines []Line) error) error {
	entries, err := fs.ReadDir(ld.fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &LoadError{Code: ErrCodeUnreadable, Path: dir, Message: err.Error()}
	}

	prefix := filePrefix + dir + "_"
	names := make(map[string]string)
	for _, e := range entries {
		base := e.Name()
		if e.IsDir() || !strings.HasPrefix(base, prefix) || !strings.HasSuffix(base, fileSuffix) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(base, prefix), fileSuffix)
		if name == "" {
			continue
		}
		names[name] = path.Join(dir, base)
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		p := names[name]
		data, err := fs.ReadFile(ld.fsys, p)
		if err != nil {
			return &LoadError{Code: ErrCodeUnreadable, Path: p, Message: err.Error()}
		}
		lines, err := readLines(data)
		if err != nil {
			return &LoadError{Code: ErrCodeUnreadable, Path: p, Message: fmt.Sprintf("reading lines: %v", err)}
		}
		ld.logger.Debug("read resource", "path", p, "lines", len(lines))
		if err := fn(name, p, lines); err != nil {
			return err
		}
	}
	return nil
}
