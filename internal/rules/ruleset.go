package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/roach88/timex/internal/expr"
	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/resource"
)

// Option configures compilation and matching.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// WithLogger sets the logger for load warnings and match diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMatchTimeout bounds each pattern search. Zero keeps the default.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func newConfig(opts []Option) config {
	c := config{logger: slog.Default(), timeout: DefaultMatchTimeout}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RuleSet is the rules of one kind in ascending name order.
type RuleSet struct {
	kind   ir.Kind
	rules  []*Rule
	logger *slog.Logger
}

// Kind returns the kind every rule in the set produces.
func (rs *RuleSet) Kind() ir.Kind {
	return rs.kind
}

// Rules returns the rules in name order. The slice must not be modified.
func (rs *RuleSet) Rules() []*Rule {
	return rs.rules
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Compile compiles one rules resource. It returns every error found, so
// a corpus can be fixed in one pass; the set is nil when any occurred.
func Compile(file resource.RuleFile, patterns map[string]string, tables expr.Tables, opts ...Option) (*RuleSet, []error) {
	cfg := newConfig(opts)

	kind, err := ir.ParseKind(file.Kind)
	if err != nil {
		return nil, []error{&LoadError{
			Code:    ErrCodeUnknownKind,
			Path:    file.Path,
			Message: fmt.Sprintf("resource %q does not name a known kind", file.Name),
		}}
	}

	rc := &ruleCompiler{
		cfg:      cfg,
		kind:     kind,
		path:     file.Path,
		patterns: patterns,
		parser:   expr.NewParser(tables),
		seen:     map[string]int{},
	}
	var errs []error
	var rules []*Rule
	for _, line := range file.Lines {
		r, err := rc.compileLine(line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if r != nil {
			rules = append(rules, r)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	slices.SortFunc(rules, func(a, b *Rule) int { return strings.Compare(a.Name, b.Name) })
	return &RuleSet{kind: kind, rules: rules, logger: cfg.logger}, nil
}

type ruleCompiler struct {
	cfg      config
	kind     ir.Kind
	path     string
	patterns map[string]string
	parser   *expr.Parser
	seen     map[string]int // rule name -> line
}

func (rc *ruleCompiler) fail(code string, line int, rule, format string, args ...any) error {
	return &LoadError{Code: code, Path: rc.path, Line: line, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// compileLine returns nil, nil for a line that is skipped with a warning.
func (rc *ruleCompiler) compileLine(line resource.Line) (*Rule, error) {
	raw, ok := ParseLine(line.Text)
	if !ok {
		rc.cfg.logger.Warn("cannot read rule line", "path", rc.path, "line", line.No, "text", line.Text)
		return nil, nil
	}
	if raw.Name == "" {
		return nil, rc.fail(ErrCodeMalformed, line.No, "", "rule has no name")
	}
	if raw.Extraction == "" {
		return nil, rc.fail(ErrCodeMalformed, line.No, raw.Name, "rule has an empty extraction pattern")
	}
	if prev, dup := rc.seen[raw.Name]; dup {
		return nil, rc.fail(ErrCodeMalformed, line.No, raw.Name, "duplicate rule name, first defined on line %d", prev)
	}
	rc.seen[raw.Name] = line.No

	r := &Rule{Name: raw.Name, Kind: rc.kind, Extraction: raw.Extraction, Path: rc.path, Line: line.No}

	pattern, err := BuildPattern(raw.Extraction, rc.patterns, rc.cfg.timeout)
	if err != nil {
		var undef *undefinedPatternError
		if errors.As(err, &undef) {
			return nil, rc.fail(ErrCodeUndefinedRef, line.No, raw.Name, "%v", err)
		}
		return nil, rc.fail(ErrCodeInvalidRegex, line.No, raw.Name, "invalid extraction pattern: %v", err)
	}
	r.Pattern = pattern

	if r.Norm, err = rc.parser.Parse(raw.Norm); err != nil {
		return nil, rc.fail(ErrCodeBadTemplate, line.No, raw.Name, "NORM_VALUE: %v", err)
	}

	for _, f := range raw.Features {
		var target *expr.Expr
		switch f.Key {
		case FeatureOffset:
			off, ok := ParseOffset(f.Value)
			if !ok {
				return nil, rc.fail(ErrCodeBadFeature, line.No, raw.Name, "OFFSET %q: want group(a)-group(b)", f.Value)
			}
			r.Offset = off
			continue
		case FeaturePOS:
			pos, ok := ParsePOSConstraints(f.Value)
			if !ok {
				return nil, rc.fail(ErrCodeBadFeature, line.No, raw.Name, "POS_CONSTRAINT %q: want group(n):TAG:", f.Value)
			}
			r.POS = pos
			continue
		case FeatureQuant:
			target = &r.Quant
		case FeatureFreq:
			target = &r.Freq
		case FeatureMod:
			target = &r.Mod
		default:
			rc.cfg.logger.Warn("unknown rule feature", "path", rc.path, "line", line.No, "rule", raw.Name, "feature", f.Key, "value", f.Value)
			continue
		}
		e, err := rc.parser.Parse(f.Value)
		if err != nil {
			return nil, rc.fail(ErrCodeBadTemplate, line.No, raw.Name, "%s: %v", f.Key, err)
		}
		*target = e
	}

	rc.cfg.logger.Debug("compiled rule", "rule", r.Name, "kind", r.Kind, "line", line.No)
	return r, nil
}

// Library holds one rule set per kind.
type Library struct {
	sets map[ir.Kind]*RuleSet
}

// CompileCorpus compiles every rules resource of c. Resources of the same
// kind are merged.
func CompileCorpus(c *resource.Corpus, opts ...Option) (*Library, []error) {
	cfg := newConfig(opts)
	byKind := map[ir.Kind][]*Rule{}
	var errs []error
	for _, file := range c.Rules {
		rs, fileErrs := Compile(file, c.Patterns, c.Tables, opts...)
		if len(fileErrs) > 0 {
			errs = append(errs, fileErrs...)
			continue
		}
		byKind[rs.kind] = append(byKind[rs.kind], rs.rules...)
	}

	lib := &Library{sets: map[ir.Kind]*RuleSet{}}
	for _, kind := range ir.Kinds {
		rules, ok := byKind[kind]
		if !ok {
			continue
		}
		slices.SortFunc(rules, func(a, b *Rule) int { return strings.Compare(a.Name, b.Name) })
		for i := 1; i < len(rules); i++ {
			if rules[i].Name == rules[i-1].Name {
				errs = append(errs, &LoadError{
					Code:    ErrCodeMalformed,
					Path:    rules[i].Path,
					Line:    rules[i].Line,
					Rule:    rules[i].Name,
					Message: fmt.Sprintf("duplicate rule name, also defined in %s:%d", rules[i-1].Path, rules[i-1].Line),
				})
			}
		}
		lib.sets[kind] = &RuleSet{kind: kind, rules: rules, logger: cfg.logger}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return lib, nil
}

// RuleSet returns the set for kind.
func (l *Library) RuleSet(kind ir.Kind) (*RuleSet, bool) {
	rs, ok := l.sets[kind]
	return rs, ok
}

// Kinds returns the kinds with rules, in extraction order.
func (l *Library) Kinds() []ir.Kind {
	var out []ir.Kind
	for _, k := range ir.Kinds {
		if _, ok := l.sets[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
