package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/timex/internal/calendar"
	"github.com/roach88/timex/internal/disambig"
	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/overlap"
	"github.com/roach88/timex/internal/resource"
	"github.com/roach88/timex/internal/rules"
	"github.com/roach88/timex/internal/tense"
)

// Engine tags documents with one compiled corpus.
//
// Thread-safety model:
//   - New: builds every rule set once; the result is read-only
//   - Process: safe from any goroutine, each call owns its document
//
// INVARIANTS:
//   - Rule sets never change after New
//   - Ids are assigned in (sentence, kind, rule name, match) order
//   - Disambiguation of one document runs on one goroutine
type Engine struct {
	library    *rules.Library
	tense      *tense.Patterns
	resolver   *disambig.Resolver
	kinds      []ir.Kind
	docType    ir.DocumentType
	strategy   tense.Strategy
	correction tense.Correction
	workers    int
	keepAll    bool
	clock      Sequencer
	ids        IDGenerator
	logger     *slog.Logger
}

// Sequencer hands out expression seqs. Next must return strictly
// increasing values.
type Sequencer interface {
	Next() int64
}

// docSeq numbers one document's expressions from 1. Only Process's own
// goroutine calls it.
type docSeq int64

func (s *docSeq) Next() int64 {
	*s++
	return int64(*s)
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	kinds          []ir.Kind
	docType        ir.DocumentType
	hemisphere     string
	strategy       tense.Strategy
	correction     *tense.Correction
	workers        int
	keepAll        bool
	matchTimeout   time.Duration
	centuryDefault *int
	clock          Sequencer
	ids            IDGenerator
}

// WithLogger sets the logger passed to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithKinds enables only the given extractors. The corpus manifest is
// used when this option is absent.
func WithKinds(kinds ...ir.Kind) Option {
	return func(o *options) {
		o.kinds = kinds
	}
}

// WithDocumentType sets the type of documents that do not carry one.
func WithDocumentType(t ir.DocumentType) Option {
	return func(o *options) {
		o.docType = t
	}
}

// WithHemisphere overrides the manifest's season naming.
func WithHemisphere(h string) Option {
	return func(o *options) {
		o.hemisphere = h
	}
}

// WithTenseStrategy selects how the deciding token is found.
func WithTenseStrategy(s tense.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithCorrection replaces tense.DefaultCorrection.
func WithCorrection(c tense.Correction) Option {
	return func(o *options) {
		o.correction = &c
	}
}

// WithWorkers bounds sentence-level parallelism. Values below 1 mean
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithKeepOverlapping disables overlap resolution.
func WithKeepOverlapping(keep bool) Option {
	return func(o *options) {
		o.keepAll = keep
	}
}

// WithMatchTimeout bounds each pattern search.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.matchTimeout = d
	}
}

// WithCenturyDefault replaces disambig.DefaultCentury.
func WithCenturyDefault(c int) Option {
	return func(o *options) {
		o.centuryDefault = &c
	}
}

// WithClock shares one id clock across documents. By default each
// document numbers its expressions from t1.
func WithClock(c Sequencer) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithIDGenerator sets how documents without an id are named.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// New compiles corpus c. Any rule, pattern or manifest problem is
// returned as an *Error; a corpus with errors never runs.
func New(c *resource.Corpus, opts ...Option) (*Engine, error) {
	o := options{logger: slog.Default(), ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	library, errs := rules.CompileCorpus(c, rules.WithLogger(log), rules.WithMatchTimeout(o.matchTimeout))
	if len(errs) > 0 {
		return nil, &Error{Code: ErrCodeCorpus, Message: "rule corpus does not compile", Errs: errs}
	}

	m := c.Manifest
	hemi := m.Hemisphere
	if o.hemisphere != "" {
		hemi = o.hemisphere
	}
	h, err := calendar.ParseHemisphere(hemi)
	if err != nil {
		return nil, &Error{Code: ErrCodeConfig, Message: "hemisphere", Errs: []error{err}}
	}

	docType := o.docType
	if docType == "" {
		if docType, err = ir.ParseDocumentType(m.DocumentType); err != nil {
			return nil, &Error{Code: ErrCodeConfig, Message: "manifest document_type", Errs: []error{err}}
		}
	}

	kinds := o.kinds
	if len(kinds) == 0 {
		for _, name := range m.Kinds {
			k, err := ir.ParseKind(name)
			if err != nil {
				return nil, &Error{Code: ErrCodeConfig, Message: "manifest kinds", Errs: []error{err}}
			}
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		kinds = ir.Kinds
	}
	// Extraction order is fixed regardless of how kinds were listed.
	var enabled []ir.Kind
	for _, k := range ir.Kinds {
		if slices.Contains(kinds, k) {
			enabled = append(enabled, k)
		}
	}

	src := tense.Sources{}
	for _, p := range []struct {
		name string
		dst  *string
	}{
		{m.Tense.PresentFuture, &src.PresentFuture},
		{m.Tense.Past, &src.Past},
		{m.Tense.Future, &src.Future},
		{m.Tense.FutureWord, &src.FutureWord},
	} {
		pattern, ok := c.Pattern(p.name)
		if !ok {
			log.Warn("no tense pattern in corpus", "pattern", p.name)
			continue
		}
		*p.dst = pattern
	}
	tp, err := tense.Compile(src, o.matchTimeout)
	if err != nil {
		return nil, &Error{Code: ErrCodeCorpus, Message: "tense patterns do not compile", Errs: []error{err}}
	}

	ropts := []disambig.Option{disambig.WithLogger(log)}
	if o.centuryDefault != nil {
		ropts = append(ropts, disambig.WithCenturyDefault(*o.centuryDefault))
	}

	corr := tense.DefaultCorrection
	if o.correction != nil {
		corr = *o.correction
	}
	workers := o.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	e := &Engine{
		library:    library,
		tense:      tp,
		resolver:   disambig.New(h, ropts...),
		kinds:      enabled,
		docType:    docType,
		strategy:   o.strategy,
		correction: corr,
		workers:    workers,
		keepAll:    o.keepAll,
		clock:      o.clock,
		ids:        o.ids,
		logger:     log,
	}
	log.Debug("engine ready", "language", m.Language, "kinds", fmt.Sprint(enabled), "hemisphere", h, "document_type", docType, "workers", workers)
	return e, nil
}

// Kinds returns the enabled extractors in extraction order.
func (e *Engine) Kinds() []ir.Kind {
	return e.kinds
}

// Result is the tagging of one document.
type Result struct {
	DocumentID string     `json:"document_id" yaml:"document_id"`
	Timexes    []ir.Timex `json:"timexes" yaml:"timexes"`
}

// Process tags doc. Expressions come back in reading order: by begin
// offset, longer spans first.
//
// The context is checked between sentences. Once disambiguation starts
// the document runs to completion.
func (e *Engine) Process(ctx context.Context, doc *ir.Document) (*Result, error) {
	if doc.ID == "" {
		doc.ID = e.ids.Generate()
	}
	if err := doc.Validate(); err != nil {
		return nil, &Error{Code: ErrCodeDocument, Message: "invalid document", Document: doc.ID, Errs: []error{err}}
	}
	docType := doc.Type
	if docType == "" {
		docType = e.docType
	}
	state, err := e.resolver.NewState(doc.DCT, docType)
	if err != nil {
		return nil, &Error{Code: ErrCodeDocument, Message: "invalid creation time", Document: doc.ID, Errs: []error{err}}
	}

	found, err := e.extract(ctx, doc)
	if err != nil {
		return nil, &Error{Code: ErrCodeCanceled, Message: "extraction interrupted", Document: doc.ID, Errs: []error{err}}
	}

	clock := e.clock
	if clock == nil {
		clock = new(docSeq)
	}
	var timexes []ir.Timex
	for _, ts := range found {
		for _, t := range ts {
			t.Seq = clock.Next()
			t.ID = ir.FormatID(t.Seq)
			timexes = append(timexes, t)
		}
	}

	if !e.keepAll {
		timexes = overlap.Resolve(timexes, overlap.WithLogger(e.logger))
	}
	slices.SortStableFunc(timexes, func(a, b ir.Timex) int {
		return cmp.Or(cmp.Compare(a.Begin, b.Begin), cmp.Compare(b.End, a.End), cmp.Compare(a.Seq, b.Seq))
	})

	e.resolver.Process(state, timexes, func(t *ir.Timex) tense.Tense {
		s := doc.Sentences[t.Sentence]
		before, after := s.Split(t.Begin, t.End)
		tn := tense.Classify(before, after, e.tense, e.strategy, e.correction)
		e.logger.Debug("tense", "id", t.ID, "text", t.Text, "tense", tn)
		return tn
	})
	timexes = overlap.RemoveInvalid(timexes)

	if timexes == nil {
		timexes = []ir.Timex{}
	}
	return &Result{DocumentID: doc.ID, Timexes: timexes}, nil
}

// extract runs every enabled rule set over every sentence, in parallel
// across sentences. found[i] holds sentence i's matches in kind order.
func (e *Engine) extract(ctx context.Context, doc *ir.Document) ([][]ir.Timex, error) {
	runes := []rune(doc.Text)
	found := make([][]ir.Timex, len(doc.Sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, s := range doc.Sentences {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text := runes[s.Begin:s.End]
			var out []ir.Timex
			for _, k := range e.kinds {
				rs, ok := e.library.RuleSet(k)
				if !ok {
					continue
				}
				out = append(out, rs.FindMatches(s, i, text)...)
			}
			found[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}
