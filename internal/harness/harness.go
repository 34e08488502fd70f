package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/timex/internal/engine"
	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/resource"
	"github.com/roach88/timex/internal/tense"
	"github.com/roach88/timex/internal/testutil"
)

// Option configures Run.
type Option func(*config)

type config struct {
	cache  *resource.Cache
	logger *slog.Logger
	ctx    context.Context

	// Used by RunSuite only.
	goldenDir string
	update    bool
	filter    string
}

// WithCache loads corpora through c, so scenarios sharing a corpus read
// it once.
func WithCache(c *resource.Cache) Option {
	return func(cfg *config) {
		cfg.cache = c
	}
}

// WithLogger sets the logger for corpus loading and the engine. Logs are
// discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithContext sets the context documents are processed under.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		cfg.ctx = ctx
	}
}

// WithGoldenDir makes RunSuite compare each scenario's snapshot with
// <dir>/<name>.golden when that file exists. With update set the file is
// written instead.
func WithGoldenDir(dir string, update bool) Option {
	return func(cfg *config) {
		cfg.goldenDir = dir
		cfg.update = update
	}
}

// WithFilter makes RunSuite skip scenario files whose base name, without
// extension, does not match the glob pattern.
func WithFilter(pattern string) Option {
	return func(cfg *config) {
		cfg.filter = pattern
	}
}

// Run tags every document of scenario with a fresh engine and checks the
// expectations and assertions. Failed checks are recorded in the result;
// an error means the scenario could not run at all.
//
// Each document's ids start at t1, from a sequence reset before it.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	corpus, err := loadCorpus(&cfg, scenario.Corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	clock := testutil.NewSequence(0)
	engOpts, err := engineOptions(scenario.Options)
	if err != nil {
		return nil, err
	}
	engOpts = append(engOpts, engine.WithLogger(cfg.logger), engine.WithClock(clock))
	eng, err := engine.New(corpus, engOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	result := NewResult(uuid.Must(uuid.NewV7()).String())
	cfg.logger.Debug("running scenario", "scenario", scenario.Name, "run_id", result.RunID)

	for _, step := range scenario.Documents {
		doc := testutil.Doc(step.Tagged, testutil.WithID(step.ID), testutil.WithDCT(step.DCT))
		if step.Type != "" {
			t, err := ir.ParseDocumentType(step.Type)
			if err != nil {
				return nil, fmt.Errorf("document %s: %w", step.ID, err)
			}
			doc.Type = t
		}

		clock.Reset()
		res, err := eng.Process(cfg.ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to process document %s: %w", step.ID, err)
		}
		result.Documents = append(result.Documents, DocumentResult{ID: res.DocumentID, Timexes: res.Timexes})

		if step.Expect != nil {
			for _, msg := range checkExpected(step.ID, step.Expect, res.Timexes) {
				result.AddError(msg)
			}
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadCorpus(cfg *config, dir string) (*resource.Corpus, error) {
	if cfg.cache != nil {
		return cfg.cache.Load(dir)
	}
	return resource.LoadDir(dir, resource.WithLogger(cfg.logger))
}

func engineOptions(o Options) ([]engine.Option, error) {
	var opts []engine.Option
	if o.DocumentType != "" {
		t, err := ir.ParseDocumentType(o.DocumentType)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithDocumentType(t))
	}
	if o.Hemisphere != "" {
		opts = append(opts, engine.WithHemisphere(o.Hemisphere))
	}
	if o.TenseStrategy != "" {
		s, err := tense.ParseStrategy(o.TenseStrategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithTenseStrategy(s))
	}
	if len(o.Kinds) > 0 {
		kinds := make([]ir.Kind, 0, len(o.Kinds))
		for _, name := range o.Kinds {
			k, err := ir.ParseKind(name)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, k)
		}
		opts = append(opts, engine.WithKinds(kinds...))
	}
	if o.KeepOverlapping {
		opts = append(opts, engine.WithKeepOverlapping(true))
	}
	if o.CenturyDefault != 0 {
		opts = append(opts, engine.WithCenturyDefault(o.CenturyDefault))
	}
	return opts, nil
}

// checkExpected compares a document's output with its expect list,
// position by position.
func checkExpected(docID string, want []ExpectedTimex, got []ir.Timex) []string {
	var errs []string
	if len(want) != len(got) {
		errs = append(errs, fmt.Sprintf("document %s: expected %d expressions, got %d: %s",
			docID, len(want), len(got), describeAll(got)))
	}
	for i := 0; i < len(want) && i < len(got); i++ {
		if diff := want[i].mismatch(&got[i]); diff != "" {
			errs = append(errs, fmt.Sprintf("document %s: expression %d (%s): %s", docID, i, got[i].ID, diff))
		}
	}
	return errs
}
