package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/timex/internal/engine"
	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/resource"
)

// Input formats accepted by extract.
const (
	InputTagged = "tagged" // one sentence per line, tokens word/TAG
	InputJSON   = "json"   // an ir.Document
	InputYAML   = "yaml"   // an ir.Document
)

// InputFormats lists the accepted input formats.
var InputFormats = []string{InputTagged, InputJSON, InputYAML}

// ReadDocument decodes one document from r. Document files reject unknown
// fields.
func ReadDocument(r io.Reader, format string) (*ir.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	switch format {
	case InputTagged:
		return ir.ParseTagged(string(data)), nil

	case InputJSON:
		var doc ir.Document
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON document: %w", err)
		}
		return &doc, nil

	case InputYAML:
		var doc ir.Document
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML document: %w", err)
		}
		return &doc, nil
	}
	return nil, fmt.Errorf("unknown input format %q: must be one of %v", format, InputFormats)
}

// openInput opens path, or returns stdin for "" and "-".
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}

// loadEngine loads the configured corpus and builds an engine over it.
// Failures carry the exit code and envelope code the command reports.
func loadEngine(cfg Config, logger *slog.Logger, extra ...engine.Option) (*engine.Engine, *resource.Corpus, *commandError) {
	corpus, err := resource.LoadDir(cfg.Corpus, resource.WithLogger(logger))
	if err != nil {
		return nil, nil, corpusLoadError(cfg.Corpus, err)
	}

	opts := append(cfg.EngineOptions(), engine.WithLogger(logger))
	eng, err := engine.New(corpus, append(opts, extra...)...)
	if err != nil {
		code := ErrCodeCorpus
		if engine.IsConfigError(err) {
			code = ErrCodeConfig
		}
		return nil, nil, &commandError{exit: ExitFailure, code: code, message: "corpus is invalid", err: err}
	}
	return eng, corpus, nil
}

// commandError is a failure not yet written to the output.
type commandError struct {
	exit    int
	code    string
	message string
	err     error
}

func (e *commandError) report(f *OutputFormatter) error {
	return f.Failure(e.exit, e.code, e.message, e.err)
}

func corpusLoadError(dir string, err error) *commandError {
	var le *resource.LoadError
	if errors.As(err, &le) && le.Code == resource.ErrCodeNotFound {
		return &commandError{exit: ExitCommandError, code: ErrCodeNotFound, message: fmt.Sprintf("corpus directory not found: %s", dir), err: err}
	}
	return &commandError{exit: ExitFailure, code: ErrCodeCorpus, message: "failed to load corpus", err: err}
}

// errorList renders errors for the envelope's details.
func errorList(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
