package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/tense"
)

// Scenario is one tagging test: a corpus, engine options, and documents
// with the expressions they must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Corpus is the rule corpus directory. A relative path is resolved
	// against the scenario file's directory.
	Corpus string `yaml:"corpus"`

	// Options override the corpus manifest.
	Options Options `yaml:"options,omitempty"`

	// Documents are tagged in order.
	Documents []DocumentStep `yaml:"documents"`

	// Assertions run after every document is tagged.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Options mirrors the engine options a scenario may set.
type Options struct {
	DocumentType    string   `yaml:"document_type,omitempty"`
	Hemisphere      string   `yaml:"hemisphere,omitempty"`
	TenseStrategy   string   `yaml:"tense_strategy,omitempty"`
	Kinds           []string `yaml:"kinds,omitempty"`
	KeepOverlapping bool     `yaml:"keep_overlapping,omitempty"`
	CenturyDefault  int      `yaml:"century_default,omitempty"`
}

// DocumentStep is one input document.
type DocumentStep struct {
	ID string `yaml:"id"`

	// DCT is the creation time, YYYY-MM-DD or YYYYMMDD.
	DCT string `yaml:"dct,omitempty"`

	// Type overrides the scenario's document type for this document.
	Type string `yaml:"type,omitempty"`

	// Tagged is the text, one sentence per line, tokens written word/TAG.
	Tagged string `yaml:"tagged"`

	// Expect lists every expression the document yields, in reading
	// order. When nil the output is not checked here.
	Expect []ExpectedTimex `yaml:"expect,omitempty"`
}

// ExpectedTimex describes one expression. Empty fields are not compared.
type ExpectedTimex struct {
	Text   string `yaml:"text,omitempty"`
	Type   string `yaml:"type,omitempty"`
	Value  string `yaml:"value,omitempty"`
	Mod    string `yaml:"mod,omitempty"`
	Quant  string `yaml:"quant,omitempty"`
	Freq   string `yaml:"freq,omitempty"`
	RuleID string `yaml:"rule_id,omitempty"`
}

// Assertion checks the combined output of all documents.
type Assertion struct {
	// Type is one of contains, absent, count, order.
	Type string `yaml:"type"`

	// Document limits the assertion to one document id.
	Document string `yaml:"document,omitempty"`

	// Match selects expressions (contains, absent, count).
	Match ExpectedTimex `yaml:"match,omitempty"`

	// Count is the number of matching expressions (count).
	Count int `yaml:"count,omitempty"`

	// Values must appear in this order, not necessarily adjacent (order).
	Values []string `yaml:"values,omitempty"`
}

// Assertion type constants.
const (
	AssertContains = "contains"
	AssertAbsent   = "absent"
	AssertCount    = "count"
	AssertOrder    = "order"
)

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected, so a misspelt key fails instead of being ignored.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if s.Corpus != "" && !filepath.IsAbs(s.Corpus) {
		s.Corpus = filepath.Join(filepath.Dir(path), s.Corpus)
	}
	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if _, err := os.Stat(s.Corpus); err != nil {
		return nil, fmt.Errorf("invalid scenario: corpus not found: %s", s.Corpus)
	}
	return s, nil
}

// ParseScenario decodes a scenario without resolving or checking its
// corpus path.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Corpus == "" {
		return fmt.Errorf("corpus is required")
	}
	if len(s.Documents) == 0 {
		return fmt.Errorf("documents list is required and must be non-empty")
	}

	o := s.Options
	if _, err := ir.ParseDocumentType(o.DocumentType); err != nil {
		return fmt.Errorf("options.document_type: %w", err)
	}
	if o.TenseStrategy != "" {
		if _, err := tense.ParseStrategy(o.TenseStrategy); err != nil {
			return fmt.Errorf("options.tense_strategy: %w", err)
		}
	}
	for i, k := range o.Kinds {
		if _, err := ir.ParseKind(k); err != nil {
			return fmt.Errorf("options.kinds[%d]: %w", i, err)
		}
	}

	ids := map[string]bool{}
	for i, d := range s.Documents {
		if d.ID == "" {
			return fmt.Errorf("documents[%d]: id is required", i)
		}
		if ids[d.ID] {
			return fmt.Errorf("documents[%d]: duplicate id %q", i, d.ID)
		}
		ids[d.ID] = true
		if d.Tagged == "" {
			return fmt.Errorf("documents[%d]: tagged text is required", i)
		}
		if _, err := ir.ParseDocumentType(d.Type); err != nil {
			return fmt.Errorf("documents[%d].type: %w", i, err)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], ids); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, ids map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Document != "" && !ids[a.Document] {
		return fmt.Errorf("assertions[%d]: unknown document %q", index, a.Document)
	}

	switch a.Type {
	case AssertContains, AssertAbsent:
		if a.Match == (ExpectedTimex{}) {
			return fmt.Errorf("assertions[%d]: match is required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertOrder:
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values list is required for order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
