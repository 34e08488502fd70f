package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	TotalScenarios int               `json:"total_scenarios"`
	Passed         int               `json:"passed"`
	Failed         int               `json:"failed"`
	Updated        int               `json:"updated,omitempty"`
	Failures       []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure is one scenario that did not load, did not run, or
// failed a check.
type ScenarioFailure struct {
	Scenario string   `json:"scenario,omitempty"`
	Path     string   `json:"path"`
	Errors   []string `json:"errors"`
}

// FindScenarios returns the .yaml and .yml files under path in lexical
// order. A file path is returned as is.
func FindScenarios(path string) ([]string, error) {
	return findScenarios(path, "")
}

func findScenarios(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if e := strings.ToLower(ext); e != ".yaml" && e != ".yml" {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(filepath.Base(p), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// RunSuite loads and runs every scenario under path. A scenario that
// fails to load, run or match its golden file is counted as failed;
// RunSuite itself fails only when path cannot be read.
func RunSuite(path string, opts ...Option) (*SuiteResult, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	files, err := findScenarios(path, cfg.filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find scenarios: %w", err)
	}

	result := &SuiteResult{}
	for _, file := range files {
		result.TotalScenarios++

		scenario, err := LoadScenario(file)
		if err != nil {
			result.fail(ScenarioFailure{Path: file, Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)}})
			continue
		}

		run, err := Run(scenario, opts...)
		if err != nil {
			result.fail(ScenarioFailure{Scenario: scenario.Name, Path: file, Errors: []string{fmt.Sprintf("scenario execution failed: %v", err)}})
			continue
		}

		errs := run.Errors
		if cfg.goldenDir != "" {
			updated, err := checkGolden(&cfg, scenario.Name, run)
			if err != nil {
				errs = append(errs, err.Error())
			}
			if updated {
				result.Updated++
			}
		}
		if len(errs) > 0 {
			result.fail(ScenarioFailure{Scenario: scenario.Name, Path: file, Errors: errs})
			continue
		}
		result.Passed++
	}
	return result, nil
}

// GoldenPath returns the golden file for scenario name in dir.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, name+".golden")
}

// checkGolden compares or rewrites the golden file of one scenario. A
// missing golden file is not an error unless updating.
func checkGolden(cfg *config, name string, run *Result) (updated bool, err error) {
	data, err := Snapshot(name, run)
	if err != nil {
		return false, fmt.Errorf("failed to render snapshot: %w", err)
	}
	path := GoldenPath(cfg.goldenDir, name)

	if cfg.update {
		if err := os.MkdirAll(cfg.goldenDir, 0755); err != nil {
			return false, fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return false, fmt.Errorf("failed to write golden file: %w", err)
		}
		return true, nil
	}

	golden, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(golden, data) {
		return false, fmt.Errorf("snapshot does not match %s (run with --update to regenerate)", path)
	}
	return false, nil
}

func (r *SuiteResult) fail(f ScenarioFailure) {
	r.Failed++
	r.Failures = append(r.Failures, f)
}
