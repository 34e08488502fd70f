package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/timex/internal/engine"
	"github.com/roach88/timex/internal/resource"
	"github.com/roach88/timex/internal/rules"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Corpus   string            `json:"corpus"`
	Language string            `json:"language,omitempty"`
	Rules    map[string]int    `json:"rules,omitempty"`
	Patterns int               `json:"patterns"`
	Tables   int               `json:"tables"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one problem found in a corpus.
type ValidationIssue struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [corpus-dir]",
		Short: "Load and compile a rule corpus",
		Long: `Load a rule corpus and compile every rule without tagging anything.

Reports the number of rules per kind, or every load and compile error with
its file and line. The corpus defaults to the configured one.

Exit codes:
  0 - Corpus is valid
  1 - Corpus has errors
  2 - Corpus directory not found`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootOpts.Config.Corpus
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
	logger := formatter.Logger()

	corpus, err := resource.LoadDir(dir, resource.WithLogger(logger))
	if err != nil {
		cerr := corpusLoadError(dir, err)
		if cerr.exit == ExitCommandError {
			return cerr.report(formatter)
		}
		return outputValidationErrors(formatter, &ValidationResult{Corpus: dir, Errors: []ValidationIssue{issue(err)}})
	}

	result := &ValidationResult{
		Corpus:   dir,
		Language: corpus.Manifest.Language,
		Patterns: len(corpus.Patterns),
		Tables:   len(corpus.Tables),
	}
	formatter.VerboseLog("Found %d rule file(s) in %s", len(corpus.Rules), dir)

	lib, errs := rules.CompileCorpus(corpus, rules.WithLogger(logger))
	if len(errs) > 0 {
		for _, err := range errs {
			result.Errors = append(result.Errors, issue(err))
		}
		return outputValidationErrors(formatter, result)
	}

	// Compiling the rules does not check the manifest or tense patterns.
	cfg := opts.Config
	cfg.Corpus = dir
	if _, err := engine.New(corpus, append(cfg.EngineOptions(), engine.WithLogger(logger))...); err != nil {
		var ee *engine.Error
		if errors.As(err, &ee) && len(ee.Errs) > 0 {
			for _, e := range ee.Errs {
				result.Errors = append(result.Errors, issue(e))
			}
		} else {
			result.Errors = append(result.Errors, issue(err))
		}
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	result.Rules = map[string]int{}
	for _, kind := range lib.Kinds() {
		rs, _ := lib.RuleSet(kind)
		result.Rules[kind.String()] = rs.Len()
		formatter.VerboseLog("  %s: %d rule(s)", kind, rs.Len())
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Corpus %s is valid\n", dir)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ruleSummary(lib, result))
	return nil
}

// issue converts a load or compile error to a ValidationIssue.
func issue(err error) ValidationIssue {
	var re *rules.LoadError
	if errors.As(err, &re) {
		return ValidationIssue{Code: re.Code, Path: re.Path, Line: re.Line, Rule: re.Rule, Message: re.Message}
	}
	var ce *resource.LoadError
	if errors.As(err, &ce) {
		return ValidationIssue{Code: ce.Code, Path: ce.Path, Line: ce.Line, Message: ce.Message}
	}
	var ee *engine.Error
	if errors.As(err, &ee) {
		return ValidationIssue{Code: string(ee.Code), Message: ee.Message}
	}
	return ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()}
}

func ruleSummary(lib *rules.Library, result *ValidationResult) string {
	var parts []string
	for _, kind := range lib.Kinds() {
		parts = append(parts, fmt.Sprintf("%s %d", kind, result.Rules[kind.String()]))
	}
	return fmt.Sprintf("rules: %s; %d patterns, %d tables", strings.Join(parts, ", "), result.Patterns, result.Tables)
}

// outputValidationErrors writes every issue and returns exit code 1.
func outputValidationErrors(f *OutputFormatter, result *ValidationResult) error {
	msg := fmt.Sprintf("corpus has %d error(s)", len(result.Errors))
	if f.Format == "json" {
		if err := f.Error(ErrCodeCorpus, msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	w := f.Writer
	fmt.Fprintf(w, "✗ Corpus %s is invalid\n", result.Corpus)
	for _, is := range result.Errors {
		loc := is.Path
		if is.Line > 0 {
			loc = fmt.Sprintf("%s:%d", is.Path, is.Line)
		}
		if loc != "" {
			loc += ": "
		}
		if is.Rule != "" {
			fmt.Fprintf(w, "  [%s] %srule %s: %s\n", is.Code, loc, is.Rule, is.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s%s\n", is.Code, loc, is.Message)
		}
	}
	return NewExitError(ExitFailure, msg)
}
