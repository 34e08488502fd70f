package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/timex/internal/harness"
	"github.com/roach88/timex/internal/resource"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
	Golden string // golden directory, default <scenarios>/golden
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios>",
		Short: "Run tagging scenarios",
		Long: `Run YAML tagging scenarios and check their expectations and assertions.

Each scenario names its own corpus; corpora shared by several scenarios are
loaded once. When a golden file <golden>/<name>.golden exists, the
scenario's snapshot must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  timex test ./scenarios
  timex test ./scenarios --filter "news_*"
  timex test ./scenarios --update
  timex test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "golden file directory (default: <scenarios>/golden)")

	return cmd
}

func runTests(opts *TestOptions, scenarios string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	info, err := os.Stat(scenarios)
	if os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios not found: %s", scenarios))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot read scenarios", err)
	}

	golden := opts.Golden
	if golden == "" {
		base := scenarios
		if !info.IsDir() {
			base = filepath.Dir(scenarios)
		}
		golden = filepath.Join(base, "golden")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := formatter.Logger()
	cache := resource.NewCache(0, resource.WithLogger(logger))
	result, err := harness.RunSuite(scenarios,
		harness.WithCache(cache),
		harness.WithLogger(logger),
		harness.WithContext(ctx),
		harness.WithGoldenDir(golden, opts.Update),
		harness.WithFilter(opts.Filter),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}
	formatter.VerboseLog("Loaded %d corpus(es)", cache.Len())

	if opts.Format == "json" {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// outputTestJSON outputs the suite result as JSON.
func outputTestJSON(f *OutputFormatter, result *harness.SuiteResult) error {
	if result.Failed == 0 {
		return f.Success(result)
	}

	msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
	if err := f.encode(CLIResponse{
		Status: "error",
		Data:   result,
		Error:  &CLIError{Code: ErrCodeTestFailed, Message: msg},
	}); err != nil {
		return err
	}
	// Test failures = exit code 1
	return NewExitError(ExitFailure, msg)
}

// outputTestText outputs the suite result as text.
func outputTestText(f *OutputFormatter, result *harness.SuiteResult) error {
	w := f.Writer

	if result.TotalScenarios == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, failure := range result.Failures {
		name := failure.Scenario
		if name == "" {
			name = filepath.Base(failure.Path)
		}
		fmt.Fprintf(w, "✗ %s\n", name)
		for _, e := range failure.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.TotalScenarios)
	if result.Updated > 0 {
		fmt.Fprintf(w, "Golden files updated: %d\n", result.Updated)
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
