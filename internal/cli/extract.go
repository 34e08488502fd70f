package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/timex/internal/engine"
	"github.com/roach88/timex/internal/ir"
)

// Output formats of extract.
const (
	OutputText   = "text"
	OutputJSON   = "json"
	OutputYAML   = "yaml"
	OutputTimeML = "timeml"
)

// OutputFormats lists the accepted output formats.
var OutputFormats = []string{OutputText, OutputJSON, OutputYAML, OutputTimeML}

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
	DCT    string
	ID     string
	Input  string
	Output string // "" follows --format

	// IDGenerator names documents that have no id. Nil means UUIDv7.
	IDGenerator engine.IDGenerator
}

// ExtractResult is the payload of extract's json and yaml output.
type ExtractResult struct {
	DocumentID string     `json:"document_id" yaml:"document_id"`
	Timexes    []ir.Timex `json:"timexes" yaml:"timexes"`
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Tag temporal expressions in one document",
		Long: `Tag the temporal expressions of one document and print them in reading order.

The document is read from file, or from stdin when file is absent or "-".
Tagged input has one sentence per line with tokens written word/TAG; json
and yaml input hold a full document with offsets.

Examples:
  timex extract --dct 2020-01-01 article.txt
  echo "He/PP left/VVD on/IN Monday/NP" | timex extract --dct 20200101
  timex extract --input json --output timeml doc.json
  timex extract --type narrative --kinds DATE,TIME story.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runExtract(opts, path, cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.DCT, "dct", "", "document creation time, YYYY-MM-DD or YYYYMMDD")
	flags.StringVar(&opts.ID, "id", "", "document id (default: generated)")
	flags.StringVarP(&opts.Input, "input", "i", InputTagged, "input format (tagged|json|yaml)")
	flags.StringVarP(&opts.Output, "output", "o", "", "output format (text|json|yaml|timeml)")

	flags.String("type", "", "document type (news|narrative|colloquial|scientific)")
	flags.String("hemisphere", "", "season naming (northern|southern)")
	flags.String("strategy", "", "tense strategy (backward|nearest)")
	flags.Bool("no-tense-correction", false, "do not read present perfect and passive as past")
	flags.StringSlice("kinds", nil, "enabled kinds (DATE,TIME,DURATION,SET)")
	flags.Int("workers", 0, "sentence-level parallelism (0 = GOMAXPROCS)")
	flags.Bool("keep-overlapping", false, "keep overlapping candidates")
	flags.Duration("match-timeout", 0, "per-pattern match timeout")

	v := rootOpts.viper
	_ = v.BindPFlag("document_type", flags.Lookup("type"))
	_ = v.BindPFlag("hemisphere", flags.Lookup("hemisphere"))
	_ = v.BindPFlag("tense_strategy", flags.Lookup("strategy"))
	_ = v.BindPFlag("disable_tense_correction", flags.Lookup("no-tense-correction"))
	_ = v.BindPFlag("kinds", flags.Lookup("kinds"))
	_ = v.BindPFlag("workers", flags.Lookup("workers"))
	_ = v.BindPFlag("keep_overlapping", flags.Lookup("keep-overlapping"))
	_ = v.BindPFlag("match_timeout", flags.Lookup("match-timeout"))

	return cmd
}

func runExtract(opts *ExtractOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	output := opts.Output
	if output == "" {
		output = opts.Format
	}
	if !slices.Contains(OutputFormats, output) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid output %q: must be one of %v", output, OutputFormats))
	}
	if !slices.Contains(InputFormats, opts.Input) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid input %q: must be one of %v", opts.Input, InputFormats))
	}

	in, err := openInput(path, cmd.InOrStdin())
	if err != nil {
		return formatter.Failure(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("cannot open input: %s", path), err)
	}
	doc, err := ReadDocument(in, opts.Input)
	_ = in.Close()
	if err != nil {
		return formatter.Failure(ExitFailure, ErrCodeDocument, "invalid document", err)
	}
	if opts.DCT != "" {
		doc.DCT = opts.DCT
	}
	if opts.ID != "" {
		doc.ID = opts.ID
	}

	logger := formatter.Logger()
	var extra []engine.Option
	if opts.IDGenerator != nil {
		extra = append(extra, engine.WithIDGenerator(opts.IDGenerator))
	}
	eng, _, cerr := loadEngine(opts.Config, logger, extra...)
	if cerr != nil {
		return cerr.report(formatter)
	}
	formatter.VerboseLog("Loaded corpus %s, kinds %v", opts.Config.Corpus, eng.Kinds())

	// Use the command's context if available (tests), otherwise Background.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := eng.Process(ctx, doc)
	if err != nil {
		code := ErrCodeGeneric
		if engine.IsDocumentError(err) {
			code = ErrCodeDocument
		}
		return formatter.Failure(ExitFailure, code, "failed to process document", err)
	}

	result := ExtractResult{DocumentID: res.DocumentID, Timexes: res.Timexes}
	switch output {
	case OutputJSON:
		return (&OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}).Success(result)
	case OutputYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render YAML", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case OutputTimeML:
		_, err := io.WriteString(cmd.OutOrStdout(), ir.RenderTimeML(doc.Text, res.Timexes))
		return err
	}
	return writeTimexText(cmd.OutOrStdout(), result)
}

// writeTimexText prints one aligned line per expression.
func writeTimexText(w io.Writer, result ExtractResult) error {
	if len(result.Timexes) == 0 {
		_, err := fmt.Fprintf(w, "%s: no temporal expressions\n", result.DocumentID)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTYPE\tSPAN\tTEXT\tVALUE\tATTRS\tRULE\n")
	for _, t := range result.Timexes {
		fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%q\t%s\t%s\t%s\n",
			t.ID, t.Kind, t.Begin, t.End, t.Text, t.Value, attrs(t), t.RuleID)
	}
	return tw.Flush()
}

func attrs(t ir.Timex) string {
	var parts []string
	for _, kv := range [][2]string{{"mod", t.Mod}, {"quant", t.Quant}, {"freq", t.Freq}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
