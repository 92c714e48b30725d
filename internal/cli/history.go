package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/gentest/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	RunID string // show one run's steps
}

// HistoryEntry is one recorded run.
type HistoryEntry struct {
	Seq      int64  `json:"seq"`
	RunID    string `json:"run_id"`
	Scenario string `json:"scenario"`
	Pass     bool   `json:"pass"`
	Error    string `json:"error,omitempty"`
}

// RunDetail is a recorded run with its steps.
type RunDetail struct {
	HistoryEntry
	Message  string `json:"message,omitempty"`
	Actual   []any  `json:"actual"`
	Expected []any  `json:"expected"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [scenario]",
		Short: "List recorded runs",
		Long: `List runs recorded by "gentest run --db", oldest first.

Examples:
  gentest history --db runs.db
  gentest history --db runs.db plus_two
  gentest history --db runs.db --run 0192d1c4-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := ""
			if len(args) == 1 {
				scenario = args[0]
			}
			return runHistory(opts, scenario, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the steps of one run")

	return cmd
}

func runHistory(opts *HistoryOptions, scenario string, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, fmt.Sprintf("--db or $%s is required", DatabaseEnv))
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := contextOf(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		detail, err := toDetail(run)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to decode run", err)
		}
		return outputRunDetail(formatter, detail)
	}

	runs, err := st.ListRuns(ctx, scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, toEntry(r))
	}
	return outputHistory(formatter, entries)
}

func toEntry(r store.Run) HistoryEntry {
	return HistoryEntry{Seq: r.Seq, RunID: r.ID, Scenario: r.Scenario, Pass: r.Pass, Error: r.Error}
}

func toDetail(r store.Run) (RunDetail, error) {
	actual, err := store.DecodeSteps(r.Actual)
	if err != nil {
		return RunDetail{}, err
	}
	expected, err := store.DecodeSteps(r.Expected)
	if err != nil {
		return RunDetail{}, err
	}
	return RunDetail{
		HistoryEntry: toEntry(r),
		Message:      r.Message,
		Actual:       actual,
		Expected:     expected,
	}, nil
}

func outputHistory(f *OutputFormatter, entries []HistoryEntry) error {
	if f.Format == "json" {
		return f.JSON(CLIResponse{Status: "ok", Data: entries})
	}

	if len(entries) == 0 {
		fmt.Fprintln(f.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tSCENARIO\tRESULT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Seq, e.RunID, e.Scenario, verdict(e.Pass))
	}
	return tw.Flush()
}

func outputRunDetail(f *OutputFormatter, d RunDetail) error {
	if f.Format == "json" {
		return f.JSON(CLIResponse{Status: "ok", Data: d})
	}

	w := f.Writer
	fmt.Fprintf(w, "Run %s (seq %d)\n", d.RunID, d.Seq)
	fmt.Fprintf(w, "Scenario: %s\n", d.Scenario)
	fmt.Fprintf(w, "Result: %s\n", verdict(d.Pass))
	if d.Error != "" {
		fmt.Fprintf(w, "Drive error: %s\n", d.Error)
	}

	n := max(len(d.Actual), len(d.Expected))
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "  step %d: actual=%s expected=%s\n", i+1, stepString(d.Actual, i), stepString(d.Expected, i))
	}
	if d.Message != "" {
		fmt.Fprintf(w, "\n%s", d.Message)
	}
	return nil
}

func stepString(values []any, i int) string {
	if i >= len(values) {
		return "<missing>"
	}
	return fmt.Sprintf("%v", values[i])
}

func verdict(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
