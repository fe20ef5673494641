package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/fallible/internal/ir"
	"github.com/roach88/fallible/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Op       string // optional - filter to one operation
}

// TraceEvent is a single journaled op in the timeline.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	ID      string `json:"id"`
	Op      string `json:"op"`
	Index   int64  `json:"index"`
	Arg     any    `json:"arg,omitempty"`
	Outcome string `json:"outcome"`
	Result  any    `json:"result,omitempty"`
	Length  int    `json:"length"`
}

// TraceStats holds summary statistics for the run.
type TraceStats struct {
	TotalOps    int            `json:"total_ops"`
	Outcomes    map[string]int `json:"outcomes"`
	FinalLength int            `json:"final_length"`
	IsComplete  bool           `json:"is_complete"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	RunID       string       `json:"run_id"`
	Scenario    string       `json:"scenario"`
	Initial     []any        `json:"initial"`
	FinalDigest string       `json:"final_digest,omitempty"`
	Timeline    []TraceEvent `json:"timeline"`
	Stats       TraceStats   `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the op timeline of a journaled run",
		Long: `Show the journaled ops of one run in seq order.

The output includes:
- Timeline: every op with its index, outcome, returned element and resulting length
- Stats: op count per outcome and whether the run completed

Examples:
  fallible trace --db ./runs.db --run 0190f3c4-...
  fallible trace --db ./runs.db --run 0190f3c4-... --op remove
  fallible trace --db ./runs.db --run 0190f3c4-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to trace (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().StringVar(&opts.Op, "op", "", "filter to one operation (has_index|get|remove|insert)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := context.Background()

	st, err := openJournal(opts.Database)
	if err != nil {
		return f.CommandError(ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	result, err := buildTrace(ctx, st, opts.RunID, opts.Op)
	if errors.Is(err, store.ErrRunNotFound) {
		return f.CommandError(ErrCodeRunNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
	}
	if err != nil {
		return f.CommandError(ErrCodeDatabase, "failed to read run", err)
	}

	if f.JSON() {
		return f.Success(result)
	}
	outputTraceText(f, result)
	return nil
}

// buildTrace reads a run and its ops. Stats always cover the whole run;
// the op filter only narrows the timeline.
func buildTrace(ctx context.Context, st *store.Store, runID, opFilter string) (TraceResult, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return TraceResult{}, err
	}

	ops, err := st.ReadOps(ctx, runID)
	if err != nil {
		return TraceResult{}, err
	}

	outcomes, err := st.CountOutcomes(ctx, runID)
	if err != nil {
		return TraceResult{}, err
	}

	initial := make([]any, len(run.Initial))
	for i, v := range run.Initial {
		initial[i] = ir.ToAny(v)
	}

	result := TraceResult{
		RunID:       run.ID,
		Scenario:    run.Scenario,
		Initial:     initial,
		FinalDigest: run.FinalDigest,
		Timeline:    make([]TraceEvent, 0, len(ops)),
		Stats: TraceStats{
			TotalOps:    len(ops),
			Outcomes:    outcomes,
			FinalLength: run.FinalLength,
			IsComplete:  run.Completed(),
		},
	}

	for _, op := range ops {
		if opFilter != "" && op.Op != opFilter {
			continue
		}
		result.Timeline = append(result.Timeline, TraceEvent{
			Seq:     op.Seq,
			ID:      op.ID,
			Op:      op.Op,
			Index:   op.Index,
			Arg:     ir.ToAny(op.Arg),
			Outcome: op.Outcome,
			Result:  ir.ToAny(op.Result),
			Length:  op.Length,
		})
	}

	return result, nil
}

func outputTraceText(f *OutputFormatter, result TraceResult) {
	w := f.Writer

	fmt.Fprintf(w, "Run: %s (%s)\n", result.RunID, result.Scenario)
	fmt.Fprintf(w, "Initial: %v\n\n", result.Initial)

	fmt.Fprintln(w, "Timeline:")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no ops)")
	}
	for _, ev := range result.Timeline {
		line := fmt.Sprintf("  [%d] %s %d", ev.Seq, ev.Op, ev.Index)
		if ev.Arg != nil {
			line += fmt.Sprintf(" %v", ev.Arg)
		}
		line += " -> " + ev.Outcome
		if ev.Result != nil {
			line += fmt.Sprintf(" %v", ev.Result)
		}
		fmt.Fprintf(w, "%s (len %d)\n", line, ev.Length)
		f.VerboseLog("      id %s", ev.ID)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stats:")
	fmt.Fprintf(w, "  Total ops: %d\n", result.Stats.TotalOps)

	outcomes := make([]string, 0, len(result.Stats.Outcomes))
	for k := range result.Stats.Outcomes {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)
	for _, k := range outcomes {
		fmt.Fprintf(w, "  %s: %d\n", k, result.Stats.Outcomes[k])
	}

	if result.Stats.IsComplete {
		fmt.Fprintf(w, "  Final length: %d\n", result.Stats.FinalLength)
		fmt.Fprintf(w, "  Final digest: %s\n", result.FinalDigest)
	} else {
		fmt.Fprintln(w, "  Run incomplete")
	}
}
