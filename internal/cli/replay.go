package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/fallible/internal/harness"
	"github.com/roach88/fallible/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplaySummary holds the overall replay result.
type ReplaySummary struct {
	Runs             []*harness.ReplayResult `json:"runs"`
	TotalRuns        int                     `json:"total_runs"`
	AllDeterministic bool                    `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled runs and verify determinism",
		Long: `Replay journaled runs against their initial sequences.

Every op is re-applied in seq order and its outcome, returned element
and resulting length are compared with the journal, then the final
sequence digest is compared with the completed run.

Exit codes:
  0 - All runs are deterministic
  1 - Determinism verification failed (divergences detected)
  2 - Command error (database not found, unknown run, etc.)

Examples:
  fallible replay --db ./runs.db
  fallible replay --db ./runs.db --run 0190f3c4-...
  fallible replay --db ./runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := context.Background()

	st, err := openJournal(opts.Database)
	if err != nil {
		return f.CommandError(ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	var runIDs []string
	if opts.RunID != "" {
		runIDs = []string{opts.RunID}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return f.CommandError(ErrCodeDatabase, "failed to list runs", err)
		}
		for _, r := range runs {
			runIDs = append(runIDs, r.ID)
		}
	}

	summary := ReplaySummary{
		Runs:             make([]*harness.ReplayResult, 0, len(runIDs)),
		TotalRuns:        len(runIDs),
		AllDeterministic: true,
	}

	for _, id := range runIDs {
		f.VerboseLog("replaying run %s", id)
		rr, err := harness.Replay(ctx, st, id)
		if errors.Is(err, store.ErrRunNotFound) {
			return f.CommandError(ErrCodeRunNotFound, fmt.Sprintf("run not found: %s", id), nil)
		}
		if err != nil {
			return f.CommandError(ErrCodeGeneric, fmt.Sprintf("failed to replay run %s", id), err)
		}

		summary.Runs = append(summary.Runs, rr)
		if !rr.Deterministic {
			summary.AllDeterministic = false
		}
	}

	if f.JSON() {
		return outputReplayJSON(f, summary)
	}
	return outputReplayText(f, summary)
}

// openJournal opens an existing journal. A missing file is an error.
func openJournal(path string) (*store.Store, error) {
	if path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

func outputReplayJSON(f *OutputFormatter, summary ReplaySummary) error {
	if summary.AllDeterministic {
		return f.Success(summary)
	}

	msg := "replay diverged from the journal"
	if err := f.Failure(summary, ErrCodeNondeterminism, msg); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func outputReplayText(f *OutputFormatter, summary ReplaySummary) error {
	if summary.TotalRuns == 0 {
		fmt.Fprintln(f.Writer, "No runs found in database.")
		return nil
	}

	for _, rr := range summary.Runs {
		if rr.Deterministic {
			fmt.Fprintf(f.Writer, "✓ %s (%s): %d ops\n", rr.RunID, rr.Scenario, rr.Ops)
			continue
		}
		fmt.Fprintf(f.Writer, "✗ %s (%s): %d divergence(s)\n", rr.RunID, rr.Scenario, len(rr.Divergences))
		for _, d := range rr.Divergences {
			fmt.Fprintf(f.Writer, "  seq %d %s: journaled %s, replayed %s\n", d.Seq, d.Field, d.Journaled, d.Replayed)
		}
	}

	fmt.Fprintln(f.Writer)
	if !summary.AllDeterministic {
		fmt.Fprintln(f.Writer, "✗ Replay diverged")
		return NewExitError(ExitFailure, "replay diverged from the journal")
	}
	fmt.Fprintf(f.Writer, "✓ All %d run(s) deterministic\n", summary.TotalRuns)
	return nil
}
