package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/normstate/internal/store"
	"github.com/roach88/normstate/internal/survey"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string
}

// ReplaySessionResult is the output of the replay command.
type ReplaySessionResult struct {
	Session       string          `json:"session"`
	Dispatched    int             `json:"dispatched"`
	LastSeq       int64           `json:"last_seq"`
	Digest        string          `json:"digest"`
	Deterministic bool            `json:"deterministic"`
	State         json.RawMessage `json:"state"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded session",
		Long: `Replay the recorded actions of a session into a fresh demo store and
print the resulting state and its digest.

The session is replayed twice; differing digests fail the command.

Exit codes:
  0 - Replay is deterministic
  1 - The two replays diverged
  2 - Command error (database or session not found, etc.)

Examples:
  normstate replay --db ./normstate.db --session onboarding-1
  normstate replay --session onboarding-1 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Database, "path to SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to replay (required)")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := f.Logger()

	history, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeHistory, "failed to open database", err)
	}
	defer history.Close()

	first, err := replayOnce(ctx, history, opts.Session, logger)
	if err != nil {
		return f.Fail(ExitCommandError, dispatchErrorCode(err), "replay failed", err)
	}
	if first.Dispatched == 0 {
		return f.Fail(ExitCommandError, ErrCodeNoSession, fmt.Sprintf("no actions recorded for session %s", opts.Session), nil)
	}
	second, err := replayOnce(ctx, history, opts.Session, logger)
	if err != nil {
		return f.Fail(ExitCommandError, dispatchErrorCode(err), "replay failed", err)
	}

	first.Deterministic = first.Digest == second.Digest
	if !first.Deterministic {
		logger.Error("replay diverged", "session", opts.Session, "first", first.Digest, "second", second.Digest)
	}

	if f.JSON() {
		if err := f.Success(first); err != nil {
			return err
		}
	} else {
		w := f.Writer
		mark := "✓"
		if !first.Deterministic {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s Replayed %d action(s) of %s (last seq %d)\n", mark, first.Dispatched, first.Session, first.LastSeq)
		fmt.Fprintf(w, "  Digest: %s\n", first.Digest)
		if !first.Deterministic {
			fmt.Fprintf(w, "  Second replay digest: %s\n", second.Digest)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, string(first.State))
	}

	if !first.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("replay of session %s is not deterministic", opts.Session))
	}
	return nil
}

func replayOnce(ctx context.Context, history *store.Store, session string, logger *slog.Logger) (ReplaySessionResult, error) {
	app, err := survey.New(survey.WithLogger(logger))
	if err != nil {
		return ReplaySessionResult{}, err
	}
	live := app.NewStore()

	replayed, err := store.Replay(ctx, history, session, live.Dispatch)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	snapshot, err := survey.Snapshot(live.State())
	if err != nil {
		return ReplaySessionResult{}, err
	}
	digest, err := survey.Digest(live.State())
	if err != nil {
		return ReplaySessionResult{}, err
	}
	return ReplaySessionResult{
		Session:    replayed.Session,
		Dispatched: replayed.Dispatched,
		LastSeq:    replayed.LastSeq,
		Digest:     digest,
		State:      snapshot,
	}, nil
}
