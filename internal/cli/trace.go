package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/queryir"
	"github.com/roach88/normstate/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // lists sessions when empty
	Type     string // optional prefix filter on action type
	Entity   string // optional entity id filter
}

// TraceEntry is one recorded action.
type TraceEntry struct {
	Seq      int64  `json:"seq"`
	ID       string `json:"id"`
	Type     string `json:"type"`
	EntityID string `json:"entity_id,omitempty"`
	Depth    int    `json:"depth"`
}

// TraceResult holds the recorded actions of one session.
type TraceResult struct {
	Session string       `json:"session"`
	Actions []TraceEntry `json:"actions"`
	Stats   TraceStats   `json:"stats"`
}

// TraceStats summarizes a trace.
type TraceStats struct {
	Total  int `json:"total"`
	Nested int `json:"nested"` // dispatched from inside another dispatch
}

// SessionEntry summarizes one recorded session.
type SessionEntry struct {
	Session  string `json:"session"`
	Actions  int    `json:"actions"`
	FirstSeq int64  `json:"first_seq"`
	LastSeq  int64  `json:"last_seq"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "List recorded actions",
		Long: `List the actions recorded for a session in commit order, with the
depth they were dispatched at. Without --session, list the recorded
sessions instead.

Examples:
  normstate trace --db ./normstate.db
  normstate trace --db ./normstate.db --session onboarding-1
  normstate trace --session onboarding-1 --type question/
  normstate trace --session onboarding-1 --entity q1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Database, "path to SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to trace")
	cmd.Flags().StringVar(&opts.Type, "type", "", "only actions whose type starts with this prefix")
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "only actions targeting this entity id")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	history, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeHistory, "failed to open database", err)
	}
	defer history.Close()

	if opts.Session == "" {
		return listSessions(ctx, f, history)
	}

	records, err := history.Query(ctx, traceQuery(opts))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeHistory, "failed to read session", err)
	}
	if len(records) == 0 {
		exists, err := sessionExists(ctx, history, opts.Session)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeHistory, "failed to read session", err)
		}
		if !exists {
			return f.Fail(ExitCommandError, ErrCodeNoSession, fmt.Sprintf("no actions recorded for session %s", opts.Session), nil)
		}
	}

	result := TraceResult{Session: opts.Session, Actions: make([]TraceEntry, 0, len(records))}
	for _, r := range records {
		result.Actions = append(result.Actions, TraceEntry{
			Seq:      r.Seq,
			ID:       r.ID,
			Type:     string(r.Type),
			EntityID: r.EntityID,
			Depth:    r.Depth,
		})
		result.Stats.Total++
		if r.Depth > 1 {
			result.Stats.Nested++
		}
	}

	if f.JSON() {
		return f.Success(result)
	}

	w := f.Writer
	fmt.Fprintf(w, "Session: %s\n\n", result.Session)
	for _, a := range result.Actions {
		indent := strings.Repeat("  ", a.Depth)
		fmt.Fprintf(w, "[%d]%s%s", a.Seq, indent, a.Type)
		if a.EntityID != "" {
			fmt.Fprintf(w, " (%s)", a.EntityID)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d action(s), %d nested\n", result.Stats.Total, result.Stats.Nested)
	return nil
}

func traceQuery(opts *TraceOptions) queryir.Query {
	var entity, typePrefix queryir.Predicate
	if opts.Entity != "" {
		entity = queryir.Equals{Field: queryir.FieldEntityID, Value: ir.String(opts.Entity)}
	}
	if opts.Type != "" {
		typePrefix = queryir.Prefix{Field: queryir.FieldType, Value: opts.Type}
	}
	return queryir.Query{Filter: queryir.All(
		queryir.Equals{Field: queryir.FieldSession, Value: ir.String(opts.Session)},
		typePrefix,
		entity,
	)}
}

func sessionExists(ctx context.Context, history *store.Store, session string) (bool, error) {
	records, err := history.Query(ctx, queryir.Query{
		Filter: queryir.Equals{Field: queryir.FieldSession, Value: ir.String(session)},
		Limit:  1,
	})
	return len(records) > 0, err
}

func listSessions(ctx context.Context, f *OutputFormatter, history *store.Store) error {
	sessions, err := history.Sessions(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeHistory, "failed to list sessions", err)
	}

	entries := make([]SessionEntry, 0, len(sessions))
	for _, s := range sessions {
		entries = append(entries, SessionEntry{
			Session:  s.ID,
			Actions:  s.Actions,
			FirstSeq: s.FirstSeq,
			LastSeq:  s.LastSeq,
		})
	}

	if f.JSON() {
		return f.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(f.Writer, "No sessions recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(f.Writer, "%s: %d action(s), seq %d-%d\n", e.Session, e.Actions, e.FirstSeq, e.LastSeq)
	}
	return nil
}
