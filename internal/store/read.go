package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/queryir"
	"github.com/roach88/normstate/internal/querysql"
	"github.com/roach88/normstate/internal/state"
)

// Session summarizes the recorded actions of one session.
type Session struct {
	ID       string
	Actions  int
	FirstSeq int64
	LastSeq  int64
}

// ReadSession returns the records of session in commit order.
//
// Returns an empty slice (not nil) if the session has no records.
func (s *Store) ReadSession(ctx context.Context, session string) ([]Record, error) {
	return s.Query(ctx, queryir.Query{
		Filter: queryir.Equals{Field: queryir.FieldSession, Value: ir.String(session)},
	})
}

// Query returns the records matching q.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
func (s *Store) Query(ctx context.Context, q queryir.Query) ([]Record, error) {
	query, params, err := querysql.Compile(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return records, nil
}

// ReadAction retrieves a single record by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadAction(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+querysql.Columns+" FROM actions WHERE id = ?", id)
	return scanRecord(row)
}

// Sessions lists the recorded sessions ordered by their first seq.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, COUNT(*), MIN(seq), MAX(seq)
		FROM actions
		GROUP BY session
		ORDER BY MIN(seq) ASC, session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Actions, &sess.FirstSeq, &sess.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LatestSeq returns the highest recorded seq, or 0 for an empty history.
func (s *Store) LatestSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM actions`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("latest seq: %w", err)
	}
	return seq, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r    Record
		typ  string
		body string
	)
	if err := row.Scan(&r.Seq, &r.ID, &r.Session, &typ, &r.EntityID, &r.Depth, &body); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan action: %w", err)
	}
	r.Type = state.ActionType(typ)

	obj, err := unmarshalBody(body)
	if err != nil {
		return Record{}, fmt.Errorf("action %s: %w", r.ID, err)
	}
	r.Body = obj
	return r, nil
}
