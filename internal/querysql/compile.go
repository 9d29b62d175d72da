// Package querysql compiles action queries to parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/queryir"
)

// Columns are the action columns every compiled query selects, in scan
// order.
const Columns = "seq, id, session, type, entity_id, depth, body"

// orderBy is appended to every query. id breaks ties within a seq.
const orderBy = " ORDER BY seq ASC, id COLLATE BINARY ASC"

// Compile validates q and converts it to SQL over the actions table.
// Values are always bound as parameters.
func Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q); err != nil {
		return "", nil, err
	}

	var (
		sql    strings.Builder
		params []any
	)
	sql.WriteString("SELECT " + Columns + " FROM actions")

	if q.Filter != nil {
		where, whereParams, err := compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sql.WriteString(" WHERE " + where)
		params = append(params, whereParams...)
	}

	sql.WriteString(orderBy)

	if q.Limit > 0 {
		sql.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}
	return sql.String(), params, nil
}

func compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		param, err := valueParam(pred.Value)
		if err != nil {
			return "", nil, err
		}
		return column(pred.Field) + " = ?", []any{param}, nil
	case *queryir.Equals:
		return compilePredicate(*pred)
	case queryir.Prefix:
		// substr keeps the comparison case-sensitive, unlike LIKE.
		return fmt.Sprintf("substr(%s, 1, ?) = ?", column(pred.Field)),
			[]any{utf8.RuneCountInString(pred.Value), pred.Value}, nil
	case *queryir.Prefix:
		return compilePredicate(*pred)
	case queryir.And:
		return compileAnd(pred)
	case *queryir.And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, child := range and.Predicates {
		sql, childParams, err := compilePredicate(child)
		if err != nil {
			return "", nil, err
		}
		if _, nested := child.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		parts = append(parts, sql)
		params = append(params, childParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// column maps a field to its column. Fields are validated before this runs.
func column(f queryir.Field) string {
	return string(f)
}

func valueParam(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.String:
		return string(val), nil
	case ir.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}
