package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/queryir"
)

const selectAll = "SELECT seq, id, session, type, entity_id, depth, body FROM actions"

func TestCompile(t *testing.T) {
	tests := []struct {
		name   string
		query  queryir.Query
		sql    string
		params []any
	}{
		{
			name:  "no filter",
			query: queryir.Query{},
			sql:   selectAll + " ORDER BY seq ASC, id COLLATE BINARY ASC",
		},
		{
			name:   "equals",
			query:  queryir.Query{Filter: queryir.Equals{Field: queryir.FieldSession, Value: ir.String("s1")}},
			sql:    selectAll + " WHERE session = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			params: []any{"s1"},
		},
		{
			name:   "equals pointer on depth",
			query:  queryir.Query{Filter: &queryir.Equals{Field: queryir.FieldDepth, Value: ir.Int(2)}},
			sql:    selectAll + " WHERE depth = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			params: []any{int64(2)},
		},
		{
			name:   "prefix",
			query:  queryir.Query{Filter: queryir.Prefix{Field: queryir.FieldType, Value: "survey/"}},
			sql:    selectAll + " WHERE substr(type, 1, ?) = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			params: []any{7, "survey/"},
		},
		{
			name: "and with limit",
			query: queryir.Query{
				Filter: queryir.And{Predicates: []queryir.Predicate{
					queryir.Equals{Field: queryir.FieldSession, Value: ir.String("s1")},
					queryir.And{Predicates: []queryir.Predicate{
						queryir.Equals{Field: queryir.FieldEntityID, Value: ir.String("q1")},
						queryir.Equals{Field: queryir.FieldDepth, Value: ir.Int(1)},
					}},
				}},
				Limit: 5,
			},
			sql: selectAll + " WHERE session = ? AND (entity_id = ? AND depth = ?)" +
				" ORDER BY seq ASC, id COLLATE BINARY ASC LIMIT ?",
			params: []any{"s1", "q1", int64(1), 5},
		},
		{
			name:  "empty and",
			query: queryir.Query{Filter: queryir.And{}},
			sql:   selectAll + " WHERE 1 = 1 ORDER BY seq ASC, id COLLATE BINARY ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := Compile(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompile_ValuesAreNeverInterpolated(t *testing.T) {
	injection := "'; DROP TABLE actions; --"
	sql, params, err := Compile(queryir.Query{
		Filter: queryir.Equals{Field: queryir.FieldEntityID, Value: ir.String(injection)},
	})
	require.NoError(t, err)

	assert.NotContains(t, sql, injection)
	assert.Equal(t, []any{injection}, params)
}

func TestCompile_Invalid(t *testing.T) {
	_, _, err := Compile(queryir.Query{
		Filter: queryir.Equals{Field: "body", Value: ir.String("x")},
	})
	require.Error(t, err)

	var verr *queryir.ValidationError
	assert.ErrorAs(t, err, &verr)
}
