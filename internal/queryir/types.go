package queryir

import "github.com/roach88/normstate/internal/ir"

// Field is a filterable column of the action history.
type Field string

// Filterable fields.
const (
	FieldSession  Field = "session"
	FieldType     Field = "type"
	FieldEntityID Field = "entity_id"
	FieldDepth    Field = "depth"
)

// Fields lists the filterable fields in column order.
var Fields = []Field{FieldSession, FieldType, FieldEntityID, FieldDepth}

// Text reports whether f holds text.
func (f Field) Text() bool {
	return f == FieldSession || f == FieldType || f == FieldEntityID
}

// Query selects recorded actions. Results are always in commit order.
type Query struct {
	// Filter restricts the results. nil selects everything.
	Filter Predicate

	// Limit caps the number of results. 0 means no limit.
	Limit int
}

// Predicate is a filter condition.
type Predicate interface {
	predicateNode()
}

// Equals holds when Field equals Value.
type Equals struct {
	Field Field
	Value ir.Value
}

func (Equals) predicateNode() {}

// Prefix holds when the text Field starts with Value. Comparison is
// case-sensitive.
type Prefix struct {
	Field Field
	Value string
}

func (Prefix) predicateNode() {}

// And holds when all Predicates hold. An empty And always holds.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// All combines ps, dropping nil entries. It returns nil when nothing is left
// and the single predicate when one is.
func All(ps ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}
