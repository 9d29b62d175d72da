package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTablesMerge(t *testing.T) {
	tables := Tables{}
	tables.Merge("user", "nils", Object{"name": String("nils"), "age": Int(3)})
	tables.Merge("user", "nils", Object{"name": String("nils"), "friends": Array{String("mano")}})

	entity, ok := tables.Entity("user", "nils")
	assert.True(t, ok)
	assert.Equal(t, Object{
		"name":    String("nils"),
		"age":     Int(3),
		"friends": Array{String("mano")},
	}, entity)
}

func TestTablesEntityMissing(t *testing.T) {
	tables := Tables{"user": {}}

	_, ok := tables.Entity("user", "nobody")
	assert.False(t, ok)

	_, ok = tables.Entity("group", "g1")
	assert.False(t, ok)
}

func TestTablesOrdering(t *testing.T) {
	tables := Tables{}
	tables.Merge("user", "b", Object{"name": String("b")})
	tables.Merge("user", "a", Object{"name": String("a")})
	tables.Merge("group", "g", Object{"id": String("g")})

	assert.Equal(t, []string{"group", "user"}, tables.Names())
	assert.Equal(t, []Object{{"name": String("a")}, {"name": String("b")}}, tables.Values("user"))
	assert.Equal(t, 3, tables.Len())
}
