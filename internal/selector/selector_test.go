package selector

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string
	Age  int
}

type root struct {
	User  user
	Count int
}

func TestSafeSelectPresent(t *testing.T) {
	ages := map[string]int{"nils": 3}
	s := NewSafe(
		func(m map[string]int, name string) (int, bool) {
			age, ok := m[name]
			return age, ok
		},
		func(_ map[string]int, name string) error {
			return fmt.Errorf("user %q does not exist", name)
		},
	)

	age, err := s.Select(ages, "nils")
	require.NoError(t, err)

	unsafeAge, ok := s.Unsafe(ages, "nils")
	assert.True(t, ok)
	assert.Equal(t, age, unsafeAge)
	assert.Equal(t, 3, s.Must(ages, "nils"))
}

func TestSafeSelectAbsent(t *testing.T) {
	errMissing := errors.New("missing")
	s := NewSafe(
		func(m map[string]int, name string) (int, bool) {
			age, ok := m[name]
			return age, ok
		},
		func(_ map[string]int, name string) error {
			return fmt.Errorf("%w: %s", errMissing, name)
		},
	)

	_, err := s.Select(map[string]int{}, "mano")
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)
	assert.Contains(t, err.Error(), "mano")

	_, ok := s.Unsafe(map[string]int{}, "mano")
	assert.False(t, ok)

	assert.Panics(t, func() { s.Must(map[string]int{}, "mano") })
}

func TestSelectorsDerive(t *testing.T) {
	s := New(func(r root) user { return r.User })
	state := root{User: user{Name: "nils", Age: 3}, Count: 9}

	assert.Equal(t, user{Name: "nils", Age: 3}, s.Select(state))
	assert.Equal(t, user{Name: "nils", Age: 3}, s.State()(state))

	name := Property(s, func(u user) string { return u.Name })
	assert.Equal(t, "nils", name(state))

	isOlder := DeriveWith(s, func(u user, age int) bool { return u.Age > age })
	assert.True(t, isOlder(state, 2))
	assert.False(t, isOlder(state, 3))
}

func TestCombine(t *testing.T) {
	s := New(func(r root) user { return r.User })
	age := Derive(s, func(u user) int { return u.Age })
	count := func(r root) int { return r.Count }

	total := Combine(age, count, func(a, c int) int { return a + c })
	assert.Equal(t, 12, total(root{User: user{Age: 3}, Count: 9}))
}
