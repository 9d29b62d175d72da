package entity

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/state"
	"github.com/roach88/normstate/internal/testutil"
)

type userState = State[user, struct{}]

func users(list ...user) userState {
	s := InitialState[user](struct{}{})
	for _, u := range list {
		s.Entities[u.ID] = u
	}
	return s
}

func newUserActions(t *testing.T, opts ...state.Option[userState]) *Actions[user, struct{}] {
	t.Helper()
	return NewActions("user", userAdapter(), struct{}{}, opts...)
}

func TestEntityAction(t *testing.T) {
	actions := newUserActions(t)
	setName := Define(actions, "set-name", func(u *user, name string) {
		u.Name = name
	})
	reducer := actions.Reducer()

	action := setName.Build("1", "jan")
	assert.Equal(t, state.Action{Type: "user/set-name", Payload: "jan", EntityID: "1"}, action)

	before := users(tom)
	after := reducer(before, action)
	assert.Equal(t, users(user{ID: "1", Name: "jan"}), after)
	assert.Equal(t, "tom", before.Entities["1"].Name)
}

func TestEntityActionMissingEntity(t *testing.T) {
	logger, logs := testutil.NewLogger()
	actions := newUserActions(t, state.WithLogger[userState](logger))
	setName := SetProperty(actions, "name", func(u *user) *string { return &u.Name })
	reducer := actions.Reducer()

	before := users(tom)
	after := reducer(before, setName.Build("42", "jan"))

	assert.Equal(t, before, after)

	warnings := logs.AtLevel(slog.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Equal(t, `EntityActions(user).entityAction: entity with id "42" not found`, warnings[0].Message)
	assert.Equal(t, "user", warnings[0].Attrs["actions"])
	assert.Equal(t, "user/set-name", warnings[0].Attrs["type"])
	assert.Equal(t, "42", warnings[0].Attrs["entity_id"])
	assert.Len(t, logs.Entries(), 1)
}

func TestEntityActionDecodesRecordedPayload(t *testing.T) {
	actions := newUserActions(t)
	setName := SetProperty(actions, "name", func(u *user) *string { return &u.Name })
	reducer := actions.Reducer()

	recorded := state.Action{Type: setName.Type(), Payload: ir.String("jan"), EntityID: "1"}
	assert.Equal(t, "jan", reducer(users(tom), recorded).Entities["1"].Name)
}

func TestDefineEmpty(t *testing.T) {
	actions := newUserActions(t)
	shout := DefineEmpty(actions, "shout", func(u *user) {
		u.Name += "!"
	})

	action := shout.Build("1")
	assert.False(t, action.HasPayload())
	assert.Equal(t, "tom!", actions.Reducer()(users(tom), action).Entities["1"].Name)
}

func TestDefineTransform(t *testing.T) {
	actions := newUserActions(t)
	rename := DefineTransform(actions, "rename",
		func(parts [2]string) (string, state.Extra, error) {
			return parts[0] + " " + parts[1], state.Extra{Meta: map[string]any{"parts": 2}}, nil
		},
		func(u *user, name string) {
			u.Name = name
		},
	)

	action, err := rename.Build("1", [2]string{"tom", "sawyer"})
	require.NoError(t, err)
	assert.Equal(t, "1", action.EntityID)
	assert.Equal(t, 2, action.Meta["parts"])
	assert.Equal(t, "tom sawyer", actions.Reducer()(users(tom), action).Entities["1"].Name)
}

func TestSetAllProperty(t *testing.T) {
	actions := newUserActions(t)
	setAllNames := SetAllProperty(actions, "name", func(u *user) *string { return &u.Name })

	action := setAllNames.Build("jan")
	assert.Equal(t, state.Action{Type: "user/set-all-name", Payload: "jan"}, action)

	after := actions.Reducer()(users(tom, jeanne), action)
	assert.Equal(t, users(user{ID: "1", Name: "jan"}, user{ID: "2", Name: "jan"}), after)
}

func TestExtraPropertyAction(t *testing.T) {
	type extra struct {
		Fetching bool `json:"fetching"`
	}
	actions := NewActions("user", userAdapter(), extra{})
	setFetching := state.Setter(actions.Actions, "fetching", func(s *State[user, extra]) *bool {
		return &s.Extra.Fetching
	})

	action := setFetching.Build(true)
	assert.Equal(t, state.Action{Type: "user/set-fetching", Payload: true}, action)

	after := actions.Reducer()(actions.Initial(), action)
	assert.True(t, after.Extra.Fetching)
}

func TestCollectionCreators(t *testing.T) {
	actions := newUserActions(t)
	setOne := SetOne(actions, "set-user")
	setMany := SetMany(actions, "set-users")
	addOne := AddOne(actions, "add-user")
	addMany := AddMany(actions, "add-users")
	addIDs := AddIDs(actions, "add-ids")
	reducer := actions.Reducer()

	s := reducer(actions.Initial(), setOne.Build(tom))
	assert.Empty(t, s.IDs)
	s = reducer(s, setMany.Build([]user{jeanne}))
	assert.Len(t, s.Entities, 2)
	assert.Empty(t, s.IDs)

	s = reducer(s, addIDs.Build([]string{"2", "9"}))
	assert.Equal(t, []string{"2"}, s.IDs)

	s = reducer(s, addOne.Build(tom))
	s = reducer(s, addMany.Build([]user{{ID: "3", Name: "nils"}, jeanne}))
	assert.Equal(t, []string{"2", "1", "3"}, s.IDs)
}

func TestAddTransformed(t *testing.T) {
	actions := newUserActions(t)
	setMany := SetMany(actions, "set-users")
	addUser := AddTransformed(actions, "add-user", func(u user) (user, state.Extra, error) {
		return u, state.Extra{}, nil
	})
	addUsers := AddManyTransformed(actions, "add-users", func(us []user) ([]user, state.Extra, error) {
		return us, state.Extra{}, nil
	})
	reducer := actions.Reducer()

	// Without the entity stored first the id is not appended.
	s := reducer(actions.Initial(), state.Must(addUser.Build(tom)))
	assert.Empty(t, s.IDs)

	s = reducer(s, setMany.Build([]user{tom, jeanne}))
	s = reducer(s, state.Must(addUser.Build(tom)))
	s = reducer(s, state.Must(addUsers.Build([]user{jeanne, tom})))
	assert.Equal(t, []string{"1", "2"}, s.IDs)
}

func TestEntityActionsInStore(t *testing.T) {
	actions := newUserActions(t)
	setUser := SetOne(actions, "add-user")
	setName := SetProperty(actions, "name", func(u *user) *string { return &u.Name })

	store := engine.New(actions.Reducer(), actions.Initial())
	require.NoError(t, store.Dispatch(setUser.Build(tom)))
	require.NoError(t, store.Dispatch(setName.Build("1", "jan")))

	assert.Equal(t, map[string]user{"1": {ID: "1", Name: "jan"}}, store.State().Entities)
}

func TestSubscribeToEntityAction(t *testing.T) {
	actions := newUserActions(t)
	setName := SetProperty(actions, "name", func(u *user) *string { return &u.Name })

	renames := state.New("renames", 0)
	state.Subscribe(renames, setName, func(n *int, _ string) { *n++ })

	reducer := renames.Reducer()
	assert.Equal(t, 1, reducer(0, setName.Build("1", "jan")))
}
