package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/entity"
	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/schema"
	"github.com/roach88/normstate/internal/state"
)

type user struct {
	Name    string `json:"name"`
	Friends []user `json:"friends"`
}

type normalizedUser struct {
	Name    string   `json:"name"`
	Friends []string `json:"friends"`
}

type post struct {
	ID     string `json:"id"`
	Author user   `json:"author"`
	Text   string `json:"text"`
}

type normalizedPost struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

func newUser(name string, friends ...user) user {
	return user{Name: name, Friends: append([]user{}, friends...)}
}

func registry(t *testing.T) *schema.Registry {
	t.Helper()
	userSchema := schema.NewEntity("user", nil, schema.WithIDAttribute("name"))
	userSchema.Define(schema.Definition{"friends": schema.NewArray(userSchema)})

	reg := schema.NewRegistry()
	require.NoError(t, reg.Register("user", userSchema))
	require.NoError(t, reg.Register("post", schema.NewEntity("post", schema.Definition{"author": userSchema})))
	return reg
}

func TestNormalizerSingle(t *testing.T) {
	normalizeUser := New[user, normalizedUser](registry(t), "user")

	got, tables, err := normalizeUser.Normalize(newUser("nils", newUser("mano")))
	require.NoError(t, err)

	assert.Equal(t, normalizedUser{Name: "nils", Friends: []string{"mano"}}, got)
	assert.Equal(t, ir.Tables{
		"user": {
			"mano": {"name": ir.String("mano"), "friends": ir.Array{}},
			"nils": {"name": ir.String("nils"), "friends": ir.Array{ir.String("mano")}},
		},
	}, tables)
}

func TestNormalizerMany(t *testing.T) {
	normalizeUsers := Many[user, normalizedUser](registry(t), "user")

	got, extra, err := normalizeUsers.Transform([]user{newUser("nils", newUser("mano"))})
	require.NoError(t, err)

	assert.Equal(t, []normalizedUser{{Name: "nils", Friends: []string{"mano"}}}, got)
	assert.Equal(t, 2, extra.Entities.Len())
	assert.Nil(t, extra.Meta)
}

type group struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type ownerRef struct {
	ID     string `json:"id"`
	Schema string `json:"schema"`
}

type thing struct {
	ID    string `json:"id"`
	Owner group  `json:"owner"`
}

type normalizedThing struct {
	ID    string   `json:"id"`
	Owner ownerRef `json:"owner"`
}

func unionRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := registry(t)
	userSchema, _ := reg.Entity("user")
	groupSchema := schema.NewEntity("group", nil)
	owner := schema.NewUnion("type", map[string]*schema.Entity{"user": userSchema, "group": groupSchema})
	require.NoError(t, reg.Register("group", groupSchema))
	require.NoError(t, reg.Register("owner", owner))
	require.NoError(t, reg.Register("thing", schema.NewEntity("thing", schema.Definition{"owner": owner})))
	return reg
}

func TestNormalizerUnion(t *testing.T) {
	reg := unionRegistry(t)
	g := group{Type: "group", ID: "42"}
	groupRow := ir.Object{"type": ir.String("group"), "id": ir.String("42")}

	got, tables, err := New[group, group](reg, "owner").Normalize(g)
	require.NoError(t, err)
	assert.Equal(t, g, got)
	assert.Equal(t, ir.Tables{"group": {"42": groupRow}}, tables)

	many, _, err := Many[group, group](reg, "owner").Normalize([]group{g})
	require.NoError(t, err)
	assert.Equal(t, []group{g}, many)

	th, tables, err := New[thing, normalizedThing](reg, "thing").Normalize(thing{ID: "51", Owner: g})
	require.NoError(t, err)
	assert.Equal(t, normalizedThing{ID: "51", Owner: ownerRef{ID: "42", Schema: "group"}}, th)
	assert.Equal(t, groupRow, tables["group"]["42"])
	assert.Len(t, tables["thing"], 1)
}

func TestNormalizerUnknownName(t *testing.T) {
	assert.Panics(t, func() { New[user, normalizedUser](registry(t), "comment") })
}

// users and posts wired the way an application would.
type appState struct {
	User entity.State[normalizedUser, struct{}]
	Post entity.State[normalizedPost, struct{}]
}

type app struct {
	store     *engine.Store[appState]
	setUsers  *state.Creator[[]normalizedUser]
	addUser   *state.TransformCreator[user, normalizedUser]
	addFriend *entity.TransformCreator[user, normalizedUser]
	addPost   *state.TransformCreator[post, normalizedPost]
	setAuthor *entity.TransformCreator[user, normalizedUser]
	users     *EntitySelectors[appState, normalizedUser, user]
	posts     *EntitySelectors[appState, normalizedPost, post]
}

func newApp(t *testing.T, middleware ...engine.Middleware) *app {
	t.Helper()
	reg := registry(t)
	normalizeUser := New[user, normalizedUser](reg, "user")
	normalizePost := New[post, normalizedPost](reg, "post")

	userActions := entity.NewActions("user", entity.NewAdapter(func(u normalizedUser) string { return u.Name }), struct{}{})
	postActions := entity.NewActions("post", entity.NewAdapter(func(p normalizedPost) string { return p.ID }), struct{}{})

	a := &app{
		setUsers: entity.SetMany(userActions, "set-users"),
		addUser:  entity.AddTransformed(userActions, "add-user", normalizeUser.Transform),
		addFriend: entity.DefineTransform(userActions, "add-friend", normalizeUser.Transform, func(u *normalizedUser, friend normalizedUser) {
			u.Friends = append(u.Friends, friend.Name)
		}),
		addPost: entity.AddTransformed(postActions, "add-post", normalizePost.Transform),
		setAuthor: entity.DefineTransform(postActions, "set-author", normalizeUser.Transform, func(p *normalizedPost, author normalizedUser) {
			p.Author = author.Name
		}),
	}
	setPosts := entity.SetMany(postActions, "set-posts")

	root := state.NewRoot[appState]()
	state.Mount(root, userActions, func(r *appState) *entity.State[normalizedUser, struct{}] { return &r.User })
	state.Mount(root, postActions, func(r *appState) *entity.State[normalizedPost, struct{}] { return &r.Post })

	src := NewSource[appState]()
	Table(src, "user", func(r appState) map[string]normalizedUser { return r.User.Entities })
	Table(src, "post", func(r appState) map[string]normalizedPost { return r.Post.Entities })
	a.users = NewEntitySelectors[appState, normalizedUser, user](src, reg, "user", func(r appState) entity.Collection[normalizedUser] { return r.User.Collection })
	a.posts = NewEntitySelectors[appState, normalizedPost, post](src, reg, "post", func(r appState) entity.Collection[normalizedPost] { return r.Post.Collection })

	mw := append([]engine.Middleware{Middleware(map[string]BulkSetter{
		"user": SetEntities(a.setUsers),
		"post": SetEntities(setPosts),
	})}, middleware...)
	a.store = engine.New(root.Reducer(), root.Initial(), engine.WithMiddleware(mw...))
	return a
}

func TestNormalizationScenario(t *testing.T) {
	a := newApp(t)
	jeanne := newUser("jeanne")
	tom := newUser("tom")

	require.NoError(t, a.store.Dispatch(state.Must(a.addUser.Build(tom))))
	require.NoError(t, a.store.Dispatch(state.Must(a.addFriend.Build("tom", jeanne))))

	gotTom, err := a.users.Denormalized()(a.store.State(), "tom")
	require.NoError(t, err)
	assert.Equal(t, newUser("tom", jeanne), gotTom)
	assert.Equal(t, []string{"tom"}, a.store.State().User.IDs)

	nils := newUser("nils", tom, jeanne)
	p := post{ID: "1", Author: nils, Text: "hello"}
	require.NoError(t, a.store.Dispatch(state.Must(a.addPost.Build(p))))

	mano := newUser("mano", tom)
	vio := newUser("vio", nils, jeanne, mano)
	require.NoError(t, a.store.Dispatch(state.Must(a.setAuthor.Build("1", vio))))

	gotPost, err := a.posts.Denormalized()(a.store.State(), "1")
	require.NoError(t, err)
	assert.Equal(t, post{ID: "1", Author: vio, Text: "hello"}, gotPost)
	assert.Equal(t, []string{"1"}, a.store.State().Post.IDs)
}

func TestMiddlewarePopulatesEntitiesFromSideChannel(t *testing.T) {
	a := newApp(t)
	tables := ir.Tables{
		"user": {
			"tom":    {"name": ir.String("tom"), "friends": ir.Array{}},
			"jeanne": {"name": ir.String("jeanne"), "friends": ir.Array{ir.String("tom")}},
		},
		"comment": {"c1": {"id": ir.String("c1")}},
	}

	require.NoError(t, a.store.Dispatch(state.Action{Type: "noop/anything", Entities: tables}))

	s := a.store.State()
	assert.Equal(t, map[string]normalizedUser{
		"tom":    {Name: "tom", Friends: []string{}},
		"jeanne": {Name: "jeanne", Friends: []string{"tom"}},
	}, s.User.Entities)
	assert.Empty(t, s.User.IDs)
}

func TestMiddlewareDispatchOrder(t *testing.T) {
	var seen []state.ActionType
	record := func(api engine.API, next engine.Dispatch) engine.Dispatch {
		return func(act state.Action) error {
			seen = append(seen, act.Type)
			return next(act)
		}
	}
	a := newApp(t, record)

	p := post{ID: "1", Author: newUser("nils"), Text: "hello"}
	require.NoError(t, a.store.Dispatch(state.Must(a.addPost.Build(p))))

	assert.Equal(t, []state.ActionType{"post/set-posts", "user/set-users", "post/add-post"}, seen)
}

func TestDenormalizedMissing(t *testing.T) {
	a := newApp(t)

	_, err := a.users.Denormalized()(a.store.State(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.EqualError(t, err, `user with id "ghost" does not exist`)
}

func TestDenormalizedMany(t *testing.T) {
	a := newApp(t)
	friends := newUser("nils", newUser("mano"))
	require.NoError(t, a.store.Dispatch(state.Must(a.addUser.Build(friends))))

	got, err := a.users.DenormalizedMany()(a.store.State(), []string{"nils", "ghost", "mano"})
	require.NoError(t, err)
	assert.Equal(t, []user{friends, newUser("mano")}, got)
}

func TestDenormalizedMutualFriends(t *testing.T) {
	a := newApp(t)
	tables := ir.Tables{
		"user": {
			"nils": {"name": ir.String("nils"), "friends": ir.Array{ir.String("mano")}},
			"mano": {"name": ir.String("mano"), "friends": ir.Array{ir.String("nils")}},
		},
	}
	require.NoError(t, a.store.Dispatch(state.Action{Type: "noop/anything", Entities: tables}))

	got, err := a.users.Denormalized()(a.store.State(), "nils")
	require.NoError(t, err)
	assert.Equal(t, newUser("nils", newUser("mano")), got)

	many, err := a.users.DenormalizedMany()(a.store.State(), []string{"nils", "mano"})
	require.NoError(t, err)
	assert.Equal(t, []user{newUser("nils", newUser("mano")), newUser("mano", newUser("nils"))}, many)
}
