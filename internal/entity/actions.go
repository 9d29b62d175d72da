package entity

import (
	"fmt"

	"github.com/roach88/normstate/internal/state"
)

// Actions is a state.Actions owner over an entity collection. Besides the
// usual substate actions it defines actions that target one entity by id.
type Actions[E, X any] struct {
	*state.Actions[State[E, X]]
	adapter Adapter[E]
}

// NewActions registers an owner named name over an empty collection
// carrying extra.
func NewActions[E, X any](name string, adapter Adapter[E], extra X, opts ...state.Option[State[E, X]]) *Actions[E, X] {
	return &Actions[E, X]{
		Actions: state.New(name, InitialState[E](extra), opts...),
		adapter: adapter,
	}
}

// Adapter returns the collection rules of the owner.
func (a *Actions[E, X]) Adapter() Adapter[E] {
	return a.adapter
}

// Creator builds entity-targeted actions with a P payload.
type Creator[P any] struct {
	*state.Creator[P]
}

// Build returns {type, payload, entityId}.
func (c *Creator[P]) Build(id string, payload P) state.Action {
	a := c.Creator.Build(payload)
	a.EntityID = id
	return a
}

// EmptyCreator builds entity-targeted actions without payload.
type EmptyCreator struct {
	*state.EmptyCreator
}

// Build returns {type, entityId}.
func (c *EmptyCreator) Build(id string) state.Action {
	a := c.EmptyCreator.Build()
	a.EntityID = id
	return a
}

// TransformCreator builds entity-targeted actions whose payload comes from a
// transform.
type TransformCreator[In, Out any] struct {
	*state.TransformCreator[In, Out]
}

// Build runs the transform and returns {type, payload, entityId, ...extra}.
func (c *TransformCreator[In, Out]) Build(id string, in In) (state.Action, error) {
	a, err := c.TransformCreator.Build(in)
	if err != nil {
		return state.Action{}, err
	}
	a.EntityID = id
	return a, nil
}

// Define registers mutate under "<owner>/<suffix>". When the action is
// reduced, mutate receives a draft of the entity named by the action's
// entity id.
func Define[E, X, P any](a *Actions[E, X], suffix string, mutate func(entity *E, payload P)) *Creator[P] {
	t := a.Handle(suffix, entityHandler(a, mutate))
	return &Creator[P]{Creator: state.NewCreator[P](t)}
}

// DefineEmpty registers an entity-targeted mutation without payload.
func DefineEmpty[E, X any](a *Actions[E, X], suffix string, mutate func(entity *E)) *EmptyCreator {
	t := a.Handle(suffix, func(d *State[E, X], act state.Action) {
		a.mutateEntity(d, act, mutate)
	})
	return &EmptyCreator{EmptyCreator: state.NewEmptyCreator(t)}
}

// DefineTransform registers an entity-targeted mutation whose payload is
// produced by transform when the action is built.
func DefineTransform[E, X, In, Out any](a *Actions[E, X], suffix string, transform state.Transform[In, Out], mutate func(entity *E, payload Out)) *TransformCreator[In, Out] {
	t := a.Handle(suffix, entityHandler(a, mutate))
	return &TransformCreator[In, Out]{TransformCreator: state.NewTransformCreator(t, transform)}
}

// SetProperty registers "set-<property>", assigning the payload to one field
// of the targeted entity.
func SetProperty[E, X, V any](a *Actions[E, X], property string, field func(*E) *V) *Creator[V] {
	return Define(a, "set-"+property, func(e *E, v V) {
		*field(e) = v
	})
}

// SetAllProperty registers "set-all-<property>", assigning the payload to one
// field of every stored entity.
func SetAllProperty[E, X, V any](a *Actions[E, X], property string, field func(*E) *V) *state.Creator[V] {
	return state.Define(a.Actions, "set-all-"+property, func(d *State[E, X], v V) {
		for id, entity := range d.Entities {
			*field(&entity) = v
			d.Entities[id] = entity
		}
	})
}

// SetOne registers an action storing one entity without touching the ids.
func SetOne[E, X any](a *Actions[E, X], suffix string) *state.Creator[E] {
	return state.Define(a.Actions, suffix, func(d *State[E, X], entity E) {
		a.adapter.SetOne(&d.Collection, entity)
	})
}

// SetMany registers an action storing entities without touching the ids.
// It is the bulk setter the normalization middleware dispatches.
func SetMany[E, X any](a *Actions[E, X], suffix string) *state.Creator[[]E] {
	return state.Define(a.Actions, suffix, func(d *State[E, X], entities []E) {
		a.adapter.SetMany(&d.Collection, entities)
	})
}

// AddOne registers an action storing one entity and appending its id.
func AddOne[E, X any](a *Actions[E, X], suffix string) *state.Creator[E] {
	return state.Define(a.Actions, suffix, func(d *State[E, X], entity E) {
		a.adapter.AddOne(&d.Collection, entity)
	})
}

// AddMany registers an action storing entities and appending their ids.
func AddMany[E, X any](a *Actions[E, X], suffix string) *state.Creator[[]E] {
	return state.Define(a.Actions, suffix, func(d *State[E, X], entities []E) {
		a.adapter.AddMany(&d.Collection, entities)
	})
}

// AddIDs registers an action appending the ids of already stored entities.
func AddIDs[E, X any](a *Actions[E, X], suffix string) *state.Creator[[]string] {
	return state.Define(a.Actions, suffix, func(d *State[E, X], ids []string) {
		if !a.adapter.AddIDs(&d.Collection, ids) {
			a.Logger().Warn("skipping ids without entity",
				"actions", a.Name(),
				"type", string(a.Type(suffix)),
			)
		}
	})
}

// AddTransformed registers an action whose transform yields one entity. The
// entity is expected to reach the collection through the normalization
// middleware; the reducer appends its id.
func AddTransformed[E, X, In any](a *Actions[E, X], suffix string, transform state.Transform[In, E]) *state.TransformCreator[In, E] {
	return state.DefineTransform(a.Actions, suffix, transform, func(d *State[E, X], entity E) {
		a.addID(d, suffix, a.adapter.ID(entity))
	})
}

// AddManyTransformed is AddTransformed for transforms yielding many entities.
func AddManyTransformed[E, X, In any](a *Actions[E, X], suffix string, transform state.Transform[In, []E]) *state.TransformCreator[In, []E] {
	return state.DefineTransform(a.Actions, suffix, transform, func(d *State[E, X], entities []E) {
		for _, entity := range entities {
			a.addID(d, suffix, a.adapter.ID(entity))
		}
	})
}

func (a *Actions[E, X]) addID(d *State[E, X], suffix, id string) {
	if !a.adapter.AddID(&d.Collection, id) {
		a.Logger().Warn("skipping id without entity",
			"actions", a.Name(),
			"type", string(a.Type(suffix)),
			"entity_id", id,
		)
	}
}

// entityHandler decodes the payload and applies mutate to the targeted
// entity.
func entityHandler[E, X, P any](a *Actions[E, X], mutate func(*E, P)) state.Handler[State[E, X]] {
	return func(d *State[E, X], act state.Action) {
		payload, err := state.PayloadOf[P](act)
		if err != nil {
			a.Logger().Error("dropping action with unexpected payload",
				"actions", a.Name(),
				"type", string(act.Type),
				"error", err,
			)
			return
		}
		a.mutateEntity(d, act, func(e *E) { mutate(e, payload) })
	}
}

// mutateEntity runs mutate on a copy of the entity named by act.EntityID and
// stores the result. A missing entity is logged and leaves d unchanged.
func (a *Actions[E, X]) mutateEntity(d *State[E, X], act state.Action, mutate func(*E)) {
	entity, ok := d.Entities[act.EntityID]
	if !ok {
		a.Logger().Warn(
			fmt.Sprintf("EntityActions(%s).entityAction: entity with id %q not found", a.Name(), act.EntityID),
			"actions", a.Name(),
			"type", string(act.Type),
			"entity_id", act.EntityID,
		)
		return
	}
	mutate(&entity)
	d.Entities[act.EntityID] = entity
}
