package state

import "fmt"

// Ref identifies an action type whose payload has type P. Subscribe uses it
// to type the subscription handler.
type Ref[P any] interface {
	Type() ActionType
	payload(P)
}

// Creator builds actions of one type carrying a P payload.
type Creator[P any] struct {
	typ ActionType
}

// NewCreator returns a creator for an already registered type t.
func NewCreator[P any](t ActionType) *Creator[P] {
	return &Creator[P]{typ: t}
}

// Type returns the namespaced action type.
func (c *Creator[P]) Type() ActionType { return c.typ }

func (c *Creator[P]) payload(P) {}

// Build returns {type, payload}.
func (c *Creator[P]) Build(p P) Action {
	return Action{Type: c.typ, Payload: p}
}

// EmptyCreator builds actions without payload.
type EmptyCreator struct {
	typ ActionType
}

// NewEmptyCreator returns a creator for an already registered type t.
func NewEmptyCreator(t ActionType) *EmptyCreator {
	return &EmptyCreator{typ: t}
}

// Type returns the namespaced action type.
func (c *EmptyCreator) Type() ActionType { return c.typ }

func (c *EmptyCreator) payload(struct{}) {}

// Build returns {type}.
func (c *EmptyCreator) Build() Action {
	return Action{Type: c.typ}
}

// Transform converts the raw creator input into the payload handed to the
// mutation, plus any extra fields for the action.
type Transform[In, Out any] func(in In) (Out, Extra, error)

// TransformCreator builds actions whose payload is produced by a Transform.
type TransformCreator[In, Out any] struct {
	typ       ActionType
	transform Transform[In, Out]
}

// NewTransformCreator returns a transform creator for an already registered
// type t.
func NewTransformCreator[In, Out any](t ActionType, transform Transform[In, Out]) *TransformCreator[In, Out] {
	return &TransformCreator[In, Out]{typ: t, transform: transform}
}

// Type returns the namespaced action type.
func (c *TransformCreator[In, Out]) Type() ActionType { return c.typ }

func (c *TransformCreator[In, Out]) payload(Out) {}

// Build runs the transform and returns {type, payload, ...extra}.
func (c *TransformCreator[In, Out]) Build(in In) (Action, error) {
	out, extra, err := c.transform(in)
	if err != nil {
		return Action{}, fmt.Errorf("build %s: %w", c.typ, err)
	}
	a := Action{Type: c.typ, Payload: out}
	extra.applyTo(&a)
	return a, nil
}

// Define registers mutate under "<owner>/<suffix>".
func Define[S, P any](a *Actions[S], suffix string, mutate func(draft *S, payload P)) *Creator[P] {
	return NewCreator[P](a.Handle(suffix, typed(a, mutate)))
}

// DefineEmpty registers a mutation for an action without payload.
func DefineEmpty[S any](a *Actions[S], suffix string, mutate func(draft *S)) *EmptyCreator {
	return NewEmptyCreator(a.Handle(suffix, func(d *S, _ Action) { mutate(d) }))
}

// DefineTransform registers mutate under "<owner>/<suffix>". The creator
// passes its raw input through transform; mutate receives the transformed
// payload.
func DefineTransform[S, In, Out any](a *Actions[S], suffix string, transform Transform[In, Out], mutate func(draft *S, payload Out)) *TransformCreator[In, Out] {
	return NewTransformCreator(a.Handle(suffix, typed(a, mutate)), transform)
}

// Setter registers "set-<property>", assigning the payload to one field.
func Setter[S, V any](a *Actions[S], property string, field func(*S) *V) *Creator[V] {
	return Define(a, "set-"+property, func(d *S, v V) {
		*field(d) = v
	})
}

// Property registers an action that computes a field's next value from its
// current value and the payload. An empty suffix defaults to
// "set-<property>".
func Property[S, V, P any](a *Actions[S], property, suffix string, field func(*S) *V, compute func(current V, payload P) V) *Creator[P] {
	if suffix == "" {
		suffix = "set-" + property
	}
	return Define(a, suffix, func(d *S, p P) {
		f := field(d)
		*f = compute(*f, p)
	})
}

// Replace registers "<owner>/set", replacing the whole substate.
func Replace[S any](a *Actions[S]) *Creator[S] {
	return Define(a, "set", func(d *S, v S) {
		*d = v
	})
}

// Subscribe registers mutate to run when an action of ref's type reaches
// a's reducer. The subscription runs before the primary handler.
func Subscribe[S, P any](a *Actions[S], ref Ref[P], mutate func(draft *S, payload P)) {
	a.HandleSubscription(ref.Type(), typed(a, mutate))
}
