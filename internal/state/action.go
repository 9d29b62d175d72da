package state

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/normstate/internal/ir"
)

// ActionType is a namespaced action type: "<owner>/<suffix>".
type ActionType string

// Owner returns the owner part of the type.
func (t ActionType) Owner() string {
	owner, _, _ := strings.Cut(string(t), "/")
	return owner
}

// Suffix returns the part of the type after the owner.
func (t ActionType) Suffix() string {
	_, suffix, _ := strings.Cut(string(t), "/")
	return suffix
}

// Reserved JSON keys of the action wire shape.
const (
	keyType     = "type"
	keyPayload  = "payload"
	keyEntityID = "entityId"
)

// Action is the envelope that flows through dispatch.
//
// Wire shape: {type, payload?, entityId?, ...meta}. Entities is the
// normalization side channel read by the normalization middleware and is
// never serialized.
type Action struct {
	Type     ActionType
	Payload  any
	EntityID string
	Meta     map[string]any
	Entities ir.Tables
}

// HasPayload reports whether the action carries a payload.
func (a Action) HasPayload() bool {
	return a.Payload != nil
}

// MarshalJSON encodes the wire shape. Meta keys that collide with reserved
// keys are ignored.
func (a Action) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(a.Meta)+3)
	for k, v := range a.Meta {
		obj[k] = v
	}
	obj[keyType] = string(a.Type)
	delete(obj, keyPayload)
	delete(obj, keyEntityID)
	if a.HasPayload() {
		obj[keyPayload] = a.Payload
	}
	if a.EntityID != "" {
		obj[keyEntityID] = a.EntityID
	}
	return json.Marshal(obj)
}

// Encode converts the wire shape into an ir.Object.
func (a Action) Encode() (ir.Object, error) {
	v, err := ir.FromGo(a)
	if err != nil {
		return nil, fmt.Errorf("encode action %s: %w", a.Type, err)
	}
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("encode action %s: expected object, got %T", a.Type, v)
	}
	return obj, nil
}

// DecodeAction rebuilds an action from its wire shape. The payload and meta
// values stay as ir.Value; handlers decode them into their payload type.
func DecodeAction(obj ir.Object) (Action, error) {
	t, ok := obj[keyType].(ir.String)
	if !ok || t == "" {
		return Action{}, fmt.Errorf("decode action: missing %q", keyType)
	}

	a := Action{Type: ActionType(t)}
	for k, v := range obj {
		switch k {
		case keyType:
		case keyPayload:
			a.Payload = v
		case keyEntityID:
			id, ok := v.(ir.String)
			if !ok {
				return Action{}, fmt.Errorf("decode action %s: %q must be a string", t, keyEntityID)
			}
			a.EntityID = string(id)
		default:
			if a.Meta == nil {
				a.Meta = make(map[string]any)
			}
			a.Meta[k] = v
		}
	}
	return a, nil
}

// Extra carries what a transform attaches to an action besides its payload.
type Extra struct {
	Meta     map[string]any
	Entities ir.Tables
}

func (e Extra) applyTo(a *Action) {
	if len(e.Meta) > 0 {
		a.Meta = make(map[string]any, len(e.Meta))
		for k, v := range e.Meta {
			a.Meta[k] = v
		}
	}
	if len(e.Entities) > 0 {
		a.Entities = e.Entities
	}
}

// PayloadOf extracts the payload of a as P.
//
// A payload that already is a P is returned as is, a nil payload yields the
// zero P, and an ir.Value payload (as read back from history) is decoded.
func PayloadOf[P any](a Action) (P, error) {
	var zero P
	if a.Payload == nil {
		return zero, nil
	}
	if p, ok := a.Payload.(P); ok {
		return p, nil
	}
	if v, ok := a.Payload.(ir.Value); ok {
		p, err := ir.Decode[P](v)
		if err != nil {
			return zero, fmt.Errorf("decode payload of %s: %w", a.Type, err)
		}
		return p, nil
	}
	return zero, fmt.Errorf("payload of %s: expected %T, got %T", a.Type, zero, a.Payload)
}

// Must returns a, panicking if err is non-nil. It wraps creators that can
// fail, for call sites whose inputs are known to be valid.
func Must(a Action, err error) Action {
	if err != nil {
		panic(err)
	}
	return a
}
