// Package state pairs typed action creators with the reducers that apply them.
//
// An Actions value owns one substate. Each Define* call records a typed
// handler under the namespaced type "<owner>/<suffix>" and returns the
// creator that builds matching actions. Subscribe lets one owner react to
// actions defined by another. Reducer returns the pure function that applies
// the registered handlers to a deep-copied draft of the substate.
//
// Registration happens at setup time. Registering the same type twice in the
// same slot panics with a *RegistrationError.
//
// Root composes several owners into one root reducer over a struct whose
// fields are the substates.
package state
