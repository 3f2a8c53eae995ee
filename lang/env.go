package lang

import (
	"iter"
	"maps"
)

// Env is the global environment of one interpreter run: a mapping from
// identifier to [Value]. Only define statements mutate it.
//
// Function calls never write to an Env. They evaluate against a scope built
// from a [Env.Snapshot] overlaid with parameter bindings.
type Env struct {
	vars map[string]Value
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// Define inserts or overwrites the binding of name.
func (e *Env) Define(name string, v Value) {
	if e.vars == nil {
		e.vars = make(map[string]Value)
	}

	e.vars[name] = v
}

// Lookup returns the value bound to name.
func (e *Env) Lookup(name string) (Value, bool) {
	if e == nil {
		return nil, false
	}

	v, ok := e.vars[name]

	return v, ok
}

// Snapshot returns a copy of the current bindings.
// Later definitions do not affect the copy.
func (e *Env) Snapshot() map[string]Value {
	if e == nil || e.vars == nil {
		return make(map[string]Value)
	}

	return maps.Clone(e.vars)
}

// Names returns the bound identifiers in sorted order.
func (e *Env) Names() []string {
	if e == nil {
		return nil
	}

	return sortedKeys(e.vars)
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}

	return len(e.vars)
}

// All returns an iterator over the bindings in name order.
func (e *Env) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range e.Names() {
			if !yield(name, e.vars[name]) {
				return
			}
		}
	}
}

// scope is the set of bindings visible to an expression: the global
// environment, or a call's snapshot of it overlaid with parameters.
type scope struct {
	global *Env
	local  map[string]Value
}

// lookup resolves name in the scope.
func (s scope) lookup(name string) (Value, bool) {
	if s.local != nil {
		v, ok := s.local[name]

		return v, ok
	}

	return s.global.Lookup(name)
}

// overlay returns the scope of a call: a snapshot of the global bindings
// with params layered on top.
func (s scope) overlay(params map[string]Value) scope {
	local := s.global.Snapshot()
	maps.Copy(local, params)

	return scope{global: s.global, local: local}
}
