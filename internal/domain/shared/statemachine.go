package shared

import (
	"fmt"
	"sort"
	"sync"
)

// StateMachine is a declared transition graph over a status type.
// Construction checks the table, so a machine that exists is well formed.
type StateMachine[S ~string] struct {
	entity  string
	initial S
	next    map[S]map[S]struct{}
	order   []S
}

// NewStateMachine builds and validates a transition table. Every state must
// appear as a key, every target must be a declared state, every state must be
// reachable from initial and at least one state must be terminal.
func NewStateMachine[S ~string](entity string, initial S, table map[S][]S) (*StateMachine[S], error) {
	if _, ok := table[initial]; !ok {
		return nil, fmt.Errorf("%s: initial state %q is not declared", entity, initial)
	}

	m := &StateMachine[S]{
		entity:  entity,
		initial: initial,
		next:    make(map[S]map[S]struct{}, len(table)),
	}
	for from, targets := range table {
		set := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			if _, ok := table[to]; !ok {
				return nil, fmt.Errorf("%s: transition %q -> %q targets an undeclared state", entity, from, to)
			}
			if to == from {
				return nil, fmt.Errorf("%s: self transition on %q", entity, from)
			}
			set[to] = struct{}{}
		}
		m.next[from] = set
		m.order = append(m.order, from)
	}
	sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })

	reached := map[S]bool{initial: true}
	queue := []S{initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for to := range m.next[cur] {
			if !reached[to] {
				reached[to] = true
				queue = append(queue, to)
			}
		}
	}
	hasTerminal := false
	for _, s := range m.order {
		if !reached[s] {
			return nil, fmt.Errorf("%s: state %q is unreachable from %q", entity, s, initial)
		}
		if len(m.next[s]) == 0 {
			hasTerminal = true
		}
	}
	if !hasTerminal {
		return nil, fmt.Errorf("%s: no terminal state", entity)
	}
	return m, nil
}

// MustStateMachine is NewStateMachine that panics on an invalid table and
// registers the machine for ValidateTransition.
func MustStateMachine[S ~string](entity string, initial S, table map[S][]S) *StateMachine[S] {
	m, err := NewStateMachine(entity, initial, table)
	if err != nil {
		panic(err)
	}
	registerTransitions(entity, m)
	return m
}

// Entity returns the entity type this machine governs
func (m *StateMachine[S]) Entity() string {
	return m.entity
}

// Initial returns the initial state
func (m *StateMachine[S]) Initial() S {
	return m.initial
}

// States returns all declared states in lexical order
func (m *StateMachine[S]) States() []S {
	out := make([]S, len(m.order))
	copy(out, m.order)
	return out
}

// IsValid reports whether s is a declared state
func (m *StateMachine[S]) IsValid(s S) bool {
	_, ok := m.next[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions
func (m *StateMachine[S]) IsTerminal(s S) bool {
	next, ok := m.next[s]
	return ok && len(next) == 0
}

// AllowedFrom returns the states reachable in one step from s
func (m *StateMachine[S]) AllowedFrom(s S) []S {
	out := make([]S, 0, len(m.next[s]))
	for to := range m.next[s] {
		out = append(out, to)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanTransition reports whether from -> to is an edge of the graph
func (m *StateMachine[S]) CanTransition(from, to S) bool {
	_, ok := m.next[from][to]
	return ok
}

// Validate checks a proposed status write against the persisted status.
// Keeping the same status is not a transition and always passes.
func (m *StateMachine[S]) Validate(persisted, proposed S) error {
	if !m.IsValid(proposed) {
		return NewValidationError("status", fmt.Sprintf("unknown %s status %q", m.entity, proposed))
	}
	if persisted == proposed {
		return nil
	}
	if !m.CanTransition(persisted, proposed) {
		return &InvalidTransitionError{Entity: m.entity, From: string(persisted), To: string(proposed)}
	}
	return nil
}

type transitionValidator interface {
	validate(from, to string) error
}

func (m *StateMachine[S]) validate(from, to string) error {
	return m.Validate(S(from), S(to))
}

var (
	registryMu  sync.RWMutex
	transitions = map[string]transitionValidator{}
)

func registerTransitions(entity string, v transitionValidator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	transitions[entity] = v
}

// ValidateTransition checks from -> to for a registered entity type.
func ValidateTransition(entity, from, to string) error {
	registryMu.RLock()
	v, ok := transitions[entity]
	registryMu.RUnlock()
	if !ok {
		return fmt.Errorf("no transition graph registered for %q", entity)
	}
	return v.validate(from, to)
}
