package matching

import (
	"log/slog"
	"slices"
)

// State is a step in resolving one post against the catalog
type State string

const (
	StateUnresolved    State = "UNRESOLVED"
	StateDirectIDFound State = "DIRECT_ID_FOUND"
	StateSearched      State = "SEARCHED"
	StateSingleMatch   State = "SINGLE_MATCH"
	StateMultiMatch    State = "MULTI_MATCH"
	StateDisambiguated State = "DISAMBIGUATED"
	StateNoMatch       State = "NO_MATCH"
	StateResolved      State = "RESOLVED"
	StateNotFound      State = "NOT_FOUND"
)

var transitions = map[State][]State{
	StateUnresolved:    {StateDirectIDFound, StateSearched},
	StateDirectIDFound: {StateSingleMatch, StateMultiMatch, StateNoMatch},
	StateSearched:      {StateSingleMatch, StateMultiMatch, StateNoMatch},
	StateSingleMatch:   {StateResolved},
	StateMultiMatch:    {StateDisambiguated},
	StateDisambiguated: {StateResolved},
	StateNoMatch:       {StateNotFound},
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateResolved || s == StateNotFound
}

// CanTransition reports whether next may follow s
func (s State) CanTransition(next State) bool {
	return slices.Contains(transitions[s], next)
}

// advance moves r to next and records the step. An invalid transition
// leaves r unchanged.
func (r *Resolution) advance(next State) bool {
	if !r.State.CanTransition(next) {
		slog.Error("Invalid resolution transition", "post_id", r.PostID, "from", r.State, "to", next)
		return false
	}
	r.State = next
	r.Trail = append(r.Trail, next)
	return true
}
