// Package statetag defines the opaque application-state tag the dispatcher's
// State Gate compares against an endpoint's required-states set.
//
// The core never interprets a StateTag's meaning — it is supplied by the
// external collaborator (the game process) and only ever compared for
// set membership. Concrete state names live with the collaborator, not here;
// internal/refgame declares an example set for the reference domain.
package statetag

import "sort"

// StateTag is an opaque identifier for the collaborator's current mode.
type StateTag string

// Set is an unordered collection of StateTags, as used by an endpoint's
// required-states list.
type Set []StateTag

// Contains reports whether tag is a member of the set.
func (s Set) Contains(tag StateTag) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no members (an endpoint with an empty
// required-states set is stateless with respect to the State Gate).
func (s Set) Empty() bool {
	return len(s) == 0
}

// Sorted returns the set's members in a stable lexical order, used to render
// a deterministic "requires one of these states" message.
func (s Set) Sorted() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = string(t)
	}
	sort.Strings(out)
	return out
}
