// Package fsm provides a generic Finite State Machine implementation wrapper.
// It defines State and Event types and an FSM interface, and wraps an underlying FSM library.
// file: internal/fsm/fsm.go
package fsm

import (
	"context"
	"sync"

	"github.com/cardrpc/dispatcher/internal/logging"
	"github.com/cockroachdb/errors"
	lfsm "github.com/looplab/fsm" // Use alias 'lfsm'
)

// State represents a state in the FSM.
type State string

// Event represents an event that can trigger a state transition.
type Event string

// TransitionAction defines the function signature for actions executed during transitions.
// It receives the context, the triggering event, and optional data.
type TransitionAction func(ctx context.Context, event Event, data interface{}) error

// Transition defines a transition rule between states. Supports multiple
// 'From' states to align with looplab/fsm's EventDesc.
type Transition struct {
	From   []State          // Source states for this transition.
	To     State            // The destination state.
	Event  Event            // The event triggering the transition.
	Action TransitionAction // Optional action to execute on entering 'To' state due to this event.
}

// FSM defines the interface for our finite state machine wrapper.
type FSM interface {
	// AddTransition stores a transition definition. Call Build() after adding all transitions.
	AddTransition(transition Transition) FSM
	// Build finalizes the FSM configuration and creates the underlying machine. Must be called after AddTransition(s).
	Build() error
	// CurrentState returns the current state. Requires Build() to have been called successfully.
	CurrentState() State
	// Transition attempts to trigger a state transition. Requires Build().
	Transition(ctx context.Context, event Event, data interface{}) error
}

// loopFSM implements the FSM interface using looplab/fsm.
type loopFSM struct {
	initialState State
	logger       logging.Logger
	transitions  []Transition
	fsm          *lfsm.FSM    // Underlying instance, nil until Build() is called.
	buildErr     error        // Stores error from Build().
	mu           sync.RWMutex // Protects access to fsm instance and buildErr.
	// These maps are used only during the Build() process.
	callbackMap  lfsm.Callbacks
	eventDescMap map[string]lfsm.EventDesc
}

// NewFSM creates a new FSM builder instance with the specified initial state and logger.
// Call AddTransition() to define transitions, then call Build() to finalize.
func NewFSM(initialState State, logger logging.Logger) FSM {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &loopFSM{
		initialState: initialState,
		logger:       logger.WithField("component", "fsm_wrapper"),
		transitions:  make([]Transition, 0),
	}
}

// AddTransition stores a transition definition to be used during Build().
func (l *loopFSM) AddTransition(t Transition) FSM {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fsm != nil {
		l.logger.Error("Cannot AddTransition after Build() has been called.")
		if l.buildErr == nil {
			l.buildErr = errors.New("cannot AddTransition after Build")
		}
		return l
	}
	if len(t.From) == 0 {
		l.logger.Error("Transition definition missing 'From' states.", "event", t.Event, "to", t.To)
		if l.buildErr == nil {
			l.buildErr = errors.New("transition definition missing 'From' states")
		}
		return l // Prevent adding invalid transition.
	}
	l.transitions = append(l.transitions, t)
	l.logger.Debug("Stored transition definition.", "event", t.Event, "from", t.From, "to", t.To)
	return l
}

// Build finalizes the FSM configuration and creates the underlying looplab/fsm instance.
func (l *loopFSM) Build() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fsm != nil {
		l.logger.Warn("Build() called again on an already built FSM.")
		return l.buildErr // Return previous build error, if any.
	}
	if l.buildErr != nil {
		l.logger.Error("Attempted to Build() FSM with configuration errors.", "error", l.buildErr)
		return l.buildErr // Return previous configuration error.
	}
	if len(l.transitions) == 0 {
		l.logger.Warn("Building FSM with no transitions defined.")
	}

	l.logger.Info("Building FSM instance...", "initialState", l.initialState, "transition_count", len(l.transitions))

	l.callbackMap = make(lfsm.Callbacks)
	l.eventDescMap = make(map[string]lfsm.EventDesc)

	for i, t := range l.transitions {
		// --- Prepare EventDesc ---
		eventName := string(t.Event)
		toStateStr := string(t.To)
		fromStatesStr := make([]string, len(t.From))
		for j, s := range t.From {
			fromStatesStr[j] = string(s)
		}

		// looplab/fsm expects one EventDesc per unique Name, with every
		// transition for that event listed in its Src array.
		desc, exists := l.eventDescMap[eventName]
		if !exists {
			desc = lfsm.EventDesc{Name: eventName, Dst: toStateStr}
		} else if desc.Dst != toStateStr {
			err := errors.Newf("conflicting destinations ('%s' and '%s') for the same event ('%s'). Define separate events.", desc.Dst, toStateStr, eventName)
			l.logger.Error("Invalid FSM configuration.", "error", err)
			l.buildErr = err
			return l.buildErr
		}
		desc.Src = append(desc.Src, fromStatesStr...)
		l.eventDescMap[eventName] = desc

		// --- Prepare Callbacks (enter_<STATE>, chained per transition index) ---
		if t.Action != nil {
			enterCallbackName := "enter_" + toStateStr
			originalEnterCallback := l.callbackMap[enterCallbackName]
			l.callbackMap[enterCallbackName] = l.createActionCallback(i, originalEnterCallback)
		}
	}

	// Convert map to slice for NewFSM.
	finalEvents := make([]lfsm.EventDesc, 0, len(l.eventDescMap))
	for _, desc := range l.eventDescMap {
		uniqueSrc := make(map[string]struct{})
		dedupedSrc := make([]string, 0, len(desc.Src))
		for _, s := range desc.Src {
			if _, exists := uniqueSrc[s]; !exists {
				uniqueSrc[s] = struct{}{}
				dedupedSrc = append(dedupedSrc, s)
			}
		}
		desc.Src = dedupedSrc
		finalEvents = append(finalEvents, desc)
	}

	l.fsm = lfsm.NewFSM(string(l.initialState), finalEvents, l.callbackMap)
	l.logger.Info("FSM instance built successfully.")
	return nil
}

// createActionCallback creates a looplab/fsm callback function for a transition action.
// It uses the transition index to look up the correct action.
func (l *loopFSM) createActionCallback(transitionIndex int, nextCallback lfsm.Callback) lfsm.Callback {
	// This callback is attached to "enter_<STATE>"
	return func(ctx context.Context, e *lfsm.Event) {
		var matchedTransition *Transition
		l.mu.RLock()
		for i := range l.transitions {
			if i == transitionIndex {
				isRelevantSource := false
				for _, fromState := range l.transitions[i].From {
					if string(fromState) == e.Src {
						isRelevantSource = true
						break
					}
				}
				if string(l.transitions[i].Event) == e.Event && isRelevantSource {
					matchedTransition = &l.transitions[i]
				}
				break
			}
		}
		l.mu.RUnlock()

		if matchedTransition != nil && matchedTransition.Action != nil {
			var eventData interface{}
			if len(e.Args) > 0 {
				eventData = e.Args[0]
			}
			l.logger.Debug("Executing transition action.", "event", matchedTransition.Event, "to_state", matchedTransition.To, "from_state", e.Src)
			if err := matchedTransition.Action(ctx, matchedTransition.Event, eventData); err != nil {
				l.logger.Error("Error executing transition action.", "event", matchedTransition.Event, "to_state", matchedTransition.To, "error", err)
			}
		} else {
			// Either a transition into this state had no action, or multiple
			// transitions enter the same state and this callback instance
			// doesn't correspond to the one that actually fired.
			l.logger.Debug("Entered state without a matching action for this callback.", "event", e.Event, "from_state", e.Src, "to_state", e.Dst, "transitionIndexChecked", transitionIndex)
		}

		if nextCallback != nil {
			nextCallback(ctx, e)
		}
	}
}

// CurrentState returns the current state of the FSM. Requires Build().
func (l *loopFSM) CurrentState() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.fsm == nil {
		l.logger.Error("CurrentState() called before Build() or after build error.")
		return ""
	}
	return State(l.fsm.Current())
}

// Transition triggers a state transition based on the event. Requires Build().
// Optional data can be passed to action callbacks.
func (l *loopFSM) Transition(ctx context.Context, event Event, data interface{}) error {
	l.mu.RLock() // RLock initially to check if built
	if l.fsm == nil {
		l.mu.RUnlock()
		l.logger.Error("Transition() called before Build() or after build error.")
		return l.buildErr
	}
	fsmInstance := l.fsm
	l.mu.RUnlock() // Unlock before potentially long-running Event call

	l.logger.Debug("Attempting transition.", "event", event, "from_state", l.CurrentState())

	args := []interface{}{}
	if data != nil {
		args = append(args, data)
	}

	// looplab/fsm's Event method handles thread safety internally.
	err := fsmInstance.Event(ctx, string(event), args...)
	if err != nil {
		errMsg := err.Error()
		switch {
		case errors.Is(err, &lfsm.NoTransitionError{}), errors.Is(err, &lfsm.InvalidEventError{}), errors.Is(err, &lfsm.UnknownEventError{}):
			l.logger.Warn("Transition failed: Event/Transition not applicable for current state.", "event", event, "from_state", l.CurrentState(), "error", errMsg)
			return errors.Wrap(err, "transition not possible")
		case errors.Is(err, &lfsm.InTransitionError{}):
			l.logger.Error("Concurrency error during transition.", "event", event, "error", errMsg)
			return errors.Wrap(err, "FSM concurrency error")
		default:
			l.logger.Error("Transition failed.", "event", event, "from_state", l.CurrentState(), "error", err)
			return errors.Wrapf(err, "failed to transition on event '%s' from state '%s'", event, l.CurrentState())
		}
	}

	l.logger.Debug("Transition successful.", "event", event, "new_state", l.CurrentState())
	return nil
}
