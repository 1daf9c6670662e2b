// These tests exercise the generic FSM wrapper against a small card-run
// state machine, the same shape internal/refgame builds on top of it.
package fsm

// file: internal/fsm/fsm_test.go

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/cardrpc/dispatcher/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// States and events mirror internal/refgame's run lifecycle: menu, blind
// select, play a hand, resolve the round, shop, or bust to game over.
const (
	StateMenu          State = "MENU"
	StateBlindSelect   State = "BLIND_SELECT"
	StateSelectingHand State = "SELECTING_HAND"
	StateRoundEval     State = "ROUND_EVAL"
	StateShop          State = "SHOP"
	StateGameOver      State = "GAME_OVER"

	EventStartRun    Event = "start_run"
	EventSelectBlind Event = "select_blind"
	EventPlayHand    Event = "play_hand"
	EventContinue    Event = "continue_to_shop"
	EventLeaveShop   Event = "leave_shop"
	EventBust        Event = "bust"
	EventReturnMenu  Event = "return_menu"
)

// buildRunFSM wires the same transition table internal/refgame.NewGame builds,
// without refgame's locking or domain fields.
func buildRunFSM(t *testing.T) FSM {
	t.Helper()
	logger := logging.GetNoopLogger()
	f := NewFSM(StateMenu, logger)

	f.AddTransition(Transition{From: []State{StateMenu}, To: StateBlindSelect, Event: EventStartRun}).
		AddTransition(Transition{From: []State{StateBlindSelect}, To: StateSelectingHand, Event: EventSelectBlind}).
		AddTransition(Transition{From: []State{StateSelectingHand}, To: StateRoundEval, Event: EventPlayHand}).
		AddTransition(Transition{From: []State{StateRoundEval}, To: StateShop, Event: EventContinue}).
		AddTransition(Transition{From: []State{StateRoundEval}, To: StateGameOver, Event: EventBust}).
		AddTransition(Transition{From: []State{StateShop}, To: StateBlindSelect, Event: EventLeaveShop}).
		AddTransition(Transition{From: []State{StateGameOver}, To: StateMenu, Event: EventReturnMenu})

	err := f.Build()
	require.NoError(t, err, "failed to build card run FSM")
	return f
}

func TestNewFSM_ReturnsValidBuilder(t *testing.T) {
	f := NewFSM(StateMenu, logging.GetNoopLogger())
	require.NotNil(t, f)
}

func TestBuild_IdempotentWhenCalledTwice(t *testing.T) {
	f := NewFSM(StateMenu, logging.GetNoopLogger())
	require.NoError(t, f.Build())
	require.NoError(t, f.Build(), "calling Build() again should not error")
}

func TestFullRun_MenuToGameOverAndBack(t *testing.T) {
	f := buildRunFSM(t)
	ctx := context.Background()

	assert.Equal(t, StateMenu, f.CurrentState())

	require.NoError(t, f.Transition(ctx, EventStartRun, nil))
	assert.Equal(t, StateBlindSelect, f.CurrentState())

	require.NoError(t, f.Transition(ctx, EventSelectBlind, nil))
	assert.Equal(t, StateSelectingHand, f.CurrentState())

	require.NoError(t, f.Transition(ctx, EventPlayHand, []int{0, 1}))
	assert.Equal(t, StateRoundEval, f.CurrentState())

	require.NoError(t, f.Transition(ctx, EventBust, nil))
	assert.Equal(t, StateGameOver, f.CurrentState())

	require.NoError(t, f.Transition(ctx, EventReturnMenu, nil))
	assert.Equal(t, StateMenu, f.CurrentState())
}

func TestRoundEval_ContinuesToShopOnNonBust(t *testing.T) {
	f := buildRunFSM(t)
	ctx := context.Background()

	require.NoError(t, f.Transition(ctx, EventStartRun, nil))
	require.NoError(t, f.Transition(ctx, EventSelectBlind, nil))
	require.NoError(t, f.Transition(ctx, EventPlayHand, nil))
	require.NoError(t, f.Transition(ctx, EventContinue, nil))
	assert.Equal(t, StateShop, f.CurrentState())

	require.NoError(t, f.Transition(ctx, EventLeaveShop, nil))
	assert.Equal(t, StateBlindSelect, f.CurrentState())
}

func TestInvalidTransition_ReturnsError(t *testing.T) {
	f := buildRunFSM(t)
	ctx := context.Background()

	// play_hand is not defined from MENU.
	err := f.Transition(ctx, EventPlayHand, nil)
	require.Error(t, err)
	assert.Equal(t, StateMenu, f.CurrentState(), "a rejected event must not move the state")
}

func TestTransitionWithAction_ExecutesAction(t *testing.T) {
	logger := logging.GetNoopLogger()
	f := NewFSM(StateMenu, logger)
	actionExecuted := atomic.Bool{}

	action := func(_ context.Context, event Event, data interface{}) error {
		actionExecuted.Store(true)
		assert.Equal(t, EventStartRun, event)
		assert.Equal(t, "ante 1", data.(string))
		return nil
	}

	f.AddTransition(Transition{From: []State{StateMenu}, To: StateBlindSelect, Event: EventStartRun, Action: action})
	require.NoError(t, f.Build())

	ctx := context.Background()
	require.NoError(t, f.Transition(ctx, EventStartRun, "ante 1"))
	assert.Equal(t, StateBlindSelect, f.CurrentState())
	assert.True(t, actionExecuted.Load())
}

func TestTransitionWithFailingAction_StateStillAdvances(t *testing.T) {
	logger := logging.GetNoopLogger()
	f := NewFSM(StateMenu, logger)
	actionExecuted := atomic.Bool{}

	action := func(_ context.Context, _ Event, _ interface{}) error {
		actionExecuted.Store(true)
		return fmt.Errorf("action failed deliberately")
	}

	f.AddTransition(Transition{From: []State{StateMenu}, To: StateBlindSelect, Event: EventStartRun, Action: action})
	require.NoError(t, f.Build())

	ctx := context.Background()
	// The underlying FSM has already committed the transition by the time
	// enter_<STATE> runs, so a failing action logs but does not roll back.
	require.NoError(t, f.Transition(ctx, EventStartRun, nil))
	assert.Equal(t, StateBlindSelect, f.CurrentState())
	assert.True(t, actionExecuted.Load())
}

func TestBuild_FailsOnConflictingDestinations(t *testing.T) {
	logger := logging.GetNoopLogger()
	f := NewFSM(StateMenu, logger)

	f.AddTransition(Transition{From: []State{StateMenu}, To: StateBlindSelect, Event: EventStartRun})
	f.AddTransition(Transition{From: []State{StateMenu}, To: StateGameOver, Event: EventStartRun})

	err := f.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicting destinations")
}

func TestBuild_FailsOnMissingFromState(t *testing.T) {
	logger := logging.GetNoopLogger()
	f := NewFSM(StateMenu, logger)

	f.AddTransition(Transition{Event: EventStartRun, To: StateBlindSelect})

	err := f.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'From' states")
}
