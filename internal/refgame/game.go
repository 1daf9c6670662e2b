// file: internal/refgame/game.go
package refgame

import (
	"context"
	"sync"

	"github.com/cardrpc/dispatcher/internal/fsm"
	"github.com/cardrpc/dispatcher/internal/logging"
	"github.com/cardrpc/dispatcher/internal/statetag"
)

// Game holds one run's mutable state and its FSM. It is the StateAccessor
// the dispatcher reads through, and the receiver for every reference
// endpoint's domain logic. The dispatcher itself never touches these
// fields directly — only through Endpoint handlers and GetState.
type Game struct {
	mu sync.Mutex

	machine fsm.FSM

	money     int
	hand      []int
	discards  int
	rerolls   int
	ante      int
	jokers    []string
	shopSlots []string
}

// NewGame builds a fresh run in StateMenu, with its transition table wired
// per the lifecycle original_source's Method enum implies (menu → blind
// select → hand play → shop → next round, or bust to game over).
func NewGame(logger logging.Logger) *Game {
	g := &Game{
		money:    4,
		discards: 3,
		rerolls: 0,
	}

	g.machine = fsm.NewFSM(fsm.State(StateMenu), logger)
	g.machine.
		AddTransition(fsm.Transition{From: []fsm.State{fsm.State(StateMenu)}, To: fsm.State(StateBlindSelect), Event: EventStartRun, Action: g.onStartRun}).
		AddTransition(fsm.Transition{From: []fsm.State{fsm.State(StateBlindSelect)}, To: fsm.State(StateSelectingHand), Event: EventSelectBlind, Action: g.onSelectBlind}).
		AddTransition(fsm.Transition{From: []fsm.State{fsm.State(StateSelectingHand)}, To: fsm.State(StateRoundEval), Event: EventPlayHand}).
		AddTransition(fsm.Transition{From: []fsm.State{fsm.State(StateRoundEval)}, To: fsm.State(StateShop), Event: EventContinue}).
		AddTransition(fsm.Transition{From: []fsm.State{fsm.State(StateRoundEval)}, To: fsm.State(StateGameOver), Event: EventBust}).
		AddTransition(fsm.Transition{From: []fsm.State{fsm.State(StateShop)}, To: fsm.State(StateBlindSelect), Event: EventLeaveShop, Action: g.onLeaveShop}).
		AddTransition(fsm.Transition{From: []fsm.State{fsm.State(StateGameOver)}, To: fsm.State(StateMenu), Event: EventReturnMenu, Action: g.onReturnMenu})

	if err := g.machine.Build(); err != nil {
		// The transition table above is fixed at compile time; a build
		// failure here means a programming error in this file, not a
		// runtime/data condition a caller can recover from.
		panic("refgame: invalid transition table: " + err.Error())
	}
	return g
}

// GetState implements dispatch.StateAccessor.
func (g *Game) GetState(ctx context.Context) (statetag.StateTag, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return statetag.StateTag(g.machine.CurrentState()), nil
}

// transition drives the FSM under g's lock, since fsm.FSM's own actions
// mutate Game's fields directly without separately locking.
func (g *Game) transition(ctx context.Context, event fsm.Event, data interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.Transition(ctx, event, data)
}

func (g *Game) onStartRun(ctx context.Context, event fsm.Event, data interface{}) error {
	g.hand = []int{0, 1, 2, 3, 4, 5, 6, 7}
	g.discards = 3
	g.ante = 1
	return nil
}

func (g *Game) onSelectBlind(ctx context.Context, event fsm.Event, data interface{}) error {
	return nil
}

func (g *Game) onLeaveShop(ctx context.Context, event fsm.Event, data interface{}) error {
	g.ante++
	return nil
}

func (g *Game) onReturnMenu(ctx context.Context, event fsm.Event, data interface{}) error {
	g.money = 4
	g.jokers = nil
	g.shopSlots = nil
	return nil
}
