// Package refgame is the reference collaborator for the dispatcher: an
// example domain (a card-roguelike run) that supplies a StateAccessor and a
// set of registry.Endpoint handlers, grounded on original_source's method
// list (src/balatrobot/cli/api.py's Method enum) and exercising
// internal/fsm as the collaborator's own internal state machine — the
// dispatcher's Tier 3 never looks inside it, only at the StateTag it reports.
package refgame

// file: internal/refgame/states.go

import (
	"github.com/cardrpc/dispatcher/internal/statetag"
)

// The reference domain's state tags. The dispatcher core treats these as
// opaque; only this package and its FSM transitions understand their
// meaning.
const (
	StateMenu          statetag.StateTag = "MENU"
	StateBlindSelect   statetag.StateTag = "BLIND_SELECT"
	StateSelectingHand statetag.StateTag = "SELECTING_HAND"
	StateShop          statetag.StateTag = "SHOP"
	StateRoundEval     statetag.StateTag = "ROUND_EVAL"
	StateGameOver      statetag.StateTag = "GAME_OVER"
)

// Events the reference game's FSM responds to.
const (
	EventStartRun    = "start_run"
	EventSelectBlind = "select_blind"
	EventPlayHand    = "play_hand"
	EventContinue    = "continue_to_shop"
	EventLeaveShop   = "leave_shop"
	EventBust        = "bust"
	EventReturnMenu  = "return_menu"
)
