// file: internal/refgame/handlers.go
package refgame

import (
	"context"
	"encoding/json"

	"github.com/cardrpc/dispatcher/internal/rpcerr"
)

// handlePlay checks the named card indices against the hand and advances to
// ROUND_EVAL. It does no scoring and never moves the run to GAME_OVER;
// scoring is out of scope for the reference domain (see DESIGN.md).
func (g *Game) handlePlay(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var args struct {
		Cards []int `json:"cards"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, rpcerr.BadRequest("cards must be an array of integers")
	}

	g.mu.Lock()
	if len(args.Cards) == 0 {
		g.mu.Unlock()
		return nil, rpcerr.BadRequest("cards must not be empty")
	}
	for _, idx := range args.Cards {
		if idx < 0 || idx >= len(g.hand) {
			g.mu.Unlock()
			return nil, rpcerr.BadRequest("card index %d out of range", idx)
		}
	}
	g.mu.Unlock()

	if err := g.transition(ctx, EventPlayHand, args.Cards); err != nil {
		return nil, rpcerr.NotAllowed("cannot play hand: %v", err)
	}
	return map[string]interface{}{"state": string(StateRoundEval), "played": args.Cards}, nil
}

// handleDiscard checks the named card indices and spends one of the run's
// discards. The hand itself is left unchanged.
func (g *Game) handleDiscard(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var args struct {
		Cards []int `json:"cards"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, rpcerr.BadRequest("cards must be an array of integers")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.discards <= 0 {
		return nil, rpcerr.NotAllowed("no discards remaining")
	}
	for _, idx := range args.Cards {
		if idx < 0 || idx >= len(g.hand) {
			return nil, rpcerr.BadRequest("card index %d out of range", idx)
		}
	}
	g.discards--
	return map[string]interface{}{"discards_remaining": g.discards}, nil
}

// handleBuy purchases the shop item at the named slot.
func (g *Game) handleBuy(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var args struct {
		Slot int `json:"slot"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, rpcerr.BadRequest("slot must be an integer")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if args.Slot < 0 || args.Slot >= len(g.shopSlots) {
		return nil, rpcerr.BadRequest("shop slot %d does not exist", args.Slot)
	}
	const price = 5
	if g.money < price {
		return nil, rpcerr.NotAllowed("insufficient money: need %d, have %d", price, g.money)
	}
	item := g.shopSlots[args.Slot]
	g.money -= price
	g.jokers = append(g.jokers, item)
	return map[string]interface{}{"bought": item, "money": g.money}, nil
}

// handleSell liquidates a joker for half its purchase price.
func (g *Game) handleSell(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var args struct {
		JokerIndex int `json:"joker_index"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, rpcerr.BadRequest("joker_index must be an integer")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if args.JokerIndex < 0 || args.JokerIndex >= len(g.jokers) {
		return nil, rpcerr.BadRequest("joker index %d does not exist", args.JokerIndex)
	}
	sold := g.jokers[args.JokerIndex]
	g.jokers = append(g.jokers[:args.JokerIndex], g.jokers[args.JokerIndex+1:]...)
	g.money += 2
	return map[string]interface{}{"sold": sold, "money": g.money}, nil
}
