// file: internal/refgame/endpoints.go
package refgame

import (
	"context"
	"encoding/json"

	"github.com/cardrpc/dispatcher/internal/registry"
	"github.com/cardrpc/dispatcher/internal/rpcerr"
	"github.com/cardrpc/dispatcher/internal/schema"
	"github.com/cardrpc/dispatcher/internal/statetag"
)

// Endpoints returns the reference registry.Endpoint set for g, covering a
// representative slice of original_source's Method enum: health, start,
// menu, gamestate, select_blind, play, discard, skip_blind, cash_out,
// next_round, buy, reroll, sell.
func Endpoints(g *Game) []registry.Endpoint {
	return []registry.Endpoint{
		{
			Name:   "health",
			Schema: schema.Schema{},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				return map[string]interface{}{"status": "ok"}, nil
			},
		},
		{
			Name:   "gamestate",
			Schema: schema.Schema{},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				state, _ := g.GetState(ctx)
				g.mu.Lock()
				defer g.mu.Unlock()
				return map[string]interface{}{
					"state":    string(state),
					"money":    g.money,
					"ante":     g.ante,
					"discards": g.discards,
					"hand":     g.hand,
					"jokers":   g.jokers,
				}, nil
			},
			ReadsGameState: true,
		},
		{
			Name:   "menu",
			Schema: schema.Schema{},
			RequiredStates: statetag.Set{StateGameOver, StateMenu},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				g.mu.Lock()
				cur := g.machine.CurrentState()
				g.mu.Unlock()
				if string(cur) == string(StateMenu) {
					return map[string]interface{}{"state": string(StateMenu)}, nil
				}
				if err := g.transition(ctx, EventReturnMenu, nil); err != nil {
					return nil, rpcerr.NotAllowed("cannot return to menu: %v", err)
				}
				return map[string]interface{}{"state": string(StateMenu)}, nil
			},
			MutatesGameState: true,
		},
		{
			Name: "start",
			Schema: schema.Schema{
				{Name: "seed", Required: false, Type: schema.TypeString},
			},
			RequiredStates: statetag.Set{StateMenu},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				if err := g.transition(ctx, EventStartRun, nil); err != nil {
					return nil, rpcerr.NotAllowed("cannot start a run: %v", err)
				}
				return map[string]interface{}{"state": string(StateBlindSelect)}, nil
			},
			MutatesGameState: true,
		},
		{
			Name:           "select_blind",
			Schema:         schema.Schema{},
			RequiredStates: statetag.Set{StateBlindSelect},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				if err := g.transition(ctx, EventSelectBlind, nil); err != nil {
					return nil, rpcerr.NotAllowed("cannot select blind: %v", err)
				}
				return map[string]interface{}{"state": string(StateSelectingHand)}, nil
			},
			MutatesGameState: true,
		},
		{
			Name: "play",
			Schema: schema.Schema{
				{Name: "cards", Required: true, Type: schema.TypeArray, ItemType: schema.TypeInteger},
			},
			RequiredStates: statetag.Set{StateSelectingHand},
			Handler:        g.handlePlay,
			MutatesGameState: true,
		},
		{
			Name: "discard",
			Schema: schema.Schema{
				{Name: "cards", Required: true, Type: schema.TypeArray, ItemType: schema.TypeInteger},
			},
			RequiredStates: statetag.Set{StateSelectingHand},
			Handler:        g.handleDiscard,
			MutatesGameState: true,
		},
		{
			Name:           "skip_blind",
			Schema:         schema.Schema{},
			RequiredStates: statetag.Set{StateBlindSelect},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				g.mu.Lock()
				ante := g.ante
				g.mu.Unlock()
				if ante >= 8 {
					return nil, rpcerr.NotAllowed("the boss blind cannot be skipped")
				}
				return map[string]interface{}{"skipped": true}, nil
			},
		},
		{
			Name:           "cash_out",
			Schema:         schema.Schema{},
			RequiredStates: statetag.Set{StateRoundEval},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				if err := g.transition(ctx, EventContinue, nil); err != nil {
					return nil, rpcerr.NotAllowed("cannot cash out: %v", err)
				}
				g.mu.Lock()
				g.money += 5
				money := g.money
				g.mu.Unlock()
				return map[string]interface{}{"state": string(StateShop), "money": money}, nil
			},
			MutatesGameState: true,
		},
		{
			Name:           "next_round",
			Schema:         schema.Schema{},
			RequiredStates: statetag.Set{StateShop},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				if err := g.transition(ctx, EventLeaveShop, nil); err != nil {
					return nil, rpcerr.NotAllowed("cannot leave shop: %v", err)
				}
				return map[string]interface{}{"state": string(StateBlindSelect)}, nil
			},
			MutatesGameState: true,
		},
		{
			Name: "buy",
			Schema: schema.Schema{
				{Name: "slot", Required: true, Type: schema.TypeInteger},
			},
			RequiredStates: statetag.Set{StateShop},
			Handler:        g.handleBuy,
			MutatesGameState: true,
		},
		{
			Name:           "reroll",
			Schema:         schema.Schema{},
			RequiredStates: statetag.Set{StateShop},
			Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				g.mu.Lock()
				defer g.mu.Unlock()
				cost := 5 + g.rerolls
				if g.money < cost {
					return nil, rpcerr.NotAllowed("insufficient money to reroll: need %d, have %d", cost, g.money)
				}
				g.money -= cost
				g.rerolls++
				return map[string]interface{}{"money": g.money}, nil
			},
			MutatesGameState: true,
		},
		{
			Name: "sell",
			Schema: schema.Schema{
				{Name: "joker_index", Required: true, Type: schema.TypeInteger},
			},
			Handler:        g.handleSell,
			MutatesGameState: true,
		},
	}
}
