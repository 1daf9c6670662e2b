// file: internal/dispatch/tier3.go
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardrpc/dispatcher/internal/registry"
	"github.com/cardrpc/dispatcher/internal/rpcerr"
	"github.com/cardrpc/dispatcher/internal/statetag"
)

// StateAccessor is the collaborator's read-only view of its current
// application state, per spec §4.6/§6. The dispatcher never caches the
// result — each request re-reads it.
type StateAccessor interface {
	GetState(ctx context.Context) (statetag.StateTag, error)
}

// validateState implements Tier 3 (State Gate), per spec §4.6. If the
// endpoint's RequiredStates is empty, it passes unconditionally (the
// endpoint is stateless, e.g. "health"). Otherwise the current state must be
// a member of RequiredStates.
func validateState(ctx context.Context, ep registry.Endpoint, accessor StateAccessor) error {
	if ep.RequiredStates.Empty() {
		return nil
	}

	current, err := accessor.GetState(ctx)
	if err != nil {
		return rpcerr.NewStateError(
			fmt.Sprintf("failed to read current application state: %v", err),
			map[string]interface{}{"method": ep.Name},
		)
	}

	if ep.RequiredStates.Contains(current) {
		return nil
	}

	allowed := ep.RequiredStates.Sorted()
	return rpcerr.NewStateError(
		fmt.Sprintf("method '%s' requires one of these states: %s (current state: %s)",
			ep.Name, strings.Join(allowed, ", "), current),
		map[string]interface{}{"method": ep.Name, "current_state": string(current), "allowed_states": allowed},
	)
}
