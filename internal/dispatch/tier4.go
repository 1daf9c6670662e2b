// file: internal/dispatch/tier4.go
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cardrpc/dispatcher/internal/registry"
	"github.com/cardrpc/dispatcher/internal/rpcerr"
)

// execute implements the Handler Executor (Tier 4), per spec §4.7. It
// invokes ep.Handler with the validated params and converts any uncaught
// panic into an INTERNAL_ERROR carrying the panic's text, so a handler fault
// never propagates past the dispatcher.
func execute(ctx context.Context, ep registry.Endpoint, params json.RawMessage) (result interface{}, execErr error) {
	defer func() {
		if r := recover(); r != nil {
			execErr = rpcerr.Internal("%v", r)
		}
	}()

	result, err := ep.Handler(ctx, params)
	if err == nil {
		return result, nil
	}

	var domainErr *rpcerr.DomainError
	if errors.As(err, &domainErr) {
		return nil, domainErr
	}

	// Any non-DomainError returned by a handler is treated as an unexpected
	// failure, per spec §4.7 ("any uncaught exception ... is converted to
	// INTERNAL_ERROR").
	return nil, rpcerr.Internal(fmt.Sprintf("%v", err))
}
