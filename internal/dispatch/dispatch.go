// Package dispatch implements the Dispatcher component of spec §4.9: it
// orchestrates the Frame Reader, JSON Decoder, and the four validation tiers,
// and owns the connection lifecycle.
// file: internal/dispatch/dispatch.go
package dispatch

import (
	"context"
	"encoding/json"

	"github.com/cardrpc/dispatcher/internal/logging"
	"github.com/cardrpc/dispatcher/internal/registry"
	"github.com/cardrpc/dispatcher/internal/rpc"
	"github.com/cardrpc/dispatcher/internal/rpcerr"
	"github.com/cardrpc/dispatcher/internal/schema"
	"github.com/cardrpc/dispatcher/internal/transport"
)

// Dispatcher processes one decoded frame through the four-tier pipeline and
// produces the response envelope, per the state machine in spec §4.9:
//
//	START → READ_FRAME → (oversize? → ERR) → DECODE_JSON → (bad? → ERR)
//	      → TIER1 → (bad? → ERR) → REGISTRY_LOOKUP → (miss? → ERR)
//	      → TIER2 → (bad? → ERR) → TIER3 → (bad? → ERR)
//	      → TIER4 → (err? → ERR) → SUCCESS → WRITE → START
//	ERR → WRITE → START
//
// Frame-level concerns (reading/oversize handling) live in Server.Serve;
// this type owns everything from "decoded JSON object" onward.
type Dispatcher struct {
	registry *registry.Registry
	state    StateAccessor
	logger   logging.Logger
}

// New builds a Dispatcher over reg, reading application state through state.
func New(reg *registry.Registry, state StateAccessor, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Dispatcher{registry: reg, state: state, logger: logger.WithField("component", "dispatcher")}
}

// HandleFrame runs one already-trimmed, size-checked frame through the JSON
// Decoder and all four tiers, and returns the response envelope to write.
// It never returns an error itself — every failure becomes an Envelope, per
// spec §3 invariant 4 (every accepted frame yields exactly one response).
func (d *Dispatcher) HandleFrame(ctx context.Context, frame []byte) rpc.Envelope {
	obj, err := transport.DecodeObject(frame)
	if err != nil {
		return d.errorEnvelope(rpc.NullID, err)
	}

	req, ep, err := validateProtocol(obj, d.registry)
	if err != nil {
		return d.errorEnvelope(req.ID, err)
	}

	var params map[string]json.RawMessage
	if err := json.Unmarshal(req.Params, &params); err != nil {
		// Tier 1 already confirmed params is a JSON object; this cannot fail
		// in practice, but guards against a future Tier 1 relaxation.
		return d.errorEnvelope(req.ID, rpcerr.NewProtocolError("Field 'params' must be an object", nil))
	}
	if err := schema.Validate(ep.Schema, params); err != nil {
		return d.errorEnvelope(req.ID, err)
	}

	if err := validateState(ctx, ep, d.state); err != nil {
		return d.errorEnvelope(req.ID, err)
	}

	result, err := execute(ctx, ep, req.Params)
	if err != nil {
		return d.errorEnvelope(req.ID, err)
	}

	env, err := rpc.Success(req.ID, result)
	if err != nil {
		d.logger.Error("failed to marshal handler result", "method", ep.Name, "error", err)
		return rpc.Failure(req.ID, rpcerr.KindInternalError, "failed to encode result")
	}
	return env
}

// errorEnvelope classifies err into its Kind and builds the corresponding
// error envelope. id is rpc.NullID when Tier 1 never extracted one, per
// spec §3 invariant 4.
func (d *Dispatcher) errorEnvelope(id rpc.ID, err error) rpc.Envelope {
	kind := rpcerr.KindOf(err)
	return rpc.Failure(id, kind, err.Error())
}
