// Package dispatch implements the Dispatcher component of spec §4.9: it
// orchestrates the Frame Reader, JSON Decoder, and the four validation tiers,
// and owns the connection lifecycle.
package dispatch

// file: internal/dispatch/tier1.go

import (
	"encoding/json"

	"github.com/cardrpc/dispatcher/internal/registry"
	"github.com/cardrpc/dispatcher/internal/rpc"
	"github.com/cardrpc/dispatcher/internal/rpcerr"
)

// validateProtocol implements Tier 1 (Protocol Validator), per spec §4.3.
// It fails with a BAD_REQUEST-marked error if method is absent/non-string,
// params is absent/non-object, or method is not a registered endpoint name.
// jsonrpc and id default rather than fail when absent, per §4.3.
func validateProtocol(obj map[string]json.RawMessage, reg *registry.Registry) (rpc.Request, registry.Endpoint, error) {
	req := rpc.Request{JSONRPC: rpc.ProtocolVersion}

	if idRaw, present := obj["id"]; present {
		var id rpc.ID
		if err := json.Unmarshal(idRaw, &id); err != nil {
			return rpc.Request{}, registry.Endpoint{}, rpcerr.NewProtocolError(
				"Field 'id' must be an integer, string, or null", nil,
			)
		}
		req.ID = id
	}

	methodRaw, present := obj["method"]
	if !present {
		return req, registry.Endpoint{}, rpcerr.NewProtocolError("Missing required field 'method'", nil)
	}
	var method string
	if err := json.Unmarshal(methodRaw, &method); err != nil {
		return req, registry.Endpoint{}, rpcerr.NewProtocolError("Field 'method' must be a string", nil)
	}
	req.Method = method

	paramsRaw, present := obj["params"]
	if !present {
		return req, registry.Endpoint{}, rpcerr.NewProtocolError("Missing required field 'params'", map[string]interface{}{"method": method})
	}
	if !isJSONObject(paramsRaw) {
		return req, registry.Endpoint{}, rpcerr.NewProtocolError("Field 'params' must be an object", map[string]interface{}{"method": method})
	}
	req.Params = paramsRaw

	ep, ok := reg.Lookup(method)
	if !ok {
		return req, registry.Endpoint{}, rpcerr.NewProtocolError(
			"unknown method '"+method+"'",
			map[string]interface{}{"method": method},
		)
	}

	return req, ep, nil
}

// isJSONObject reports whether raw is a JSON object. json.Unmarshal into a
// map also accepts the literal null (leaving it nil, with no error), so that
// case is checked explicitly rather than trusted to the map decode.
func isJSONObject(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	_, ok := v.(map[string]interface{})
	return ok
}
