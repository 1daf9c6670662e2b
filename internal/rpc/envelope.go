// Package rpc defines the JSON-RPC 2.0 request/response envelope this
// dispatcher speaks on the wire, per spec §3 and §6.
// file: internal/rpc/envelope.go
package rpc

import (
	"encoding/json"

	"github.com/cardrpc/dispatcher/internal/rpcerr"
)

// errorBody is the wire shape of the "error" object: {code, message, data}.
type errorBody struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    errorData `json:"data"`
}

// errorData carries the machine-readable error kind, per spec §3/§4.8.
type errorData struct {
	Name string `json:"name"`
}

// envelopeWire is the exact field layout of an emitted response. Exactly one
// of Result/Error is set (the Response Encoder's XOR invariant, spec §8
// property 1); this is enforced structurally by Envelope's constructors
// rather than left to caller discipline.
type envelopeWire struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *errorBody      `json:"error,omitempty"`
	ID      ID              `json:"id"`
}

// Envelope is a JSON-RPC 2.0 response: either a success carrying a result
// object, or an error carrying a structured failure. Construct one with
// Success or Failure, never by assigning fields directly.
type Envelope struct {
	wire envelopeWire
}

// Success builds a success envelope. result must marshal to a JSON object;
// per spec §3, result is always an object, never a bare primitive.
func Success(id ID, result interface{}) (Envelope, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Envelope{}, err
	}
	if !isJSONObject(raw) {
		raw, err = json.Marshal(map[string]interface{}{})
		if err != nil {
			return Envelope{}, err
		}
	}
	return Envelope{wire: envelopeWire{JSONRPC: ProtocolVersion, Result: raw, ID: id}}, nil
}

// Failure builds an error envelope from a Kind and message: the code is
// kind.Code() and the kind name is placed at error.data.name.
func Failure(id ID, kind rpcerr.Kind, message string) Envelope {
	return Envelope{wire: envelopeWire{
		JSONRPC: ProtocolVersion,
		Error: &errorBody{
			Code:    kind.Code(),
			Message: message,
			Data:    errorData{Name: string(kind)},
		},
		ID: id,
	}}
}

// MarshalJSON implements json.Marshaler by serializing the wire struct
// compactly. json.Marshal already omits the empty side via `omitempty`, so
// the XOR invariant holds for every Envelope ever constructed through
// Success/Failure.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.wire)
}

// Encode serializes the envelope as a single newline-terminated line, per
// spec §3 invariant 1 (every wire response is a single line ending with \n;
// responses never contain embedded newlines).
func (e Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e.wire)
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')
	return data, nil
}

// isJSONObject reports whether raw's outermost JSON value is an object.
func isJSONObject(raw json.RawMessage) bool {
	var probe interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	_, ok := probe.(map[string]interface{})
	return ok
}
