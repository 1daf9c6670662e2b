// Package rpc defines the JSON-RPC 2.0 request/response envelope this
// dispatcher speaks on the wire, per spec §3 and §6.
// file: internal/rpc/types.go
package rpc

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the literal "jsonrpc" value this module emits. A
// request that omits jsonrpc is treated as if it had sent this value; the
// dispatcher does not enforce that an inbound request's jsonrpc equals it
// (spec §4.3 — clients in this system always send it).
const ProtocolVersion = "2.0"

// ID is a tagged union over JSON-RPC's id: integer|string|null.
type ID struct {
	isSet   bool
	isInt   bool
	intVal  int64
	strVal  string
}

// NewIntID builds an integer request ID.
func NewIntID(v int64) ID { return ID{isSet: true, isInt: true, intVal: v} }

// NewStringID builds a string request ID.
func NewStringID(v string) ID { return ID{isSet: true, isInt: false, strVal: v} }

// IsNull reports whether this ID is the JSON-RPC null id (absent from the
// inbound request).
func (id ID) IsNull() bool { return !id.isSet }

// NullID is the zero ID, encoding as JSON null.
var NullID = ID{}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if !id.isSet {
		return []byte("null"), nil
	}
	if id.isInt {
		return json.Marshal(id.intVal)
	}
	return json.Marshal(id.strVal)
}

// UnmarshalJSON implements json.Unmarshaler, accepting a JSON number,
// string, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*id = ID{}
	case string:
		*id = NewStringID(v)
	case float64:
		*id = NewIntID(int64(v))
	default:
		return fmt.Errorf("rpc: id must be a number, string, or null, got %T", raw)
	}
	return nil
}

// String renders the ID for logging; not part of the wire format.
func (id ID) String() string {
	if !id.isSet {
		return "null"
	}
	if id.isInt {
		return fmt.Sprintf("%d", id.intVal)
	}
	return id.strVal
}

// Request is the strongly-typed form of an inbound envelope after it has
// cleared Tier 1 (Protocol Validator). Surplus wire keys are accepted and
// silently ignored, per spec §3.
type Request struct {
	JSONRPC string
	Method  string
	Params  json.RawMessage
	ID      ID
}
