// Package schema implements the endpoint parameter schema and the Tier 2
// (Schema Validator) component of spec §3 and §4.5.
// file: internal/schema/contract.go
package schema

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeMetaSchema describes the wire shape of a JSON-RPC 2.0 envelope
// this module emits: exactly one of "result"/"error", per spec §3. It is
// used only as a contract check in tests (internal/rpc's envelope tests) —
// it is not consulted on the hot
// path, which is why this lives alongside the hand-rolled FieldDescriptor
// validator rather than replacing it. spec §3/§4.5 deliberately keeps the
// per-endpoint params schema flatter than JSON Schema can express (no nested
// objects, no enums, no ranges), so the full jsonschema/v5 engine is reserved
// for this cross-cutting contract role instead.
const envelopeMetaSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["jsonrpc", "id"],
  "oneOf": [
    {"required": ["result"], "not": {"required": ["error"]}},
    {"required": ["error"], "not": {"required": ["result"]}}
  ],
  "properties": {
    "jsonrpc": {"const": "2.0"},
    "result": {"type": "object"},
    "error": {
      "type": "object",
      "required": ["code", "message", "data"],
      "properties": {
        "code": {"type": "integer"},
        "message": {"type": "string"},
        "data": {
          "type": "object",
          "required": ["name"],
          "properties": {
            "name": {"type": "string", "enum": ["BAD_REQUEST", "INVALID_STATE", "NOT_ALLOWED", "INTERNAL_ERROR"]}
          }
        }
      }
    },
    "id": {"type": ["integer", "string", "null"]}
  }
}`

// CompileEnvelopeContract compiles the response/error envelope meta-schema.
// Callers decode a candidate envelope's JSON into an interface{} and pass
// it to the returned schema's Validate method.
func CompileEnvelopeContract() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	const resourceName = "envelope.json"
	if err := compiler.AddResource(resourceName, strings.NewReader(envelopeMetaSchema)); err != nil {
		return nil, fmt.Errorf("schema.CompileEnvelopeContract: failed to add resource: %w", err)
	}
	sch, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("schema.CompileEnvelopeContract: failed to compile: %w", err)
	}
	return sch, nil
}
