// Package schema implements the endpoint parameter schema and the Tier 2
// (Schema Validator) component of spec §3 and §4.5.
// file: internal/schema/validator.go
package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cardrpc/dispatcher/internal/rpcerr"
)

// maxSafeInteger is the largest integer exactly representable by a JSON
// number under the 53-bit mantissa of an IEEE-754 double, per spec §4.5.
const maxSafeInteger = 1 << 53

// Validate checks params against s, fail-fast on the first offending field,
// per spec §4.5. Missing optional fields and unknown fields in params are
// silently accepted.
func Validate(s Schema, params map[string]json.RawMessage) error {
	for _, field := range s {
		raw, present := params[field.Name]
		if !present {
			if field.Required {
				return rpcerr.NewSchemaError(
					fmt.Sprintf("Missing required field '%s'", field.Name),
					map[string]interface{}{"field": field.Name},
				)
			}
			continue
		}

		if err := checkType(field.Name, field.Type, field.ItemType, raw); err != nil {
			return err
		}
	}
	return nil
}

// checkType validates one field's raw JSON value against its declared type.
func checkType(name string, typ, itemType FieldType, raw json.RawMessage) error {
	switch typ {
	case TypeString:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return typeMismatch(name, typ)
		}
	case TypeBoolean:
		if !isJSONBool(raw) {
			return typeMismatch(name, typ)
		}
	case TypeInteger:
		if !isJSONInteger(raw) {
			return typeMismatch(name, typ)
		}
	case TypeArray:
		items, ok := decodeJSONArray(raw)
		if !ok {
			return typeMismatch(name, typ)
		}
		if itemType != "" {
			for i, item := range items {
				if err := checkType(name, itemType, "", item); err != nil {
					return rpcerr.NewSchemaError(
						fmt.Sprintf("Field '%s' array item at index %d must be of type %s", name, i, itemType),
						map[string]interface{}{"field": name, "index": i, "expected_type": string(itemType)},
					)
				}
			}
		}
	case TypeTable:
		if !isJSONObject(raw) {
			return typeMismatch(name, typ)
		}
	}
	return nil
}

func typeMismatch(name string, typ FieldType) error {
	return rpcerr.NewSchemaError(
		fmt.Sprintf("Field '%s' must be of type %s", name, typ),
		map[string]interface{}{"field": name, "expected_type": string(typ)},
	)
}

// isJSONBool reports whether raw is exactly the JSON literal true or false.
// Numbers and strings MUST fail, per spec §4.5/§8 property 4 — so this does
// not go through json.Unmarshal into a bool, which itself already rejects
// those, but is spelled out explicitly for clarity and to guard against a
// permissive decoder in the future.
func isJSONBool(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	_, ok := v.(bool)
	return ok
}

// isJSONInteger reports whether raw is a JSON number with no fractional part
// and within the 53-bit safe integer range, per spec §4.5/§8 property 5.
func isJSONInteger(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	f, ok := v.(float64)
	if !ok {
		return false
	}
	if math.Trunc(f) != f {
		return false
	}
	return f >= -maxSafeInteger && f <= maxSafeInteger
}

// decodeJSONArray reports whether raw is a JSON array and, if so, returns
// its elements as raw messages. json.Unmarshal into a slice also accepts the
// literal null (leaving it nil, with no error), so that case is rejected
// explicitly: an array-typed field holding null must fail, per spec §4.5.
func decodeJSONArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var probe interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if _, ok := probe.([]interface{}); !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// isJSONObject reports whether raw is a JSON object (and not an array or the
// literal null, both of which json.Unmarshal otherwise accepts into a map
// without error).
func isJSONObject(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	_, ok := v.(map[string]interface{})
	return ok
}
