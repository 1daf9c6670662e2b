// Package transport implements the line-framed TCP transport: the Frame
// Reader and JSON Decoder components of spec §4.1–§4.2.
// file: internal/transport/decode.go
package transport

import (
	"encoding/json"

	"github.com/cardrpc/dispatcher/internal/rpcerr"
)

// DecodeObject parses a trimmed frame as a JSON object, per spec §4.2.
// It rejects (with a BAD_REQUEST-marked error):
//   - frames that do not begin with '{' after trimming (including empty or
//     whitespace-only frames, which reduce to this case)
//   - frames that fail to parse as JSON
//   - frames whose root value is not an object
func DecodeObject(frame []byte) (map[string]json.RawMessage, error) {
	if len(frame) == 0 || frame[0] != '{' {
		return nil, rpcerr.NewProtocolError("request must be a JSON object", nil)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(frame, &obj); err != nil {
		return nil, rpcerr.NewProtocolError("failed to parse request as JSON", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	return obj, nil
}
