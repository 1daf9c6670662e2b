// file: internal/dispatch/integration_test.go
package dispatch

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()

	d := New(testRegistry(t), &fixedStateAccessor{state: stateMenu}, nil)
	srv, err := NewServer("127.0.0.1:0", d, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx)
	}()

	return srv.Addr().String(), func() {
		cancel()
		<-done
	}
}

// TestServer_PortExclusivity mirrors original_source's server startup test:
// a second listener on the same address must fail with "address in use".
func TestServer_PortExclusivity(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	_, err := net.Listen("tcp", addr)
	require.Error(t, err, "binding an already-bound address must fail")
	assert.Contains(t, strings.ToLower(err.Error()), "address already in use")
}

// TestServer_SequentialConnections exercises several connections in a row,
// each making one request and disconnecting, matching the accept-loop's
// single-threaded contract.
func TestServer_SequentialConnections(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	for i := 0; i < 5; i++ {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)

		_, err = conn.Write([]byte(`{"jsonrpc":"2.0","method":"health","params":{},"id":1}` + "\n"))
		require.NoError(t, err)

		line, err := bufio.NewReader(conn).ReadString('\n')
		require.NoError(t, err)
		assert.Contains(t, line, `"result"`)

		require.NoError(t, conn.Close())
	}
}

// TestServer_ImmediateDisconnectThenReconnect confirms a peer that closes
// before sending anything does not wedge the accept loop for the next
// connection.
func TestServer_ImmediateDisconnectThenReconnect(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn2, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn2.Close()

	_, err = conn2.Write([]byte(`{"jsonrpc":"2.0","method":"health","params":{},"id":1}` + "\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn2).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"result"`)
}

// TestServer_OversizeFrameThenRecovery mirrors scenario S5: a frame over
// 256 bytes (including terminator) draws BAD_REQUEST, and the connection
// stays open and usable for the next, valid request.
func TestServer_OversizeFrameThenRecovery(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	oversizeParams := `{"jsonrpc":"2.0","method":"health","params":{"padding":"` + strings.Repeat("x", 300) + `"},"id":1}`
	_, err = conn.Write([]byte(oversizeParams + "\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	var errBody struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(m["error"], &errBody))
	assert.Contains(t, errBody.Message, "too large")

	_, err = conn.Write([]byte(`{"jsonrpc":"2.0","method":"health","params":{},"id":2}` + "\n"))
	require.NoError(t, err)

	line2, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line2, `"result"`, "connection must remain usable after an oversize frame")
}

// TestServer_RequestsSerializedWithinConnection sends several health calls
// on one connection back to back and checks ids echo correctly and in order,
// per spec §8 property 2 and property 6 (idempotence of health).
func TestServer_RequestsSerializedWithinConnection(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	reader := bufio.NewReader(conn)
	for i := 1; i <= 3; i++ {
		_, err := conn.Write([]byte(`{"jsonrpc":"2.0","method":"health","params":{},"id":` + strconv.Itoa(i) + `}` + "\n"))
		require.NoError(t, err)

		line, err := reader.ReadString('\n')
		require.NoError(t, err)

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		var id int
		require.NoError(t, json.Unmarshal(m["id"], &id))
		assert.Equal(t, i, id)
		assert.Contains(t, line, `"status":"ok"`)
	}
}
