// Package rpcclient implements the RPC Client component of spec §4.10: a
// synchronous client over the line-framed JSON-RPC 2.0 transport the
// dispatcher speaks, grounded on original_source's BalatroClient (the id
// counter starting at zero and pre-incremented before send) and on the
// teacher repo's client construction conventions (public, defaulted fields;
// a plain constructor rather than a functional-options builder).
package rpcclient

// file: internal/rpcclient/client.go

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// DefaultPort is the dispatcher's default listen port, per spec §6.
const DefaultPort = 12346

// Client is a synchronous client holding one pooled TCP connection, redialed
// on demand when broken. Call and Close hold an internal mutex, so calls from
// several goroutines are serialized one request/response at a time over the
// single connection, matching the single-threaded-per-connection model
// described in spec §5.
type Client struct {
	Host    string
	Port    int
	Timeout time.Duration

	mu        sync.Mutex
	conn      net.Conn
	reader    *bufio.Reader
	requestID int64
}

// NewClient builds a Client targeting host:port. No connection is made until
// the first Call.
func NewClient(host string, port int, timeout time.Duration) *Client {
	if host == "" {
		host = "127.0.0.1"
	}
	if port == 0 {
		port = DefaultPort
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{Host: host, Port: port, Timeout: timeout}
}

// addr returns the host:port string to dial.
func (c *Client) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Close releases the pooled connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

func (c *Client) ensureConnLocked() error {
	if c.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", c.addr(), c.Timeout)
	if err != nil {
		return &ConnectionError{Addr: c.addr(), Cause: err}
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Call invokes method with params and returns its result object. A
// dispatcher-reported failure comes back as *APIError; a transport-level
// failure (dial, write, or read error) comes back as *ConnectionError —
// callers distinguish the two with errors.As, per spec §4.10.
func (c *Client) Call(method string, params map[string]interface{}) (map[string]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnLocked(); err != nil {
		return nil, err
	}

	c.requestID++
	if params == nil {
		params = map[string]interface{}{}
	}
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      c.requestID,
	}

	line, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: failed to encode request: %w", err)
	}
	line = append(line, '\n')

	if deadline := c.deadline(); !deadline.IsZero() {
		_ = c.conn.SetDeadline(deadline)
	}

	if _, err := c.conn.Write(line); err != nil {
		c.closeLocked()
		return nil, &ConnectionError{Addr: c.addr(), Cause: err}
	}

	respLine, err := c.reader.ReadString('\n')
	if err != nil {
		c.closeLocked()
		return nil, &ConnectionError{Addr: c.addr(), Cause: err}
	}

	var envelope struct {
		Result map[string]interface{} `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Data    struct {
				Name string `json:"name"`
			} `json:"data"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(respLine), &envelope); err != nil {
		return nil, fmt.Errorf("rpcclient: failed to decode response: %w", err)
	}

	if envelope.Error != nil {
		return nil, &APIError{
			Name:    envelope.Error.Data.Name,
			Message: envelope.Error.Message,
			Code:    envelope.Error.Code,
		}
	}
	return envelope.Result, nil
}

func (c *Client) deadline() time.Time {
	if c.Timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.Timeout)
}
