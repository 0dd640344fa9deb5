package glazewm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultURL is GlazeWM's IPC server address.
const DefaultURL = "ws://localhost:6123"

const (
	messageClientResponse    = "client_response"
	messageEventSubscription = "event_subscription"
)

// ErrNoConnection is returned when the IPC server cannot be reached.
var ErrNoConnection = errors.New("glazewm: no connection")

// message is the envelope of every server message.
type message struct {
	MessageType    string          `json:"messageType"`
	ClientMessage  string          `json:"clientMessage,omitempty"`
	SubscriptionID string          `json:"subscriptionId,omitempty"`
	Data           json.RawMessage `json:"data"`
	Error          *string         `json:"error"`
	Success        bool            `json:"success"`
}

// Client issues request/response messages over a single IPC connection. The
// connection is dialed lazily and re-dialed after a failure.
type Client struct {
	mu          sync.Mutex
	url         string
	conn        *websocket.Conn
	dialer      websocket.Dialer
	readTimeout time.Duration
}

// NewClient creates a client for the IPC server at url.
func NewClient(url string, readTimeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if readTimeout <= 0 {
		readTimeout = 2 * time.Second
	}
	return &Client{
		url:         url,
		dialer:      websocket.Dialer{HandshakeTimeout: 2 * time.Second},
		readTimeout: readTimeout,
	}
}

// Close drops the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Request sends msg and returns the data of its matching client_response.
// Event messages interleaved on the connection are skipped.
func (c *Client) Request(ctx context.Context, msg string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoConnection, err)
		}
		c.conn = conn
	}

	deadline := time.Now().Add(c.readTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		c.drop()
		return nil, fmt.Errorf("glazewm: write %q: %w", msg, err)
	}

	c.conn.SetReadDeadline(deadline)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.drop()
			return nil, fmt.Errorf("glazewm: read %q: %w", msg, err)
		}
		var m message
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("glazewm: decode: %w", err)
		}
		if m.MessageType != messageClientResponse || m.ClientMessage != msg {
			continue
		}
		if !m.Success {
			reason := "unknown error"
			if m.Error != nil {
				reason = *m.Error
			}
			return nil, fmt.Errorf("glazewm: %q failed: %s", msg, reason)
		}
		return m.Data, nil
	}
}

func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
