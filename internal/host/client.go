// Package host speaks the extension-host message channel: a single
// websocket carrying JSON envelopes. The host pushes events (navigate
// requests); the UI issues calls (login, persist setting, reset state)
// matched to results by correlation id.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Envelope kinds. Anything else from the host is logged and dropped.
const (
	kindCall   = "call"
	kindResult = "result"

	// EventNavigate asks the UI to show a section or anchor.
	EventNavigate = "navigate"
)

// Call methods.
const (
	methodRequestLogin = "requestLogin"
	methodSetSetting   = "setSetting"
	methodResetState   = "resetState"
)

const eventBuffer = 16

// Event is a host-initiated message.
type Event struct {
	Kind   string `json:"kind"`
	Target string `json:"target,omitempty"`
}

// LoginResult is the payload of a successful requestLogin call.
type LoginResult struct {
	Account string `json:"account"`
	Token   string `json:"token"`
}

type envelope struct {
	ID     string          `json:"id,omitempty"`
	Kind   string          `json:"kind"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Target string          `json:"target,omitempty"`
	OK     bool            `json:"ok,omitempty"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type callResult struct {
	ok      bool
	errText string
	data    json.RawMessage
}

// Client is a connected message channel. Safe for concurrent use.
type Client struct {
	conn    *websocket.Conn
	log     *zap.Logger
	timeout time.Duration

	writeMu sync.Mutex // serializes WriteJSON

	mu      sync.Mutex
	pending map[string]chan callResult

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the host channel and starts the read loop. timeout
// bounds each call; events arrive on Events until the connection drops.
func Dial(ctx context.Context, url string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host: %w", err)
	}
	c := &Client{
		conn:    conn,
		log:     log,
		timeout: timeout,
		pending: map[string]chan callResult{},
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events exposes host-initiated messages. The channel is never closed;
// Done signals a dropped connection.
func (c *Client) Events() <-chan Event { return c.events }

// Done is closed when the read loop exits.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close sends a close frame and tears down the connection. Pending calls
// fail with a connection-closed error.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// RequestLogin asks the host to run its sign-in flow and reports the
// resulting account and token.
func (c *Client) RequestLogin(ctx context.Context) (LoginResult, error) {
	data, err := c.call(ctx, methodRequestLogin, nil)
	if err != nil {
		return LoginResult{}, err
	}
	var res LoginResult
	if err := json.Unmarshal(data, &res); err != nil {
		return LoginResult{}, fmt.Errorf("decode login result: %w", err)
	}
	return res, nil
}

// SetSetting asks the host to persist one boolean setting.
func (c *Client) SetSetting(ctx context.Context, key string, value bool) error {
	_, err := c.call(ctx, methodSetSetting, map[string]any{"key": key, "value": value})
	return err
}

// ResetState asks the host to clear its stored state.
func (c *Client) ResetState(ctx context.Context) error {
	_, err := c.call(ctx, methodResetState, nil)
	return err
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := uuid.NewString()
	ch := make(chan callResult, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	env := envelope{ID: id, Kind: kindCall, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode %s params: %w", method, err)
		}
		env.Params = raw
	}

	c.writeMu.Lock()
	err := c.conn.WriteJSON(env)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	select {
	case res := <-ch:
		if !res.ok {
			return nil, fmt.Errorf("%s: %s", method, res.errText)
		}
		return res.data, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", method, ctx.Err())
	case <-c.done:
		return nil, fmt.Errorf("%s: connection closed", method)
	}
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("host read ended", zap.Error(err))
			}
			c.failPending()
			return
		}
		switch env.Kind {
		case kindResult:
			c.mu.Lock()
			ch, ok := c.pending[env.ID]
			if ok {
				delete(c.pending, env.ID)
			}
			c.mu.Unlock()
			if !ok {
				c.log.Debug("unmatched result", zap.String("id", env.ID))
				continue
			}
			ch <- callResult{ok: env.OK, errText: env.Error, data: env.Data}
		case EventNavigate:
			select {
			case c.events <- Event{Kind: env.Kind, Target: env.Target}:
			default:
				c.log.Warn("event buffer full, dropping",
					zap.String("kind", env.Kind), zap.String("target", env.Target))
			}
		default:
			c.log.Debug("ignoring message", zap.String("kind", env.Kind))
		}
	}
}

// failPending answers every outstanding call so callers unblock before
// their timeout.
func (c *Client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.pending {
		ch <- callResult{ok: false, errText: "connection closed"}
		delete(c.pending, id)
	}
}
