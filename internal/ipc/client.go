package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned for requests issued after the connection ended.
var ErrClosed = errors.New("ipc connection closed")

const eventBuffer = 256

// Client speaks the mpv JSON IPC protocol over a Unix socket. Replies are
// matched to requests by request_id; events are fanned out on Events.
type Client struct {
	conn net.Conn

	writeMu sync.Mutex
	nextID  atomic.Int64

	mu      sync.Mutex
	pending map[int64]chan reply
	err     error

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
}

// Dial connects to the player socket at path.
func Dial(path string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection and starts its reader.
func NewClient(conn net.Conn) *Client {
	c := &Client{
		conn:    conn,
		pending: make(map[int64]chan reply),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Events delivers player events. It is closed when the connection ends.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Done is closed once the reader exits.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err reports why the connection ended, if it has.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Dropped counts events discarded because nobody was reading.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// Command sends a positional command such as ["sub-add", path].
func (c *Client) Command(ctx context.Context, args ...any) (json.RawMessage, error) {
	return c.call(ctx, args)
}

// CommandNamed sends a command using named arguments.
func (c *Client) CommandNamed(ctx context.Context, command any) (json.RawMessage, error) {
	return c.call(ctx, command)
}

// GetProperty decodes a player property into out.
func (c *Client) GetProperty(ctx context.Context, name string, out any) error {
	data, err := c.call(ctx, []any{"get_property", name})
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode property %s: %w", name, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, command any) (json.RawMessage, error) {
	id := c.nextID.Add(1)
	ch := make(chan reply, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	payload, err := json.Marshal(request{Command: command, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("encode command: %w", err)
	}
	payload = append(payload, '\n')

	c.writeMu.Lock()
	_, err = c.conn.Write(payload)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("write command: %w", err)
	}

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) readLoop() {
	reader := bufio.NewReader(c.conn)
	var readErr error
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			c.dispatch(line)
		}
		if err != nil {
			readErr = err
			break
		}
	}
	c.shutdown(readErr)
}

func (c *Client) dispatch(line []byte) {
	var msg message
	if err := json.Unmarshal(line, &msg); err != nil {
		return
	}
	if msg.Event != "" {
		event := Event{Name: msg.Event, Args: msg.Args, ReceivedAt: time.Now()}
		select {
		case c.events <- event:
		default:
			c.dropped.Add(1)
		}
		return
	}
	if msg.RequestID == nil {
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[*msg.RequestID]
	delete(c.pending, *msg.RequestID)
	c.mu.Unlock()
	if !ok {
		return
	}

	r := reply{data: msg.Data}
	if msg.Error != "" && msg.Error != "success" {
		r.err = &CommandError{Reason: msg.Error}
	}
	ch <- r
}

func (c *Client) shutdown(cause error) {
	c.mu.Lock()
	if cause == nil {
		cause = ErrClosed
	}
	c.err = fmt.Errorf("%w: %v", ErrClosed, cause)
	pending := c.pending
	c.pending = make(map[int64]chan reply)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- reply{err: c.err}
	}
	close(c.events)
	close(c.done)
	_ = c.Close()
}

// CommandError is a failure reported by the player for one command.
type CommandError struct {
	Reason string
}

func (e *CommandError) Error() string {
	return "player rejected command: " + e.Reason
}
