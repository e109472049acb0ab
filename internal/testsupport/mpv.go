package testsupport

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"
)

// FakeMPV is a minimal mpv JSON IPC server on a Unix socket. It answers
// get_property from a property table and acknowledges every other command.
type FakeMPV struct {
	Path string

	t        testing.TB
	listener net.Listener

	mu         sync.Mutex
	conn       net.Conn
	properties map[string]any
	failures   map[string]string
	commands   []json.RawMessage
	connected  chan struct{}
}

// NewFakeMPV listens on a fresh socket and serves one connection at a time.
func NewFakeMPV(t testing.TB) *FakeMPV {
	t.Helper()
	path := ShortSocketPath(t)
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	f := &FakeMPV{
		Path:       path,
		t:          t,
		listener:   listener,
		properties: map[string]any{},
		failures:   map[string]string{},
		connected:  make(chan struct{}),
	}
	t.Cleanup(func() {
		_ = listener.Close()
		f.mu.Lock()
		if f.conn != nil {
			_ = f.conn.Close()
		}
		f.mu.Unlock()
	})
	go f.serve()
	return f
}

// SetProperty sets the value returned for get_property name.
func (f *FakeMPV) SetProperty(name string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.properties[name] = value
}

// FailCommand makes every command named name reply with reason.
func (f *FakeMPV) FailCommand(name, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = reason
}

// Commands returns the raw command payloads received, excluding get_property.
func (f *FakeMPV) Commands() []json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]json.RawMessage(nil), f.commands...)
}

// CommandNames returns the name of each received command in order.
func (f *FakeMPV) CommandNames() []string {
	var names []string
	for _, raw := range f.Commands() {
		names = append(names, commandName(raw))
	}
	return names
}

// WaitConnected blocks until a client connects.
func (f *FakeMPV) WaitConnected() {
	f.t.Helper()
	select {
	case <-f.connected:
	case <-time.After(2 * time.Second):
		f.t.Fatal("fake mpv: no client connected")
	}
}

// Emit writes an event line to the connected client.
func (f *FakeMPV) Emit(event string, args ...string) error {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn == nil {
		return errors.New("fake mpv: no client")
	}
	payload, err := json.Marshal(map[string]any{"event": event, "args": args})
	if err != nil {
		return err
	}
	_, err = conn.Write(append(payload, '\n'))
	return err
}

// ClientMessage emits a client-message event, the shape key bindings produce.
func (f *FakeMPV) ClientMessage(args ...string) error {
	return f.Emit("client-message", args...)
}

// Disconnect closes the active client connection.
func (f *FakeMPV) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		_ = f.conn.Close()
	}
}

func (f *FakeMPV) serve() {
	first := true
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.conn = conn
		f.mu.Unlock()
		if first {
			close(f.connected)
			first = false
		}
		f.handle(conn)
	}
}

func (f *FakeMPV) handle(conn net.Conn) {
	reader := bufio.NewReader(conn)
	var writeMu sync.Mutex
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		var req struct {
			Command   json.RawMessage `json:"command"`
			RequestID int64           `json:"request_id"`
		}
		if json.Unmarshal(line, &req) != nil {
			continue
		}
		resp := f.respond(req.Command)
		resp["request_id"] = req.RequestID
		payload, _ := json.Marshal(resp)
		writeMu.Lock()
		_, _ = conn.Write(append(payload, '\n'))
		writeMu.Unlock()
	}
}

func (f *FakeMPV) respond(raw json.RawMessage) map[string]any {
	name := commandName(raw)

	f.mu.Lock()
	defer f.mu.Unlock()

	if name == "get_property" {
		var args []any
		_ = json.Unmarshal(raw, &args)
		if len(args) < 2 {
			return map[string]any{"error": "invalid parameter"}
		}
		prop, _ := args[1].(string)
		value, ok := f.properties[prop]
		if !ok {
			return map[string]any{"error": "property unavailable"}
		}
		return map[string]any{"error": "success", "data": value}
	}

	f.commands = append(f.commands, append(json.RawMessage(nil), raw...))
	if reason, ok := f.failures[name]; ok {
		return map[string]any{"error": reason}
	}
	return map[string]any{"error": "success"}
}

func commandName(raw json.RawMessage) string {
	var positional []any
	if json.Unmarshal(raw, &positional) == nil {
		if len(positional) > 0 {
			name, _ := positional[0].(string)
			return name
		}
		return ""
	}
	var named struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &named) == nil {
		return named.Name
	}
	return ""
}
