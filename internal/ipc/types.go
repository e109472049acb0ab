package ipc

import (
	"encoding/json"
	"time"
)

// request is one line written to the player socket.
type request struct {
	Command   any   `json:"command"`
	RequestID int64 `json:"request_id"`
}

// message is any line read back: a reply carries request_id, an event
// carries event.
type message struct {
	RequestID *int64          `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Event     string          `json:"event,omitempty"`
	Args      []string        `json:"args,omitempty"`
}

type reply struct {
	data json.RawMessage
	err  error
}

// Event is an asynchronous notification from the player.
type Event struct {
	Name       string
	Args       []string
	ReceivedAt time.Time
}

// OverlayCommand is the named-argument form of osd-overlay.
type OverlayCommand struct {
	Name   string `json:"name"`
	ID     int    `json:"id"`
	Format string `json:"format"`
	Data   string `json:"data"`
	ResX   int    `json:"res_x"`
	ResY   int    `json:"res_y"`
	Z      int    `json:"z"`
}
