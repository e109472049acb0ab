// Package ipc implements the client side of mpv's JSON IPC protocol over a
// Unix domain socket.
//
// Each command is one JSON line tagged with a request_id; a single reader
// goroutine matches replies to waiting callers and forwards unsolicited
// events on a buffered channel. Events that arrive while the channel is full
// are counted and dropped so a busy consumer never stalls command replies.
package ipc
