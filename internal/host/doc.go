// Package host defines the player-facing types shared by the menu, the
// invokers, and the mpv adapter: tracks, key bindings, input events, and the
// Session interface every player integration satisfies.
package host
