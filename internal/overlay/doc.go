// Package overlay renders the selection menu as ASS drawing events and hands
// them to the player.
//
// Layout and Render are pure: the same items, selection and style always
// produce the same output. Presenter adds the player round trip and remembers
// the last canvas size for players that cannot report one on every call.
package overlay
