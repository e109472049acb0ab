// Package mpv adapts a running mpv player, reached over its JSON IPC socket,
// to the host.Session interface.
//
// Key bindings are installed as input sections whose keys emit
// "script-message autosubsync <event>"; Inputs turns those client-message
// events back into host.Input values. The menu overlay is painted with the
// osd-overlay command in ass-events format.
package mpv
