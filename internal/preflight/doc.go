// Package preflight runs the environment checks behind `autosubsync doctor`:
// external tool availability, directory access and whether mpv answers on
// the configured IPC socket.
package preflight
