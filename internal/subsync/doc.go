// Package subsync runs ffsubsync or alass against a subtitle file and loads
// the retimed output into the player.
//
// An Invoker checks the engine executable and the input subtitle, runs the
// engine to completion, adds the "<name>_retimed<ext>" result as a new track
// and optionally unloads the track it replaces. Each failure carries one of
// the services taxonomy markers.
package subsync
