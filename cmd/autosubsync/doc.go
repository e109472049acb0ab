// Package main hosts the autosubsync CLI entrypoint and command graph.
//
// `run` attaches to a running mpv over its IPC socket and serves the sync
// menu until the player exits. The remaining commands work without the
// menu: `sync` performs one attempt directly, `tracks` lists the player's
// tracks, `extract` pulls an embedded subtitle to a file, `doctor` reports
// tool availability and `config` scaffolds and validates configuration.
package main
