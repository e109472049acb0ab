// Package config loads, normalizes, and validates autosubsync configuration.
//
// Configuration is TOML, read once at startup from ~/.config/autosubsync or a
// project-local autosubsync.toml. Normalization expands paths and resolves
// every empty tool path to a concrete executable, so downstream packages never
// see a blank ffmpeg, ffsubsync or alass location. The embedded sample file
// backs `autosubsync config init`.
package config
