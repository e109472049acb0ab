package preflight

import (
	"context"
	"os"

	"autosubsync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Warning marks a failed check that does not stop autosubsync working.
	Warning bool
	Detail  string
}

// RunAll executes the environment checks for cfg: the log and extraction
// directories, then the player socket.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Logging.Dir),
		CheckDirectoryAccess("Temp directory", os.TempDir()),
	}
	if !results[0].Passed {
		// The logger creates the directory on first use.
		results[0].Warning = true
	}
	results = append(results, CheckPlayer(ctx, cfg.MPV.SocketPath, cfg.MPV.DialTimeout))
	return results
}
