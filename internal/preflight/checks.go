package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"autosubsync/internal/config"
	"autosubsync/internal/deps"
	"autosubsync/internal/ipc"
)

// CheckPlayer verifies that mpv answers on socketPath. An unreachable player
// is a warning: autosubsync can be configured before mpv starts.
func CheckPlayer(ctx context.Context, socketPath string, timeoutSeconds int) Result {
	const name = "mpv"

	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	client, err := ipc.Dial(socketPath, timeout)
	if err != nil {
		return Result{Name: name, Warning: true, Detail: fmt.Sprintf("not reachable at %s", socketPath)}
	}
	defer client.Close()

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var version string
	if err := client.GetProperty(checkCtx, "mpv-version", &version); err != nil {
		return Result{Name: name, Warning: true, Detail: fmt.Sprintf("%s accepted the connection but did not answer (%v)", socketPath, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s at %s", version, socketPath)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tools for cfg. An engine is optional
// when the configuration pins the other one.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	preferred := cfg.Sync.PreferredEngine
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpegPath,
			Description: "Required to extract embedded subtitles",
		},
		{
			Name:        "ffsubsync",
			Command:     cfg.Tools.FFsubsyncPath,
			Description: "Sync engine",
			Optional:    preferred == config.EngineAlass,
		},
		{
			Name:        "alass",
			Command:     cfg.Tools.AlassPath,
			Description: "Sync engine",
			Optional:    preferred == config.EngineFFsubsync,
		},
	})
}
