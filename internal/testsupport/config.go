package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"autosubsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Tool paths point at executable stubs under BaseDir/bin that exit 0.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.MPV.SocketPath = ShortSocketPath(t)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	binDir := filepath.Join(base, "bin")
	cfgVal.Tools.SearchPaths = []string{binDir}
	cfgVal.Tools.FFmpegPath = WriteScript(t, binDir, "ffmpeg", "exit 0")
	cfgVal.Tools.FFsubsyncPath = WriteScript(t, binDir, "ffsubsync", "exit 0")
	cfgVal.Tools.AlassPath = WriteScript(t, binDir, "alass", "exit 0")

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPreferredEngine fixes sync.preferred_engine.
func WithPreferredEngine(engine string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.PreferredEngine = engine
	}
}

// WithMissingTool points the named tool at a path that does not exist.
func WithMissingTool(name string) ConfigOption {
	return func(b *configBuilder) {
		missing := filepath.Join(b.baseDir, "missing", name)
		switch name {
		case "ffmpeg":
			b.cfg.Tools.FFmpegPath = missing
		case "ffsubsync":
			b.cfg.Tools.FFsubsyncPath = missing
		case "alass":
			b.cfg.Tools.AlassPath = missing
		default:
			b.t.Fatalf("unknown tool %q", name)
		}
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffsubsync", "alass"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			WriteScript(b.t, binDir, name, "exit 0")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}

// ShortSocketPath returns a socket path short enough for sun_path limits.
func ShortSocketPath(t testing.TB) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ass")
	if err != nil {
		t.Fatalf("mkdir socket dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "mpv.sock")
}
