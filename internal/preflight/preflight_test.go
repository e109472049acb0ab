package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"autosubsync/internal/config"
	"autosubsync/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckPlayer_Reachable(t *testing.T) {
	server := testsupport.NewFakeMPV(t)
	server.SetProperty("mpv-version", "mpv 0.38.0")

	result := CheckPlayer(context.Background(), server.Path, 1)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result.Detail != "mpv 0.38.0 at "+server.Path {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckPlayer_Missing(t *testing.T) {
	result := CheckPlayer(context.Background(), filepath.Join(t.TempDir(), "none.sock"), 1)
	if result.Passed || !result.Warning {
		t.Fatalf("expected warning, got %+v", result)
	}
}

func TestCheckSystemDeps_PinnedEngineMakesOtherOptional(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithPreferredEngine(config.EngineFFsubsync),
		testsupport.WithMissingTool("alass"),
	)

	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		switch status.Name {
		case "alass":
			if status.Available || !status.Optional {
				t.Fatalf("alass should be missing and optional: %+v", status)
			}
		default:
			if !status.Available || status.Optional {
				t.Fatalf("%s should be available and required: %+v", status.Name, status)
			}
		}
	}
}

func TestRunAllMissingLogDirIsWarning(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Passed || !results[0].Warning {
		t.Fatalf("missing log dir should warn: %+v", results[0])
	}
	if !results[1].Passed {
		t.Fatalf("temp dir should pass: %+v", results[1])
	}
	if results[2].Name != "mpv" {
		t.Fatalf("unexpected last check %+v", results[2])
	}
}
