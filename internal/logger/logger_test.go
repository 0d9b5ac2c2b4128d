package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathUsesWorkdirWhenDirEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	if filepath.Base(got) != defaultFilename {
		t.Fatalf("filename want %s got %s", defaultFilename, filepath.Base(got))
	}
	if filepath.Base(filepath.Dir(got)) != defaultDirName {
		t.Fatalf("dir want %s got %s", defaultDirName, filepath.Dir(got))
	}
}

func TestReleaseModeWritesJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Info("console_release_probe")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), `"event":"console_release_probe"`) {
		t.Fatalf("expected json event field, got=%s", string(content))
	}
}

func TestDebugModeSkipsFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("console_debug_probe")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestResolveLevelHonorsExplicitLevel(t *testing.T) {
	if lvl := resolveLevel("warn", true); lvl.String() != "warn" {
		t.Fatalf("level want warn got %s", lvl.String())
	}
	if lvl := resolveLevel("", false); lvl.String() != "info" {
		t.Fatalf("level want info got %s", lvl.String())
	}
	if lvl := resolveLevel("bogus", true); lvl.String() != "debug" {
		t.Fatalf("level want debug got %s", lvl.String())
	}
}
