package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEntryModulePath(t *testing.T) {
	tmpDir := t.TempDir()
	entryDir := filepath.Join(tmpDir, "cmd", "worker")
	if err := os.MkdirAll(entryDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	gomod := "module example.com/app\n\ngo 1.25\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte(gomod), 0644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	// Resolved from a nested entry directory via parent walk.
	got, err := EntryModulePath(entryDir)
	if err != nil {
		t.Fatalf("EntryModulePath() error = %v", err)
	}
	if got != "example.com/app" {
		t.Errorf("EntryModulePath() = %s, want example.com/app", got)
	}

	// And from the module root itself.
	got, err = EntryModulePath(tmpDir)
	if err != nil {
		t.Fatalf("EntryModulePath() error = %v", err)
	}
	if got != "example.com/app" {
		t.Errorf("EntryModulePath() = %s, want example.com/app", got)
	}
}

func TestEntryModulePathMissing(t *testing.T) {
	// The parent walk can legitimately find a go.mod above the temp
	// root on some setups; only the error kind is asserted.
	_, err := EntryModulePath(t.TempDir())
	if err != nil && !errors.Is(err, ErrEntryModuleUndetermined) {
		t.Errorf("EntryModulePath() error = %v, want ErrEntryModuleUndetermined", err)
	}
}

func TestEntryModulePathMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("modul example\n"), 0644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	_, err := EntryModulePath(tmpDir)
	if !errors.Is(err, ErrEntryModuleUndetermined) {
		t.Errorf("EntryModulePath() error = %v, want ErrEntryModuleUndetermined", err)
	}
}

func TestEntryModulePathNoModuleDecl(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("go 1.25\n"), 0644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	_, err := EntryModulePath(tmpDir)
	if !errors.Is(err, ErrEntryModuleUndetermined) {
		t.Errorf("EntryModulePath() error = %v, want ErrEntryModuleUndetermined", err)
	}
}
