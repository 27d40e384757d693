package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// EntryModulePath finds the go.mod governing the entry directory and
// returns its declared module path. The target program's own module
// resolution configuration is what the type-checking session honors, so
// failing to find it is a fatal setup error.
func EntryModulePath(entryDir string) (string, error) {
	gomod, err := findGoMod(entryDir)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrEntryModuleUndetermined, gomod, err)
	}

	mf, err := modfile.Parse(gomod, data, nil)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrEntryModuleUndetermined, gomod, err)
	}
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		return "", fmt.Errorf("%w: %s declares no module path", ErrEntryModuleUndetermined, gomod)
	}
	return mf.Module.Mod.Path, nil
}

// findGoMod walks from dir to the filesystem root looking for go.mod.
func findGoMod(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntryModuleUndetermined, err)
	}

	for {
		candidate := filepath.Join(abs, "go.mod")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("%w: no go.mod above %s", ErrEntryModuleUndetermined, dir)
		}
		abs = parent
	}
}
