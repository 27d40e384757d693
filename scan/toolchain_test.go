package scan

import (
	"context"
	"os/exec"
	"testing"
)

func TestLocateToolchain(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not on PATH")
	}

	tc, err := LocateToolchain(context.Background(), testLogger())
	if err != nil {
		t.Fatalf("LocateToolchain() error = %v", err)
	}
	if tc.GoBinary == "" {
		t.Error("expected a go binary path")
	}
	if tc.GOROOT == "" {
		t.Error("expected a GOROOT from the probe")
	}
}
