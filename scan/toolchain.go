package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Toolchain is the located Go toolchain used to drive type checking.
// It is resolved once per run and threaded through the pipeline.
type Toolchain struct {
	// GoBinary is the absolute path of the go executable.
	GoBinary string
	// GOROOT is the toolchain root reported by the probe.
	GOROOT string
}

// LocateToolchain finds the go executable on PATH and probes it by
// spawning `go env GOROOT`. The probe is the pipeline's first suspension
// point; a missing or broken toolchain is a fatal setup error.
func LocateToolchain(ctx context.Context, logger *slog.Logger) (*Toolchain, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bin, err := exec.LookPath("go")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolchainNotFound, err)
	}

	out, err := exec.CommandContext(ctx, bin, "env", "GOROOT").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: probing %s: %v", ErrToolchainNotFound, bin, err)
	}

	tc := &Toolchain{
		GoBinary: bin,
		GOROOT:   strings.TrimSpace(string(out)),
	}
	logger.Debug("Located Go toolchain",
		slog.String("binary", tc.GoBinary),
		slog.String("goroot", tc.GOROOT))
	return tc, nil
}
