package scan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"log/slog"
	"testing"
)

const runtimePath = "actorkit.dev/actorkit"

const runtimeSrc = `package actorkit

// Actor is the class-style base shape.
type Actor interface {
	DurableState() map[string][]byte
	HandleCall(method string, payload []byte) ([]byte, error)
}

// Entrypoint is the entrypoint-style base shape.
type Entrypoint interface {
	Serve(addr string) error
}
`

const workerSrc = `package worker

import "actorkit.dev/actorkit"

var _ actorkit.Actor = (*Counter)(nil)

// Counter implements Actor with pointer receivers.
type Counter struct{ n int }

func (c *Counter) DurableState() map[string][]byte { return nil }
func (c *Counter) HandleCall(method string, payload []byte) ([]byte, error) {
	return nil, nil
}

// ChatRoom implements Actor with value receivers.
type ChatRoom struct{}

func (ChatRoom) DurableState() map[string][]byte { return nil }
func (ChatRoom) HandleCall(method string, payload []byte) ([]byte, error) {
	return nil, nil
}

// Gateway implements only the entrypoint shape.
type Gateway struct{}

func (g *Gateway) Serve(addr string) error { return nil }

// Addressable is actor-shaped but an interface, so it is not a class.
type Addressable interface {
	DurableState() map[string][]byte
	HandleCall(method string, payload []byte) ([]byte, error)
}

// Helper matches neither shape.
type Helper struct{}

func (Helper) Reset() {}

// hidden matches the actor shape but is unexported.
type hidden struct{}

func (hidden) DurableState() map[string][]byte { return nil }
func (hidden) HandleCall(method string, payload []byte) ([]byte, error) {
	return nil, nil
}
`

// mapImporter resolves imports from pre-checked in-memory packages.
type mapImporter map[string]*types.Package

func (m mapImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := m[path]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("no package %q", path)
}

// checkPackage type-checks a single source file against the given
// importable packages.
func checkPackage(t *testing.T, path, src string, deps mapImporter) *types.Package {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path+"/src.go", src, 0)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}

	conf := types.Config{Importer: deps}
	pkg, err := conf.Check(path, fset, []*ast.File{file}, nil)
	if err != nil {
		t.Fatalf("check %s: %v", path, err)
	}
	return pkg
}

func checkWorker(t *testing.T) (worker, runtime *types.Package) {
	t.Helper()
	runtime = checkPackage(t, runtimePath, runtimeSrc, nil)
	worker = checkPackage(t, "example.com/app/cmd/worker", workerSrc, mapImporter{runtimePath: runtime})
	return worker, runtime
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMatchActorTypes(t *testing.T) {
	worker, _ := checkWorker(t)

	bases, err := lookupBaseShapes(worker, BaseShapes{
		Module:     runtimePath,
		Actor:      "Actor",
		Entrypoint: "Entrypoint",
	}, testLogger())
	if err != nil {
		t.Fatalf("lookupBaseShapes() error = %v", err)
	}
	if len(bases) != 2 {
		t.Fatalf("expected 2 base shapes, got %d", len(bases))
	}

	got := MatchActorTypes(worker, bases)
	want := []string{"ChatRoom", "Counter", "Gateway"}
	if len(got) != len(want) {
		t.Fatalf("MatchActorTypes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MatchActorTypes() = %v, want %v", got, want)
		}
	}
}

func TestMatchActorTypesSingleShape(t *testing.T) {
	worker, _ := checkWorker(t)

	// Only the class-style base: the entrypoint-only Gateway drops out.
	bases, err := lookupBaseShapes(worker, BaseShapes{
		Module: runtimePath,
		Actor:  "Actor",
	}, testLogger())
	if err != nil {
		t.Fatalf("lookupBaseShapes() error = %v", err)
	}

	got := MatchActorTypes(worker, bases)
	want := []string{"ChatRoom", "Counter"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("MatchActorTypes() = %v, want %v", got, want)
	}
}

func TestMatchActorTypesZeroCandidates(t *testing.T) {
	runtime := checkPackage(t, runtimePath, runtimeSrc, nil)
	plain := checkPackage(t, "example.com/plain", `package plain

type Widget struct{}

func (Widget) Render() string { return "" }
`, nil)

	bases := []*types.Interface{
		lookupInterface(runtime, "Actor"),
		lookupInterface(runtime, "Entrypoint"),
	}
	if got := MatchActorTypes(plain, bases); len(got) != 0 {
		t.Errorf("MatchActorTypes() = %v, want empty", got)
	}
}

func TestFindPackageTransitive(t *testing.T) {
	runtime := checkPackage(t, runtimePath, runtimeSrc, nil)
	mid := checkPackage(t, "example.com/app/internal/base", `package base

import "actorkit.dev/actorkit"

// Core re-exports the runtime base shape.
type Core = actorkit.Actor
`, mapImporter{runtimePath: runtime})
	app := checkPackage(t, "example.com/app/cmd/worker", `package worker

import "example.com/app/internal/base"

type Counter struct{}

var _ base.Core = Counter{}

func (Counter) DurableState() map[string][]byte { return nil }
func (Counter) HandleCall(method string, payload []byte) ([]byte, error) {
	return nil, nil
}
`, mapImporter{"example.com/app/internal/base": mid})

	if found := findPackage(app, runtimePath); found != runtime {
		t.Errorf("findPackage() = %v, want the runtime package", found)
	}
	if found := findPackage(app, "example.com/missing"); found != nil {
		t.Errorf("findPackage() = %v, want nil for missing package", found)
	}
	if found := findPackage(runtime, runtimePath); found != runtime {
		t.Error("findPackage() should find the root itself")
	}
}

func TestLookupBaseShapesMissingModule(t *testing.T) {
	plain := checkPackage(t, "example.com/plain", `package plain

type Widget struct{}
`, nil)

	_, err := lookupBaseShapes(plain, BaseShapes{
		Module:     runtimePath,
		Actor:      "Actor",
		Entrypoint: "Entrypoint",
	}, testLogger())
	if !errors.Is(err, ErrActorShapesNotFound) {
		t.Errorf("lookupBaseShapes() error = %v, want ErrActorShapesNotFound", err)
	}
}

func TestLookupBaseShapesNoInterfaces(t *testing.T) {
	runtime := checkPackage(t, runtimePath, `package actorkit

// Actor here is a struct, not a base shape.
type Actor struct{}
`, nil)
	worker := checkPackage(t, "example.com/app", `package app

import "actorkit.dev/actorkit"

var _ = actorkit.Actor{}
`, mapImporter{runtimePath: runtime})

	_, err := lookupBaseShapes(worker, BaseShapes{
		Module:     runtimePath,
		Actor:      "Actor",
		Entrypoint: "Entrypoint",
	}, testLogger())
	if !errors.Is(err, ErrActorShapesNotFound) {
		t.Errorf("lookupBaseShapes() error = %v, want ErrActorShapesNotFound", err)
	}
}

func TestLookupBaseShapesToleratesOneMissing(t *testing.T) {
	// A runtime version that predates the entrypoint base.
	runtime := checkPackage(t, runtimePath, `package actorkit

type Actor interface {
	DurableState() map[string][]byte
	HandleCall(method string, payload []byte) ([]byte, error)
}
`, nil)
	worker := checkPackage(t, "example.com/app", `package app

import "actorkit.dev/actorkit"

var _ actorkit.Actor = nil
`, mapImporter{runtimePath: runtime})

	bases, err := lookupBaseShapes(worker, BaseShapes{
		Module:     runtimePath,
		Actor:      "Actor",
		Entrypoint: "Entrypoint",
	}, testLogger())
	if err != nil {
		t.Fatalf("lookupBaseShapes() error = %v", err)
	}
	if len(bases) != 1 {
		t.Errorf("expected 1 base shape, got %d", len(bases))
	}
}
