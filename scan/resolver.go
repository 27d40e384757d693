// Package scan discovers durable actor classes in a target Go program
// without executing it. It drives a type-checking session over the
// program's entry package and tests every exported named type for
// structural assignability to the recognized actor base shapes.
package scan

import (
	"context"
	"fmt"
	"go/types"
	"log/slog"
	"sort"

	"golang.org/x/tools/go/packages"
)

// BaseShapes names the package and interfaces that define what an actor
// looks like. The package is resolved inside the target's own import
// graph, never from this tool's build, so the target's pinned runtime
// version decides the shapes.
type BaseShapes struct {
	// Module is the import path of the runtime package.
	Module string
	// Actor is the class-style base interface name.
	Actor string
	// Entrypoint is the entrypoint-style base interface name.
	Entrypoint string
}

// Target identifies what a Resolver session analyzes.
type Target struct {
	// EntryDir is the resolved entry package directory.
	EntryDir string
	// Shapes configures base-shape recognition.
	Shapes BaseShapes
}

// Result is the outcome of a resolver session.
type Result struct {
	// Candidates holds the exported actor class names, sorted. Export
	// identifiers are unique within a package, so the slice is a set.
	Candidates []string
	// EntryPackage is the import path of the analyzed package.
	EntryPackage string
	// ModulePath is the target program's module path.
	ModulePath string
}

// Resolver hosts type-checking sessions against a located toolchain.
type Resolver struct {
	toolchain *Toolchain
	logger    *slog.Logger
}

// NewResolver creates a Resolver backed by the given toolchain.
func NewResolver(tc *Toolchain, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{toolchain: tc, logger: logger}
}

// Resolve type-checks the entry package and returns the actor candidates.
// Zero candidates is a legal outcome; load failures, a missing entry
// package, and missing base shapes are fatal setup errors.
func (r *Resolver) Resolve(ctx context.Context, target Target) (*Result, error) {
	modulePath, err := EntryModulePath(target.EntryDir)
	if err != nil {
		return nil, err
	}

	loadCfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedFiles |
			packages.NeedImports | packages.NeedDeps | packages.NeedTypes,
		Dir: target.EntryDir,
	}

	pkgs, err := packages.Load(loadCfg, ".")
	if err != nil {
		return nil, fmt.Errorf("loading entry package in %s: %w", target.EntryDir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEntryPackageMissing, target.EntryDir)
	}

	pkg := pkgs[0]
	for _, pkgErr := range pkg.Errors {
		return nil, fmt.Errorf("%w: %s: %s", ErrEntryPackageMissing, target.EntryDir, pkgErr.Msg)
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("%w: %s: no type information", ErrEntryPackageMissing, target.EntryDir)
	}

	bases, err := lookupBaseShapes(pkg.Types, target.Shapes, r.logger)
	if err != nil {
		return nil, err
	}

	candidates := MatchActorTypes(pkg.Types, bases)
	r.logger.Debug("Structural resolution complete",
		slog.String("package", pkg.Types.Path()),
		slog.String("module", modulePath),
		slog.Int("candidates", len(candidates)))

	return &Result{
		Candidates:   candidates,
		EntryPackage: pkg.Types.Path(),
		ModulePath:   modulePath,
	}, nil
}

// lookupBaseShapes locates the runtime package in the target's import
// graph and pulls out the declared base interfaces. At least one shape
// must resolve; a single missing shape is tolerated because older runtime
// versions predate the entrypoint base.
func lookupBaseShapes(root *types.Package, shapes BaseShapes, logger *slog.Logger) ([]*types.Interface, error) {
	runtime := findPackage(root, shapes.Module)
	if runtime == nil {
		return nil, fmt.Errorf("%w: %s is not imported by %s",
			ErrActorShapesNotFound, shapes.Module, root.Path())
	}

	var bases []*types.Interface
	for _, name := range []string{shapes.Actor, shapes.Entrypoint} {
		if name == "" {
			continue
		}
		iface := lookupInterface(runtime, name)
		if iface == nil {
			logger.Debug("Base shape not declared by runtime version",
				slog.String("module", shapes.Module),
				slog.String("shape", name))
			continue
		}
		bases = append(bases, iface)
	}

	if len(bases) == 0 {
		return nil, fmt.Errorf("%w: %s declares neither %s nor %s",
			ErrActorShapesNotFound, shapes.Module, shapes.Actor, shapes.Entrypoint)
	}
	return bases, nil
}

// findPackage walks the import graph breadth-first looking for the
// package with the given path. The root itself counts: a program may
// declare actors inside the runtime module.
func findPackage(root *types.Package, path string) *types.Package {
	if root.Path() == path {
		return root
	}

	seen := map[*types.Package]bool{root: true}
	queue := []*types.Package{root}
	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		for _, imp := range pkg.Imports() {
			if seen[imp] {
				continue
			}
			if imp.Path() == path {
				return imp
			}
			seen[imp] = true
			queue = append(queue, imp)
		}
	}
	return nil
}

// lookupInterface resolves an exported interface type by name.
func lookupInterface(pkg *types.Package, name string) *types.Interface {
	obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil
	}
	return iface
}

// MatchActorTypes returns the exported named types of pkg whose instances
// are assignable to any base shape. Both the value and pointer method
// sets are checked, so actors with pointer receivers qualify the same as
// value-receiver ones. Interface types never qualify: an actor is a
// concrete class.
func MatchActorTypes(pkg *types.Package, bases []*types.Interface) []string {
	scope := pkg.Scope()

	var matched []string
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !obj.Exported() {
			continue
		}

		t := obj.Type()
		if types.IsInterface(t) {
			continue
		}

		for _, base := range bases {
			if types.AssignableTo(t, base) || types.AssignableTo(types.NewPointer(t), base) {
				matched = append(matched, name)
				break
			}
		}
	}

	sort.Strings(matched)
	return matched
}
