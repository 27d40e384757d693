// Package plan reconciles discovered actor classes against existing
// registrations and builds the configuration delta for a run. It performs
// no I/O; the delta is handed to the config layer to apply.
package plan

import (
	"sort"
	"strings"
	"time"

	"actorscan/naming"
)

// migrationTagTimeFormat renders the UTC timestamp component of a
// migration tag. Compact ISO-8601 so tags stay filename-safe.
const migrationTagTimeFormat = "20060102T150405Z"

// Binding is one planned actor registration.
type Binding struct {
	// Name is the binding name rendered in the run's resolved style.
	Name string
	// ClassName is the exported class identifier being registered.
	ClassName string
}

// Migration is the single versioned record a run appends to the
// migration history.
type Migration struct {
	Tag string
	// NewSQLiteClasses lists the class identifiers this migration
	// introduces, sorted for deterministic output.
	NewSQLiteClasses []string
}

// Delta is the planned configuration mutation: bindings to merge plus one
// migration record. A Delta is built once at the end of the pipeline and
// never mutated afterward.
type Delta struct {
	Style     naming.Style
	Bindings  []Binding
	Migration Migration
}

// Empty reports whether the delta contains nothing to apply.
func (d Delta) Empty() bool {
	return len(d.Bindings) == 0
}

// ClassNames returns the class identifiers covered by the delta.
func (d Delta) ClassNames() []string {
	names := make([]string, 0, len(d.Bindings))
	for _, b := range d.Bindings {
		names = append(names, b.ClassName)
	}
	return names
}

// Reconcile computes discovered minus existing over name equality.
// The result is sorted, duplicate-free, and independent of input order;
// reconciling the result against the same existing set is a no-op.
func Reconcile(discovered, existing []string) []string {
	registered := make(map[string]bool, len(existing))
	for _, name := range existing {
		registered[name] = true
	}

	seen := make(map[string]bool, len(discovered))
	var netNew []string
	for _, name := range discovered {
		if registered[name] || seen[name] {
			continue
		}
		seen[name] = true
		netNew = append(netNew, name)
	}

	sort.Strings(netNew)
	return netNew
}

// Build constructs the delta for the given net-new class identifiers.
// Every binding name is rendered with the same style; the migration tag
// concatenates the UTC timestamp with the sorted class list so repeated
// runs stay unique and auditable. An empty input yields an empty delta.
func Build(netNew []string, style naming.Style, now time.Time) Delta {
	if len(netNew) == 0 {
		return Delta{Style: style}
	}

	classes := append([]string(nil), netNew...)
	sort.Strings(classes)

	bindings := make([]Binding, 0, len(classes))
	for _, class := range classes {
		bindings = append(bindings, Binding{
			Name:      naming.Transcode(class, style),
			ClassName: class,
		})
	}

	return Delta{
		Style:    style,
		Bindings: bindings,
		Migration: Migration{
			Tag:              now.UTC().Format(migrationTagTimeFormat) + "-" + strings.Join(classes, "-"),
			NewSQLiteClasses: classes,
		},
	}
}
