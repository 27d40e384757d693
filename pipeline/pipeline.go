// Package pipeline wires discovery, reconciliation, style inference, and
// patch planning into the single-threaded run the CLI executes. External
// collaborators (the operator prompt and the config persistence) are
// injected ports so the pipeline itself stays deterministic under test.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"actorscan/config"
	"actorscan/naming"
	"actorscan/plan"
	"actorscan/prompt"
	"actorscan/scan"
)

// Discoverer yields the actor candidates of the target program.
type Discoverer interface {
	Discover(ctx context.Context) (*scan.Result, error)
}

// Applier persists a planned delta. It is invoked at most once per run,
// after explicit confirmation, with the fully-built delta.
type Applier interface {
	Apply(delta plan.Delta) error
}

// Options adjust a single run.
type Options struct {
	// EntryOverride replaces the config's declared entry point.
	EntryOverride string
	// Style forces a naming style, skipping classification and the
	// style prompt.
	Style naming.Style
	// DryRun plans and reports without prompting or mutating.
	DryRun bool
	// AssumeYes skips the confirmation prompt; the operator consented
	// up front via the flag.
	AssumeYes bool
}

// Report summarizes a completed run for the caller.
type Report struct {
	RunID        string
	EntryPackage string
	ModulePath   string
	Candidates   []string
	NetNew       []string
	Style        naming.Style
	// StyleSource is the binding category that decided the style, or
	// "flag" / "operator" when it was supplied explicitly.
	StyleSource string
	Delta       plan.Delta
	Applied     bool
}

// Runner executes the discovery-to-patch pipeline. All process state is
// threaded through explicitly; a Runner is safe to build fresh per run.
type Runner struct {
	cfg        *config.Config
	opts       Options
	discoverer Discoverer
	prompter   prompt.Prompter
	applier    Applier
	logger     *slog.Logger
	out        io.Writer
	now        func() time.Time
}

// NewRunner builds a Runner over the production collaborators. A nil
// discoverer defaults to the toolchain-backed structural scan and a nil
// applier to in-place config mutation.
func NewRunner(cfg *config.Config, opts Options, prompter prompt.Prompter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:        cfg,
		opts:       opts,
		discoverer: &scanDiscoverer{cfg: cfg, entryOverride: opts.EntryOverride, logger: logger},
		prompter:   prompter,
		applier:    &configApplier{cfg: cfg},
		logger:     logger,
		out:        os.Stdout,
		now:        time.Now,
	}
}

// WithDiscoverer replaces the discovery collaborator.
func (r *Runner) WithDiscoverer(d Discoverer) *Runner { r.discoverer = d; return r }

// WithApplier replaces the persistence collaborator.
func (r *Runner) WithApplier(a Applier) *Runner { r.applier = a; return r }

// WithOutput redirects console reporting.
func (r *Runner) WithOutput(w io.Writer) *Runner { r.out = w; return r }

// WithClock replaces the migration-tag clock.
func (r *Runner) WithClock(now func() time.Time) *Runner { r.now = now; return r }

// Run executes one full pipeline pass. It returns prompt.ErrCancelled
// when the operator cancels either interactive prompt; every other error
// is a fatal setup failure. A nil error with an empty delta means there
// was nothing to register.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID))

	result, err := r.discoverer.Discover(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:        runID,
		EntryPackage: result.EntryPackage,
		ModulePath:   result.ModulePath,
		Candidates:   result.Candidates,
	}

	netNew := plan.Reconcile(result.Candidates, r.cfg.RegisteredClassNames())
	report.NetNew = netNew
	logger.Debug("Reconciled candidates",
		slog.Int("discovered", len(result.Candidates)),
		slog.Int("net_new", len(netNew)))

	if len(netNew) == 0 {
		fmt.Fprintln(r.out, "No unregistered actor classes found.")
		return report, nil
	}

	style, source, err := r.resolveStyle(ctx, logger)
	if err != nil {
		return nil, err
	}
	report.Style = style
	report.StyleSource = source

	delta := plan.Build(netNew, style, r.now())
	report.Delta = delta

	summary := r.renderSummary(delta, source)
	fmt.Fprintln(r.out, summary)

	if r.opts.DryRun {
		logger.Info("Dry run, not applying", slog.Int("bindings", len(delta.Bindings)))
		return report, nil
	}

	if !r.opts.AssumeYes {
		ok, err := r.prompter.Confirm(ctx, fmt.Sprintf("About to add %d binding(s) and 1 migration.", len(delta.Bindings)))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, prompt.ErrCancelled
		}
	}

	if err := r.applier.Apply(delta); err != nil {
		return nil, fmt.Errorf("applying config delta: %w", err)
	}
	report.Applied = true

	fmt.Fprintf(r.out, "Registered %d actor class(es); migration %s recorded.\n",
		len(delta.Bindings), delta.Migration.Tag)
	logger.Info("Config delta applied",
		slog.Int("bindings", len(delta.Bindings)),
		slog.String("migration", delta.Migration.Tag))
	return report, nil
}

// resolveStyle picks the binding style for this run: the explicit flag,
// then classification over existing bindings, then the operator prompt.
// Whatever the source, the one resolved style names every binding in the
// delta.
func (r *Runner) resolveStyle(ctx context.Context, logger *slog.Logger) (naming.Style, string, error) {
	if r.opts.Style != naming.StyleUndetermined {
		return r.opts.Style, "flag", nil
	}

	categories := r.cfg.BindingCategories()

	// Surface per-category verdicts so a later category disagreeing
	// with the winner is visible rather than silently shadowed.
	for _, cat := range categories {
		if len(cat.Bindings) == 0 {
			continue
		}
		s, _, ok := naming.Classify([]naming.Category{cat})
		logger.Debug("Category style verdict",
			slog.String("category", cat.Name),
			slog.String("style", string(s)),
			slog.Bool("unanimous", ok))
	}

	if style, category, ok := naming.Classify(categories); ok {
		logger.Debug("Inferred binding style",
			slog.String("style", string(style)),
			slog.String("category", category))
		return style, category, nil
	}

	style, err := r.prompter.SelectStyle(ctx)
	if err != nil {
		return naming.StyleUndetermined, "", err
	}
	return style, "operator", nil
}

// renderSummary builds the human-readable report printed before the
// confirmation prompt.
func (r *Runner) renderSummary(delta plan.Delta, styleSource string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d unregistered actor class(es):\n", len(delta.Bindings))
	for _, binding := range delta.Bindings {
		fmt.Fprintf(&b, "  %s → %s\n", binding.Name, binding.ClassName)
	}
	fmt.Fprintf(&b, "Naming style: %s (from %s)", delta.Style, styleSource)
	return b.String()
}

// scanDiscoverer is the production Discoverer: locate the toolchain,
// resolve the entry package, and run the structural resolver against it.
type scanDiscoverer struct {
	cfg           *config.Config
	entryOverride string
	logger        *slog.Logger
}

func (d *scanDiscoverer) Discover(ctx context.Context) (*scan.Result, error) {
	toolchain, err := scan.LocateToolchain(ctx, d.logger)
	if err != nil {
		return nil, err
	}

	entry := d.entryOverride
	if entry == "" {
		entry = d.cfg.Main
	}
	entryDir, err := scan.ResolveEntry(d.cfg.Dir(), entry)
	if err != nil {
		return nil, err
	}

	resolver := scan.NewResolver(toolchain, d.logger)
	return resolver.Resolve(ctx, scan.Target{
		EntryDir: entryDir,
		Shapes: scan.BaseShapes{
			Module:     d.cfg.Runtime.Module,
			Actor:      d.cfg.Runtime.Actor,
			Entrypoint: d.cfg.Runtime.Entrypoint,
		},
	})
}

// configApplier merges the delta into the loaded config and writes it
// back, the single mutation of a run.
type configApplier struct {
	cfg *config.Config
}

func (a *configApplier) Apply(delta plan.Delta) error {
	a.cfg.ApplyDelta(delta)
	return a.cfg.Save()
}
