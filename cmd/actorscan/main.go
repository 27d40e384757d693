// Package main provides the actorscan binary entry point.
// Actorscan statically discovers durable actor classes in a program's
// entry package and registers the unregistered ones in the deployment
// configuration, under a naming convention inferred from existing
// bindings.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"actorscan/config"
	"actorscan/naming"
	"actorscan/pipeline"
	"actorscan/prompt"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "actorscan"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		// Operator cancellation is an expected terminal condition, not
		// an error: exit 1 without a message.
		if errors.Is(err, prompt.ErrCancelled) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		entryPath  string
		styleName  string
		dryRun     bool
		assumeYes  bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "actorscan",
		Short: "Discover and register durable actor classes",
		Long: `Actorscan inspects the compiled type information of the configured
entry package, finds exported types structurally matching the actor base
shapes, and offers to register the ones missing from the deployment
config. Discovery is entirely static; the target program never runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, entryPath, styleName, dryRun, assumeYes, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Deployment config path (default: search parents for "+config.ConfigFileName+")")
	cmd.Flags().StringVar(&entryPath, "entry", "", "Override the config's declared entry package")
	cmd.Flags().StringVar(&styleName, "style", "", "Force a binding name style (camelCase, PascalCase, UPPER_SNAKE_CASE, lower_snake_case)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan and report without modifying the config")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Apply without the confirmation prompt")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(ctx context.Context, configPath, entryPath, styleName string, dryRun, assumeYes bool, logLevel string) error {
	// Configure logging
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	style, err := parseStyle(styleName)
	if err != nil {
		return err
	}

	cfg, err := config.NewLoader(logger).Load(configPath)
	if err != nil {
		return err
	}

	// Ctrl-C at any suspension point aborts cleanly.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, pipeline.Options{
		EntryOverride: entryPath,
		Style:         style,
		DryRun:        dryRun,
		AssumeYes:     assumeYes,
	}, prompt.NewTerminal(os.Stdin, os.Stdout), logger)

	_, err = runner.Run(ctx)
	return err
}

// parseStyle maps the --style flag to a naming.Style. An empty flag
// leaves style resolution to classification or the operator prompt.
func parseStyle(name string) (naming.Style, error) {
	if name == "" {
		return naming.StyleUndetermined, nil
	}
	s := naming.Style(name)
	if !s.Valid() {
		return naming.StyleUndetermined, fmt.Errorf("unknown style %q (valid: %s, %s, %s, %s)",
			name, naming.StyleCamel, naming.StylePascal, naming.StyleUpperSnake, naming.StyleLowerSnake)
	}
	return s, nil
}
