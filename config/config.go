// Package config models the deployment configuration actorscan reads and
// patches. The file carries the program entry point, the named-binding
// collections used for style inference, the registered actor bindings, and
// the append-only migration history.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"actorscan/naming"
	"actorscan/plan"
)

// DefaultRuntimeModule is the import path searched for the actor base
// shapes when the config does not declare one.
const DefaultRuntimeModule = "actorkit.dev/actorkit"

// Config is the deployment configuration. Binding collections are kept in
// the classifier's priority order: kv namespaces, services, relational
// databases, vector indexes.
type Config struct {
	// Main is the program entry package, relative to the config file.
	// It may contain glob characters; resolution happens in the scan
	// layer.
	Main string `yaml:"main"`

	Runtime RuntimeConfig `yaml:"runtime,omitempty"`

	KVNamespaces []KVNamespace    `yaml:"kv_namespaces,omitempty"`
	Services     []ServiceBinding `yaml:"services,omitempty"`
	D1Databases  []D1Database     `yaml:"d1_databases,omitempty"`
	Vectorize    []VectorizeIndex `yaml:"vectorize,omitempty"`

	DurableObjects DurableObjects `yaml:"durable_objects,omitempty"`
	Migrations     []Migration    `yaml:"migrations,omitempty"`

	// path is where the config was loaded from; not serialized.
	path string
}

// RuntimeConfig names the package and interfaces that define the actor
// base shapes. The module is resolved inside the target program's own
// import graph so version-specific shapes are honored.
type RuntimeConfig struct {
	// Module is the import path declaring the base interfaces.
	Module string `yaml:"module"`
	// Actor is the class-style base interface name.
	Actor string `yaml:"actor,omitempty"`
	// Entrypoint is the entrypoint-style base interface name.
	Entrypoint string `yaml:"entrypoint,omitempty"`
}

// KVNamespace is a key-value store binding.
type KVNamespace struct {
	Binding string `yaml:"binding"`
	ID      string `yaml:"id,omitempty"`
}

// ServiceBinding is a named reference to another deployed service.
type ServiceBinding struct {
	Binding string `yaml:"binding"`
	Service string `yaml:"service,omitempty"`
}

// D1Database is a relational database binding.
type D1Database struct {
	Binding    string `yaml:"binding"`
	DatabaseID string `yaml:"database_id,omitempty"`
}

// VectorizeIndex is a vector index binding.
type VectorizeIndex struct {
	Binding   string `yaml:"binding"`
	IndexName string `yaml:"index_name,omitempty"`
}

// DurableObjects holds the registered actor bindings.
type DurableObjects struct {
	Bindings []ActorBinding `yaml:"bindings,omitempty"`
}

// ActorBinding registers one actor class under a binding name.
type ActorBinding struct {
	Name      string `yaml:"name"`
	ClassName string `yaml:"class_name"`
}

// Migration is one append-only entry in the migration history.
type Migration struct {
	Tag              string   `yaml:"tag"`
	NewSQLiteClasses []string `yaml:"new_sqlite_classes,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Module:     DefaultRuntimeModule,
			Actor:      "Actor",
			Entrypoint: "Entrypoint",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.path = abs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the absolute path the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory containing the config file. Relative entry
// paths resolve against it.
func (c *Config) Dir() string {
	if c.path == "" {
		return "."
	}
	return filepath.Dir(c.path)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Runtime.Module == "" {
		return fmt.Errorf("runtime.module is required")
	}
	if c.Runtime.Actor == "" {
		return fmt.Errorf("runtime.actor is required")
	}
	if c.Runtime.Entrypoint == "" {
		return fmt.Errorf("runtime.entrypoint is required")
	}
	seen := make(map[string]bool)
	for _, m := range c.Migrations {
		if m.Tag == "" {
			return fmt.Errorf("migration with empty tag")
		}
		if seen[m.Tag] {
			return fmt.Errorf("duplicate migration tag: %s", m.Tag)
		}
		seen[m.Tag] = true
	}
	return nil
}

// BindingCategories returns the named-binding collections in the fixed
// priority order the style classifier consumes.
func (c *Config) BindingCategories() []naming.Category {
	kv := make([]string, 0, len(c.KVNamespaces))
	for _, b := range c.KVNamespaces {
		kv = append(kv, b.Binding)
	}
	services := make([]string, 0, len(c.Services))
	for _, b := range c.Services {
		services = append(services, b.Binding)
	}
	d1 := make([]string, 0, len(c.D1Databases))
	for _, b := range c.D1Databases {
		d1 = append(d1, b.Binding)
	}
	vectorize := make([]string, 0, len(c.Vectorize))
	for _, b := range c.Vectorize {
		vectorize = append(vectorize, b.Binding)
	}

	return []naming.Category{
		{Name: "kv_namespaces", Bindings: kv},
		{Name: "services", Bindings: services},
		{Name: "d1_databases", Bindings: d1},
		{Name: "vectorize", Bindings: vectorize},
	}
}

// RegisteredClassNames returns the class identifiers already bound as
// actors. Older configs may carry bindings without a class_name; those
// fall back to the binding name so they are never re-proposed.
func (c *Config) RegisteredClassNames() []string {
	names := make([]string, 0, len(c.DurableObjects.Bindings))
	for _, b := range c.DurableObjects.Bindings {
		if b.ClassName != "" {
			names = append(names, b.ClassName)
			continue
		}
		names = append(names, b.Name)
	}
	return names
}

// ApplyDelta merges a planned delta into the config: new actor bindings
// are appended without disturbing existing entries, and the delta's
// migration is appended to the history. Bindings whose name or class is
// already registered are skipped rather than overwritten.
func (c *Config) ApplyDelta(d plan.Delta) {
	if d.Empty() {
		return
	}

	existingNames := make(map[string]bool, len(c.DurableObjects.Bindings))
	existingClasses := make(map[string]bool, len(c.DurableObjects.Bindings))
	for _, b := range c.DurableObjects.Bindings {
		existingNames[b.Name] = true
		existingClasses[b.ClassName] = true
	}

	for _, b := range d.Bindings {
		if existingNames[b.Name] || existingClasses[b.ClassName] {
			continue
		}
		c.DurableObjects.Bindings = append(c.DurableObjects.Bindings, ActorBinding{
			Name:      b.Name,
			ClassName: b.ClassName,
		})
	}

	c.Migrations = append(c.Migrations, Migration{
		Tag:              d.Migration.Tag,
		NewSQLiteClasses: d.Migration.NewSQLiteClasses,
	})
}

// Save writes the config back to the path it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no backing path")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the config to the given path as YAML.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
