package main

import (
	"testing"

	"actorscan/naming"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		input   string
		want    naming.Style
		wantErr bool
	}{
		{"", naming.StyleUndetermined, false},
		{"camelCase", naming.StyleCamel, false},
		{"PascalCase", naming.StylePascal, false},
		{"UPPER_SNAKE_CASE", naming.StyleUpperSnake, false},
		{"lower_snake_case", naming.StyleLowerSnake, false},
		{"kebab-case", naming.StyleUndetermined, true},
		{"camel", naming.StyleUndetermined, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseStyle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseStyle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseStyle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	cmd := rootCmd()
	for _, flag := range []string{"config", "entry", "style", "dry-run", "yes", "log-level"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing flag --%s", flag)
		}
	}
}
