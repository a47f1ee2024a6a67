package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestStatusFunctions(t *testing.T) {
	// Force deterministic output regardless of terminal detection.
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })

	tests := []struct {
		name   string
		fn     func(string) string
		symbol string
	}{
		{name: "success", fn: StatusSuccess, symbol: SymbolSuccess},
		{name: "error", fn: StatusError, symbol: SymbolError},
		{name: "warning", fn: StatusWarning, symbol: SymbolWarning},
		{name: "skipped", fn: StatusSkipped, symbol: SymbolSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("hello")
			if !strings.HasPrefix(got, tt.symbol) {
				t.Errorf("%s(%q) = %q, want %q prefix", tt.name, "hello", got, tt.symbol)
			}
			if !strings.HasSuffix(got, " hello") {
				t.Errorf("%s(%q) = %q, want message appended", tt.name, "hello", got)
			}

			if bare := tt.fn(""); bare != tt.symbol {
				t.Errorf("%s(\"\") = %q, want bare symbol", tt.name, bare)
			}
		})
	}
}

func TestColorToggle(t *testing.T) {
	original := color.NoColor
	t.Cleanup(func() { color.NoColor = original })

	DisableColors()
	if IsColorEnabled() {
		t.Error("colors enabled after DisableColors")
	}
	EnableColors()
	if !IsColorEnabled() {
		t.Error("colors disabled after EnableColors")
	}
}
