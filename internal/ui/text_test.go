package ui

import (
	"testing"

	"github.com/fatih/color"
)

func withoutColor(t *testing.T, fn func()) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()
	fn()
}

func TestEnsureNewline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", "\n"},
		{"no trailing newline", "done", "done\n"},
		{"trailing newline kept", "done\n", "done\n"},
		{"only newline", "\n", "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsureNewline(tt.input); got != tt.want {
				t.Errorf("EnsureNewline(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormattersWithoutColor(t *testing.T) {
	withoutColor(t, func() {
		if got := Code.Sprint("kowhai secrets init"); got != "`kowhai secrets init`" {
			t.Errorf("Code.Sprint = %q, want backtick decoration", got)
		}
		if got := Highlight.Sprint("dev"); got != "'dev'" {
			t.Errorf("Highlight.Sprint = %q, want quoted", got)
		}
		if got := Muted.Sprint("optional"); got != "(optional)" {
			t.Errorf("Muted.Sprint = %q, want parenthesized", got)
		}
		if got := Path.Sprintf("%s.toml", "dev"); got != "dev.toml" {
			t.Errorf("Path.Sprintf = %q, want undecorated", got)
		}
	})
}
